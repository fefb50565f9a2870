package service

import (
	"context"
	"errors"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

// SeedManager registers a manager account unless the email is already taken.
// It reports whether a new account was created; an existing account is left
// untouched whatever its role.
func SeedManager(ctx context.Context, auth ports.AuthService, in ports.RegisterInput) (bool, error) {
	in.Role = domain.RoleManager
	if in.FirstName == "" {
		in.FirstName = "Test"
	}
	if in.LastName == "" {
		in.LastName = "Manager"
	}
	if in.Department == "" {
		in.Department = "Management"
	}

	_, _, err := auth.Register(ctx, in)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
