package service

import (
	"context"
	"fmt"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

// RecipientPolicy selects who is told about a newly submitted leave request.
type RecipientPolicy func(ctx context.Context, users ports.UserRepository) ([]*domain.User, error)

const (
	PolicyFirstManager = "first-manager"
	PolicyAllManagers  = "all-managers"
)

// FirstManager notifies the earliest registered manager only.
func FirstManager(ctx context.Context, users ports.UserRepository) ([]*domain.User, error) {
	managers, err := users.FindByRole(ctx, domain.RoleManager)
	if err != nil {
		return nil, err
	}
	if len(managers) == 0 {
		return nil, nil
	}
	return managers[:1], nil
}

// AllManagers notifies every manager.
func AllManagers(ctx context.Context, users ports.UserRepository) ([]*domain.User, error) {
	return users.FindByRole(ctx, domain.RoleManager)
}

// RecipientPolicyByName maps a configuration value to a policy.
func RecipientPolicyByName(name string) (RecipientPolicy, error) {
	switch name {
	case "", PolicyFirstManager:
		return FirstManager, nil
	case PolicyAllManagers:
		return AllManagers, nil
	default:
		return nil, fmt.Errorf("unknown recipient policy %q", name)
	}
}
