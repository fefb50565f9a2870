package ports

import (
	"context"

	"github.com/manaable/leave-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
// An empty Role means employee.
type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Department string
	Role       domain.Role
}

// AuthService issues and validates session tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Verify(ctx context.Context, token string) (*domain.User, error)
}
