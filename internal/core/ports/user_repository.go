package ports

import (
	"context"

	"github.com/manaable/leave-api/internal/core/domain"
)

// UserRepository defines persistence for user records (the credential store).
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrDuplicateEmail if the normalized email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs resolves many ids at once; ids that do not resolve are omitted.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	// FindByRole returns users with role, oldest first.
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
