// Package memory provides process-local repositories. They back
// STORE_DRIVER=memory and double as fakes in service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/manaable/leave-api/internal/core/domain"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	email := domain.NormalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return nil, domain.ErrDuplicateEmail
	}

	stored := cloneUser(user)
	stored.Email = email
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	r.byID[stored.ID] = stored
	r.byEmail[email] = stored.ID
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *UserRepository) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	r.mu.RLock()
	var out []*domain.User
	for _, u := range r.byID {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
