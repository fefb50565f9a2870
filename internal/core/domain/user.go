package domain

import (
	"errors"
	"strings"
	"time"
)

// Role determines visibility and transition authority over leave records.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var (
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid login credentials")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrMissingSigningSecret = errors.New("token signing secret is not configured")
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanDecide reports whether the role may approve or reject leave requests.
func (r Role) CanDecide() bool {
	return r == RoleManager || r == RoleAdmin
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Department   string    `json:"department"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "First Last", trimmed when either part is missing.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail is the canonical form used for storage and lookups, which
// makes email uniqueness case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
