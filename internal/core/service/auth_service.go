package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.UserRepository
	hasher    PasswordHasher
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time

	// dummyHash is compared against when the email is unknown so both
	// login failure paths cost the same.
	dummyHash string
}

// NewAuthService returns domain.ErrMissingSigningSecret when jwtSecret is empty.
func NewAuthService(repo ports.UserRepository, hasher PasswordHasher, jwtSecret string, tokenTTL time.Duration) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, domain.ErrMissingSigningSecret
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	email := domain.NormalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	var problems []string
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		problems = append(problems, "email must be a valid email")
	}
	if in.Password == "" {
		problems = append(problems, "password is required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		problems = append(problems, "firstName is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		problems = append(problems, "lastName is required")
	}
	if strings.TrimSpace(in.Department) == "" {
		problems = append(problems, "department is required")
	}
	if !role.Valid() {
		problems = append(problems, "role must be one of: employee manager admin")
	}
	if len(problems) > 0 {
		return nil, "", domain.NewValidationError(problems...)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Department:   strings.TrimSpace(in.Department),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_, _ = s.hasher.Verify(s.dummyHash, password)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify parses token and resolves its subject to a stored user.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	return s.repo.FindByID(ctx, claims.Subject)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
