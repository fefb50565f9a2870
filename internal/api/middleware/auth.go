package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/core/domain"
)

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.User, error)
}

// Auth validates the bearer token and injects the resolved user into the context.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token provided")
			}

			user, err := verifier.Verify(c.Request().Context(), strings.TrimSpace(parts[1]))
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
			case errors.Is(err, domain.ErrUserNotFound):
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			case errors.Is(err, domain.ErrTokenInvalid):
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			default:
				return err
			}

			SetUser(c, user)
			return next(c)
		}
	}
}
