package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/core/domain"
)

const userContextKey = "user"

// SetUser stores the authenticated user on the request context.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the user stored by Auth, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userContextKey).(*domain.User)
	return u, ok && u != nil
}
