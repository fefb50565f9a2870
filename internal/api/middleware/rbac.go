package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/core/domain"
)

// RBAC enforces role-based access control on the user set by Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token provided")
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
