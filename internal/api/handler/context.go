package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/api/middleware"
	"github.com/manaable/leave-api/internal/core/domain"
)

// actor returns the authenticated user injected by the Auth middleware.
// Its absence means the route was mounted without the middleware.
func actor(c echo.Context) (*domain.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "No authentication token provided")
	}
	return u, nil
}
