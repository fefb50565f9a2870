package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/api/metrics"
	"github.com/manaable/leave-api/internal/core/domain"
	"github.com/manaable/leave-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account and returns a session token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Role:       domain.Role(req.Role),
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()

	return c.JSON(http.StatusCreated, authResponse{User: toUserResponse(user), Token: token})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return err
	}
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return c.JSON(http.StatusOK, authResponse{User: toUserResponse(user), Token: token})
}
