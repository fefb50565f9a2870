package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/manaable/leave-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "details": "<optional>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: ve.Details()}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, errorResponse{Error: "Email already registered"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid login credentials"}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Error: "Token expired"}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid token"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, errorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "Not authorized to approve/reject leave requests"}
	case errors.Is(err, domain.ErrLeaveNotFound):
		return http.StatusNotFound, errorResponse{Error: "Leave request not found"}
	case errors.Is(err, domain.ErrAlreadyDecided):
		return http.StatusConflict, errorResponse{Error: "Leave request already decided", Details: err.Error()}
	}

	// Unexpected error (including a missing signing secret): log the real
	// cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
