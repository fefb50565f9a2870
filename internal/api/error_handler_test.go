package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/manaable/leave-api/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantError   string
		wantDetails string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "No authentication token provided"), http.StatusUnauthorized, "No authentication token provided", ""},
		{"route not found", echo.ErrNotFound, http.StatusNotFound, "Not Found", ""},
		{"validation", domain.NewValidationError("email is required", "role must be one of: employee manager admin"), http.StatusBadRequest, "Validation failed", "email is required; role must be one of: employee manager admin"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered", ""},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid login credentials", ""},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized, "Token expired", ""},
		{"token invalid", domain.ErrTokenInvalid, http.StatusUnauthorized, "Invalid token", ""},
		{"user not found", domain.ErrUserNotFound, http.StatusUnauthorized, "User not found", ""},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Not authorized to approve/reject leave requests", ""},
		{"leave not found", domain.ErrLeaveNotFound, http.StatusNotFound, "Leave request not found", ""},
		{"already decided", fmt.Errorf("%w (current status approved)", domain.ErrAlreadyDecided), http.StatusConflict, "Leave request already decided", "leave request already decided (current status approved)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/leave", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantError || body.Details != tc.wantDetails {
				t.Errorf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/leave", nil), rec)

	NewHTTPErrorHandler(zerolog.New(&buf))(errors.New("mongo: connection reset"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Errorf("internal cause leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(buf.String(), "mongo: connection reset") {
		t.Errorf("expected cause in log, got %s", buf.String())
	}
}

func TestHTTPErrorHandler_HeadHasNoBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/api/leave", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}
