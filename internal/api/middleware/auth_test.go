package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/manaable/leave-api/internal/core/domain"
)

type stubVerifier struct {
	verifyFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*domain.User, error) {
	return s.verifyFn(ctx, token)
}

func runAuth(t *testing.T, header string, v TokenVerifier) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Auth(v)(func(c echo.Context) error {
		called = true
		u, ok := CurrentUser(c)
		if !ok || u.ID != "u1" {
			t.Fatalf("user not injected: %+v", u)
		}
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := &stubVerifier{verifyFn: func(_ context.Context, token string) (*domain.User, error) {
		if token != "abc" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.User{ID: "u1", Role: domain.RoleEmployee}, nil
	}}

	rec, called, err := runAuth(t, "Bearer abc", v)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run with 200, called=%v code=%d", called, rec.Code)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	v := &stubVerifier{verifyFn: func(context.Context, string) (*domain.User, error) {
		t.Fatal("verifier should not be called")
		return nil, nil
	}}

	for _, header := range []string{"", "abc", "Basic abc", "Bearer ", "Bearer"} {
		_, called, err := runAuth(t, header, v)
		assertHTTPError(t, err, http.StatusUnauthorized, "No authentication token provided")
		if called {
			t.Errorf("header %q: next should not run", header)
		}
	}
}

func TestAuthMiddleware_VerifierErrors(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrTokenExpired, "Token expired"},
		{domain.ErrTokenInvalid, "Invalid token"},
		{domain.ErrUserNotFound, "User not found"},
	}
	for _, tc := range cases {
		v := &stubVerifier{verifyFn: func(context.Context, string) (*domain.User, error) { return nil, tc.err }}
		_, called, err := runAuth(t, "Bearer abc", v)
		assertHTTPError(t, err, http.StatusUnauthorized, tc.want)
		if called {
			t.Errorf("%v: next should not run", tc.err)
		}
	}
}

func TestAuthMiddleware_StoreFailurePassesThrough(t *testing.T) {
	storeErr := errors.New("mongo down")
	v := &stubVerifier{verifyFn: func(context.Context, string) (*domain.User, error) { return nil, storeErr }}

	_, _, err := runAuth(t, "Bearer abc", v)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func assertHTTPError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code || he.Message != msg {
		t.Fatalf("expected %d %q, got %d %v", code, msg, he.Code, he.Message)
	}
}
