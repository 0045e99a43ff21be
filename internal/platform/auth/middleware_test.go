package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := Middleware(testSecret)(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Middleware(testSecret)(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_ValidToken(t *testing.T) {
	token, err := IssueToken(testSecret, 7, "receptionist", "Recepcion")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	handler := func(c echo.Context) error {
		ctx := c.Request().Context()
		if UserIDFromContext(ctx) != 7 {
			t.Errorf("expected user id 7, got %d", UserIDFromContext(ctx))
		}
		if RoleFromContext(ctx) != "receptionist" {
			t.Errorf("expected role receptionist, got %s", RoleFromContext(ctx))
		}
		return c.String(http.StatusOK, "ok")
	}

	if err := Middleware(testSecret)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token, _ := IssueToken("other-secret", 1, "admin", "x")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	err := Middleware(testSecret)(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, guard echo.MiddlewareFunc) error {
		token, _ := IssueToken(testSecret, 1, role, "x")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		c := e.NewContext(req, httptest.NewRecorder())
		return Middleware(testSecret)(guard(okHandler))(c)
	}

	if err := run("cashier", RequireRole("cashier")); err != nil {
		t.Errorf("cashier should pass cashier guard: %v", err)
	}
	if err := run("admin", RequireRole("cashier")); err != nil {
		t.Errorf("admin should pass any guard: %v", err)
	}

	err := run("patient", RequireRole("cashier", "receptionist"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for patient, got %v", err)
	}
}
