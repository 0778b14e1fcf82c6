package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/model"
)

func roleRequest(t *testing.T, role string, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleTeacher, model.RoleCounselor, model.RoleAdmin)

	for _, role := range []string{model.RoleTeacher, model.RoleCounselor, model.RoleAdmin} {
		if rec := roleRequest(t, role, mw); rec.Code != http.StatusNoContent {
			t.Errorf("role %s: status %d", role, rec.Code)
		}
	}
	for _, role := range []string{model.RoleParent, model.RoleUnknown, "", "ADMIN"} {
		if rec := roleRequest(t, role, mw); rec.Code != http.StatusForbidden {
			t.Errorf("role %q: status %d, want 403", role, rec.Code)
		}
	}
}
