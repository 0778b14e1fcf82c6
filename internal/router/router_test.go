package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/config"
	"github.com/iliyamo/school-qr-register/internal/handler"
	"github.com/iliyamo/school-qr-register/internal/model"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/scan"
	"github.com/iliyamo/school-qr-register/internal/utils"
)

const testSecret = "router-test-secret"

// newTestServer wires the full route table with empty repositories. Only
// requests rejected by middleware are exercised here, so no request ever
// reaches a database.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	cfg := config.Config{JWTSecret: testSecret, SchoolID: "school-1"}
	staff := repository.NewStaffRepo(nil)
	students := repository.NewStudentRepo(nil)
	h := Handlers{
		Auth:     handler.NewAuthHandler(cfg, staff, repository.NewTokenRepo(nil), repository.NewSchoolRepo(nil)),
		Students: handler.NewStudentHandler(students, staff),
		Notes:    handler.NewNoteHandler(repository.NewNoteRepo(nil), students, staff),
		Scan:     handler.NewScanHandler(scan.NewManager(0), students),
		QR:       handler.NewQRHandler(students),
	}
	e := echo.New()
	RegisterRoutes(e, h, cfg, nil)
	return e
}

func bearerFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, 7, role, "school-1", 5)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func TestRegisterRequiresAuth(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		strings.NewReader(`{"email":"x@example.com","password":"pw","role":"admin"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated register status = %d, want 401", rec.Code)
	}
}

func TestRegisterRequiresAdminRole(t *testing.T) {
	e := newTestServer(t)
	for _, role := range []string{model.RoleTeacher, model.RoleCounselor, model.RoleParent, model.RoleUnknown} {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
			strings.NewReader(`{"email":"x@example.com","password":"pw","role":"admin"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, bearerFor(t, role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("register as %s status = %d, want 403", role, rec.Code)
		}
	}
}

func TestLogoutAllRequiresAuth(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout-all", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated logout-all status = %d, want 401", rec.Code)
	}
}
