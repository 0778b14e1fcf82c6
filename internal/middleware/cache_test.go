package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/config"
)

func cacheCtx(e *echo.Echo, school string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/v1/students?limit=20", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/students")
	c.Set(CtxSchoolID, school)
	return c
}

func TestCacheKeyScopedBySchool(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, cacheCtx(e, "school-a"))
	b := cacheKeyFrom(cfg, cacheCtx(e, "school-b"))
	if a == b {
		t.Fatal("same key for two schools")
	}
	if again := cacheKeyFrom(cfg, cacheCtx(e, "school-a")); again != a {
		t.Fatalf("key not stable: %q vs %q", a, again)
	}
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	base := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}, cacheCtx(e, "s1"))
	withQuery := cacheKeyFrom(config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}, cacheCtx(e, "s1"))
	if base == withQuery {
		t.Fatal("query-aware strategy produced the same key as route-only")
	}
}
