// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/school-qr-register/internal/config"
	"github.com/iliyamo/school-qr-register/internal/handler"
	"github.com/iliyamo/school-qr-register/internal/middleware"
	"github.com/iliyamo/school-qr-register/internal/model"
)

// Handlers groups everything RegisterRoutes needs to wire.
type Handlers struct {
	Auth     *handler.AuthHandler
	Students *handler.StudentHandler
	Notes    *handler.NoteHandler
	Scan     *handler.ScanHandler
	QR       *handler.QRHandler
}

// RegisterRoutes attaches all endpoints. Route layout:
//
//	/healthz                    public liveness
//	/v1/auth/*                  bootstrap/login/refresh/logout
//	/v1/me                      any valid token, including degraded sessions
//	/v1/students*, /v1/scan/*   staff with a resolved role
//	register, create/import     admin only
//	note append                 teacher, counselor or admin
func RegisterRoutes(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated session operations. Bootstrap only works while no
	// admin account exists; after that signups go through the admin-gated
	// register route below.
	auth := e.Group("/v1/auth")
	auth.POST("/bootstrap", h.Auth.Bootstrap)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	// Everything below needs a valid access token. A degraded "unknown"
	// session can only see itself via /v1/me.
	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	protected.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	protected.GET("/me", h.Auth.Me)
	protected.POST("/auth/logout-all", h.Auth.LogoutAll)

	staff := protected.Group("")
	staff.Use(middleware.RequireRole(model.RoleAdmin, model.RoleTeacher, model.RoleCounselor, model.RoleParent))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	staff.GET("/students", h.Students.List, cache)
	staff.GET("/students/:id", h.Students.Get)
	staff.GET("/students/:id/notes", h.Notes.List)
	staff.GET("/students/:id/qr.png", h.QR.Image)
	staff.GET("/students/:id/qr/print", h.QR.Print)

	// Scanner sessions: any resolved staff role may scan.
	staff.POST("/scan/sessions", h.Scan.Start)
	staff.GET("/scan/sessions/:id", h.Scan.Get)
	staff.POST("/scan/sessions/:id/attach", h.Scan.Attach)
	staff.POST("/scan/sessions/:id/decode", h.Scan.Decode)
	staff.POST("/scan/sessions/:id/fail", h.Scan.Fail)
	staff.POST("/scan/sessions/:id/stop", h.Scan.Stop)
	staff.POST("/scan/navigate", h.Scan.Navigate)

	// Ledger writes exclude parents.
	notes := protected.Group("")
	notes.Use(middleware.RequireRole(model.RoleAdmin, model.RoleTeacher, model.RoleCounselor))
	notes.POST("/students/:id/notes", h.Notes.Append)

	// Directory writes and account creation are admin only.
	admin := protected.Group("")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/auth/register", h.Auth.Register)
	admin.POST("/students", h.Students.Create)
	admin.POST("/students/import", h.Students.Import)
}
