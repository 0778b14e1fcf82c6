// Package middleware provides reusable HTTP middleware: JWT validation,
// role gating, Redis rate limiting and response caching.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxStaffID  = "staff_id"
	CtxRole     = "role"
	CtxSchoolID = "school_id"
)

// JWTAuth validates a Bearer access token and injects the subject, role and
// school claims into the request context. The secret must match the one
// used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			if sub, ok := claims["sub"].(float64); ok {
				c.Set(CtxStaffID, uint64(sub))
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(CtxRole, role)
			}
			if school, ok := claims["school"].(string); ok {
				c.Set(CtxSchoolID, school)
			}
			return next(c)
		}
	}
}

// StaffID returns the authenticated staff ID from context, or 0.
func StaffID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxStaffID).(uint64); ok {
		return v
	}
	return 0
}

// Role returns the authenticated role from context, or "".
func Role(c echo.Context) string {
	if v, ok := c.Get(CtxRole).(string); ok {
		return v
	}
	return ""
}

// SchoolID returns the authenticated school from context, or "".
func SchoolID(c echo.Context) string {
	if v, ok := c.Get(CtxSchoolID).(string); ok {
		return v
	}
	return ""
}

// subjectKey renders a rate-limit identity for the current request.
func subjectKey(c echo.Context) string {
	if id := StaffID(c); id != 0 {
		return fmt.Sprintf("%d", id)
	}
	return "anon"
}
