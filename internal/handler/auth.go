package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-qr-register/internal/config"
	"github.com/iliyamo/school-qr-register/internal/middleware"
	"github.com/iliyamo/school-qr-register/internal/model"
	"github.com/iliyamo/school-qr-register/internal/repository"
	"github.com/iliyamo/school-qr-register/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg     config.Config
	Staff   *repository.StaffRepo
	Tokens  *repository.TokenRepo
	Schools *repository.SchoolRepo
}

func NewAuthHandler(cfg config.Config, s *repository.StaffRepo, t *repository.TokenRepo, sc *repository.SchoolRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Staff: s, Tokens: t, Schools: sc}
}

// defaultDisplayNames maps a role to the name shown when the account has
// none of its own.
var defaultDisplayNames = map[string]string{
	model.RoleAdmin:     "الإدارة",
	model.RoleTeacher:   "المعلم",
	model.RoleCounselor: "المرشد الطلابي",
	model.RoleParent:    "ولي الأمر",
	model.RoleUnknown:   "مستخدم",
}

// Localized sign-in failure messages, keyed by error category.
var authMessages = map[string]string{
	"invalid_email":  "البريد الإلكتروني غير صالح",
	"user_not_found": "بيانات الدخول غير صحيحة",
	"wrong_password": "بيانات الدخول غير صحيحة",
	"restricted":     "هذا الحساب موقوف",
	"unknown":        "حدث خطأ غير متوقع، حاول مرة أخرى",
}

// resolveSession turns a staff row into a role-tagged session. A missing or
// unrecognized role degrades to "unknown" instead of failing; the session
// stays displayable and every gated action is simply refused downstream.
func resolveSession(s model.Staff) model.Session {
	role := s.Role
	if !model.KnownRole(role) {
		role = model.RoleUnknown
	}
	name := s.DisplayName
	if name == "" {
		name = defaultDisplayNames[role]
	}
	return model.Session{
		Identity:    strings.ToLower(strings.TrimSpace(s.Email)),
		Role:        role,
		DisplayName: name,
		SchoolID:    s.SchoolID,
	}
}

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"` // admin | teacher | counselor | parent
	DisplayName string `json:"display_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	Session model.Session `json:"session"`
	Access  tokenPart     `json:"access"`
	Refresh tokenPart     `json:"refresh"`
}

// Register creates a staff account and returns tokens immediately. The
// route is admin-gated; once signed in the new account uses its own
// credentials.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": authMessages["invalid_email"]})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.KnownRole(role) {
		role = model.RoleTeacher
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Staff.Create(ctx, req.Email, req.Password, role, strings.TrimSpace(req.DisplayName), h.Cfg.SchoolID, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	staff := model.Staff{ID: uid, Email: req.Email, Role: role, DisplayName: req.DisplayName, SchoolID: h.Cfg.SchoolID}
	return h.issueTokens(ctx, c, http.StatusCreated, staff)
}

// Bootstrap creates the first admin account. It only works while the staff
// table holds no admin; after that every signup goes through the gated
// Register route.
func (h *AuthHandler) Bootstrap(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": authMessages["invalid_email"]})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Staff.AdminExists(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": authMessages["unknown"]})
	}
	if exists {
		return c.JSON(http.StatusConflict, echo.Map{"error": "already initialized"})
	}

	uid, err := h.Staff.Create(ctx, req.Email, req.Password, model.RoleAdmin, strings.TrimSpace(req.DisplayName), h.Cfg.SchoolID, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	staff := model.Staff{ID: uid, Email: req.Email, Role: model.RoleAdmin, DisplayName: req.DisplayName, SchoolID: h.Cfg.SchoolID}
	return h.issueTokens(ctx, c, http.StatusCreated, staff)
}

// Login verifies credentials and returns a session with a fresh token pair.
// Role resolution never fails hard: an account without a usable role signs
// in with role "unknown".
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	staff, err := h.Staff.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": authMessages["user_not_found"]})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": authMessages["unknown"]})
	}
	if !staff.IsActive {
		return c.JSON(http.StatusForbidden, echo.Map{"error": authMessages["restricted"]})
	}
	if !utils.VerifyPassword(staff.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": authMessages["wrong_password"]})
	}

	session := resolveSession(staff)
	if session.Role == model.RoleAdmin {
		// Fire-and-forget merge of the school metadata document; a failure
		// is logged and never surfaces to the sign-in response.
		go func(email string) {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.Schools.Upsert(bg, model.School{
				ID:         h.Cfg.SchoolID,
				Name:       h.Cfg.SchoolName,
				AdminEmail: email,
			}); err != nil {
				log.Printf("school metadata upsert failed: %v", err)
			}
		}(session.Identity)
	}

	return h.issueTokens(ctx, c, http.StatusOK, staff)
}

// Refresh rotates the refresh token and returns a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	staffID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	staff, err := h.Staff.GetByID(ctx, staffID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return h.issueTokens(ctx, c, http.StatusOK, staff)
}

// RefreshAccess issues a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	staffID, err := h.Tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(req.RefreshToken))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	staff, err := h.Staff.GetByID(ctx, staffID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	session := resolveSession(staff)
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, staff.ID, session.Role, session.SchoolID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session": session,
		"access":  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every refresh token of the authenticated account,
// ending all of its sessions at once.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeAllForStaff(ctx, middleware.StaffID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated session. A failed staff lookup degrades the
// session to role "unknown" rather than erroring.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	staff, err := h.Staff.GetByID(ctx, middleware.StaffID(c))
	if err != nil {
		return c.JSON(http.StatusOK, model.Session{
			Role:        model.RoleUnknown,
			DisplayName: defaultDisplayNames[model.RoleUnknown],
			SchoolID:    middleware.SchoolID(c),
		})
	}
	return c.JSON(http.StatusOK, resolveSession(staff))
}

func (h *AuthHandler) issueTokens(ctx context.Context, c echo.Context, status int, staff model.Staff) error {
	session := resolveSession(staff)
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, staff.ID, session.Role, session.SchoolID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, staff.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(status, authResp{
		Session: session,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	})
}
