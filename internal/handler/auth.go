package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lodging-booking/internal/config"
	"github.com/iliyamo/lodging-booking/internal/logging"
	"github.com/iliyamo/lodging-booking/internal/middleware"
	"github.com/iliyamo/lodging-booking/internal/repository"
	"github.com/iliyamo/lodging-booking/internal/utils"
)

// adminName is the display name of the configured administrator.
const adminName = "Administrator"

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Admin    utils.AdminCredentials
	validate *validator.Validate
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{
		Cfg:   cfg,
		Users: u,
		Admin: utils.AdminCredentials{
			Email: cfg.AdminEmail,
			Plain: cfg.AdminPassword,
			Hash:  cfg.AdminPasswordHash,
		},
		validate: utils.NewValidator(),
	}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// check validates a request DTO and renders the first failure.  Missing
// fields share one message.
func (h *AuthHandler) check(req any) (string, bool) {
	err := h.validate.Struct(req)
	if err == nil {
		return "", true
	}
	fe, ok := utils.FirstFieldError(err)
	if !ok || fe.Tag == "required" {
		return "All fields are required", false
	}
	return fe.Message(), false
}

// Signup creates a regular user.  The administrator email is reserved.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg, ok := h.check(req); !ok {
		return fail(c, http.StatusBadRequest, msg)
	}
	if h.Admin.IsAdminEmail(req.Email) {
		return fail(c, http.StatusBadRequest, "This email address is not available for registration")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusBadRequest, "User with this email already exists")
		}
		logging.FromContext(ctx).Error("signup failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "message": "User created successfully"})
}

// Login checks credentials and sets the session cookie.  The administrator
// is checked against configuration, everyone else against the users table.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg, ok := h.check(req); !ok {
		return fail(c, http.StatusBadRequest, msg)
	}

	var p utils.Principal
	if h.Admin.IsAdminEmail(req.Email) {
		if !h.Admin.Verify(req.Email, req.Password) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		p = utils.Principal{UserID: utils.AdminUserID, Email: h.Admin.Email, Name: adminName, IsAdmin: true}
	} else {
		ctx, cancel := requestContext(c)
		defer cancel()

		u, err := h.Users.GetByEmail(ctx, req.Email)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		if err != nil {
			logging.FromContext(ctx).Error("login lookup failed", slog.String("error", err.Error()))
			return fail(c, http.StatusInternalServerError, "Server error")
		}
		if !utils.VerifyPassword(u.PasswordHash, req.Password) {
			return fail(c, http.StatusUnauthorized, "Invalid credentials")
		}
		p = utils.Principal{UserID: strconv.FormatUint(u.ID, 10), Email: u.Email, Name: u.Name}
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, p, h.Cfg.SessionTTL())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("sign session failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "Server error")
	}
	c.SetCookie(h.sessionCookie(tok.Token, tok.Exp))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": p})
}

// Logout expires the session cookie.  Tokens are stateless, so nothing is
// revoked server side.
func (h *AuthHandler) Logout(c echo.Context) error {
	ck := h.sessionCookie("", time.Unix(0, 0))
	ck.MaxAge = -1
	c.SetCookie(ck)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// Me returns the authenticated caller.  Regular users are reloaded so that a
// deleted account stops working even with a valid token.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Authentication token required")
	}
	if p.IsAdmin {
		return c.JSON(http.StatusOK, p)
	}

	id, err := strconv.ParseUint(p.UserID, 10, 64)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Not authorized")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusUnauthorized, "User not found")
	}
	if err != nil {
		logging.FromContext(ctx).Error("me lookup failed", slog.String("error", err.Error()))
		return fail(c, http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, utils.Principal{UserID: p.UserID, Email: u.Email, Name: u.Name})
}

func (h *AuthHandler) sessionCookie(value string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  exp,
		MaxAge:   int(h.Cfg.SessionTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
