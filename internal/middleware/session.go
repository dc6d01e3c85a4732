package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lodging-booking/internal/utils"
)

// SessionCookie is the name of the cookie that carries the session JWT.
const SessionCookie = "token"

// Context keys set by Session.
const (
	principalKey = "principal"
	userIDKey    = "user_id"
)

// Session reads the session token from the "token" cookie, falling back to an
// "Authorization: Bearer" header, and attaches the verified principal to the
// context.  Requests without a valid token continue as guests; RequireAuth
// and RequireAdmin decide what guests may do.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFrom(c)
			if raw == "" {
				return next(c)
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return next(c)
			}
			p := claims.Principal()
			c.Set(principalKey, p)
			c.Set(userIDKey, p.UserID)
			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// RequireAuth rejects requests that carry no valid session with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
			}
			return next(c)
		}
	}
}
