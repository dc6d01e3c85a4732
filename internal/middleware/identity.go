package middleware

// identity.go holds the helpers that read the caller set by Session.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lodging-booking/internal/utils"
)

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(c echo.Context) (utils.Principal, bool) {
	p, ok := c.Get(principalKey).(utils.Principal)
	return p, ok
}

// currentUserID returns the caller's id, or "anon" for guests.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(userIDKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
