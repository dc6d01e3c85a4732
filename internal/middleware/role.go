package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin lets only administrator sessions through.  Guests get 401,
// authenticated non-admins get 403.  It relies on Session having run first.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Authentication required"})
			}
			if !p.IsAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Admin access required"})
			}
			return next(c)
		}
	}
}
