package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
)

// AdminOnly must run after RequireLogin.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			l := logging.FromContext(c.Request().Context())
			if u != nil {
				l = l.With("user_id", u.ID)
			}
			l.Warn("access_denied", "status", 403, "reason", "administrators only")
			flash.Danger(c, "Access denied: administrators only")
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		return next(c)
	}
}
