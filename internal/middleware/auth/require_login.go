package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/service"
)

// Load attaches the session user to the context when the cookie is valid and
// the user still exists. It never rejects a request.
func (s *Sessions) Load(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := s.Manager.Read(c)
		if err != nil {
			return next(c)
		}

		ctx := c.Request().Context()
		u, err := s.Users.UserByID(ctx, claims.Subject)
		switch {
		case err == nil:
			setUser(c, u)
			c.SetRequest(c.Request().WithContext(logging.With(ctx, "user_id", u.ID, "role", u.Role)))
		case errors.Is(err, service.ErrNotFound):
			logging.FromContext(ctx).Info("session_user_gone", "user_id", claims.Subject)
			s.Manager.Clear(c)
		default:
			return err
		}
		return next(c)
	}
}

// RequireLogin redirects anonymous requests to the login page. It loads the
// session itself unless Load already ran.
func (s *Sessions) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	loaded := s.Load(func(c echo.Context) error {
		if CurrentUser(c) == nil {
			flash.Info(c, "Please log in to access this page.")
			return c.Redirect(http.StatusFound, "/login")
		}
		return next(c)
	})
	return func(c echo.Context) error {
		if CurrentUser(c) != nil {
			return next(c)
		}
		return loaded(c)
	}
}
