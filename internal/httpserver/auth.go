package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/session"
)

type AuthHTTP struct {
	Svc      *service.AuthService
	Sessions *session.Manager
}

func (h *AuthHTTP) Home(c echo.Context) error {
	if auth.CurrentUser(c) != nil {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHTTP) RegisterForm(c echo.Context) error {
	return render(c, "register", "Register", nil)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	role := c.FormValue("role")

	if _, err := h.Svc.Register(ctx, username, password, role); err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_error", "status", 302, "reason", "user already exist")
			return redirectWith(c, flash.KindDanger, "Username already exists", "/register")
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 302, "reason", "invalid form", "error", err)
			return redirectWith(c, flash.KindDanger, "Username and password are required", "/register")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create user")
	}

	return redirectWith(c, flash.KindSuccess, "User created, you can log in now", "/login")
}

func (h *AuthHTTP) LoginForm(c echo.Context) error {
	return render(c, "login", "Log in", nil)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	user, err := h.Svc.Login(ctx, c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return redirectWith(c, flash.KindDanger, "Invalid username or password", "/login")
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	if err := h.Sessions.Start(c, user); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
	}

	l.Info("login_successful", "user_id", user.ID)
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	h.Sessions.Clear(c)
	return redirectWith(c, flash.KindInfo, "You have been logged out", "/login")
}
