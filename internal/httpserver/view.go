package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/middleware/csrf"
	"github.com/Skotchmaster/stockroom/internal/web"
)

func newPage(c echo.Context, title string, data any) web.Page {
	p := web.Page{
		Title:     title,
		User:      auth.CurrentUser(c),
		CSRFToken: csrf.Token(c),
		Data:      data,
	}
	if n, ok := flash.Pop(c); ok {
		p.Flash = &n
	}
	return p
}

func render(c echo.Context, name, title string, data any) error {
	return c.Render(http.StatusOK, name, newPage(c, title, data))
}

// redirectWith stores a flash notice and redirects with 302.
func redirectWith(c echo.Context, kind flash.Kind, msg, to string) error {
	flash.Set(c, flash.Notice{Kind: kind, Message: msg})
	return c.Redirect(http.StatusFound, to)
}

// ErrorHandler renders failed requests as an HTML error page.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if rerr := c.Render(code, "error", newPage(c, "Error", web.ErrorView{Code: code, Message: msg})); rerr != nil {
		logging.FromContext(c.Request().Context()).Error("render_error", "template", "error", "error", rerr)
		_ = c.String(code, msg)
	}
}
