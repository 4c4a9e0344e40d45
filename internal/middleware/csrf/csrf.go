// Package csrf protects the HTML forms with a double-submit token: the token
// lives in an HttpOnly cookie and is echoed back through a hidden form field
// rendered from Token.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKey holds the request's token for templates.
const ContextKey = "csrf_token"

var (
	ErrCrossSite    = echo.NewHTTPError(http.StatusForbidden, "Cross-site form submission rejected")
	ErrTokenInvalid = echo.NewHTTPError(http.StatusForbidden, "This form has expired, reload the page and try again")
)

type Config struct {
	CookieName string
	FormField  string
	// HeaderName is accepted instead of the form field for scripted posts.
	HeaderName string
	Secure     bool
}

func DefaultConfig() Config {
	return Config{
		CookieName: "XSRF-TOKEN",
		FormField:  "csrf_token",
		HeaderName: "X-CSRF-Token",
	}
}

// Token returns the token issued for this request, or "".
func Token(c echo.Context) string {
	t, _ := c.Get(ContextKey).(string)
	return t
}

func Middleware(cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.FormField == "" {
		cfg.FormField = def.FormField
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token := readCookie(req, cfg.CookieName)
			if token == "" {
				var err error
				if token, err = newToken(32); err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to create CSRF token")
				}
				setCookie(c, cfg, token)
			}
			c.Set(ContextKey, token)

			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			if !sameOrigin(req) {
				return ErrCrossSite
			}
			provided := req.Header.Get(cfg.HeaderName)
			if provided == "" {
				provided = c.FormValue(cfg.FormField)
			}
			if !secureCompare(token, provided) {
				return ErrTokenInvalid
			}
			return next(c)
		}
	}
}

func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// setCookie issues a browser-session cookie; templates read the token from
// the context, so scripts never need it.
func setCookie(c echo.Context, cfg Config, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func readCookie(req *http.Request, name string) string {
	c, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func secureCompare(a, b string) bool {
	if a == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// sameOrigin trusts Sec-Fetch-Site when the browser sends it and otherwise
// compares Origin (or Referer) with the request host.
func sameOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "same-origin", "none":
		return true
	case "same-site", "cross-site":
		return false
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
		if origin == "" {
			return false
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, schemeOf(r)) && strings.EqualFold(u.Host, r.Host)
}

func schemeOf(r *http.Request) string {
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		return p
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
