package httpserver

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/config"
	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/middleware/csrf"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/repo"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/session"
	"github.com/Skotchmaster/stockroom/internal/store"
	"github.com/Skotchmaster/stockroom/internal/store/memory"
	"github.com/Skotchmaster/stockroom/internal/upload"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	Store   store.Store
	Repo    *repo.Repo
	Uploads *upload.Store
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithCSRF(t, nil)
}

func newTestEnvWithCSRF(t *testing.T, csrfCfg *csrf.Config) *testEnv {
	t.Helper()
	ctx := context.Background()

	st := memory.New()
	require.NoError(t, config.SeedSample(ctx, st))

	uploads, err := upload.New(t.TempDir())
	require.NoError(t, err)

	r := &repo.Repo{Store: st}
	deps := &Deps{
		Store:     st,
		Auth:      &service.AuthService{Repo: r},
		Inventory: &service.InventoryService{Repo: r},
		Uploads:   uploads,
		Sessions:  session.NewManager("test-secret", time.Hour, false),
		CSRF:      csrfCfg,
	}
	e, err := New(deps, logging.NewWithWriter("error", io.Discard))
	require.NoError(t, err)

	return &testEnv{T: t, E: e, Store: st, Repo: r, Uploads: uploads}
}

func (env *testEnv) serve(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return env.serve(httptest.NewRequest(http.MethodGet, path, nil), cookies)
}

func (env *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return env.serve(req, cookies)
}

func (env *testEnv) postMultipart(path string, form url.Values, fileName string, content []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, vs := range form {
		for _, v := range vs {
			require.NoError(env.T, w.WriteField(k, v))
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		require.NoError(env.T, err)
		_, err = part.Write(content)
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return env.serve(req, cookies)
}

// login returns the session cookie for the given credentials.
func (env *testEnv) login(username, password string) *http.Cookie {
	env.T.Helper()
	rec := env.postForm("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(env.T, http.StatusFound, rec.Code)
	require.Equal(env.T, "/dashboard", rec.Header().Get(echo.HeaderLocation))
	c := cookieNamed(rec, session.CookieName)
	require.NotNil(env.T, c)
	return c
}

func (env *testEnv) loginAdmin() *http.Cookie {
	return env.login("admin", "admin123")
}

func (env *testEnv) loginStaff() *http.Cookie {
	env.T.Helper()
	rec := env.postForm("/register", url.Values{"username": {"maria"}, "password": {"secret"}})
	require.Equal(env.T, "/login", rec.Header().Get(echo.HeaderLocation))
	return env.login("maria", "secret")
}

func (env *testEnv) products() []models.Product {
	env.T.Helper()
	items, err := env.Repo.GetProducts(context.Background())
	require.NoError(env.T, err)
	return items
}

func (env *testEnv) productByName(name string) models.Product {
	env.T.Helper()
	for _, p := range env.products() {
		if p.Name == name {
			return p
		}
	}
	env.T.Fatalf("product %q not found", name)
	return models.Product{}
}

func (env *testEnv) count(col store.Collection) int64 {
	env.T.Helper()
	n, err := col.CountDocuments(context.Background(), nil)
	require.NoError(env.T, err)
	return n
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) flash.Notice {
	t.Helper()
	c := cookieNamed(rec, flash.CookieName)
	require.NotNil(t, c, "expected a flash cookie")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	n, ok := flash.Pop(echo.New().NewContext(req, httptest.NewRecorder()))
	require.True(t, ok)
	return n
}
