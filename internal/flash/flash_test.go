package flash

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenPop(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/register", nil), rec)
	Danger(c, "Username already exists")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)

	notice, ok := Pop(c)
	require.True(t, ok)
	assert.Equal(t, KindDanger, notice.Kind)
	assert.Equal(t, "Username already exists", notice.Message)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestPopWithoutCookie(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_, ok := Pop(c)
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())
}

func TestInvalidNotices(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	Set(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), Notice{Kind: "error", Message: "x"})
	assert.Empty(t, rec.Result().Cookies())

	rec = httptest.NewRecorder()
	Info(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), "   ")
	assert.Empty(t, rec.Result().Cookies())

	tests := []string{
		"%%%",
		base64.RawURLEncoding.EncodeToString([]byte("not json")),
		base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"loud","message":"hi"}`)),
	}
	for _, raw := range tests {
		_, ok := decode(raw)
		assert.False(t, ok, raw)
	}
}
