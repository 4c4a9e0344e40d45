package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	u := &models.User{ID: "u1", Username: "admin", Role: models.RoleAdmin}

	token, exp, err := m.Issue(u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "admin", claims.Name)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseRejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	u := &models.User{ID: "u1", Username: "admin", Role: models.RoleAdmin}

	other := NewManager("other-secret", time.Hour, false)
	token, _, err := other.Issue(u)
	require.NoError(t, err)
	_, err = m.Parse(token)
	require.Error(t, err)

	expired := NewManager("test-secret", time.Hour, false)
	expired.TTL = -time.Minute
	token, _, err = expired.Issue(u)
	require.NoError(t, err)
	_, err = m.Parse(token)
	require.Error(t, err)

	_, err = m.Parse("not-a-jwt")
	require.Error(t, err)
}

func TestStartReadClear(t *testing.T) {
	e := echo.New()
	m := NewManager("test-secret", time.Hour, true)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login", nil), rec)
	require.NoError(t, m.Start(c, &models.User{ID: "u1", Username: "admin", Role: models.RoleAdmin}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	c = e.NewContext(req, httptest.NewRecorder())
	claims, err := m.Read(c)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/dashboard", nil), httptest.NewRecorder())
	_, err = m.Read(c)
	require.ErrorIs(t, err, ErrNoSession)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/logout", nil), rec)
	m.Clear(c)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}
