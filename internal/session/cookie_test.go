package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/domain"
)

func TestCookieStore_Set(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(context.Background(), "abc", "bearer", domain.SessionTTL))

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, AuthTokenCookie)
	require.Contains(t, cookies, TokenTypeCookie)

	for name, want := range map[string]string{AuthTokenCookie: "abc", TokenTypeCookie: "bearer"} {
		c := cookies[name]
		assert.Equal(t, want, c.Value)
		assert.Equal(t, 7*24*60*60, c.MaxAge)
		assert.True(t, c.Expires.Equal(now.Add(7*24*time.Hour)), "expires %s", c.Expires)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
	}

	sess, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.Token)
	assert.Equal(t, "bearer", sess.TokenType)
}

func TestCookieStore_GetFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/agent", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "tok"})
	req.AddCookie(&http.Cookie{Name: TokenTypeCookie, Value: "bearer"})

	sess, err := NewCookieStore(httptest.NewRecorder(), req).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Token: "tok", TokenType: "bearer"}, sess)
}

func TestCookieStore_NoSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/agent", nil)

	_, err := NewCookieStore(httptest.NewRecorder(), req).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestCookieStore_Clear(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "tok"})
	rec := httptest.NewRecorder()
	store := NewCookieStore(rec, req)

	require.NoError(t, store.Clear(context.Background()))

	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoSession)
}
