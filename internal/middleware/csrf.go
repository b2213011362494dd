package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"net/http"
)

const (
	// CSRFCookie holds the per-browser nonce the form token is derived from.
	CSRFCookie = "nexa_csrf"
	// CSRFField is the hidden form field carrying the token.
	CSRFField = "csrf_token"

	contextKeyCSRF contextKey = "csrf"
)

// CSRF issues and checks HMAC-SHA256 tokens bound to a nonce cookie.
type CSRF struct {
	secret []byte
}

// NewCSRF creates a CSRF guard. An empty secret is replaced by a random one,
// which invalidates outstanding forms on restart.
func NewCSRF(secret string) *CSRF {
	if secret == "" {
		slog.Warn("CSRF secret not configured, using an ephemeral one")
		secret = randomString(32)
	}
	return &CSRF{secret: []byte(secret)}
}

// Generate derives the form token for a nonce.
func (c *CSRF) Generate(nonce string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(nonce))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

// Valid reports whether token was derived from nonce.
func (c *CSRF) Valid(nonce, token string) bool {
	if nonce == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(c.Generate(nonce)), []byte(token))
}

// Protect ensures every visitor has a nonce cookie and rejects unsafe
// requests whose form token does not match it.
func (c *CSRF) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var nonce string
		if cookie, err := r.Cookie(CSRFCookie); err == nil && cookie.Value != "" {
			nonce = cookie.Value
		}

		if isUnsafe(r.Method) {
			if !c.Valid(nonce, r.PostFormValue(CSRFField)) {
				slog.Warn("csrf token mismatch", "path", r.URL.Path)
				http.Error(w, "invalid csrf token", http.StatusForbidden)
				return
			}
		}

		if nonce == "" {
			nonce = randomString(24)
			http.SetCookie(w, &http.Cookie{
				Name:     CSRFCookie,
				Value:    nonce,
				Path:     "/",
				Secure:   true,
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}

		ctx := context.WithValue(r.Context(), contextKeyCSRF, c.Generate(nonce))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CSRFToken returns the token to embed in forms rendered for this request.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(contextKeyCSRF).(string)
	return token
}

func isUnsafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func randomString(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
