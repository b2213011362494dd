package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mtlprog/nexa/internal/domain"
)

const (
	AuthTokenCookie = "auth_token"
	TokenTypeCookie = "token_type"
)

// CookieStore keeps the session in two cookies scoped to a single request.
type CookieStore struct {
	w   http.ResponseWriter
	r   *http.Request
	now func() time.Time

	// written holds what this request has set, so a Get after Set sees it.
	written *domain.Session
	cleared bool
}

// NewCookieStore binds a store to one request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, now: time.Now}
}

// Get returns the session carried by the request cookies.
func (s *CookieStore) Get(_ context.Context) (domain.Session, error) {
	if s.cleared {
		return domain.Session{}, domain.ErrNoSession
	}
	if s.written != nil {
		return *s.written, nil
	}
	return FromRequest(s.r)
}

// Set writes both cookies with the given lifetime.
func (s *CookieStore) Set(_ context.Context, token, tokenType string, ttl time.Duration) error {
	expires := s.now().Add(ttl)
	http.SetCookie(s.w, newCookie(AuthTokenCookie, token, expires, int(ttl.Seconds())))
	http.SetCookie(s.w, newCookie(TokenTypeCookie, tokenType, expires, int(ttl.Seconds())))

	s.written = &domain.Session{Token: token, TokenType: tokenType, ExpiresAt: expires}
	s.cleared = false
	return nil
}

// Clear expires both cookies.
func (s *CookieStore) Clear(_ context.Context) error {
	http.SetCookie(s.w, newCookie(AuthTokenCookie, "", time.Unix(0, 0), -1))
	http.SetCookie(s.w, newCookie(TokenTypeCookie, "", time.Unix(0, 0), -1))

	s.written = nil
	s.cleared = true
	return nil
}

// FromRequest reads the session cookies without binding a response writer.
func FromRequest(r *http.Request) (domain.Session, error) {
	token, err := r.Cookie(AuthTokenCookie)
	if err != nil || token.Value == "" {
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			return domain.Session{}, err
		}
		return domain.Session{}, domain.ErrNoSession
	}

	sess := domain.Session{Token: token.Value}
	if tokenType, err := r.Cookie(TokenTypeCookie); err == nil {
		sess.TokenType = tokenType.Value
	}
	return sess, nil
}

func newCookie(name, value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
