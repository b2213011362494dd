package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/handler/dto"
	"github.com/mtlprog/nexa/internal/session"
)

type contextKey string

const (
	// ContextKeySession is the key for storing the session in request context.
	ContextKeySession contextKey = "session"

	// LoginPath is where unauthenticated page requests are sent.
	LoginPath = "/login"

	verifiedCacheSize = 4096
)

// SessionVerifier confirms with the token issuer that a session is still valid.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sess domain.Session) error
}

// SessionGuard admits requests whose token the remote API accepts.
// Accepted tokens are remembered for a short TTL; rejections are never cached.
type SessionGuard struct {
	verifier SessionVerifier
	verified *expirable.LRU[string, struct{}]
}

// NewSessionGuard creates a SessionGuard. ttl bounds how long an accepted
// token skips re-verification.
func NewSessionGuard(verifier SessionVerifier, ttl time.Duration) *SessionGuard {
	if ttl <= 0 {
		ttl = time.Second
	}
	return &SessionGuard{
		verifier: verifier,
		verified: expirable.NewLRU[string, struct{}](verifiedCacheSize, nil, ttl),
	}
}

// Verify checks sess, consulting the cache of recently accepted tokens first.
func (g *SessionGuard) Verify(ctx context.Context, sess domain.Session) error {
	if sess.IsZero() {
		return domain.ErrNoSession
	}

	key := tokenKey(sess.Token)
	if _, ok := g.verified.Get(key); ok {
		return nil
	}

	if err := g.verifier.VerifySession(ctx, sess); err != nil {
		return err
	}
	g.verified.Add(key, struct{}{})
	return nil
}

// Forget drops token from the cache of accepted tokens.
func (g *SessionGuard) Forget(token string) {
	g.verified.Remove(tokenKey(token))
}

// RequireSession guards HTML pages. Requests without a session cookie, or
// whose token the API rejects, are redirected to the login page.
func (g *SessionGuard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.FromRequest(r)
		if err != nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		if err := g.Verify(r.Context(), sess); err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				if clearErr := session.NewCookieStore(w, r).Clear(r.Context()); clearErr != nil {
					slog.Error("failed to clear rejected session", "error", clearErr)
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			slog.Error("session verification failed", "error", err)
			http.Error(w, "session could not be verified, please try again later", http.StatusBadGateway)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPISession guards the JSON API. It accepts a Bearer token or the
// session cookie and answers 401 when neither is present or the API rejects it.
func (g *SessionGuard) RequireAPISession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionFromHeader(r)
		if err != nil {
			sess, err = session.FromRequest(r)
		}
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
			return
		}

		if err := g.Verify(r.Context(), sess); err != nil {
			if errors.Is(err, domain.ErrSessionExpired) {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid session")
				return
			}
			slog.Error("session verification failed", "error", err)
			writeJSONError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "session could not be verified")
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext retrieves the session attached by RequireSession or RequireAPISession.
func GetSessionFromContext(ctx context.Context) (domain.Session, error) {
	sess, ok := ctx.Value(ContextKeySession).(domain.Session)
	if !ok || sess.IsZero() {
		return domain.Session{}, domain.ErrNoSession
	}
	return sess, nil
}

func sessionFromHeader(r *http.Request) (domain.Session, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Session{}, domain.ErrNoSession
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return domain.Session{}, domain.ErrNoSession
	}

	return domain.Session{Token: parts[1], TokenType: "bearer"}, nil
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dto.NewErrorResponse(code, message)); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
