// Package session persists the token pair issued by the remote API.
//
// The submission flow depends only on Store; the web front-end uses cookies
// and the terminal commands use a file under the user's config directory.
package session

import (
	"context"
	"time"

	"github.com/mtlprog/nexa/internal/domain"
)

// Store reads and writes the current session.
type Store interface {
	// Get returns the current session, or domain.ErrNoSession when there is none.
	Get(ctx context.Context) (domain.Session, error)
	// Set persists token and tokenType for ttl, replacing any previous session.
	Set(ctx context.Context, token, tokenType string, ttl time.Duration) error
	// Clear removes the session.
	Clear(ctx context.Context) error
}
