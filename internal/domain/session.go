package domain

import "time"

// SessionTTL is how long a persisted session token stays valid on the client.
const SessionTTL = 7 * 24 * time.Hour

// Session is the token pair issued by the remote API after a successful login.
type Session struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// IsZero reports whether no token is present.
func (s Session) IsZero() bool {
	return s.Token == ""
}
