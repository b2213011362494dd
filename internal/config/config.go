package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultAPIBaseURL is where the remote Nexa API listens in development.
	DefaultAPIBaseURL = "http://localhost:8000"

	// DefaultAPIPort is empty; when set it replaces the port of the API base URL.
	DefaultAPIPort = ""

	// DefaultAPITimeout bounds a single remote API call.
	DefaultAPITimeout = 15 * time.Second

	// DefaultRateLimit is credential submissions per second allowed per client IP.
	DefaultRateLimit = 1.0

	// DefaultRateBurst is the burst of credential submissions allowed per client IP.
	DefaultRateBurst = 5

	// DefaultSessionCacheTTL is how long a token accepted by the remote API is trusted without asking again.
	DefaultSessionCacheTTL = time.Minute
)

// APIEndpoint resolves the remote API base URL, overriding its port when port is set.
func APIEndpoint(base, port string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("API base URL %q must be absolute", base)
	}

	if port != "" {
		u.Host = net.JoinHostPort(u.Hostname(), port)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// DefaultSessionFile is where terminal commands keep the session token.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "nexa", "session.json")
}
