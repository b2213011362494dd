package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

type serveSettings struct {
	port       string
	csrfSecret string
	rateLimit  float64
	rateBurst  int
	cacheTTL   time.Duration
}

func captureServe(dst *serveSettings) cli.ActionFunc {
	return func(c *cli.Context) error {
		*dst = serveSettings{
			port:       c.String("port"),
			csrfSecret: c.String("csrf-secret"),
			rateLimit:  c.Float64("rate-limit"),
			rateBurst:  c.Int("rate-burst"),
			cacheTTL:   c.Duration("session-cache-ttl"),
		}
		return nil
	}
}

func TestServeSettingsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CSRF_SECRET", "from-env")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("RATE_BURST", "9")
	t.Setenv("SESSION_CACHE_TTL", "30s")

	want := serveSettings{port: "9090", csrfSecret: "from-env", rateLimit: 2.5, rateBurst: 9, cacheTTL: 30 * time.Second}

	for _, args := range [][]string{{"nexa"}, {"nexa", "serve"}} {
		var got serveSettings
		app := newApp()
		app.Action = captureServe(&got)
		for _, cmd := range app.Commands {
			if cmd.Name == "serve" {
				cmd.Action = captureServe(&got)
			}
		}

		require.NoError(t, app.Run(args))
		assert.Equal(t, want, got, "args %v", args)
	}
}

func TestServeFlagsOnCommandLine(t *testing.T) {
	var got serveSettings
	app := newApp()
	app.Action = captureServe(&got)

	require.NoError(t, app.Run([]string{"nexa", "--port", "7000", "--csrf-secret", "flag-secret"}))
	assert.Equal(t, "7000", got.port)
	assert.Equal(t, "flag-secret", got.csrfSecret)
}
