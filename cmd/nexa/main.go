// @title			Nexa API
// @version		1.0
// @description	Agents and form validation endpoints of the Nexa web front-end.
// @BasePath		/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/mtlprog/nexa/internal/apiclient"
	"github.com/mtlprog/nexa/internal/config"
	"github.com/mtlprog/nexa/internal/console"
	"github.com/mtlprog/nexa/internal/database"
	"github.com/mtlprog/nexa/internal/feedback"
	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/handler"
	"github.com/mtlprog/nexa/internal/logger"
	"github.com/mtlprog/nexa/internal/metrics"
	"github.com/mtlprog/nexa/internal/middleware"
	"github.com/mtlprog/nexa/internal/repository"
	"github.com/mtlprog/nexa/internal/service"
	"github.com/mtlprog/nexa/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Running nexa without a command serves the
// web front-end, so the serve flags are accepted at the top level as well.
func newApp() *cli.App {
	return &cli.App{
		Name:  "nexa",
		Usage: "Web front-end for the Nexa agents platform",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL for agents",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:    "db-max-conns",
				Value:   int(database.DefaultPoolOptions().MaxConns),
				Usage:   "Maximum connections to the agents database",
				EnvVars: []string{"DB_MAX_CONNS"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Value:   config.DefaultAPIBaseURL,
				Usage:   "Base URL of the remote Nexa API",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "api-port",
				Value:   config.DefaultAPIPort,
				Usage:   "Port of the remote Nexa API, overriding the one in --api-url",
				EnvVars: []string{"API_PORT"},
			},
			&cli.DurationFlag{
				Name:    "api-timeout",
				Value:   config.DefaultAPITimeout,
				Usage:   "Timeout of a single remote API call",
				EnvVars: []string{"API_TIMEOUT"},
			},
		}, serveFlags()...),
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), logger.FormatJSON)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web server",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations",
				Action: runMigrate,
			},
			{
				Name:  "login",
				Usage: "Sign in and store the session token",
				Flags: []cli.Flag{
					sessionFileFlag(),
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username; prompted when empty"},
				},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(r *console.Runner) error {
						return r.Login(c.Context, form.Record{"username": c.String("username")})
					})
				},
			},
			{
				Name:  "logout",
				Usage: "Clear the stored session token",
				Flags: []cli.Flag{sessionFileFlag()},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(r *console.Runner) error {
						return r.Logout(c.Context)
					})
				},
			},
			{
				Name:  "forgot-password",
				Usage: "Request a password reset link",
				Flags: []cli.Flag{
					sessionFileFlag(),
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account e-mail; prompted when empty"},
				},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(r *console.Runner) error {
						return r.ForgotPassword(c.Context, form.Record{"email": c.String("email")})
					})
				},
			},
			{
				Name:  "reset-password",
				Usage: "Set a new password using the token from a reset link",
				Flags: []cli.Flag{
					sessionFileFlag(),
					&cli.StringFlag{Name: "token", Usage: "Reset token from the link", Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username from the link", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withConsole(c, func(r *console.Runner) error {
						return r.ResetPassword(c.Context, form.Record{
							"token":    c.String("token"),
							"username": c.String("username"),
						})
					})
				},
			},
			{
				Name:  "register",
				Usage: "Request a new account",
				Flags: []cli.Flag{
					sessionFileFlag(),
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
					&cli.StringFlag{Name: "firstname"},
					&cli.StringFlag{Name: "lastname"},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "organization"},
				},
				Action: func(c *cli.Context) error {
					rec := form.Record{}
					for _, name := range []string{"username", "email", "firstname", "lastname", "phone", "organization"} {
						if v := c.String(name); v != "" {
							rec[name] = v
						}
					}
					return withConsole(c, func(r *console.Runner) error {
						return r.Register(c.Context, rec)
					})
				},
			},
		},
		Action: runServe,
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Value:   config.DefaultPort,
			Usage:   "HTTP server port",
			EnvVars: []string{"PORT"},
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Usage:   "Secret for CSRF tokens; random per process when empty",
			EnvVars: []string{"CSRF_SECRET"},
		},
		&cli.Float64Flag{
			Name:    "rate-limit",
			Value:   config.DefaultRateLimit,
			Usage:   "Credential submissions per second per client IP",
			EnvVars: []string{"RATE_LIMIT"},
		},
		&cli.IntFlag{
			Name:    "rate-burst",
			Value:   config.DefaultRateBurst,
			Usage:   "Burst of credential submissions per client IP",
			EnvVars: []string{"RATE_BURST"},
		},
		&cli.DurationFlag{
			Name:    "session-cache-ttl",
			Value:   config.DefaultSessionCacheTTL,
			Usage:   "How long a token accepted by the remote API skips re-verification",
			EnvVars: []string{"SESSION_CACHE_TTL"},
		},
	}
}

func sessionFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "session-file",
		Value:   config.DefaultSessionFile(),
		Usage:   "Where terminal commands keep the session token",
		EnvVars: []string{"NEXA_SESSION_FILE"},
	}
}

func newAPIClient(c *cli.Context) (*apiclient.Client, error) {
	endpoint, err := config.APIEndpoint(c.String("api-url"), c.String("api-port"))
	if err != nil {
		return nil, err
	}
	return apiclient.New(endpoint, c.Duration("api-timeout")), nil
}

// withConsole runs a terminal flow with text logs on stderr and the file session store.
func withConsole(c *cli.Context, fn func(r *console.Runner) error) error {
	logger.SetupWriter(os.Stderr, logger.ParseLevel(c.String("log-level")), logger.FormatText)

	client, err := newAPIClient(c)
	if err != nil {
		return err
	}

	runner := console.New(
		service.NewSubmitter(client, nil),
		feedback.NewTerminalPresenter(os.Stdin, os.Stdout),
		session.NewFileStore(c.String("session-file")),
	)
	return fn(runner)
}

func openDatabase(c *cli.Context) (*database.DB, error) {
	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return nil, errors.New("database URL is required (--database-url or DATABASE_URL)")
	}

	opts := database.DefaultPoolOptions()
	if n := c.Int("db-max-conns"); n > 0 {
		opts.MaxConns = int32(n)
	}

	db, err := database.New(c.Context, databaseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigrate(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := database.RunMigrations(c.Context, db.Pool())
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	fmt.Printf("agents schema at version %d\n", version)
	return nil
}

func runServe(c *cli.Context) error {
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	rateLimit := c.Float64("rate-limit")
	if rateLimit <= 0 {
		rateLimit = config.DefaultRateLimit
	}
	rateBurst := c.Int("rate-burst")
	if rateBurst <= 0 {
		rateBurst = config.DefaultRateBurst
	}

	client, err := newAPIClient(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	h, err := handler.New(handler.Deps{
		Submitter: service.NewSubmitter(client, recorder),
		Agents:    service.NewAgentService(repository.NewAgentRepository(db.Pool()), recorder),
		DB:        db,
		CSRF:      middleware.NewCSRF(c.String("csrf-secret")),
		Sessions:  middleware.NewSessionGuard(client, c.Duration("session-cache-ttl")),
		Limiter:   middleware.NewRateLimiter(ctx, rate.Limit(rateLimit), rateBurst),
		Metrics:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port, "api_url", client.BaseURL())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(c.Context, 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
