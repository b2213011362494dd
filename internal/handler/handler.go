package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/mtlprog/nexa/docs" // Import generated docs
	"github.com/mtlprog/nexa/internal/handler/dto"
	"github.com/mtlprog/nexa/internal/middleware"
	"github.com/mtlprog/nexa/internal/service"
	"github.com/mtlprog/nexa/internal/static"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Handler is built from.
type Deps struct {
	Submitter *service.Submitter
	Agents    *service.AgentService
	// DB is checked by /healthz. Optional.
	DB   Pinger
	CSRF *middleware.CSRF
	// Sessions verifies tokens with the remote API before dashboard and agent routes.
	Sessions *middleware.SessionGuard
	// Limiter throttles credential submissions. Optional.
	Limiter *middleware.RateLimiter
	// Metrics is served on /metrics. Optional.
	Metrics http.Handler
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	submitter *service.Submitter
	agents    *service.AgentService
	db        Pinger
	csrf      *middleware.CSRF
	sessions  *middleware.SessionGuard
	limiter   *middleware.RateLimiter
	metrics   http.Handler
	pages     *renderer
}

// New creates a new Handler instance with all dependencies.
func New(deps Deps) (*Handler, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session guard is required")
	}

	pages, err := newRenderer(static.Templates)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	csrf := deps.CSRF
	if csrf == nil {
		csrf = middleware.NewCSRF("")
	}

	return &Handler{
		submitter: deps.Submitter,
		agents:    deps.Agents,
		db:        deps.DB,
		csrf:      csrf,
		sessions:  deps.Sessions,
		limiter:   deps.Limiter,
		metrics:   deps.Metrics,
		pages:     pages,
	}, nil
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// Stylesheets and scripts
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(mustSub(static.Assets))))

	// Credential pages
	mux.Handle("GET /{$}", h.page(http.RedirectHandler("/agent", http.StatusSeeOther).ServeHTTP))
	mux.Handle("GET /login", h.page(h.handleLoginPage))
	mux.Handle("POST /login", h.limited(h.handleLogin))
	mux.Handle("GET /login/forget-password", h.page(h.handleForgotPasswordPage))
	mux.Handle("POST /login/forget-password", h.limited(h.handleForgotPassword))
	mux.Handle("GET /login/reset-password", h.page(h.handleResetPasswordPage))
	mux.Handle("POST /login/reset-password", h.limited(h.handleResetPassword))
	mux.Handle("GET /register", h.page(h.handleRegisterPage))
	mux.Handle("POST /register", h.limited(h.handleRegister))

	// Dashboard pages with session
	mux.Handle("GET /agent", h.protected(h.handleAgentsPage))
	mux.Handle("GET /agent/new-agent", h.protected(h.handleNewAgentPage))
	mux.Handle("POST /agent/new-agent", h.protected(h.handleNewAgent))
	mux.Handle("GET /agent/{id}/delete", h.protected(h.handleDeleteAgentPage))
	mux.Handle("POST /agent/{id}/delete", h.protected(h.handleDeleteAgent))
	mux.Handle("GET /connector", h.protected(h.handleConnectorPage))
	mux.Handle("GET /balance", h.protected(h.handleBalancePage))
	mux.Handle("GET /logout", h.protected(h.handleLogoutPage))
	mux.Handle("POST /logout", h.protected(h.handleLogout))

	// API v1 routes
	mux.HandleFunc("POST /api/v1/forms/{form}/validate", h.handleValidateForm)
	mux.Handle("GET /api/v1/agents", h.sessions.RequireAPISession(http.HandlerFunc(h.handleListAgents)))
	mux.Handle("POST /api/v1/agents", h.sessions.RequireAPISession(http.HandlerFunc(h.handleCreateAgent)))
	mux.Handle("GET /api/v1/agents/{id}", h.sessions.RequireAPISession(http.HandlerFunc(h.handleGetAgent)))
	mux.Handle("DELETE /api/v1/agents/{id}", h.sessions.RequireAPISession(http.HandlerFunc(h.handleDeleteAgentAPI)))
}

// page wraps an HTML handler with security headers and CSRF protection.
func (h *Handler) page(fn http.HandlerFunc) http.Handler {
	return middleware.SecurityHeaders(h.csrf.Protect(fn))
}

// limited is page plus per-IP throttling of submissions.
func (h *Handler) limited(fn http.HandlerFunc) http.Handler {
	if h.limiter == nil {
		return h.page(fn)
	}
	return middleware.SecurityHeaders(h.limiter.Limit(h.csrf.Protect(fn)))
}

// protected is page behind a verified session cookie.
func (h *Handler) protected(fn http.HandlerFunc) http.Handler {
	return middleware.SecurityHeaders(h.sessions.RequireSession(h.csrf.Protect(fn)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			slog.Error("database health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// respondDomainError maps err and writes it as a standard error response.
func respondDomainError(w http.ResponseWriter, err error) {
	status, code, message := dto.MapDomainError(err)
	respondError(w, status, code, message)
}

func mustSub(fsys fs.FS) fs.FS {
	sub, err := fs.Sub(fsys, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
