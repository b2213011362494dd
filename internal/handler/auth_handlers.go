package handler

import (
	"net/http"

	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/middleware"
	"github.com/mtlprog/nexa/internal/service"
	"github.com/mtlprog/nexa/internal/session"
)

// authPage describes one credential screen.
type authPage struct {
	schema  *form.Schema
	title   string
	heading string
	lead    string
	action  string
	submit  string
	links   []link
}

var (
	loginPage = authPage{
		schema:  form.Login,
		title:   "Sign in",
		heading: "Sign in to Nexa",
		lead:    "Enter your username and password to access your agents.",
		action:  "/login",
		submit:  "Sign in",
		links: []link{
			{URL: "/login/forget-password", Text: "Forgot your password?"},
			{URL: "/register", Text: "Request an account"},
		},
	}
	forgotPasswordPage = authPage{
		schema:  form.ForgotPassword,
		title:   "Forgot password",
		heading: "Forgot your password?",
		lead:    "We will e-mail you a link to reset it.",
		action:  "/login/forget-password",
		submit:  "Send reset link",
		links:   []link{{URL: "/login", Text: "Back to sign in"}},
	}
	resetPasswordPage = authPage{
		schema:  form.ResetPassword,
		title:   "Reset password",
		heading: "Choose a new password",
		action:  "/login/reset-password",
		submit:  "Change password",
		links:   []link{{URL: "/login", Text: "Back to sign in"}},
	}
	registerPage = authPage{
		schema:  form.Register,
		title:   "Request an account",
		heading: "Request an account",
		lead:    "Accounts are reviewed before they are activated.",
		action:  "/register",
		submit:  "Send request",
		links:   []link{{URL: "/login", Text: "Already have an account? Sign in"}},
	}
)

// renderAuth renders p with the given state and settled result.
func (h *Handler) renderAuth(w http.ResponseWriter, r *http.Request, p authPage, state *form.State, res *service.SubmitResult) {
	status := http.StatusOK
	data := &pageData{
		Title:   p.title,
		Heading: p.heading,
		Lead:    p.lead,
		CSRF:    middleware.CSRFToken(r.Context()),
	}

	if res != nil {
		switch res.Outcome {
		case service.OutcomeSuccess:
			state.Reset()
		case service.OutcomeValidationRejected:
			state.Errors = res.Errors
			status = http.StatusUnprocessableEntity
		case service.OutcomeServerRejected:
			status = http.StatusBadRequest
		case service.OutcomeNetworkError:
			status = http.StatusBadGateway
		}
		data.Dialog = dialogPtr(res.Dialog)
	}

	data.Form = newFormView(state, p.action, p.submit, data.CSRF, p.links...)
	h.render(w, r, status, pageAuth, data)
}

// bindAuth parses the posted form into a fresh state for p.
func bindAuth(r *http.Request, p authPage) (*form.State, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	state := form.NewState(p.schema)
	state.Bind(r.PostForm)
	state.Submitting = true
	return state, nil
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := session.FromRequest(r); err == nil {
		http.Redirect(w, r, "/agent", http.StatusSeeOther)
		return
	}
	h.renderAuth(w, r, loginPage, form.NewState(form.Login), nil)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := bindAuth(r, loginPage)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := h.submitter.Login(r.Context(), session.NewCookieStore(w, r), middleware.ClientIP(r), state.Values)
	state.Submitting = false
	h.renderAuth(w, r, loginPage, state, &res)
}

func (h *Handler) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderAuth(w, r, forgotPasswordPage, form.NewState(form.ForgotPassword), nil)
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	state, err := bindAuth(r, forgotPasswordPage)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := h.submitter.ForgotPassword(r.Context(), middleware.ClientIP(r), state.Values)
	state.Submitting = false
	h.renderAuth(w, r, forgotPasswordPage, state, &res)
}

// handleResetPasswordPage carries token and username from the reset link into hidden fields.
func (h *Handler) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	state := form.NewState(form.ResetPassword)
	q := r.URL.Query()
	state.Set("token", q.Get("token"))
	state.Set("username", q.Get("username"))
	h.renderAuth(w, r, resetPasswordPage, state, nil)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	state, err := bindAuth(r, resetPasswordPage)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := h.submitter.ResetPassword(r.Context(), middleware.ClientIP(r), state.Values)
	state.Submitting = false
	h.renderAuth(w, r, resetPasswordPage, state, &res)
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderAuth(w, r, registerPage, form.NewState(form.Register), nil)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	state, err := bindAuth(r, registerPage)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	res := h.submitter.Register(r.Context(), middleware.ClientIP(r), state.Values)
	state.Submitting = false
	h.renderAuth(w, r, registerPage, state, &res)
}
