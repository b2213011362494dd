package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/feedback"
	"github.com/mtlprog/nexa/internal/form"
	"github.com/mtlprog/nexa/internal/middleware"
	"github.com/mtlprog/nexa/internal/service"
	"github.com/mtlprog/nexa/internal/session"
)

const balanceNotice = `<p>Usage is billed per workspace.</p>
<p>To review your plan or <strong>top up your balance</strong>, contact your workspace administrator.</p>`

// renderAgents renders the agent list, optionally under a dialog.
func (h *Handler) renderAgents(w http.ResponseWriter, r *http.Request, status int, dialog *feedback.Dialog) {
	data := h.dashboard(r, "Agents")
	data.Dialog = dialog

	agents, err := h.agents.ListAgents(r.Context())
	if err != nil {
		slog.Error("failed to list agents", "error", err)
		if data.Dialog == nil {
			data.Dialog = dialogPtr(feedback.Error("Error", "Agents could not be loaded. Please try again later."))
		}
		status = http.StatusInternalServerError
	}
	data.Agents = agents

	h.render(w, r, status, pageAgents, data)
}

func (h *Handler) handleAgentsPage(w http.ResponseWriter, r *http.Request) {
	h.renderAgents(w, r, http.StatusOK, nil)
}

func (h *Handler) renderNewAgent(w http.ResponseWriter, r *http.Request, status int, state *form.State, dialog *feedback.Dialog) {
	data := h.dashboard(r, "New agent")
	data.Form = newFormView(state, "/agent/new-agent", "Create agent", data.CSRF,
		link{URL: "/agent", Text: "Cancel"})
	data.Dialog = dialog
	h.render(w, r, status, pageNewAgent, data)
}

func (h *Handler) handleNewAgentPage(w http.ResponseWriter, r *http.Request) {
	h.renderNewAgent(w, r, http.StatusOK, form.NewState(form.Agent), nil)
}

func (h *Handler) handleNewAgent(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	state := form.NewState(form.Agent)
	state.Bind(r.PostForm)
	if !state.Validate() {
		h.renderNewAgent(w, r, http.StatusUnprocessableEntity, state, nil)
		return
	}

	params := service.CreateAgentParams{
		Name:        state.Values["name"],
		Description: state.Values["description"],
		Model:       domain.AgentModel(state.Values["model"]),
	}
	if raw := state.Values["temperature"]; raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			state.Errors["temperature"] = "must be a number"
			h.renderNewAgent(w, r, http.StatusUnprocessableEntity, state, nil)
			return
		}
		params.Temperature = &t
	}
	for _, tool := range r.PostForm["tools"] {
		params.Tools = append(params.Tools, domain.AgentTool(tool))
	}
	for _, c := range r.PostForm["connectors"] {
		params.Connectors = append(params.Connectors, domain.ConnectorType(c))
	}

	if _, err := h.agents.CreateAgent(r.Context(), params); err != nil {
		status := http.StatusInternalServerError
		text := "The agent could not be created. Please try again later."
		if isAgentValidation(err) {
			status = http.StatusUnprocessableEntity
			text = err.Error()
		}
		h.renderNewAgent(w, r, status, state, dialogPtr(feedback.Error("Error", text)))
		return
	}

	http.Redirect(w, r, "/agent", http.StatusSeeOther)
}

func (h *Handler) handleDeleteAgentPage(w http.ResponseWriter, r *http.Request) {
	agent, err := h.agents.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		h.renderAgents(w, r, agentErrorStatus(err), dialogPtr(feedback.Error("Error", "That agent does not exist.")))
		return
	}

	h.renderAgents(w, r, http.StatusOK, dialogPtr(feedback.ConfirmDeleteAgent(agent.ID, agent.Name)))
}

func (h *Handler) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if !feedback.Confirmed(r) {
		http.Redirect(w, r, "/agent", http.StatusSeeOther)
		return
	}

	if err := h.agents.DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		text := "The agent could not be deleted. Please try again later."
		if errors.Is(err, domain.ErrAgentNotFound) || errors.Is(err, domain.ErrInvalidAgentID) {
			text = "That agent does not exist."
		}
		h.renderAgents(w, r, agentErrorStatus(err), dialogPtr(feedback.Error("Error", text)))
		return
	}

	http.Redirect(w, r, "/agent", http.StatusSeeOther)
}

func (h *Handler) handleConnectorPage(w http.ResponseWriter, r *http.Request) {
	data := h.dashboard(r, "Connections & data")
	data.Connectors = []domain.ConnectorType{domain.ConnectorGoogleSheet, domain.ConnectorGoogleDrive}
	h.render(w, r, http.StatusOK, pageConnector, data)
}

// handleBalancePage shows the account balance alert over the agent list.
func (h *Handler) handleBalancePage(w http.ResponseWriter, r *http.Request) {
	d := feedback.Info("Settings & balance", balanceNotice).WithNext("/agent")
	h.renderAgents(w, r, http.StatusOK, &d)
}

func (h *Handler) handleLogoutPage(w http.ResponseWriter, r *http.Request) {
	d := feedback.ConfirmLogout()
	h.renderAgents(w, r, http.StatusOK, &d)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !feedback.Confirmed(r) {
		http.Redirect(w, r, "/agent", http.StatusSeeOther)
		return
	}

	if sess, err := middleware.GetSessionFromContext(r.Context()); err == nil {
		h.sessions.Forget(sess.Token)
	}
	if err := h.submitter.Logout(r.Context(), session.NewCookieStore(w, r)); err != nil {
		slog.Error("failed to clear session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func agentErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrAgentNotFound), errors.Is(err, domain.ErrInvalidAgentID):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func isAgentValidation(err error) bool {
	return errors.Is(err, domain.ErrEmptyAgentName) ||
		errors.Is(err, domain.ErrInvalidModel) ||
		errors.Is(err, domain.ErrInvalidTemperature) ||
		errors.Is(err, domain.ErrInvalidTool) ||
		errors.Is(err, domain.ErrInvalidConnector)
}
