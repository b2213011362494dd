package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/handler/dto"
	"github.com/mtlprog/nexa/internal/service"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// handleListAgents lists all agents.
// @Summary List agents
// @Description Returns every agent in the workspace, newest first.
// @Tags agents
// @Produce json
// @Success 200 {object} dto.AgentsListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents [get]
func (h *Handler) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.ListAgents(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentsListResponse(agents))
}

// handleCreateAgent creates a new agent.
// @Summary Create an agent
// @Description Creates an agent. Model defaults to gpt-4o-mini and temperature to 0.7.
// @Tags agents
// @Accept json
// @Produce json
// @Param request body dto.CreateAgentRequest true "Agent creation request"
// @Success 201 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents [post]
func (h *Handler) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationMessage(err))
		return
	}

	params := service.CreateAgentParams{
		Name:        req.Name,
		Description: req.Description,
		Model:       domain.AgentModel(req.Model),
		Temperature: req.Temperature,
	}
	for _, t := range req.Tools {
		params.Tools = append(params.Tools, domain.AgentTool(t))
	}
	for _, c := range req.Connectors {
		params.Connectors = append(params.Connectors, domain.ConnectorType(c))
	}

	agent, err := h.agents.CreateAgent(r.Context(), params)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAgentResponse(agent))
}

// handleGetAgent retrieves a single agent.
// @Summary Get an agent
// @Tags agents
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dto.AgentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [get]
func (h *Handler) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.agents.GetAgent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToAgentResponse(agent))
}

// handleDeleteAgentAPI deletes an agent.
// @Summary Delete an agent
// @Tags agents
// @Param id path string true "Agent ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /agents/{id} [delete]
func (h *Handler) handleDeleteAgentAPI(w http.ResponseWriter, r *http.Request) {
	if err := h.agents.DeleteAgent(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validationMessage reports the first failing field of a validator error.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fe.Field() + " failed on the '" + fe.Tag() + "' rule"
	}
	return err.Error()
}
