package dto

import (
	"time"

	"github.com/mtlprog/nexa/internal/domain"
)

// AgentResponse represents a single agent.
type AgentResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Tools       []string  `json:"tools"`
	Connectors  []string  `json:"connectors"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AgentsListResponse represents the response for GET /api/v1/agents.
type AgentsListResponse struct {
	Agents []AgentResponse `json:"agents"`
	Total  int             `json:"total"`
}

// ValidationResponse carries per-field messages; an empty map means the record is valid.
type ValidationResponse struct {
	Form   string            `json:"form"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ToAgentResponse converts domain.Agent to AgentResponse.
func ToAgentResponse(agent *domain.Agent) AgentResponse {
	tools := make([]string, 0, len(agent.Tools))
	for _, t := range agent.Tools {
		tools = append(tools, string(t))
	}
	connectors := make([]string, 0, len(agent.Connectors))
	for _, c := range agent.Connectors {
		connectors = append(connectors, string(c))
	}

	return AgentResponse{
		ID:          agent.ID,
		Name:        agent.Name,
		Description: agent.Description,
		Model:       string(agent.Model),
		Temperature: agent.Temperature,
		Tools:       tools,
		Connectors:  connectors,
		IsActive:    agent.IsActive,
		CreatedAt:   agent.CreatedAt,
		UpdatedAt:   agent.UpdatedAt,
	}
}

// ToAgentsListResponse converts a slice of agents to AgentsListResponse.
func ToAgentsListResponse(agents []*domain.Agent) AgentsListResponse {
	out := make([]AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, ToAgentResponse(a))
	}
	return AgentsListResponse{Agents: out, Total: len(out)}
}
