package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/metrics"
)

// AgentStore persists agents.
type AgentStore interface {
	Create(ctx context.Context, agent *domain.Agent) error
	List(ctx context.Context) ([]*domain.Agent, error)
	GetByID(ctx context.Context, agentID string) (*domain.Agent, error)
	Delete(ctx context.Context, agentID string) error
}

// AgentService coordinates agent operations from the dashboard and the JSON API.
type AgentService struct {
	repo    AgentStore
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewAgentService creates a new AgentService. rec may be nil.
func NewAgentService(repo AgentStore, rec *metrics.Recorder) *AgentService {
	return &AgentService{repo: repo, metrics: rec, now: time.Now}
}

// CreateAgentParams holds input for creating an agent.
type CreateAgentParams struct {
	Name        string
	Description string
	Model       domain.AgentModel
	Temperature *float64
	Tools       []domain.AgentTool
	Connectors  []domain.ConnectorType
}

// CreateAgent validates params and stores a new active agent.
func (s *AgentService) CreateAgent(ctx context.Context, params CreateAgentParams) (*domain.Agent, error) {
	if err := ValidateAgentParams(&params); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	agent := &domain.Agent{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		Model:       params.Model,
		Temperature: *params.Temperature,
		Tools:       params.Tools,
		Connectors:  params.Connectors,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if agent.Tools == nil {
		agent.Tools = []domain.AgentTool{}
	}
	if agent.Connectors == nil {
		agent.Connectors = []domain.ConnectorType{}
	}

	if err := s.repo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	s.metrics.AgentChange("create")
	slog.Info("agent created", "agent_id", agent.ID, "model", agent.Model)

	return agent, nil
}

// ListAgents returns all agents, newest first.
func (s *AgentService) ListAgents(ctx context.Context) ([]*domain.Agent, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// GetAgent returns a single agent.
func (s *AgentService) GetAgent(ctx context.Context, agentID string) (*domain.Agent, error) {
	if err := ValidateAgentID(agentID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, agentID)
}

// DeleteAgent removes an agent.
func (s *AgentService) DeleteAgent(ctx context.Context, agentID string) error {
	if err := ValidateAgentID(agentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, agentID); err != nil {
		return err
	}

	s.metrics.AgentChange("delete")
	slog.Info("agent deleted", "agent_id", agentID)

	return nil
}
