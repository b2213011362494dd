package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mtlprog/nexa/internal/domain"
)

// agentColumns is the shared list of columns for agent queries.
var agentColumns = []string{
	"id", "name", "description", "model", "temperature", "tools", "connectors",
	"is_active", "created_at", "updated_at",
}

// AgentRepository handles database operations for agents.
type AgentRepository struct {
	db DBTX
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(db DBTX) *AgentRepository {
	return &AgentRepository{db: db}
}

// scanAgent scans a single row into an Agent struct.
func scanAgent(row pgx.Row) (*domain.Agent, error) {
	var (
		agent      domain.Agent
		model      string
		tools      []string
		connectors []string
	)
	err := row.Scan(
		&agent.ID,
		&agent.Name,
		&agent.Description,
		&model,
		&agent.Temperature,
		&tools,
		&connectors,
		&agent.IsActive,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAgentNotFound
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}

	agent.Model = domain.AgentModel(model)
	agent.Tools = make([]domain.AgentTool, 0, len(tools))
	for _, t := range tools {
		agent.Tools = append(agent.Tools, domain.AgentTool(t))
	}
	agent.Connectors = make([]domain.ConnectorType, 0, len(connectors))
	for _, c := range connectors {
		agent.Connectors = append(agent.Connectors, domain.ConnectorType(c))
	}
	return &agent, nil
}

// scanAgents scans multiple rows into a slice of Agent structs.
func scanAgents(rows pgx.Rows) ([]*domain.Agent, error) {
	defer rows.Close()

	agents := []*domain.Agent{}
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, err
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return agents, nil
}

// Create inserts a new agent. ID and timestamps must already be set.
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	tools := make([]string, 0, len(agent.Tools))
	for _, t := range agent.Tools {
		tools = append(tools, string(t))
	}
	connectors := make([]string, 0, len(agent.Connectors))
	for _, c := range agent.Connectors {
		connectors = append(connectors, string(c))
	}

	query, args, err := psql.
		Insert("agents").
		Columns(agentColumns...).
		Values(
			agent.ID,
			agent.Name,
			agent.Description,
			string(agent.Model),
			agent.Temperature,
			tools,
			connectors,
			agent.IsActive,
			agent.CreatedAt,
			agent.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for agent: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// List returns all agents, newest first.
func (r *AgentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for agents: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}

	return scanAgents(rows)
}

// GetByID retrieves an agent by ID.
func (r *AgentRepository) GetByID(ctx context.Context, agentID string) (*domain.Agent, error) {
	query, args, err := psql.
		Select(agentColumns...).
		From("agents").
		Where(sq.Eq{"id": agentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for agent: %w", err)
	}

	return scanAgent(r.db.QueryRow(ctx, query, args...))
}

// Delete removes an agent. Returns ErrAgentNotFound if no row matched.
func (r *AgentRepository) Delete(ctx context.Context, agentID string) error {
	query, args, err := psql.
		Delete("agents").
		Where(sq.Eq{"id": agentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for agent %s: %w", agentID, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}
	return nil
}
