package service_test

import (
	"context"
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/nexa/internal/domain"
	"github.com/mtlprog/nexa/internal/service"
)

// memoryAgentStore is an in-memory service.AgentStore.
type memoryAgentStore struct {
	mu     sync.Mutex
	agents map[string]*domain.Agent
}

func newMemoryAgentStore() *memoryAgentStore {
	return &memoryAgentStore{agents: map[string]*domain.Agent{}}
}

func (m *memoryAgentStore) Create(_ context.Context, agent *domain.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[agent.ID] = agent
	return nil
}

func (m *memoryAgentStore) List(_ context.Context) ([]*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Agent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryAgentStore) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok {
		return nil, domain.ErrAgentNotFound
	}
	return a, nil
}

func (m *memoryAgentStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[id]; !ok {
		return domain.ErrAgentNotFound
	}
	delete(m.agents, id)
	return nil
}

func TestCreateAgent_Defaults(t *testing.T) {
	svc := service.NewAgentService(newMemoryAgentStore(), nil)

	agent, err := svc.CreateAgent(context.Background(), service.CreateAgentParams{Name: "Sales Assistant"})

	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, domain.AgentModelGPT4oMini, agent.Model)
	assert.InDelta(t, 0.7, agent.Temperature, 1e-9)
	assert.True(t, agent.IsActive)
	assert.NotNil(t, agent.Tools)
	assert.NotNil(t, agent.Connectors)
	assert.False(t, agent.CreatedAt.IsZero())
}

func TestCreateAgent_Validation(t *testing.T) {
	hot := 2.5
	nan := math.NaN()
	inf := math.Inf(1)
	tests := []struct {
		name   string
		params service.CreateAgentParams
		want   error
	}{
		{name: "empty name", params: service.CreateAgentParams{Name: "  "}, want: domain.ErrEmptyAgentName},
		{name: "bad model", params: service.CreateAgentParams{Name: "a", Model: "gpt-2"}, want: domain.ErrInvalidModel},
		{name: "hot", params: service.CreateAgentParams{Name: "a", Temperature: &hot}, want: domain.ErrInvalidTemperature},
		{name: "NaN temperature", params: service.CreateAgentParams{Name: "a", Temperature: &nan}, want: domain.ErrInvalidTemperature},
		{name: "Inf temperature", params: service.CreateAgentParams{Name: "a", Temperature: &inf}, want: domain.ErrInvalidTemperature},
		{name: "bad tool", params: service.CreateAgentParams{Name: "a", Tools: []domain.AgentTool{"shell"}}, want: domain.ErrInvalidTool},
		{name: "bad connector", params: service.CreateAgentParams{Name: "a", Connectors: []domain.ConnectorType{"figma"}}, want: domain.ErrInvalidConnector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryAgentStore()
			_, err := service.NewAgentService(store, nil).CreateAgent(context.Background(), tt.params)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, store.agents)
		})
	}
}

func TestAgentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAgentService(newMemoryAgentStore(), nil)

	created, err := svc.CreateAgent(ctx, service.CreateAgentParams{
		Name:  "Research",
		Model: domain.AgentModelGPT4o,
		Tools: []domain.AgentTool{domain.AgentToolSearchWeb},
	})
	require.NoError(t, err)

	got, err := svc.GetAgent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Research", got.Name)

	list, err := svc.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteAgent(ctx, created.ID))
	_, err = svc.GetAgent(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrAgentNotFound)

	assert.ErrorIs(t, svc.DeleteAgent(ctx, created.ID), domain.ErrAgentNotFound)
}

func TestAgentID_MustBeUUID(t *testing.T) {
	svc := service.NewAgentService(newMemoryAgentStore(), nil)

	_, err := svc.GetAgent(context.Background(), "1; DROP TABLE agents")
	assert.ErrorIs(t, err, domain.ErrInvalidAgentID)
	assert.ErrorIs(t, svc.DeleteAgent(context.Background(), "nope"), domain.ErrInvalidAgentID)
}
