package domain

import (
	"slices"
	"time"
)

// AgentModel is the chat model an agent runs on.
type AgentModel string

const (
	AgentModelGPT35Turbo AgentModel = "gpt-3.5-turbo"
	AgentModelGPT4       AgentModel = "gpt-4"
	AgentModelGPT4o      AgentModel = "gpt-4o"
	AgentModelGPT4oMini  AgentModel = "gpt-4o-mini"
	AgentModelGPT4Turbo  AgentModel = "gpt-4-turbo"
	AgentModelGPT5       AgentModel = "gpt-5"
)

// AgentModels lists every supported model in display order.
var AgentModels = []AgentModel{
	AgentModelGPT35Turbo,
	AgentModelGPT4,
	AgentModelGPT4o,
	AgentModelGPT4oMini,
	AgentModelGPT4Turbo,
	AgentModelGPT5,
}

// IsValid checks if the model is one of the supported values.
func (m AgentModel) IsValid() bool {
	return slices.Contains(AgentModels, m)
}

// AgentTool is a built-in tool an agent may call.
type AgentTool string

const (
	AgentToolSearchWeb AgentTool = "search_web"
)

// IsValid checks if the tool is known.
func (t AgentTool) IsValid() bool {
	return t == AgentToolSearchWeb
}

// ConnectorType is an external data source attached to an agent.
type ConnectorType string

const (
	ConnectorGoogleSheet ConnectorType = "google_sheet"
	ConnectorGoogleDrive ConnectorType = "google_drive"
)

// IsValid checks if the connector type is known.
func (c ConnectorType) IsValid() bool {
	return c == ConnectorGoogleSheet || c == ConnectorGoogleDrive
}

const (
	// DefaultTemperature is used when an agent is created without one.
	DefaultTemperature = 0.7
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
)

// Agent represents a named assistant configured from the dashboard.
type Agent struct {
	ID          string
	Name        string
	Description string
	Model       AgentModel
	Temperature float64
	Tools       []AgentTool
	Connectors  []ConnectorType
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
