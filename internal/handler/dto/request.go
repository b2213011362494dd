package dto

// CreateAgentRequest represents the request body for POST /api/v1/agents.
type CreateAgentRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=2000"`
	Model       string   `json:"model,omitempty" validate:"omitempty,oneof=gpt-3.5-turbo gpt-4 gpt-4o gpt-4o-mini gpt-4-turbo gpt-5"`
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Tools       []string `json:"tools,omitempty" validate:"omitempty,dive,oneof=search_web"`
	Connectors  []string `json:"connectors,omitempty" validate:"omitempty,dive,oneof=google_sheet google_drive"`
}

// ValidateFormRequest represents the request body for POST /api/v1/forms/{form}/validate.
// When Field is set only that field is checked.
type ValidateFormRequest struct {
	Values map[string]string `json:"values"`
	Field  string            `json:"field,omitempty"`
}
