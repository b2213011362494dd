package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mtlprog/nexa/internal/domain"
)

const maxAgentNameLength = 100

// ValidateAgentParams checks agent creation input and fills defaults for
// missing model and temperature.
func ValidateAgentParams(p *CreateAgentParams) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.ErrEmptyAgentName
	}
	if len(p.Name) > maxAgentNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", domain.ErrEmptyAgentName, maxAgentNameLength)
	}

	if p.Model == "" {
		p.Model = domain.AgentModelGPT4oMini
	}
	if !p.Model.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidModel, p.Model)
	}

	if p.Temperature == nil {
		t := domain.DefaultTemperature
		p.Temperature = &t
	}
	if t := *p.Temperature; !(t >= domain.MinTemperature && t <= domain.MaxTemperature) {
		return fmt.Errorf("%w: got %g", domain.ErrInvalidTemperature, *p.Temperature)
	}

	for _, tool := range p.Tools {
		if !tool.IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidTool, tool)
		}
	}
	for _, c := range p.Connectors {
		if !c.IsValid() {
			return fmt.Errorf("%w: %s", domain.ErrInvalidConnector, c)
		}
	}

	return nil
}

// ValidateAgentID checks that id is a UUID.
func ValidateAgentID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidAgentID, id)
	}
	return nil
}
