package mcp

import (
	"errors"

	"github.com/shopmatch-labs/shopmatch-cli/internal/core/ports/driving"
)

// Ports bundles the driving services the MCP server exposes.
type Ports struct {
	Match    driving.MatchService
	Index    driving.IndexService
	Score    driving.ScoreService
	Settings driving.SettingsService
}

// Validate checks that all required ports are present.
func (p *Ports) Validate() error {
	if p == nil {
		return errors.New("ports is nil")
	}
	if p.Match == nil {
		return errors.New("match service is required")
	}
	if p.Index == nil {
		return errors.New("index service is required")
	}
	if p.Score == nil {
		return errors.New("score service is required")
	}
	return nil
}
