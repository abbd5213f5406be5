package mcp

import (
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Actions refreshes the generated section and pushes items.
	Actions driving.ActionItemService

	// Anchors lists and locates document anchors.
	Anchors driving.AnchorService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Actions == nil {
		return ErrMissingActionService
	}
	// Anchors is optional; list_anchors reports an empty list without it.
	return nil
}
