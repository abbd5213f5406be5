package driving

import (
	"context"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// ActionItemService runs the two user-facing synchronisation commands.
// This is used by CLI and MCP adapters.
type ActionItemService interface {
	// Refresh rewrites the generated section with the open action items
	// extracted from the whole document.
	Refresh(ctx context.Context) (*domain.RefreshResult, error)

	// Push creates a tracker issue for every unchecked item in the section that
	// has no tracker id yet, and appends the created id to the item.
	Push(ctx context.Context) (*domain.PushResult, error)
}
