package driven

import (
	"context"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// Tracker is an external issue tracker.
// Implementations perform the raw network calls; deciding what to create
// and how to match assignees lives in the core.
type Tracker interface {
	// ListUsers returns the workspace members that issues can be assigned to.
	ListUsers(ctx context.Context) ([]domain.TrackerUser, error)

	// ListLabels returns the issue labels visible to the configured team or repository.
	ListLabels(ctx context.Context) ([]domain.Label, error)

	// CreateLabel creates a label with the given name and hex color.
	CreateLabel(ctx context.Context, name, color string) (domain.Label, error)

	// CreateIssue creates one issue. A tracker that answers with success=false
	// returns a CreatedIssue with Success unset and a nil error.
	CreateIssue(ctx context.Context, req domain.IssueRequest) (domain.CreatedIssue, error)

	// Close releases resources.
	Close() error
}
