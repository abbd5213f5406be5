package driving

import (
	"context"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// AnchorLocation is a resolved anchor heading and a link that opens it.
type AnchorLocation struct {
	Anchor  domain.Anchor
	Heading string
	URL     string
}

// AnchorService helps users set up and find the generated section.
type AnchorService interface {
	// List returns every anchor the document exposes.
	List(ctx context.Context) ([]domain.Anchor, error)

	// Locate resolves the configured anchor to its heading and a deep link.
	Locate(ctx context.Context) (*AnchorLocation, error)

	// Open locates the configured anchor and opens its link in the default browser.
	Open(ctx context.Context) (*AnchorLocation, error)
}
