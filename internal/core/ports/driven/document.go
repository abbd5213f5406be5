package driven

import (
	"context"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// Document is the editing surface of one open document.
// Paragraph indexes are positions in the body as returned by Paragraphs;
// they are only valid until the next mutation.
type Document interface {
	// Info returns the document id, title and shareable URL.
	Info(ctx context.Context) (domain.DocumentInfo, error)

	// Paragraphs returns the whole body in order.
	Paragraphs(ctx context.Context) ([]domain.Paragraph, error)

	// Anchors returns every bookmark or heading id the backend exposes.
	Anchors(ctx context.Context) ([]domain.Anchor, error)

	// ReplaceRange removes the paragraphs in [start, end) and inserts the given
	// paragraphs in their place. Checklist paragraphs sharing a ListID are
	// created as one list.
	ReplaceRange(ctx context.Context, start, end int, paragraphs []domain.Paragraph) error

	// UpdateText replaces the text of a single paragraph in place, keeping its
	// kind and glyph. Returns domain.ErrStaleParagraph if the live paragraph no
	// longer carries the text it was read with.
	UpdateText(ctx context.Context, paragraph domain.Paragraph, text string) error

	// Close releases resources.
	Close() error
}

// AnchorLinker is an optional interface for documents that can build a deep
// link to an anchor. Documents without it get "<url>#<anchor id>".
type AnchorLinker interface {
	AnchorURL(anchor domain.Anchor) string
}
