package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// EmptySectionText is written when no open action items were found.
const EmptySectionText = "No open action items"

// SectionRenderer rewrites the generated section wholesale.
// Anything a user typed between the anchor heading and the next top-level
// heading is discarded.
type SectionRenderer struct {
	now func() time.Time
}

// NewSectionRenderer creates a renderer.
func NewSectionRenderer() *SectionRenderer {
	return &SectionRenderer{now: time.Now}
}

// Render replaces the section after anchorIndex with a timestamp line, a
// separator and one unchecked checklist item per line. Returns the number
// of checklist items written.
func (r *SectionRenderer) Render(
	ctx context.Context,
	doc driven.Document,
	paragraphs []domain.Paragraph,
	anchorIndex int,
	lines []string,
) (int, error) {
	start, end := SectionBounds(paragraphs, anchorIndex)

	if err := doc.ReplaceRange(ctx, start, end, r.Build(lines)); err != nil {
		return 0, fmt.Errorf("rewrite section [%d, %d): %w", start, end, err)
	}
	return len(lines), nil
}

// Build returns the paragraphs that make up a freshly rendered section.
func (r *SectionRenderer) Build(lines []string) []domain.Paragraph {
	out := make([]domain.Paragraph, 0, len(lines)+2)
	out = append(out,
		domain.Paragraph{
			Kind:   domain.KindText,
			Text:   TimestampLine(r.now()),
			Italic: true,
		},
		domain.Paragraph{Kind: domain.KindSeparator},
	)

	if len(lines) == 0 {
		return append(out, domain.Paragraph{Kind: domain.KindText, Text: EmptySectionText})
	}

	listID := uuid.NewString()
	for _, line := range lines {
		out = append(out, domain.Paragraph{
			Kind:   domain.KindChecklist,
			Glyph:  domain.GlyphUnchecked,
			ListID: listID,
			Text:   line,
		})
	}
	return out
}

// TimestampLine formats the "last updated" line of a rendered section.
func TimestampLine(t time.Time) string {
	return "Last updated " + t.Format("2006-01-02 15:04 MST")
}
