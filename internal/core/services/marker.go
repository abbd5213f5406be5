package services

import (
	"fmt"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// ResolveAnchor finds the body index of the heading the anchor id points at.
// Anchors are resolved on every run, never cached.
func ResolveAnchor(paragraphs []domain.Paragraph, anchors []domain.Anchor, anchorID string) (int, error) {
	for _, a := range anchors {
		if a.ID != anchorID {
			continue
		}
		if a.ParagraphIndex < 0 || a.ParagraphIndex >= len(paragraphs) {
			return 0, fmt.Errorf("anchor %q: %w", anchorID, domain.ErrAnchorNotFound)
		}
		if paragraphs[a.ParagraphIndex].Kind != domain.KindHeading {
			return 0, fmt.Errorf("anchor %q points at %q: %w",
				anchorID, paragraphs[a.ParagraphIndex].Text, domain.ErrAnchorNotHeading)
		}
		return a.ParagraphIndex, nil
	}
	return 0, fmt.Errorf("anchor %q: %w", anchorID, domain.ErrAnchorNotFound)
}

// SectionBounds returns the half-open range of the generated section: from
// the element after the anchor heading up to the next top-level heading, or
// the end of the body.
func SectionBounds(paragraphs []domain.Paragraph, anchorIndex int) (start, end int) {
	start = anchorIndex + 1
	for i := start; i < len(paragraphs); i++ {
		if paragraphs[i].IsTopLevelHeading() {
			return start, i
		}
	}
	return start, len(paragraphs)
}
