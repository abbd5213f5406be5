package services

import (
	"strings"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// SectionReader re-parses checklist items below the action items heading.
type SectionReader struct {
	headingPhrase string
}

// NewSectionReader creates a reader that starts collecting at the first
// paragraph containing headingPhrase.
func NewSectionReader(headingPhrase string) *SectionReader {
	if headingPhrase == "" {
		headingPhrase = domain.DefaultHeadingPhrase
	}
	return &SectionReader{headingPhrase: headingPhrase}
}

// Read returns every unchecked checklist item after the heading phrase, in
// document order, including items that already carry a tracker id and items
// without a description. Once collection starts it runs to the end of the body.
func (r *SectionReader) Read(paragraphs []domain.Paragraph) []domain.SectionItem {
	var items []domain.SectionItem
	collecting := false

	for _, p := range paragraphs {
		if !collecting {
			if strings.Contains(p.Text, r.headingPhrase) {
				collecting = true
			}
			continue
		}
		if !p.IsOpenChecklistItem() {
			continue
		}

		item := domain.ParseItemLine(p.Text)
		item.Paragraph = p
		items = append(items, item)
	}
	return items
}

// Pending filters out items that were already pushed.
func Pending(items []domain.SectionItem) []domain.SectionItem {
	out := make([]domain.SectionItem, 0, len(items))
	for _, item := range items {
		if !item.AlreadyPushed {
			out = append(out, item)
		}
	}
	return out
}
