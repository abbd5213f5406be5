package domain

import "strings"

// ParagraphKind classifies a body element.
type ParagraphKind string

// Paragraph kinds understood by the section logic.
const (
	// KindText is a plain paragraph.
	KindText ParagraphKind = "text"

	// KindHeading is a heading at some Level (1 = top-level).
	KindHeading ParagraphKind = "heading"

	// KindChecklist is a list item carrying a checkbox glyph.
	KindChecklist ParagraphKind = "checklist"

	// KindBullet is an ordinary bulleted list item.
	KindBullet ParagraphKind = "bullet"

	// KindSeparator is a horizontal rule.
	KindSeparator ParagraphKind = "separator"

	// KindOther is any element the backends cannot classify (tables, images).
	KindOther ParagraphKind = "other"
)

// Glyph is the marker a list item is rendered with.
type Glyph string

// Known list glyphs.
const (
	GlyphNone         Glyph = ""
	GlyphUnchecked    Glyph = "☐"
	GlyphUncheckedAlt Glyph = "□"
	GlyphChecked      Glyph = "☑"
	GlyphBullet       Glyph = "•"
)

// IsUnchecked reports whether the glyph is one of the open checkbox variants.
func (g Glyph) IsUnchecked() bool {
	return g == GlyphUnchecked || g == GlyphUncheckedAlt
}

// Paragraph is one element of the document body.
type Paragraph struct {
	// Index is the position of the element in the body, starting at 0.
	Index int

	// Ref is an opaque handle the document backend uses to find the element again
	// (a Notion block id, a Docs start offset, a Markdown line id).
	Ref string

	// Kind classifies the element.
	Kind ParagraphKind

	// Level is the heading level for KindHeading, 0 otherwise.
	Level int

	// Text is the visible text without the trailing newline.
	Text string

	// Glyph is set for list items.
	Glyph Glyph

	// ListID groups checklist items that belong to one list.
	ListID string

	// Italic marks paragraphs rendered in italics.
	Italic bool
}

// IsTopLevelHeading reports whether the paragraph ends a generated section.
func (p Paragraph) IsTopLevelHeading() bool {
	return p.Kind == KindHeading && p.Level == 1
}

// IsOpenChecklistItem reports whether the paragraph is an unchecked checklist entry.
func (p Paragraph) IsOpenChecklistItem() bool {
	return p.Kind == KindChecklist && p.Glyph.IsUnchecked()
}

// Anchor marks a heading by id so it can be found after edits.
type Anchor struct {
	// ID is the bookmark, heading or block id configured by the user.
	ID string

	// ParagraphIndex is the body index the anchor points at.
	ParagraphIndex int

	// Label is the text of the paragraph at the anchor, for display.
	Label string
}

// DocumentInfo describes the open document.
type DocumentInfo struct {
	ID    string
	Title string
	URL   string
}

// JoinText concatenates paragraph text with newlines, the way it is sent for extraction.
func JoinText(paragraphs []Paragraph) string {
	var b strings.Builder
	for i, p := range paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
