package googledocs

import (
	"google.golang.org/api/docs/v1"
)

// element describes one body paragraph of a test document.
type element struct {
	text      string
	style     string
	headingID string
	listID    string
	nesting   int64
	italic    bool
	strike    bool
	border    bool
	rule      bool
}

const (
	checkList  = "kix.check"
	bulletList = "kix.disc"
)

// buildDoc lays the elements out after the leading section break, computing
// offsets the way Docs does.
func buildDoc(elements ...element) *docs.Document {
	content := []*docs.StructuralElement{{EndIndex: 1, SectionBreak: &docs.SectionBreak{}}}
	pos := int64(1)

	for _, e := range elements {
		start := pos
		var parts []*docs.ParagraphElement

		if e.rule {
			parts = append(parts, &docs.ParagraphElement{
				StartIndex:     pos,
				EndIndex:       pos + 1,
				HorizontalRule: &docs.HorizontalRule{},
			})
			pos++
		}
		textEnd := pos + utf16Len(e.text) + 1
		parts = append(parts, &docs.ParagraphElement{
			StartIndex: pos,
			EndIndex:   textEnd,
			TextRun: &docs.TextRun{
				Content:   e.text + "\n",
				TextStyle: &docs.TextStyle{Italic: e.italic, Strikethrough: e.strike},
			},
		})
		pos = textEnd

		style := &docs.ParagraphStyle{NamedStyleType: "NORMAL_TEXT", HeadingId: e.headingID}
		if e.style != "" {
			style.NamedStyleType = e.style
		}
		if e.border {
			style.BorderBottom = separatorBorder
		}

		para := &docs.Paragraph{Elements: parts, ParagraphStyle: style}
		if e.listID != "" {
			para.Bullet = &docs.Bullet{ListId: e.listID, NestingLevel: e.nesting}
		}

		content = append(content, &docs.StructuralElement{
			StartIndex: start,
			EndIndex:   pos,
			Paragraph:  para,
		})
	}

	return &docs.Document{
		DocumentId: "doc-1",
		Title:      "Weekly sync",
		RevisionId: "rev-1",
		Body:       &docs.Body{Content: content},
		Lists: map[string]docs.List{
			checkList: {ListProperties: &docs.ListProperties{NestingLevels: []*docs.NestingLevel{
				{GlyphType: "GLYPH_TYPE_UNSPECIFIED"},
			}}},
			bulletList: {ListProperties: &docs.ListProperties{NestingLevels: []*docs.NestingLevel{
				{GlyphSymbol: "●"},
				{GlyphSymbol: "☐"},
			}}},
		},
	}
}

// notesDoc is a document with a generated section between two top-level headings.
func notesDoc() *docs.Document {
	doc := buildDoc(
		element{text: "Notes", style: "HEADING_1", headingID: "h.notes"},
		element{text: "Ana will send", listID: bulletList},
		element{text: "Action Items", style: "HEADING_1", headingID: "h.actions"},
		element{text: "Last updated", italic: true},
		element{border: true},
		element{text: "@Ana Send 📄", listID: checkList},
		element{text: "@Bo Done", listID: checkList, strike: true},
		element{text: "Next", style: "HEADING_1"},
	)
	doc.NamedRanges = map[string]docs.NamedRanges{
		"actions": {Name: "actions", NamedRanges: []*docs.NamedRange{{
			Name:         "actions",
			NamedRangeId: "kix.range1",
			Ranges:       []*docs.Range{{StartIndex: 21, EndIndex: 34}},
		}}},
	}
	return doc
}
