package googledocs

import (
	"fmt"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// Bullet presets used when creating lists.
const (
	presetCheckbox = "BULLET_CHECKBOX"
	presetBullet   = "BULLET_DISC_CIRCLE_SQUARE"
)

// separatorBorder draws the rule under an empty paragraph.
var separatorBorder = &docs.ParagraphBorder{
	Color: &docs.OptionalColor{Color: &docs.Color{
		RgbColor: &docs.RgbColor{Red: 0.6, Green: 0.6, Blue: 0.6},
	}},
	DashStyle: "SOLID",
	Padding:   &docs.Dimension{Magnitude: 1, Unit: "PT"},
	Width:     &docs.Dimension{Magnitude: 1, Unit: "PT"},
}

// replaceRequests builds the batch that swaps body elements [start, end) for
// paragraphs. The final newline of a document cannot be deleted, so a
// section that runs to the end keeps it as the terminator of its last
// inserted paragraph.
func replaceRequests(b *body, start, end int, paragraphs []domain.Paragraph) ([]*docs.Request, error) {
	n := len(b.paragraphs)
	if start < 0 || end < start || end > n {
		return nil, fmt.Errorf("range [%d, %d) outside body of %d: %w", start, end, n, domain.ErrInvalidInput)
	}

	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.Text
	}
	text := strings.Join(texts, "\n")

	var (
		requests []*docs.Request
		at       int64
		insert   string
		first    int64
	)

	switch {
	case end < n:
		at = b.spans[end].start
		if start < end {
			at = b.spans[start].start
			requests = append(requests, deleteRange(at, b.spans[end].start))
		}
		if len(paragraphs) > 0 {
			insert = text + "\n"
		}
		first = at

	case start < n:
		at = b.spans[start].start
		if last := b.end - 1; last > at {
			requests = append(requests, deleteRange(at, last))
		}
		insert = text
		first = at

	default:
		if len(paragraphs) == 0 {
			return nil, nil
		}
		at = b.end - 1
		insert = "\n" + text
		first = at + 1
	}

	if insert != "" {
		requests = append(requests, &docs.Request{InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: at},
			Text:     insert,
		}})
	}
	if len(paragraphs) == 0 {
		return requests, nil
	}

	return append(requests, styleRequests(first, paragraphs)...), nil
}

// styleRequests formats freshly inserted paragraphs starting at offset first.
// Inserted text inherits the style of its neighbours, so everything is reset
// to plain text before the paragraph kinds are applied.
func styleRequests(first int64, paragraphs []domain.Paragraph) []*docs.Request {
	spans := make([]span, len(paragraphs))
	pos := first
	for i, p := range paragraphs {
		spans[i] = span{start: pos, end: pos + utf16Len(p.Text) + 1}
		pos = spans[i].end
	}
	whole := span{start: first, end: pos}

	requests := []*docs.Request{
		{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          docRange(whole),
			ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: "NORMAL_TEXT"},
			Fields:         "namedStyleType,borderBottom",
		}},
		{DeleteParagraphBullets: &docs.DeleteParagraphBulletsRequest{
			Range: docRange(whole),
		}},
		{UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     docRange(whole),
			TextStyle: &docs.TextStyle{},
			Fields:    "bold,italic,strikethrough",
		}},
	}

	for i, p := range paragraphs {
		s := spans[i]
		switch p.Kind {
		case domain.KindHeading:
			requests = append(requests, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          docRange(s),
				ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: fmt.Sprintf("HEADING_%d", clampLevel(p.Level))},
				Fields:         "namedStyleType",
			}})
		case domain.KindSeparator:
			requests = append(requests, &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          docRange(s),
				ParagraphStyle: &docs.ParagraphStyle{BorderBottom: separatorBorder},
				Fields:         "borderBottom",
			}})
		}

		textSpan := span{start: s.start, end: s.end - 1}
		if textSpan.end == textSpan.start {
			continue
		}
		if p.Italic {
			requests = append(requests, textStyle(textSpan, &docs.TextStyle{Italic: true}, "italic"))
		}
		if p.Kind == domain.KindChecklist && p.Glyph == domain.GlyphChecked {
			requests = append(requests, textStyle(textSpan, &docs.TextStyle{Strikethrough: true}, "strikethrough"))
		}
	}

	for _, g := range listGroups(paragraphs) {
		preset := presetBullet
		if paragraphs[g[0]].Kind == domain.KindChecklist {
			preset = presetCheckbox
		}
		requests = append(requests, &docs.Request{CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range:        docRange(span{start: spans[g[0]].start, end: spans[g[1]-1].end}),
			BulletPreset: preset,
		}})
	}

	return requests
}

// listGroups returns [from, to) runs of adjacent list items of one kind
// sharing a ListID.
func listGroups(paragraphs []domain.Paragraph) [][2]int {
	var groups [][2]int
	for i := 0; i < len(paragraphs); {
		p := paragraphs[i]
		if p.Kind != domain.KindChecklist && p.Kind != domain.KindBullet {
			i++
			continue
		}
		j := i + 1
		for j < len(paragraphs) && paragraphs[j].Kind == p.Kind && paragraphs[j].ListID == p.ListID {
			j++
		}
		groups = append(groups, [2]int{i, j})
		i = j
	}
	return groups
}

// updateTextRequests replaces the text of one paragraph, keeping its newline
// and therefore its list membership and style.
func updateTextRequests(s span, text string) []*docs.Request {
	var requests []*docs.Request
	if s.end-1 > s.start {
		requests = append(requests, deleteRange(s.start, s.end-1))
	}
	if text != "" {
		requests = append(requests, &docs.Request{InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: s.start},
			Text:     text,
		}})
	}
	return requests
}

func deleteRange(start, end int64) *docs.Request {
	return &docs.Request{DeleteContentRange: &docs.DeleteContentRangeRequest{
		Range: &docs.Range{StartIndex: start, EndIndex: end},
	}}
}

func textStyle(s span, style *docs.TextStyle, fields string) *docs.Request {
	return &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
		Range:     docRange(s),
		TextStyle: style,
		Fields:    fields,
	}}
}

func docRange(s span) *docs.Range {
	return &docs.Range{StartIndex: s.start, EndIndex: s.end}
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	default:
		return level
	}
}
