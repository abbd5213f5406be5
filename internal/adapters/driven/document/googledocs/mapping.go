package googledocs

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"google.golang.org/api/docs/v1"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// span is the UTF-16 offset range of one body element, newline included.
type span struct {
	start int64
	end   int64
}

// body is one fetched revision of the document mapped onto paragraphs.
type body struct {
	title      string
	revision   string
	paragraphs []domain.Paragraph
	spans      []span
	anchors    map[string]int
	headingIDs map[string]bool
	end        int64
}

// glyph symbols Docs reports for checkbox-like list levels.
var (
	uncheckedSymbols = map[string]bool{"☐": true, "□": true, "❏": true}
	checkedSymbols   = map[string]bool{"☑": true, "☒": true, "✓": true, "✔": true}
)

// mapDocument flattens the body of doc into paragraphs.
// Section breaks are skipped; tables and tables of contents become KindOther.
func mapDocument(doc *docs.Document) *body {
	b := &body{
		title:      doc.Title,
		revision:   doc.RevisionId,
		anchors:    make(map[string]int),
		headingIDs: make(map[string]bool),
	}
	if doc.Body == nil {
		return b
	}

	for _, el := range doc.Body.Content {
		if el == nil || el.SectionBreak != nil {
			continue
		}
		if el.EndIndex > b.end {
			b.end = el.EndIndex
		}

		idx := len(b.paragraphs)
		p := domain.Paragraph{
			Index: idx,
			Ref:   strconv.FormatInt(el.StartIndex, 10),
			Kind:  domain.KindOther,
		}

		if el.Paragraph != nil {
			p = mapParagraph(idx, el, doc.Lists)
			if style := el.Paragraph.ParagraphStyle; style != nil && style.HeadingId != "" {
				b.anchors[style.HeadingId] = idx
				b.headingIDs[style.HeadingId] = true
			}
		}

		b.paragraphs = append(b.paragraphs, p)
		b.spans = append(b.spans, span{start: el.StartIndex, end: el.EndIndex})
	}

	for _, group := range doc.NamedRanges {
		for _, nr := range group.NamedRanges {
			if nr == nil || len(nr.Ranges) == 0 {
				continue
			}
			idx := b.indexAt(nr.Ranges[0].StartIndex)
			if idx < 0 {
				continue
			}
			b.anchors[nr.NamedRangeId] = idx
			if _, taken := b.anchors[nr.Name]; !taken && nr.Name != "" {
				b.anchors[nr.Name] = idx
			}
		}
	}

	return b
}

func mapParagraph(idx int, el *docs.StructuralElement, lists map[string]docs.List) domain.Paragraph {
	para := el.Paragraph
	p := domain.Paragraph{
		Index: idx,
		Ref:   strconv.FormatInt(el.StartIndex, 10),
		Kind:  domain.KindText,
		Text:  paragraphText(para),
	}

	style := para.ParagraphStyle
	if level := headingLevel(style); level > 0 {
		p.Kind = domain.KindHeading
		p.Level = level
		return p
	}

	if para.Bullet != nil {
		p.ListID = para.Bullet.ListId
		p.Level = int(para.Bullet.NestingLevel)
		p.Kind, p.Glyph = listGlyph(para, lists)
		return p
	}

	if p.Text == "" && (hasHorizontalRule(para) || hasBottomBorder(style)) {
		p.Kind = domain.KindSeparator
		return p
	}

	p.Italic = allRuns(para, func(s *docs.TextStyle) bool { return s.Italic })
	return p
}

// paragraphText joins the text runs without the trailing newline.
// Soft line breaks are reported by Docs as vertical tabs.
func paragraphText(para *docs.Paragraph) string {
	var sb strings.Builder
	for _, e := range para.Elements {
		if e != nil && e.TextRun != nil {
			sb.WriteString(e.TextRun.Content)
		}
	}
	text := strings.TrimSuffix(sb.String(), "\n")
	return strings.ReplaceAll(text, "\v", " ")
}

func headingLevel(style *docs.ParagraphStyle) int {
	if style == nil || !strings.HasPrefix(style.NamedStyleType, "HEADING_") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(style.NamedStyleType, "HEADING_"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// listGlyph classifies a list item from the glyph of its nesting level.
// Checkbox lists report no glyph type or symbol; their checked state shows
// as strikethrough on the whole item.
func listGlyph(para *docs.Paragraph, lists map[string]docs.List) (domain.ParagraphKind, domain.Glyph) {
	level := nestingLevel(para.Bullet, lists)
	if level == nil {
		return domain.KindBullet, domain.GlyphBullet
	}

	switch {
	case uncheckedSymbols[level.GlyphSymbol]:
		return domain.KindChecklist, domain.GlyphUnchecked
	case checkedSymbols[level.GlyphSymbol]:
		return domain.KindChecklist, domain.GlyphChecked
	case level.GlyphSymbol == "" && (level.GlyphType == "" || level.GlyphType == "GLYPH_TYPE_UNSPECIFIED"):
		if paragraphText(para) != "" && allRuns(para, func(s *docs.TextStyle) bool { return s.Strikethrough }) {
			return domain.KindChecklist, domain.GlyphChecked
		}
		return domain.KindChecklist, domain.GlyphUnchecked
	default:
		return domain.KindBullet, domain.GlyphBullet
	}
}

func nestingLevel(bullet *docs.Bullet, lists map[string]docs.List) *docs.NestingLevel {
	list, ok := lists[bullet.ListId]
	if !ok || list.ListProperties == nil {
		return nil
	}
	levels := list.ListProperties.NestingLevels
	n := int(bullet.NestingLevel)
	if n < 0 || n >= len(levels) {
		return nil
	}
	return levels[n]
}

func hasHorizontalRule(para *docs.Paragraph) bool {
	for _, e := range para.Elements {
		if e != nil && e.HorizontalRule != nil {
			return true
		}
	}
	return false
}

func hasBottomBorder(style *docs.ParagraphStyle) bool {
	return style != nil && style.BorderBottom != nil &&
		style.BorderBottom.Width != nil && style.BorderBottom.Width.Magnitude > 0
}

// allRuns reports whether every non-blank text run satisfies pred.
// A paragraph without text never does.
func allRuns(para *docs.Paragraph, pred func(*docs.TextStyle) bool) bool {
	seen := false
	for _, e := range para.Elements {
		if e == nil || e.TextRun == nil || strings.TrimSpace(e.TextRun.Content) == "" {
			continue
		}
		if e.TextRun.TextStyle == nil || !pred(e.TextRun.TextStyle) {
			return false
		}
		seen = true
	}
	return seen
}

// indexAt returns the paragraph whose span contains offset, or -1.
func (b *body) indexAt(offset int64) int {
	for i, s := range b.spans {
		if offset >= s.start && offset < s.end {
			return i
		}
	}
	return -1
}

// utf16Len is the length of s in the UTF-16 code units Docs offsets count.
func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

// sortAnchors orders anchors by position, then id.
func sortAnchors(anchors []domain.Anchor) {
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].ParagraphIndex != anchors[j].ParagraphIndex {
			return anchors[i].ParagraphIndex < anchors[j].ParagraphIndex
		}
		return anchors[i].ID < anchors[j].ID
	})
}
