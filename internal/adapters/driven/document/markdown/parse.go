package markdown

import (
	"regexp"
	"strings"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

var (
	headingLine   = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*$`)
	anchorAttr    = regexp.MustCompile(`\s*\{#([A-Za-z0-9_.:-]+)\}\s*$`)
	checklistLine = regexp.MustCompile(`^(\s*)[-*+]\s+\[([ xX])\]\s?(.*)$`)
	bulletLine    = regexp.MustCompile(`^(\s*)(?:[-*+]|•)\s+(.*)$`)
	italicLine    = regexp.MustCompile(`^(?:\*([^*].*[^*]|[^*])\*|_([^_].*[^_]|[^_])_)$`)
	separatorLine = regexp.MustCompile(`^\s{0,3}(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	fenceLine     = regexp.MustCompile("^\\s*(```|~~~)")
)

// indentWidth is the number of spaces per nesting level.
const indentWidth = 2

// Parse splits Markdown source into paragraphs, one per line, and collects
// heading anchors written as "{#id}" attributes.
// Lines inside fenced code blocks are kept verbatim as KindOther.
func Parse(src string) ([]domain.Paragraph, map[string]int) {
	lines, _ := splitLines(src)

	anchors := make(map[string]int)
	if len(lines) == 0 {
		return nil, anchors
	}

	paragraphs := make([]domain.Paragraph, 0, len(lines))
	inFence := false

	for i, line := range lines {
		p := domain.Paragraph{Index: i}

		switch {
		case fenceLine.MatchString(line):
			inFence = !inFence
			p.Kind, p.Text = domain.KindOther, line

		case inFence:
			p.Kind, p.Text = domain.KindOther, line

		case separatorLine.MatchString(line):
			p.Kind = domain.KindSeparator

		default:
			p = parseLine(i, line)
			if p.Kind == domain.KindHeading {
				if m := anchorAttr.FindStringSubmatch(p.Text); m != nil {
					anchors[m[1]] = i
					p.Text = strings.TrimSpace(p.Text[:len(p.Text)-len(m[0])])
				}
			}
		}

		paragraphs = append(paragraphs, p)
	}

	return paragraphs, anchors
}

// layout is the line ending style of a file.
type layout struct {
	eol          string
	finalNewline bool
}

var defaultLayout = layout{eol: "\n", finalNewline: true}

// splitLines breaks src into lines and reports its line ending style.
func splitLines(src string) ([]string, layout) {
	if src == "" {
		return nil, defaultLayout
	}

	l := layout{eol: "\n", finalNewline: strings.HasSuffix(src, "\n")}
	if strings.Contains(src, "\r\n") {
		l.eol = "\r\n"
	}

	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.TrimSuffix(src, "\n")
	return strings.Split(src, "\n"), l
}

// sourceLine is a line as it was read, split around its paragraph text.
type sourceLine struct {
	raw    string
	text   string
	prefix string
	suffix string
	split  bool
}

func newSourceLine(raw, text string) sourceLine {
	s := sourceLine{raw: raw, text: text}
	if i := strings.LastIndex(raw, text); i >= 0 {
		s.prefix, s.suffix, s.split = raw[:i], raw[i+len(text):], true
	}
	return s
}

// line returns the raw line while the text is unchanged, and the original
// markup around text once it was edited.
func (s sourceLine) line(text string) (string, bool) {
	switch {
	case text == s.text:
		return s.raw, true
	case s.split:
		return s.prefix + text + s.suffix, true
	default:
		return "", false
	}
}

func parseLine(i int, line string) domain.Paragraph {
	p := domain.Paragraph{Index: i, Kind: domain.KindText, Text: line}

	if m := headingLine.FindStringSubmatch(line); m != nil {
		p.Kind = domain.KindHeading
		p.Level = len(m[1])
		p.Text = m[2]
		return p
	}

	if m := checklistLine.FindStringSubmatch(line); m != nil {
		p.Kind = domain.KindChecklist
		p.Level = len(m[1]) / indentWidth
		p.Glyph = domain.GlyphUnchecked
		if m[2] != " " {
			p.Glyph = domain.GlyphChecked
		}
		p.Text = m[3]
		return p
	}

	if m := bulletLine.FindStringSubmatch(line); m != nil {
		p.Kind = domain.KindBullet
		p.Level = len(m[1]) / indentWidth
		p.Glyph = domain.GlyphBullet
		p.Text = m[2]
		return p
	}

	if m := italicLine.FindStringSubmatch(line); m != nil {
		p.Italic = true
		p.Text = m[1] + m[2]
	}
	return p
}

// Format renders paragraphs back to Markdown. anchors maps body indexes to
// anchor ids and is written as heading attributes.
func Format(paragraphs []domain.Paragraph, anchors map[int]string) string {
	return render(paragraphs, anchors, nil, defaultLayout)
}

// render writes paragraphs back to Markdown. Paragraphs found in sources by
// Ref keep their original line; the rest are formatted.
func render(paragraphs []domain.Paragraph, anchors map[int]string, sources map[string]sourceLine, l layout) string {
	lines := make([]string, 0, len(paragraphs))

	for i, p := range paragraphs {
		if src, ok := sources[p.Ref]; ok {
			if line, ok := src.line(p.Text); ok {
				lines = append(lines, line)
				continue
			}
		}

		// A text line directly above "---" would turn into a setext heading.
		if p.Kind == domain.KindSeparator && i > 0 && needsBlankBefore(paragraphs[i-1]) {
			lines = append(lines, "")
		}
		lines = append(lines, formatLine(p, anchors[i]))
	}

	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, l.eol)
	if l.finalNewline {
		out += l.eol
	}
	return out
}

func needsBlankBefore(prev domain.Paragraph) bool {
	switch prev.Kind {
	case domain.KindSeparator, domain.KindHeading:
		return false
	default:
		return prev.Text != ""
	}
}

func formatLine(p domain.Paragraph, anchor string) string {
	indent := strings.Repeat(" ", p.Level*indentWidth)

	switch p.Kind {
	case domain.KindHeading:
		level := p.Level
		if level < 1 {
			level = 1
		}
		line := strings.Repeat("#", level) + " " + p.Text
		if anchor != "" {
			line += " {#" + anchor + "}"
		}
		return line

	case domain.KindChecklist:
		mark := " "
		if p.Glyph == domain.GlyphChecked {
			mark = "x"
		}
		return indent + "- [" + mark + "] " + p.Text

	case domain.KindBullet:
		return indent + "- " + p.Text

	case domain.KindSeparator:
		return "---"

	case domain.KindOther:
		return p.Text

	default:
		if p.Italic && p.Text != "" {
			return "*" + p.Text + "*"
		}
		return p.Text
	}
}
