package notion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// maxTextLength is the Notion limit for one rich text object.
const maxTextLength = 2000

// pageIDLength is the length of a page id without dashes.
const pageIDLength = 32

var hexID = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// NormalizePageID accepts a page id with or without dashes, or a page URL,
// and returns the 32 character id. In a URL the id is the tail of the last
// path segment, after the page title slug.
func NormalizePageID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	segment := strings.TrimSuffix(s, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	compact := strings.ReplaceAll(segment, "-", "")
	if len(compact) < pageIDLength {
		return "", fmt.Errorf("notion: %q is not a page id: %w", s, domain.ErrInvalidInput)
	}
	id := compact[len(compact)-pageIDLength:]
	if !hexID.MatchString(id) {
		return "", fmt.Errorf("notion: %q is not a page id: %w", s, domain.ErrInvalidInput)
	}
	return strings.ToLower(id), nil
}

// compactID strips the dashes Notion puts in block ids, as its links do.
func compactID(id notionapi.BlockID) string {
	return strings.ReplaceAll(string(id), "-", "")
}

// mapBlock converts a top-level block into a paragraph.
// Blocks the adapter cannot edit become KindOther with their text kept.
func mapBlock(idx int, block notionapi.Block) domain.Paragraph {
	p := domain.Paragraph{
		Index: idx,
		Ref:   string(block.GetID()),
		Kind:  domain.KindOther,
	}

	switch b := block.(type) {
	case *notionapi.Heading1Block:
		p.Kind, p.Level, p.Text = domain.KindHeading, 1, plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		p.Kind, p.Level, p.Text = domain.KindHeading, 2, plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		p.Kind, p.Level, p.Text = domain.KindHeading, 3, plainText(b.Heading3.RichText)
	case *notionapi.ParagraphBlock:
		p.Kind, p.Text = domain.KindText, plainText(b.Paragraph.RichText)
		p.Italic = allItalic(b.Paragraph.RichText)
	case *notionapi.ToDoBlock:
		p.Kind, p.Text = domain.KindChecklist, plainText(b.ToDo.RichText)
		p.Glyph = domain.GlyphUnchecked
		if b.ToDo.Checked {
			p.Glyph = domain.GlyphChecked
		}
	case *notionapi.BulletedListItemBlock:
		p.Kind, p.Glyph, p.Text = domain.KindBullet, domain.GlyphBullet, plainText(b.BulletedListItem.RichText)
	case *notionapi.DividerBlock:
		p.Kind = domain.KindSeparator
	default:
		p.Text = block.GetRichTextString()
	}

	return p
}

// plainText joins rich text. Blocks built locally carry only Text.Content.
func plainText(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range rt {
		switch {
		case r.PlainText != "":
			sb.WriteString(r.PlainText)
		case r.Text != nil:
			sb.WriteString(r.Text.Content)
		}
	}
	return sb.String()
}

func allItalic(rt []notionapi.RichText) bool {
	if len(rt) == 0 {
		return false
	}
	for _, r := range rt {
		if r.Annotations == nil || !r.Annotations.Italic {
			return false
		}
	}
	return true
}

// richText builds rich text for text, split at the Notion length limit.
// annotations may be nil.
func richText(text string, annotations *notionapi.Annotations) []notionapi.RichText {
	out := []notionapi.RichText{}
	runes := []rune(text)
	for len(runes) > 0 {
		n := min(len(runes), maxTextLength)
		out = append(out, notionapi.RichText{
			Type:        notionapi.ObjectTypeText,
			Text:        &notionapi.Text{Content: string(runes[:n])},
			Annotations: annotations,
		})
		runes = runes[n:]
	}
	return out
}

// toBlock builds the block appended for a paragraph.
func toBlock(p domain.Paragraph) notionapi.Block {
	var annotations *notionapi.Annotations
	if p.Italic {
		annotations = &notionapi.Annotations{Italic: true}
	}
	rt := richText(p.Text, annotations)

	switch p.Kind {
	case domain.KindHeading:
		h := notionapi.Heading{RichText: rt}
		switch {
		case p.Level <= 1:
			return &notionapi.Heading1Block{BasicBlock: basic(notionapi.BlockTypeHeading1), Heading1: h}
		case p.Level == 2:
			return &notionapi.Heading2Block{BasicBlock: basic(notionapi.BlockTypeHeading2), Heading2: h}
		default:
			return &notionapi.Heading3Block{BasicBlock: basic(notionapi.BlockTypeHeading3), Heading3: h}
		}
	case domain.KindChecklist:
		return &notionapi.ToDoBlock{
			BasicBlock: basic(notionapi.BlockTypeToDo),
			ToDo:       notionapi.ToDo{RichText: rt, Checked: p.Glyph == domain.GlyphChecked},
		}
	case domain.KindBullet:
		return &notionapi.BulletedListItemBlock{
			BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
			BulletedListItem: notionapi.ListItem{RichText: rt},
		}
	case domain.KindSeparator:
		return &notionapi.DividerBlock{BasicBlock: basic(notionapi.BlockTypeDivider)}
	default:
		return &notionapi.ParagraphBlock{
			BasicBlock: basic(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: rt},
		}
	}
}

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

// blockText returns the text of a live block the adapter can edit.
func blockText(block notionapi.Block) (string, bool) {
	switch b := block.(type) {
	case *notionapi.Heading1Block:
		return plainText(b.Heading1.RichText), true
	case *notionapi.Heading2Block:
		return plainText(b.Heading2.RichText), true
	case *notionapi.Heading3Block:
		return plainText(b.Heading3.RichText), true
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText), true
	case *notionapi.ToDoBlock:
		return plainText(b.ToDo.RichText), true
	case *notionapi.BulletedListItemBlock:
		return plainText(b.BulletedListItem.RichText), true
	default:
		return "", false
	}
}

// updateRequest replaces the text of a live block, keeping its type, the
// annotations of its first run and the checked state of a to-do.
func updateRequest(block notionapi.Block, text string) (*notionapi.BlockUpdateRequest, error) {
	switch b := block.(type) {
	case *notionapi.Heading1Block:
		return &notionapi.BlockUpdateRequest{Heading1: &notionapi.Heading{RichText: richText(text, firstAnnotations(b.Heading1.RichText))}}, nil
	case *notionapi.Heading2Block:
		return &notionapi.BlockUpdateRequest{Heading2: &notionapi.Heading{RichText: richText(text, firstAnnotations(b.Heading2.RichText))}}, nil
	case *notionapi.Heading3Block:
		return &notionapi.BlockUpdateRequest{Heading3: &notionapi.Heading{RichText: richText(text, firstAnnotations(b.Heading3.RichText))}}, nil
	case *notionapi.ParagraphBlock:
		return &notionapi.BlockUpdateRequest{Paragraph: &notionapi.Paragraph{RichText: richText(text, firstAnnotations(b.Paragraph.RichText))}}, nil
	case *notionapi.ToDoBlock:
		return &notionapi.BlockUpdateRequest{ToDo: &notionapi.ToDo{
			RichText: richText(text, firstAnnotations(b.ToDo.RichText)),
			Checked:  b.ToDo.Checked,
		}}, nil
	case *notionapi.BulletedListItemBlock:
		return &notionapi.BlockUpdateRequest{BulletedListItem: &notionapi.ListItem{RichText: richText(text, firstAnnotations(b.BulletedListItem.RichText))}}, nil
	default:
		return nil, fmt.Errorf("notion: %s block has no editable text: %w", block.GetType(), domain.ErrInvalidInput)
	}
}

func firstAnnotations(rt []notionapi.RichText) *notionapi.Annotations {
	if len(rt) == 0 || rt[0].Annotations == nil {
		return nil
	}
	a := *rt[0].Annotations
	return &a
}

// pageTitle reads the title property, which is "title" on plain pages and
// usually "Name" on database rows.
func pageTitle(page *notionapi.Page) string {
	for _, key := range []string{"title", "Name"} {
		if prop, ok := page.Properties[key]; ok {
			if title, ok := prop.(*notionapi.TitleProperty); ok {
				return plainText(title.Title)
			}
		}
	}
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return plainText(title.Title)
		}
	}
	return "Untitled"
}
