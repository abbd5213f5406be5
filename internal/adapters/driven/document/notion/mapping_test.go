package notion

import (
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

func rt(text string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type:        notionapi.ObjectTypeText,
		Text:        &notionapi.Text{Content: text},
		PlainText:   text,
		Annotations: &notionapi.Annotations{},
	}}
}

func block(id string, t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, ID: notionapi.BlockID(id), Type: t}
}

func TestNormalizePageID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", "0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"dashed", "01234567-89ab-cdef-0123-456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"url", "https://www.notion.so/team/Weekly-sync-0123456789ABCDEF0123456789abcdef?pvs=4", "0123456789abcdef0123456789abcdef"},
		{"url with block fragment", "https://www.notion.so/Weekly-0123456789abcdef0123456789abcdef#fedcba9876543210fedcba9876543210", "0123456789abcdef0123456789abcdef"},
		{"slug ending in hex letter", "https://www.notion.so/Weekly-sync-fedcba9876543210fedcba9876543210", "fedcba9876543210fedcba9876543210"},
		{"slug that is all hex", "https://www.notion.so/acme/Cafe-Bead-0123456789abcdef0123456789abcdef", "0123456789abcdef0123456789abcdef"},
		{"trailing slash", "https://www.notion.so/acme/0123456789abcdef0123456789abcdef/", "0123456789abcdef0123456789abcdef"},
		{"dashed id in url", "https://www.notion.so/Notes-01234567-89ab-cdef-0123-456789abcdef", "0123456789abcdef0123456789abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePageID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePageID_Invalid(t *testing.T) {
	for _, input := range []string{
		"not-a-page",
		"",
		"https://www.notion.so/Weekly-sync",
		"https://www.notion.so/Weekly-0123456789abcdef0123456789abcdeg",
	} {
		_, err := NormalizePageID(input)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, input)
	}
}

func TestMapBlock(t *testing.T) {
	italic := rt("Last updated")
	italic[0].Annotations.Italic = true

	tests := []struct {
		name  string
		block notionapi.Block
		want  domain.Paragraph
	}{
		{
			"heading 1",
			&notionapi.Heading1Block{BasicBlock: block("b1", notionapi.BlockTypeHeading1), Heading1: notionapi.Heading{RichText: rt("Action Items")}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindHeading, Level: 1, Text: "Action Items"},
		},
		{
			"heading 3",
			&notionapi.Heading3Block{BasicBlock: block("b1", notionapi.BlockTypeHeading3), Heading3: notionapi.Heading{RichText: rt("Minor")}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindHeading, Level: 3, Text: "Minor"},
		},
		{
			"italic paragraph",
			&notionapi.ParagraphBlock{BasicBlock: block("b1", notionapi.BlockTypeParagraph), Paragraph: notionapi.Paragraph{RichText: italic}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindText, Text: "Last updated", Italic: true},
		},
		{
			"open to-do",
			&notionapi.ToDoBlock{BasicBlock: block("b1", notionapi.BlockTypeToDo), ToDo: notionapi.ToDo{RichText: rt("@Ana Send")}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindChecklist, Glyph: domain.GlyphUnchecked, Text: "@Ana Send"},
		},
		{
			"checked to-do",
			&notionapi.ToDoBlock{BasicBlock: block("b1", notionapi.BlockTypeToDo), ToDo: notionapi.ToDo{RichText: rt("done"), Checked: true}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindChecklist, Glyph: domain.GlyphChecked, Text: "done"},
		},
		{
			"bullet",
			&notionapi.BulletedListItemBlock{BasicBlock: block("b1", notionapi.BlockTypeBulletedListItem), BulletedListItem: notionapi.ListItem{RichText: rt("note")}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindBullet, Glyph: domain.GlyphBullet, Text: "note"},
		},
		{
			"divider",
			&notionapi.DividerBlock{BasicBlock: block("b1", notionapi.BlockTypeDivider)},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindSeparator},
		},
		{
			"quote is other",
			&notionapi.QuoteBlock{BasicBlock: block("b1", notionapi.BlockTypeQuote), Quote: notionapi.Quote{RichText: rt("quoted")}},
			domain.Paragraph{Index: 3, Ref: "b1", Kind: domain.KindOther, Text: "quoted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapBlock(3, tt.block))
		})
	}
}

func TestToBlock(t *testing.T) {
	todo, ok := toBlock(domain.Paragraph{Kind: domain.KindChecklist, Glyph: domain.GlyphUnchecked, Text: "x"}).(*notionapi.ToDoBlock)
	require.True(t, ok)
	assert.Equal(t, notionapi.BlockTypeToDo, todo.Type)
	assert.Equal(t, notionapi.ObjectTypeBlock, todo.Object)
	assert.False(t, todo.ToDo.Checked)
	assert.Equal(t, "x", plainText(todo.ToDo.RichText))

	para, ok := toBlock(domain.Paragraph{Kind: domain.KindText, Text: "Last", Italic: true}).(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.True(t, allItalic(para.Paragraph.RichText))

	_, ok = toBlock(domain.Paragraph{Kind: domain.KindSeparator}).(*notionapi.DividerBlock)
	assert.True(t, ok)

	_, ok = toBlock(domain.Paragraph{Kind: domain.KindHeading, Level: 2, Text: "H"}).(*notionapi.Heading2Block)
	assert.True(t, ok)
	_, ok = toBlock(domain.Paragraph{Kind: domain.KindHeading, Level: 5, Text: "H"}).(*notionapi.Heading3Block)
	assert.True(t, ok)

	empty, ok := toBlock(domain.Paragraph{Kind: domain.KindText}).(*notionapi.ParagraphBlock)
	require.True(t, ok)
	assert.NotNil(t, empty.Paragraph.RichText)
	assert.Empty(t, empty.Paragraph.RichText)
}

func TestRichText_SplitsLongText(t *testing.T) {
	text := strings.Repeat("a", maxTextLength) + "bc"

	out := richText(text, nil)

	require.Len(t, out, 2)
	assert.Equal(t, "bc", out[1].Text.Content)
	assert.Equal(t, text, plainText(out))
}

func TestUpdateRequest_KeepsCheckedAndAnnotations(t *testing.T) {
	text := rt("old")
	text[0].Annotations.Bold = true
	live := &notionapi.ToDoBlock{BasicBlock: block("b1", notionapi.BlockTypeToDo), ToDo: notionapi.ToDo{RichText: text, Checked: true}}

	req, err := updateRequest(live, "new (ENG-1)")

	require.NoError(t, err)
	require.NotNil(t, req.ToDo)
	assert.True(t, req.ToDo.Checked)
	assert.Equal(t, "new (ENG-1)", plainText(req.ToDo.RichText))
	assert.True(t, req.ToDo.RichText[0].Annotations.Bold)
}

func TestUpdateRequest_Unsupported(t *testing.T) {
	_, err := updateRequest(&notionapi.DividerBlock{BasicBlock: block("b1", notionapi.BlockTypeDivider)}, "x")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPageTitle(t *testing.T) {
	page := &notionapi.Page{Properties: notionapi.Properties{
		"Name": &notionapi.TitleProperty{Title: rt("Weekly sync")},
	}}
	assert.Equal(t, "Weekly sync", pageTitle(page))

	assert.Equal(t, "Untitled", pageTitle(&notionapi.Page{}))
}

func TestCompactID(t *testing.T) {
	assert.Equal(t, "11112222333344445555666677778888",
		compactID("11112222-3333-4444-5555-666677778888"))
}
