package markdown

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

func writeNotes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.md"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpen_Info(t *testing.T) {
	path := writeNotes(t, "## Not the title\n# Team notes\n")
	doc, err := Open(path)
	require.NoError(t, err)
	defer doc.Close()

	info, err := doc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, info.ID)
	assert.Equal(t, "Team notes", info.Title)
	assert.True(t, strings.HasPrefix(info.URL, "file://"))
	assert.True(t, strings.HasSuffix(info.URL, "/notes.md"))
}

func TestOpen_TitleFallsBackToFileName(t *testing.T) {
	doc, err := Open(writeNotes(t, "just text\n"))
	require.NoError(t, err)

	info, err := doc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "notes.md", info.Title)
}

func TestDocument_Anchors(t *testing.T) {
	doc, err := Open(writeNotes(t, "# Notes\n\n# Action Items {#actions}\n"))
	require.NoError(t, err)

	anchors, err := doc.Anchors(context.Background())
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	assert.Equal(t, "actions", anchors[0].ID)
	assert.Equal(t, 2, anchors[0].ParagraphIndex)
	assert.Equal(t, "Action Items", anchors[0].Label)

	assert.True(t, strings.HasSuffix(doc.AnchorURL(anchors[0]), "/notes.md#actions"))
}

func TestDocument_ReplaceRangePersists(t *testing.T) {
	path := writeNotes(t, "# Action Items {#actions}\nold line\n# Notes\n")
	doc, err := Open(path)
	require.NoError(t, err)

	err = doc.ReplaceRange(context.Background(), 1, 2, []domain.Paragraph{
		{Kind: domain.KindText, Text: "Last updated", Italic: true},
		{Kind: domain.KindSeparator},
		{Kind: domain.KindChecklist, Glyph: domain.GlyphUnchecked, Text: "@Ana Send the deck"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Action Items {#actions}\n*Last updated*\n\n---\n- [ ] @Ana Send the deck\n# Notes\n", string(data))

	reopened, err := Open(path)
	require.NoError(t, err)
	anchors, err := reopened.Anchors(context.Background())
	require.NoError(t, err)
	require.Len(t, anchors, 1)
	assert.Equal(t, 0, anchors[0].ParagraphIndex)
}

func TestDocument_ReplaceRangeInvalid(t *testing.T) {
	path := writeNotes(t, "# A\n")
	doc, err := Open(path)
	require.NoError(t, err)

	err = doc.ReplaceRange(context.Background(), 0, 5, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# A\n", string(data))
}

func TestDocument_UpdateText(t *testing.T) {
	path := writeNotes(t, "# Action Items\n- [ ] @Ana Send the deck\n")
	doc, err := Open(path)
	require.NoError(t, err)

	paragraphs, err := doc.Paragraphs(context.Background())
	require.NoError(t, err)

	err = doc.UpdateText(context.Background(), paragraphs[1], "@Ana Send the deck (ENG-12)")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Action Items\n- [ ] @Ana Send the deck (ENG-12)\n", string(data))
}

func TestDocument_UpdateTextStale(t *testing.T) {
	doc, err := Open(writeNotes(t, "- [ ] original\n"))
	require.NoError(t, err)

	paragraphs, err := doc.Paragraphs(context.Background())
	require.NoError(t, err)
	stale := paragraphs[0]
	stale.Text = "something else"

	err = doc.UpdateText(context.Background(), stale, "new")
	assert.ErrorIs(t, err, domain.ErrStaleParagraph)
}

func TestDocument_KeepsFileMode(t *testing.T) {
	path := writeNotes(t, "# A\n")
	doc, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, doc.ReplaceRange(context.Background(), 1, 1, []domain.Paragraph{{Kind: domain.KindText, Text: "b"}}))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), st.Mode().Perm())
}

const mixedStyles = "Setext title\n" +
	"===\n" +
	"\n" +
	"Setext two\n" +
	"---\n" +
	"* [ ] someone else's todo\n" +
	"_decision recorded_\n" +
	"+ plus bullet\n" +
	"   - three-space nested\n" +
	"\n" +
	"## Action Items {#actions}\n" +
	"\n" +
	"_Last updated 2026-10-12 09:00 UTC_\n" +
	"***\n" +
	"* [ ] @Ana Send the deck\n" +
	"* [ ] @Bo Book the room"

func TestDocument_UpdateTextLeavesOtherLinesUntouched(t *testing.T) {
	path := writeNotes(t, mixedStyles)
	doc, err := Open(path)
	require.NoError(t, err)

	paragraphs, err := doc.Paragraphs(context.Background())
	require.NoError(t, err)
	last := paragraphs[len(paragraphs)-1]
	require.Equal(t, "@Bo Book the room", last.Text)

	require.NoError(t, doc.UpdateText(context.Background(), last, "@Bo Book the room (ENG-9)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := strings.TrimSuffix(mixedStyles, "* [ ] @Bo Book the room") + "* [ ] @Bo Book the room (ENG-9)"
	assert.Equal(t, want, string(data))
}

func TestDocument_UpdateTextKeepsLineMarkup(t *testing.T) {
	path := writeNotes(t, "# Notes\r\n   * [ ] @Ana Send the deck\r\n_kept_\r\n")
	doc, err := Open(path)
	require.NoError(t, err)

	paragraphs, err := doc.Paragraphs(context.Background())
	require.NoError(t, err)

	require.NoError(t, doc.UpdateText(context.Background(), paragraphs[1], "@Ana Send the deck (ENG-12)"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Notes\r\n   * [ ] @Ana Send the deck (ENG-12)\r\n_kept_\r\n", string(data))
}

func TestDocument_ReplaceRangeLeavesOutsideLinesUntouched(t *testing.T) {
	path := writeNotes(t, mixedStyles+"\n# Later\n_trailing italic_\n")
	doc, err := Open(path)
	require.NoError(t, err)

	paragraphs, err := doc.Paragraphs(context.Background())
	require.NoError(t, err)
	start, end := 11, 16
	require.Equal(t, "Action Items", paragraphs[start-1].Text)
	require.Equal(t, "Later", paragraphs[end].Text)

	err = doc.ReplaceRange(context.Background(), start, end, []domain.Paragraph{
		{Kind: domain.KindText, Text: "Last updated", Italic: true},
		{Kind: domain.KindSeparator},
		{Kind: domain.KindChecklist, Glyph: domain.GlyphUnchecked, Text: "@Ana Send the deck"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	head := strings.SplitAfter(mixedStyles, "## Action Items {#actions}\n")[0]
	assert.Equal(t, head+"*Last updated*\n\n---\n- [ ] @Ana Send the deck\n# Later\n_trailing italic_\n", string(data))
}
