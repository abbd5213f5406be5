package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

func fixedExtractor(llm driven.LLMService, prompts driven.PromptStore) *ActionExtractor {
	e := NewActionExtractor(llm, prompts, 28)
	e.now = func() time.Time { return time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC) }
	return e
}

func TestParseActionItems(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      []domain.ActionItem
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "plain array",
			raw:       `[{"assignee":"Alice","description":"Send deck"}]`,
			want:      []domain.ActionItem{{Assignee: "Alice", Description: "Send deck"}},
			wantFound: true,
		},
		{
			name: "array wrapped in prose and code fence",
			raw: "Here you go:\n```json\n[{\"assignee\":\"\",\"description\":\"Book room\"}," +
				"{\"assignee\":\"Bob\",\"description\":\"Fix [login] bug\"}]\n```\nLet me know!",
			want: []domain.ActionItem{
				{Assignee: domain.Unassigned, Description: "Book room"},
				{Assignee: "Bob", Description: "Fix [login] bug"},
			},
			wantFound: true,
		},
		{
			name:      "empty array",
			raw:       "[]",
			want:      []domain.ActionItem{},
			wantFound: true,
		},
		{
			name:      "no array at all",
			raw:       "There are no action items in these notes.",
			want:      []domain.ActionItem{},
			wantFound: false,
		},
		{
			name:      "closing bracket before opening",
			raw:       "] nothing [",
			want:      []domain.ActionItem{},
			wantFound: false,
		},
		{
			name:      "empty descriptions dropped",
			raw:       `[{"assignee":"Alice","description":"  "},{"assignee":"Bob","description":"Ship"}]`,
			want:      []domain.ActionItem{{Assignee: "Bob", Description: "Ship"}},
			wantFound: true,
		},
		{
			name:      "invalid json inside span",
			raw:       `[{"assignee": "Alice", "description": }]`,
			wantFound: true,
			wantErr:   true,
		},
		{
			name:      "array of strings",
			raw:       `["Send deck"]`,
			wantFound: true,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, found, err := ParseActionItems(tt.raw)

			assert.Equal(t, tt.wantFound, found)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrExtractionFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, items)
		})
	}
}

func TestActionExtractor_Extract(t *testing.T) {
	llm := &mockLLM{response: `Sure! [
		{"assignee": "Alice", "description": "Send the deck"},
		{"assignee": "alice", "description": "send the deck"},
		{"assignee": "", "description": "Book the room"}
	]`}
	e := fixedExtractor(llm, nil)

	extraction, err := e.Extract(context.Background(), "meeting notes")

	require.NoError(t, err)
	assert.Equal(t, 3, extraction.Returned)
	assert.Equal(t, []string{"@Alice Send the deck", "Book the room"}, extraction.Lines)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), extraction.Cutoff)

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "2024-03-01")
	assert.Contains(t, llm.prompts[0], "meeting notes")
	assert.InDelta(t, 0.2, llm.opts[0].Temperature, 0.0001)
}

func TestActionExtractor_Extract_UsesPromptStore(t *testing.T) {
	llm := &mockLLM{response: "[]"}
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptActionExtraction: "CUSTOM since %s :: %s",
	}}
	e := fixedExtractor(llm, prompts)

	_, err := e.Extract(context.Background(), "body")

	require.NoError(t, err)
	assert.Equal(t, "CUSTOM since 2024-03-01 :: body", llm.prompts[0])
}

func TestActionExtractor_Extract_BadCustomPromptFallsBack(t *testing.T) {
	llm := &mockLLM{response: "[]"}
	prompts := &mockPromptStore{prompts: map[string]string{
		driven.PromptActionExtraction: "no placeholders here",
	}}
	e := fixedExtractor(llm, prompts)

	_, err := e.Extract(context.Background(), "body")

	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "JSON array")
}

func TestActionExtractor_Extract_NoArrayIsEmpty(t *testing.T) {
	e := fixedExtractor(&mockLLM{response: "I could not find anything."}, nil)

	extraction, err := e.Extract(context.Background(), "notes")

	require.NoError(t, err)
	assert.Empty(t, extraction.Lines)
}

func TestActionExtractor_Extract_Errors(t *testing.T) {
	t.Run("service error", func(t *testing.T) {
		e := fixedExtractor(&mockLLM{err: errors.New("quota exceeded")}, nil)

		_, err := e.Extract(context.Background(), "notes")

		assert.ErrorIs(t, err, domain.ErrExtractionFailed)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("malformed array", func(t *testing.T) {
		e := fixedExtractor(&mockLLM{response: "[{oops}]"}, nil)

		_, err := e.Extract(context.Background(), "notes")

		assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	})

	t.Run("no service", func(t *testing.T) {
		e := NewActionExtractor(nil, nil, 0)

		_, err := e.Extract(context.Background(), "notes")

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestNewActionExtractor_DefaultLookback(t *testing.T) {
	e := NewActionExtractor(&mockLLM{}, nil, 0)
	assert.Equal(t, 28*24*time.Hour, e.lookback)
}
