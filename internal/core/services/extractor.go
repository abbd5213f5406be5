package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// extractionTemperature keeps the model close to the text.
const extractionTemperature = 0.2

// extractionMaxTokens bounds the answer; a long meeting series fits comfortably.
const extractionMaxTokens = 2048

// fallbackExtractionPrompt is used when no prompt store is configured.
const fallbackExtractionPrompt = `You are reading running meeting notes. Consider only content dated on or after %s.
List every action item that is still open. Return ONLY a JSON array of objects with
"assignee" (a person's name, or "Unassigned") and "description" (one short imperative sentence).
Return [] if there are none.

Notes:
%s`

// Extraction is the outcome of one extraction call.
type Extraction struct {
	// Items are deduplicated, normalised action items.
	Items []domain.ActionItem

	// Lines are the items formatted for rendering.
	Lines []string

	// Returned is the number of items in the AI answer before dedupe.
	Returned int

	// Cutoff is the start of the recency window.
	Cutoff time.Time
}

// ActionExtractor asks the AI service for the open action items of a document.
type ActionExtractor struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	lookback time.Duration
	now      func() time.Time
}

// NewActionExtractor creates an extractor. prompts may be nil.
func NewActionExtractor(llm driven.LLMService, prompts driven.PromptStore, lookbackDays int) *ActionExtractor {
	if lookbackDays <= 0 {
		lookbackDays = domain.DefaultLookbackDays
	}
	return &ActionExtractor{
		llm:      llm,
		prompts:  prompts,
		lookback: time.Duration(lookbackDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

// Extract sends the document text with the recency cutoff and parses the answer.
// A response without any JSON array yields an empty extraction, not an error.
func (e *ActionExtractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	cutoff := e.now().Add(-e.lookback)
	prompt := fmt.Sprintf(e.template(), cutoff.Format("2006-01-02"), text)

	logger.Debug("Extracting action items with %s (cutoff %s, %d chars)",
		e.llm.ModelName(), cutoff.Format("2006-01-02"), len(text))

	raw, err := e.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	items, found, err := ParseActionItems(raw)
	if err != nil {
		logger.Payload("AI response", raw)
		return nil, err
	}
	if !found {
		logger.Warn("AI response contained no JSON array; treating as no action items")
		logger.Payload("AI response", raw)
	}

	deduped := domain.DedupeActionItems(items)
	lines := make([]string, len(deduped))
	for i, item := range deduped {
		lines[i] = item.Line()
	}

	logger.Debug("Extracted %d items, %d after dedupe", len(items), len(deduped))

	return &Extraction{
		Items:    deduped,
		Lines:    lines,
		Returned: len(items),
		Cutoff:   cutoff,
	}, nil
}

func (e *ActionExtractor) template() string {
	if e.prompts == nil {
		return fallbackExtractionPrompt
	}
	prompt, err := e.prompts.Load(driven.PromptActionExtraction)
	if err != nil || strings.Count(prompt, "%s") != 2 {
		logger.Warn("Using built-in extraction prompt: custom prompt unavailable or missing placeholders")
		return fallbackExtractionPrompt
	}
	return prompt
}

// ParseActionItems pulls the span from the first '[' to the last ']' out of a
// free-text answer and decodes it as a JSON array of action items.
// found is false when the answer has no such span. A span that is not a
// valid array of objects is an ErrExtractionFailed.
func ParseActionItems(raw string) (items []domain.ActionItem, found bool, err error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return []domain.ActionItem{}, false, nil
	}

	var decoded []domain.ActionItem
	if err := json.Unmarshal([]byte(raw[start:end+1]), &decoded); err != nil {
		return nil, true, fmt.Errorf("%w: decode action list: %w", domain.ErrExtractionFailed, err)
	}

	items = make([]domain.ActionItem, 0, len(decoded))
	for _, item := range decoded {
		item = item.Normalise()
		if item.Description == "" {
			continue
		}
		items = append(items, item)
	}
	return items, true, nil
}
