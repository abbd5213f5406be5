package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure ActionItemService implements the interface.
var _ driving.ActionItemService = (*ActionItemService)(nil)

// ActionItemConfig wires the ports and settings an ActionItemService needs.
// LLM may be nil (refresh then fails its precondition); Tracker may be nil
// (push then fails once there is something to push).
type ActionItemConfig struct {
	Document driven.Document
	LLM      driven.LLMService
	Tracker  driven.Tracker
	Prompts  driven.PromptStore
	Settings domain.AppSettings
}

// ActionItemService runs refresh and push against one open document.
type ActionItemService struct {
	doc      driven.Document
	llm      driven.LLMService
	tracker  driven.Tracker
	anchorID string

	extractor *ActionExtractor
	renderer  *SectionRenderer
	reader    *SectionReader
	trackerOp TrackerOptions
}

// NewActionItemService creates the orchestrator.
func NewActionItemService(cfg ActionItemConfig) *ActionItemService {
	s := cfg.Settings
	return &ActionItemService{
		doc:       cfg.Document,
		llm:       cfg.LLM,
		tracker:   cfg.Tracker,
		anchorID:  s.Document.AnchorID,
		extractor: NewActionExtractor(cfg.LLM, cfg.Prompts, s.Extraction.LookbackDays),
		renderer:  NewSectionRenderer(),
		reader:    NewSectionReader(s.Document.HeadingPhrase),
		trackerOp: TrackerOptions{
			TeamID:     s.Tracker.TeamID,
			ProjectID:  s.Tracker.ProjectID,
			Label:      s.Tracker.Label,
			LabelColor: s.Tracker.LabelColor,
		},
	}
}

// Refresh extracts the open action items from the whole document and
// rewrites the generated section. On extraction failure the document is
// left untouched.
func (s *ActionItemService) Refresh(ctx context.Context) (*domain.RefreshResult, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("%w: set ai.api_key (and ai.provider) first", domain.ErrLLMUnavailable)
	}
	if s.doc == nil {
		return nil, errors.New("document not configured")
	}

	logger.Section("Refresh")

	paragraphs, err := s.doc.Paragraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	anchors, err := s.doc.Anchors(ctx)
	if err != nil {
		return nil, fmt.Errorf("read anchors: %w", err)
	}

	anchorIndex, err := ResolveAnchor(paragraphs, anchors, s.anchorID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Anchor %q resolved to paragraph %d", s.anchorID, anchorIndex)

	extraction, err := s.extractor.Extract(ctx, domain.JoinText(paragraphs))
	if err != nil {
		return nil, err
	}

	written, err := s.renderer.Render(ctx, s.doc, paragraphs, anchorIndex, extraction.Lines)
	if err != nil {
		return nil, err
	}
	logger.Info("Rendered %d action items", written)

	return &domain.RefreshResult{
		Written:   written,
		Extracted: extraction.Returned,
		Cutoff:    extraction.Cutoff,
	}, nil
}

// Push files a tracker issue for every open item without a tracker id and
// marks each created item in place. A failed item is left byte-identical
// and the push moves on; rerunning retries only the unmarked items.
func (s *ActionItemService) Push(ctx context.Context) (*domain.PushResult, error) {
	if s.doc == nil {
		return nil, errors.New("document not configured")
	}

	logger.Section("Push")

	paragraphs, err := s.doc.Paragraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	items := s.reader.Read(paragraphs)
	pending := Pending(items)
	result := &domain.PushResult{
		Eligible:      len(items),
		AlreadyPushed: len(items) - len(pending),
	}
	logger.Debug("Found %d open items, %d pending", len(items), len(pending))

	if len(pending) == 0 {
		return result, nil
	}
	if s.tracker == nil {
		return nil, fmt.Errorf("%w: tracker not configured", domain.ErrTrackerCallFailed)
	}

	info, err := s.doc.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document info: %w", err)
	}

	client := NewTrackerClient(s.tracker, s.trackerOp)
	users, err := client.FetchUsers(ctx)
	if err != nil {
		return nil, err
	}
	label, err := client.EnsureLabel(ctx)
	if err != nil {
		return nil, err
	}
	session := &PushSession{Users: users, Label: label, DocumentURL: info.URL}

	for _, item := range pending {
		if item.Description == "" {
			logger.Warn("Skipping %q: no description to use as the issue title", item.Paragraph.Text)
			result.Skipped++
			continue
		}

		id, err := client.CreateIssue(ctx, session, item)
		if err != nil {
			logger.Warn("Skipping %q: %v", item.CleanText, err)
			result.Failed++
			continue
		}
		if id == "" {
			logger.Warn("Skipping %q: tracker reported the issue was not created", item.CleanText)
			result.Failed++
			continue
		}

		result.Pushed++
		result.Created = append(result.Created, id)

		if err := s.doc.UpdateText(ctx, item.Paragraph, domain.WithTrackerID(item.CleanText, id)); err != nil {
			logger.Error("Created %s but could not mark %q in the document: %v", id, item.CleanText, err)
			continue
		}
		logger.Info("Created %s for %q", id, item.CleanText)
	}

	return result, nil
}
