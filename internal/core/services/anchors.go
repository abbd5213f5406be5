package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

// Ensure AnchorService implements the interface.
var _ driving.AnchorService = (*AnchorService)(nil)

// AnchorService lists anchors and jumps to the configured one.
type AnchorService struct {
	doc      driven.Document
	anchorID string
	open     func(url string) error
}

// NewAnchorService creates a new anchor service.
func NewAnchorService(doc driven.Document, anchorID string) *AnchorService {
	return &AnchorService{doc: doc, anchorID: anchorID, open: openURL}
}

// List returns every anchor the document exposes, in body order.
func (s *AnchorService) List(ctx context.Context) ([]domain.Anchor, error) {
	if s.doc == nil {
		return nil, errors.New("document not configured")
	}
	return s.doc.Anchors(ctx)
}

// Locate resolves the configured anchor with the same rules refresh uses.
func (s *AnchorService) Locate(ctx context.Context) (*driving.AnchorLocation, error) {
	if s.doc == nil {
		return nil, errors.New("document not configured")
	}

	paragraphs, err := s.doc.Paragraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	anchors, err := s.doc.Anchors(ctx)
	if err != nil {
		return nil, fmt.Errorf("read anchors: %w", err)
	}
	idx, err := ResolveAnchor(paragraphs, anchors, s.anchorID)
	if err != nil {
		return nil, err
	}

	var anchor domain.Anchor
	for _, a := range anchors {
		if a.ID == s.anchorID {
			anchor = a
			break
		}
	}

	return &driving.AnchorLocation{
		Anchor:  anchor,
		Heading: paragraphs[idx].Text,
		URL:     s.anchorURL(ctx, anchor),
	}, nil
}

// Open locates the anchor and opens it in the default application.
func (s *AnchorService) Open(ctx context.Context) (*driving.AnchorLocation, error) {
	loc, err := s.Locate(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.open(loc.URL); err != nil {
		return loc, fmt.Errorf("open %s: %w", loc.URL, err)
	}
	return loc, nil
}

func (s *AnchorService) anchorURL(ctx context.Context, anchor domain.Anchor) string {
	if linker, ok := s.doc.(driven.AnchorLinker); ok {
		return linker.AnchorURL(anchor)
	}
	info, err := s.doc.Info(ctx)
	if err != nil || info.URL == "" {
		return ""
	}
	return info.URL + "#" + anchor.ID
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
