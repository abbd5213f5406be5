package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for actionsync resources.
	uriScheme = "actionsync://"

	anchorsURI = uriScheme + "anchors"
	sectionURI = uriScheme + "section"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         anchorsURI,
		Name:        "anchors",
		Description: "Every heading anchor the document exposes",
		MIMEType:    "application/json",
	}, s.handleAnchorsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         sectionURI,
		Name:        "section",
		Description: "Heading and link of the configured action item section",
		MIMEType:    "application/json",
	}, s.handleSectionResource)
}

// handleAnchorsResource returns the document's anchors as JSON.
func (s *Server) handleAnchorsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Anchors == nil {
		return jsonResult(req.Params.URI, []byte("[]")), nil
	}

	anchors, err := s.ports.Anchors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing anchors: %w", err)
	}

	infos := make([]AnchorOutput, len(anchors))
	for i, a := range anchors {
		infos[i] = AnchorOutput{ID: a.ID, Label: a.Label, Index: a.ParagraphIndex}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling anchors: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

// handleSectionResource resolves the configured anchor.
func (s *Server) handleSectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Anchors == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	loc, err := s.ports.Anchors.Locate(ctx)
	if errors.Is(err, domain.ErrAnchorNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("locating section: %w", err)
	}

	type sectionInfo struct {
		AnchorID string `json:"anchor_id"`
		Heading  string `json:"heading"`
		URL      string `json:"url"`
	}

	data, err := json.MarshalIndent(sectionInfo{
		AnchorID: loc.Anchor.ID,
		Heading:  loc.Heading,
		URL:      loc.URL,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling section: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}
