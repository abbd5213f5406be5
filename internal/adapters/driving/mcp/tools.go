package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

// NoInput is the input schema for tools that take no arguments.
type NoInput struct{}

// RefreshOutput is the output schema for the refresh_section tool.
type RefreshOutput struct {
	Status    string `json:"status"`
	Written   int    `json:"written"`
	Extracted int    `json:"extracted"`
}

// PushOutput is the output schema for the push_to_tracker tool.
type PushOutput struct {
	Status        string   `json:"status"`
	Eligible      int      `json:"eligible"`
	AlreadyPushed int      `json:"already_pushed"`
	Pushed        int      `json:"pushed"`
	Failed        int      `json:"failed"`
	Skipped       int      `json:"skipped"`
	Created       []string `json:"created"`
}

// AnchorsOutput is the output schema for the list_anchors tool.
type AnchorsOutput struct {
	Anchors []AnchorOutput `json:"anchors"`
	Count   int            `json:"count"`
}

// AnchorOutput represents a single document anchor.
type AnchorOutput struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Index int    `json:"paragraph_index"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_section",
		Description: "Rewrite the action item section with the open items from recent meeting notes",
	}, s.handleRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "push_to_tracker",
		Description: "Create tracker issues for unchecked action items that have no tracker id yet",
	}, s.handlePush)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_anchors",
		Description: "List every heading anchor in the document, for locating the action item section",
	}, s.handleListAnchors)
}

// handleRefresh handles the refresh_section tool invocation.
// A missing anchor is reported in the status, not as a tool error.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	result, err := s.ports.Actions.Refresh(ctx)
	if err != nil {
		if status, ok := domain.SetupStatus(err); ok {
			return nil, RefreshOutput{Status: status}, nil
		}
		return nil, RefreshOutput{}, err
	}

	return nil, RefreshOutput{
		Status:    result.Status(),
		Written:   result.Written,
		Extracted: result.Extracted,
	}, nil
}

// handlePush handles the push_to_tracker tool invocation.
func (s *Server) handlePush(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, PushOutput, error) {
	result, err := s.ports.Actions.Push(ctx)
	if err != nil {
		if status, ok := domain.SetupStatus(err); ok {
			return nil, PushOutput{Status: status, Created: []string{}}, nil
		}
		return nil, PushOutput{}, err
	}

	created := result.Created
	if created == nil {
		created = []string{}
	}

	return nil, PushOutput{
		Status:        result.Status(),
		Eligible:      result.Eligible,
		AlreadyPushed: result.AlreadyPushed,
		Pushed:        result.Pushed,
		Failed:        result.Failed,
		Skipped:       result.Skipped,
		Created:       created,
	}, nil
}

// handleListAnchors handles the list_anchors tool invocation.
func (s *Server) handleListAnchors(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ NoInput,
) (*mcp.CallToolResult, AnchorsOutput, error) {
	output := AnchorsOutput{Anchors: []AnchorOutput{}}
	if s.ports.Anchors == nil {
		return nil, output, nil
	}

	anchors, err := s.ports.Anchors.List(ctx)
	if err != nil {
		return nil, AnchorsOutput{}, err
	}

	for _, a := range anchors {
		output.Anchors = append(output.Anchors, AnchorOutput{
			ID:    a.ID,
			Label: a.Label,
			Index: a.ParagraphIndex,
		})
	}
	output.Count = len(output.Anchors)

	return nil, output, nil
}
