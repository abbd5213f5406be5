package mcp

import (
	"context"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

// mockActionService is a mock implementation of driving.ActionItemService.
type mockActionService struct {
	refresh *domain.RefreshResult
	push    *domain.PushResult
	err     error
}

func (m *mockActionService) Refresh(_ context.Context) (*domain.RefreshResult, error) {
	return m.refresh, m.err
}

func (m *mockActionService) Push(_ context.Context) (*domain.PushResult, error) {
	return m.push, m.err
}

// mockAnchorService is a mock implementation of driving.AnchorService.
type mockAnchorService struct {
	anchors  []domain.Anchor
	location *driving.AnchorLocation
	err      error
}

func (m *mockAnchorService) List(_ context.Context) ([]domain.Anchor, error) {
	return m.anchors, m.err
}

func (m *mockAnchorService) Locate(_ context.Context) (*driving.AnchorLocation, error) {
	return m.location, m.err
}

func (m *mockAnchorService) Open(_ context.Context) (*driving.AnchorLocation, error) {
	return m.location, m.err
}
