package cli

import (
	"context"
	"strings"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

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

type mockAnchorService struct {
	anchors  []domain.Anchor
	location *driving.AnchorLocation
	err      error
	opened   bool
}

func (m *mockAnchorService) List(_ context.Context) ([]domain.Anchor, error) {
	return m.anchors, m.err
}

func (m *mockAnchorService) Locate(_ context.Context) (*driving.AnchorLocation, error) {
	return m.location, m.err
}

func (m *mockAnchorService) Open(_ context.Context) (*driving.AnchorLocation, error) {
	m.opened = true
	return m.location, m.err
}

type mockSettingsService struct {
	settings    domain.AppSettings
	values      map[string]string
	validateErr error
	pingErr     error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		values:   make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetValue(key, value string) error {
	if !strings.Contains(key, ".") {
		return domain.ErrInvalidInput
	}
	m.values[key] = strings.TrimSpace(value)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"ai.provider", "ai.api_key", "document.anchor_id"}
}

func (m *mockSettingsService) IsSecret(key string) bool {
	return strings.HasSuffix(key, "api_key")
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.pingErr
}

// setupTestServices installs the given services and returns a restore func.
func setupTestServices(actions driving.ActionItemService, anchors driving.AnchorService,
	settings driving.SettingsService) func() {
	origActions, origAnchors, origSettings := actionService, anchorService, settingsService
	actionService, anchorService, settingsService = actions, anchors, settings
	return func() {
		actionService, anchorService, settingsService = origActions, origAnchors, origSettings
	}
}
