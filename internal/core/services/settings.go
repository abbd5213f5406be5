package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyAIProvider        = "ai.provider"
	KeyAIModel           = "ai.model"
	KeyAIBaseURL         = "ai.base_url"
	KeyAIAPIKey          = "ai.api_key"
	KeyDocumentBackend   = "document.backend"
	KeyDocumentID        = "document.id"
	KeyAnchorID          = "document.anchor_id"
	KeyHeadingPhrase     = "document.heading_phrase"
	KeyCredentialsFile   = "document.credentials_file"
	KeyNotionAPIKey      = "notion.api_key"
	KeyTrackerProvider   = "tracker.provider"
	KeyTrackerAPIKey     = "tracker.api_key"
	KeyTrackerTeamID     = "tracker.team_id"
	KeyTrackerProjectID  = "tracker.project_id"
	KeyTrackerLabel      = "tracker.label"
	KeyTrackerLabelColor = "tracker.label_color"
	KeyGitHubOwner       = "github.owner"
	KeyGitHubRepo        = "github.repo"
	KeyGitHubIDPrefix    = "github.id_prefix"
	KeyLookbackDays      = "extraction.lookback_days"
)

var settingKeys = []string{
	KeyAIProvider, KeyAIModel, KeyAIBaseURL, KeyAIAPIKey,
	KeyDocumentBackend, KeyDocumentID, KeyAnchorID, KeyHeadingPhrase, KeyCredentialsFile, KeyNotionAPIKey,
	KeyTrackerProvider, KeyTrackerAPIKey, KeyTrackerTeamID, KeyTrackerProjectID,
	KeyTrackerLabel, KeyTrackerLabelColor,
	KeyGitHubOwner, KeyGitHubRepo, KeyGitHubIDPrefix,
	KeyLookbackDays,
}

var secretKeys = map[string]bool{
	KeyAIAPIKey:      true,
	KeyTrackerAPIKey: true,
	KeyNotionAPIKey:  true,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(defaults.LLM.Provider)
	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: provider,
			Model:    s.getString(KeyAIModel, domain.DefaultLLMModels()[provider]),
			BaseURL:  s.configStore.GetString(KeyAIBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(KeyAIAPIKey),
		},
		Document: domain.DocumentSettings{
			Backend:         s.getBackend(defaults.Document.Backend),
			ID:              s.configStore.GetString(KeyDocumentID),
			AnchorID:        s.configStore.GetString(KeyAnchorID),
			HeadingPhrase:   s.getString(KeyHeadingPhrase, defaults.Document.HeadingPhrase),
			CredentialsFile: s.configStore.GetString(KeyCredentialsFile),
			NotionAPIKey:    s.configStore.GetString(KeyNotionAPIKey),
		},
		Tracker: domain.TrackerSettings{
			Provider:   s.getTracker(defaults.Tracker.Provider),
			APIKey:     s.configStore.GetString(KeyTrackerAPIKey),
			TeamID:     s.configStore.GetString(KeyTrackerTeamID),
			ProjectID:  s.configStore.GetString(KeyTrackerProjectID),
			Label:      s.getString(KeyTrackerLabel, defaults.Tracker.Label),
			LabelColor: s.getString(KeyTrackerLabelColor, defaults.Tracker.LabelColor),
			Owner:      s.configStore.GetString(KeyGitHubOwner),
			Repo:       s.configStore.GetString(KeyGitHubRepo),
			IDPrefix:   s.getString(KeyGitHubIDPrefix, defaults.Tracker.IDPrefix),
		},
		Extraction: domain.ExtractionSettings{
			LookbackDays: s.getInt(KeyLookbackDays, defaults.Extraction.LookbackDays),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{KeyAIProvider, settings.LLM.Provider.String(), false},
		{KeyAIModel, settings.LLM.Model, false},
		{KeyAIBaseURL, settings.LLM.BaseURL, false},
		{KeyAIAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{KeyDocumentBackend, settings.Document.Backend.String(), false},
		{KeyDocumentID, settings.Document.ID, false},
		{KeyAnchorID, settings.Document.AnchorID, false},
		{KeyHeadingPhrase, settings.Document.HeadingPhrase, false},
		{KeyCredentialsFile, settings.Document.CredentialsFile, false},
		{KeyNotionAPIKey, settings.Document.NotionAPIKey, settings.Document.NotionAPIKey == ""},
		{KeyTrackerProvider, settings.Tracker.Provider.String(), false},
		{KeyTrackerAPIKey, settings.Tracker.APIKey, settings.Tracker.APIKey == ""},
		{KeyTrackerTeamID, settings.Tracker.TeamID, false},
		{KeyTrackerProjectID, settings.Tracker.ProjectID, false},
		{KeyTrackerLabel, settings.Tracker.Label, false},
		{KeyTrackerLabelColor, settings.Tracker.LabelColor, false},
		{KeyGitHubOwner, settings.Tracker.Owner, false},
		{KeyGitHubRepo, settings.Tracker.Repo, false},
		{KeyGitHubIDPrefix, settings.Tracker.IDPrefix, false},
		{KeyLookbackDays, settings.Extraction.LookbackDays, false},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetValue stores a single setting after checking the key and value.
func (s *SettingsService) SetValue(key, value string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	value = strings.TrimSpace(value)

	switch key {
	case KeyAIProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("invalid AI provider %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyDocumentBackend:
		if !domain.DocumentBackend(value).IsValid() {
			return fmt.Errorf("invalid document backend %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyTrackerProvider:
		if !domain.TrackerProvider(value).IsValid() {
			return fmt.Errorf("invalid tracker %q: %w", value, domain.ErrInvalidInput)
		}
	case KeyLookbackDays:
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			return fmt.Errorf("lookback days must be a positive integer: %w", domain.ErrInvalidInput)
		}
		return s.configStore.Set(key, days)
	}

	return s.configStore.Set(key, value)
}

// Keys returns every settable config key in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// IsSecret reports whether a key holds a credential.
func (s *SettingsService) IsSecret(key string) bool {
	return secretKeys[key]
}

// Validate checks that every setting needed by refresh and push is present.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var missing []string
	if !settings.LLM.IsConfigured() {
		missing = append(missing, KeyAIAPIKey)
	}
	if settings.Document.ID == "" {
		missing = append(missing, KeyDocumentID)
	}
	if settings.Document.AnchorID == "" {
		missing = append(missing, KeyAnchorID)
	}
	if settings.Document.Backend == domain.DocumentBackendNotion && settings.Document.NotionAPIKey == "" {
		missing = append(missing, KeyNotionAPIKey)
	}
	if settings.Tracker.APIKey == "" {
		missing = append(missing, KeyTrackerAPIKey)
	}
	switch settings.Tracker.Provider {
	case domain.TrackerProviderLinear:
		if settings.Tracker.TeamID == "" {
			missing = append(missing, KeyTrackerTeamID)
		}
		if settings.Tracker.ProjectID == "" {
			missing = append(missing, KeyTrackerProjectID)
		}
	case domain.TrackerProviderGitHub:
		if settings.Tracker.Owner == "" {
			missing = append(missing, KeyGitHubOwner)
		}
		if settings.Tracker.Repo == "" {
			missing = append(missing, KeyGitHubRepo)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(KeyAIProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.DocumentBackend) domain.DocumentBackend {
	backend := domain.DocumentBackend(s.configStore.GetString(KeyDocumentBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getTracker(defaultVal domain.TrackerProvider) domain.TrackerProvider {
	tracker := domain.TrackerProvider(s.configStore.GetString(KeyTrackerProvider))
	if !tracker.IsValid() {
		return defaultVal
	}
	return tracker
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}
