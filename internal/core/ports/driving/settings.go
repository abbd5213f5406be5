package driving

import "github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetValue stores a single setting by its config key.
	// Returns domain.ErrInvalidInput for unknown keys or malformed values.
	SetValue(key, value string) error

	// Keys returns every settable config key in display order.
	Keys() []string

	// IsSecret reports whether a key holds a credential that must not be echoed.
	IsSecret(key string) bool

	// Validate checks that every setting needed by refresh and push is present.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
