package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Short key", input: "abc123", expected: "****"},
		{name: "Exactly 8 chars", input: "12345678", expected: "****"},
		{name: "Long key", input: "lin_api_1234567890abcdef", expected: "lin_...cdef"},
		{name: "Empty key", input: "", expected: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestSecretStatus(t *testing.T) {
	assert.Equal(t, "(not set)", secretStatus(""))
	assert.Equal(t, "sk-1...cdef", secretStatus("sk-1234567890abcdef"))
}

func TestReadSecret_FallsBackToLine(t *testing.T) {
	assert.Equal(t, "secret-value", readSecret(strings.NewReader("  secret-value \n")))
}

func TestSettingsShowCmd(t *testing.T) {
	settings := newMockSettingsService()
	settings.settings.LLM.APIKey = "sk-1234567890abcdef"
	settings.settings.Document.ID = "doc-123"
	settings.settings.Document.AnchorID = "h.actions"
	settings.settings.Tracker.APIKey = "lin_api_abcdefghijkl"
	settings.settings.Tracker.TeamID = "team-1"
	cleanup := setupTestServices(nil, nil, settings)
	defer cleanup()

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[AI]")
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Anchor: h.actions")
	assert.Contains(t, out, "Team: team-1")
	assert.Contains(t, out, "Project: (not set)")
	assert.Contains(t, out, "Lookback: 28 days")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	cleanup := setupTestServices(nil, nil, newMockSettingsService())
	defer cleanup()

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Status: not configured")
}

func TestSettingsSetCmd(t *testing.T) {
	t.Run("value from argument", func(t *testing.T) {
		settings := newMockSettingsService()
		cleanup := setupTestServices(nil, nil, settings)
		defer cleanup()

		out, err := execute(t, "settings", "set", "document.anchor_id", "h.actions")

		require.NoError(t, err)
		assert.Equal(t, "h.actions", settings.values["document.anchor_id"])
		assert.Contains(t, out, "Set document.anchor_id to h.actions")
	})

	t.Run("secret from stdin is masked", func(t *testing.T) {
		settings := newMockSettingsService()
		cleanup := setupTestServices(nil, nil, settings)
		defer cleanup()

		rootCmd.SetIn(strings.NewReader("lin_api_abcdefghijkl\n"))
		defer rootCmd.SetIn(nil)

		out, err := execute(t, "settings", "set", "tracker.api_key")

		require.NoError(t, err)
		assert.Equal(t, "lin_api_abcdefghijkl", settings.values["tracker.api_key"])
		assert.Contains(t, out, "Set tracker.api_key to lin_...ijkl")
		assert.NotContains(t, out, "lin_api_abcdefghijkl")
	})

	t.Run("invalid key", func(t *testing.T) {
		cleanup := setupTestServices(nil, nil, newMockSettingsService())
		defer cleanup()

		_, err := execute(t, "settings", "set", "bogus", "x")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("requires a key", func(t *testing.T) {
		_, err := execute(t, "settings", "set")

		assert.Error(t, err)
	})
}

func TestSettingsKeysCmd(t *testing.T) {
	cleanup := setupTestServices(nil, nil, newMockSettingsService())
	defer cleanup()

	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "ai.provider\n")
	assert.Contains(t, out, "ai.api_key (secret)")
}

func TestSettingsValidateCmd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cleanup := setupTestServices(nil, nil, newMockSettingsService())
		defer cleanup()

		out, err := execute(t, "settings", "validate")

		require.NoError(t, err)
		assert.Contains(t, out, "Settings valid.")
	})

	t.Run("missing settings", func(t *testing.T) {
		settings := newMockSettingsService()
		settings.validateErr = errors.New("missing settings: tracker.api_key")
		cleanup := setupTestServices(nil, nil, settings)
		defer cleanup()

		_, err := execute(t, "settings", "validate")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tracker.api_key")
	})

	t.Run("ping failure", func(t *testing.T) {
		settings := newMockSettingsService()
		settings.pingErr = domain.ErrAuthInvalid
		cleanup := setupTestServices(nil, nil, settings)
		defer cleanup()

		_, err := execute(t, "settings", "validate")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	})
}
