package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the AI provider, document, tracker and extraction settings.

Settings live in config.toml under the config directory. Any key can be
overridden by an environment variable: tracker.api_key is read from
ACTIONSYNC_TRACKER_API_KEY. A .env file in the working directory is loaded
first.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its config key. When the value is omitted it is
read from standard input; API keys are read without echo.

Run "actionsync settings keys" to list every key.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every settable key",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and ping the AI provider",
	Args:  cobra.NoArgs,
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[AI]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", secretStatus(settings.LLM.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	doc := settings.Document
	cmd.Println("[Document]")
	cmd.Printf("  Backend: %s\n", doc.Backend.Description())
	cmd.Printf("  ID: %s\n", orNotSet(doc.ID))
	cmd.Printf("  Anchor: %s\n", orNotSet(doc.AnchorID))
	cmd.Printf("  Heading phrase: %s\n", doc.HeadingPhrase)
	switch doc.Backend {
	case domain.DocumentBackendGoogleDocs:
		cmd.Printf("  Credentials: %s\n", orDefault(doc.CredentialsFile, "application default"))
	case domain.DocumentBackendNotion:
		cmd.Printf("  Notion API Key: %s\n", secretStatus(doc.NotionAPIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(doc.IsConfigured()))
	cmd.Println()

	tr := settings.Tracker
	cmd.Println("[Tracker]")
	cmd.Printf("  Provider: %s\n", tr.Provider.Description())
	cmd.Printf("  API Key: %s\n", secretStatus(tr.APIKey))
	switch tr.Provider {
	case domain.TrackerProviderLinear:
		cmd.Printf("  Team: %s\n", orNotSet(tr.TeamID))
		cmd.Printf("  Project: %s\n", orNotSet(tr.ProjectID))
	case domain.TrackerProviderGitHub:
		cmd.Printf("  Repository: %s/%s\n", orNotSet(tr.Owner), orNotSet(tr.Repo))
		cmd.Printf("  ID prefix: %s\n", tr.IDPrefix)
	}
	cmd.Printf("  Label: %s (%s)\n", tr.Label, tr.LabelColor)
	cmd.Printf("  Status: %s\n", configuredStatus(tr.IsConfigured()))
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Lookback: %d days\n", settings.Extraction.LookbackDays)

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	secret := settingsService.IsSecret(key)

	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		cmd.Printf("Enter %s: ", key)
		if secret {
			value = readSecret(cmd.InOrStdin())
			cmd.Println()
		} else {
			value = readLine(bufio.NewReader(cmd.InOrStdin()))
		}
	}

	if err := settingsService.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if secret {
		cmd.Printf("Set %s to %s\n", key, maskAPIKey(strings.TrimSpace(value)))
	} else {
		cmd.Printf("Set %s to %s\n", key, strings.TrimSpace(value))
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		if settingsService.IsSecret(key) {
			cmd.Printf("  %s (secret)\n", key)
			continue
		}
		cmd.Printf("  %s\n", key)
	}
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("settings incomplete: %w", err)
	}

	cmd.Println("Checking AI provider...")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		return fmt.Errorf("AI provider check failed: %w", err)
	}

	cmd.Println("Settings valid.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readSecret reads a value without echo when in is a terminal.
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	return readLine(bufio.NewReader(in))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func secretStatus(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
