package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driving/oauth"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/connectors/google"
)

// googleCredentialsFile is written under the config directory.
const googleCredentialsFile = "google_credentials.json"

// keyCredentialsFile is the setting the written file is stored under.
const keyCredentialsFile = "document.credentials_file"

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to document backends",
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in to Google Docs",
	Long: `Signs in with a Google account in the browser and stores a refresh token
as an authorized_user credentials file in the config directory. The file is
then used as document.credentials_file.

Create an OAuth client of type "Desktop app" in the Google Cloud console,
enable the Google Docs and Drive APIs, and download the client secret JSON.

Example:
  actionsync auth google --client-secret ~/Downloads/client_secret.json`,
	Args: cobra.NoArgs,
	RunE: runAuthGoogle,
}

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

func init() {
	authGoogleCmd.Flags().String("client-secret", "", "OAuth client secret JSON file (required)")
	authGoogleCmd.Flags().Int("port", 0, "loopback port for the OAuth callback (0 = any free port)")
	authGoogleCmd.Flags().Bool("no-browser", false, "print the authorization URL instead of opening it")
	_ = authGoogleCmd.MarkFlagRequired("client-secret")
	authCmd.AddCommand(authGoogleCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthGoogle(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || servicesDir == "" {
		return errors.New("settings service not configured")
	}

	secretPath, _ := cmd.Flags().GetString("client-secret")
	port, _ := cmd.Flags().GetInt("port")
	noBrowser, _ := cmd.Flags().GetBool("no-browser")

	data, err := os.ReadFile(secretPath)
	if err != nil {
		return fmt.Errorf("read client secret: %w", err)
	}
	conf, err := google.OAuthConfigFromJSON(data)
	if err != nil {
		return err
	}

	open := func(url string) error {
		cmd.Println("Open this URL to authorize actionsync:")
		cmd.Println(url)
		if noBrowser {
			return nil
		}
		if err := openBrowser(url); err != nil {
			cmd.PrintErrf("Could not open browser: %v\n", err)
		}
		return nil
	}

	tok, err := oauth.Authorize(cmd.Context(), conf, oauth.Options{Port: port, Open: open})
	if err != nil {
		return fmt.Errorf("google sign-in failed: %w", err)
	}

	creds, err := google.AuthorizedUserJSON(conf, tok)
	if err != nil {
		return err
	}

	path := filepath.Join(servicesDir, googleCredentialsFile)
	if err := os.WriteFile(path, creds, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := settingsService.SetValue(keyCredentialsFile, path); err != nil {
		return fmt.Errorf("save %s: %w", keyCredentialsFile, err)
	}

	cmd.Printf("Signed in. Credentials saved to %s\n", path)
	return nil
}
