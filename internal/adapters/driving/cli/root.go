// Package cli implements the actionsync command line.
//
// Commands run against package-level driving ports. cmd/actionsync installs a
// Loader that builds them once flags are parsed; tests assign them directly.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// annotationDocument marks commands that need the meeting notes document open.
const annotationDocument = "actionsync.document"

var documentAnnotation = map[string]string{annotationDocument: "true"}

// Services holds the driving ports the commands run against.
type Services struct {
	Actions  driving.ActionItemService
	Anchors  driving.AnchorService
	Settings driving.SettingsService

	// ConfigDir is the resolved configuration directory.
	ConfigDir string
}

// Loader builds services from the configuration in configDir. withDocument is
// false for commands that only read or write settings. The returned release
// function closes whatever the loader opened.
type Loader func(ctx context.Context, configDir string, withDocument bool) (*Services, func(), error)

var (
	actionService   driving.ActionItemService
	anchorService   driving.AnchorService
	settingsService driving.SettingsService
	servicesDir     string

	loader  Loader
	release func()

	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "actionsync",
	Short: "Keep meeting notes action items in sync with an issue tracker",
	Long: `actionsync maintains the action item section of a meeting notes document.

refresh rewrites the section with the open items an AI model finds in the last
few weeks of notes. push creates a tracker issue for every unchecked item and
appends the issue id to the item, so an item is never pushed twice.

Documents can live in Google Docs, Notion or a local Markdown file. Issues go
to Linear or GitHub.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print progress and diagnostics")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.actionsync)")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetLoader installs the function that builds services before a command runs.
func SetLoader(l Loader) {
	loader = l
}

// Execute runs the root command and releases any services it opened.
func Execute(ctx context.Context) error {
	defer func() {
		if release != nil {
			release()
			release = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func loadServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if loader == nil {
		return nil
	}

	svc, done, err := loader(cmd.Context(), configDir, needsDocument(cmd))
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("no services loaded")
	}
	release = done

	actionService = svc.Actions
	anchorService = svc.Anchors
	settingsService = svc.Settings
	servicesDir = svc.ConfigDir
	return nil
}

// needsDocument reports whether cmd or one of its parents is annotated
// as working on the document.
func needsDocument(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationDocument] == "true" {
			return true
		}
	}
	return false
}
