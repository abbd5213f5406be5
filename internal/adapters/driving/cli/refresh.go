package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rewrite the action item section from recent notes",
	Long: `Reads the whole document, asks the configured AI provider for the action
items still open in the last extraction.lookback_days days of notes, and
replaces everything under the anchored heading with a timestamp, a separator
and one checklist item per action.

If the AI call fails or returns something that is not a JSON list, the
document is left untouched.`,
	Args:        cobra.NoArgs,
	Annotations: documentAnnotation,
	RunE:        runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if actionService == nil {
		return errors.New("action item service not configured")
	}

	result, err := actionService.Refresh(cmd.Context())
	if err != nil {
		if status, ok := domain.SetupStatus(err); ok {
			cmd.Println(status)
			return nil
		}
		return fmt.Errorf("refresh failed: %w", err)
	}

	cmd.Println(result.Status())
	return nil
}
