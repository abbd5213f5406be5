package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create tracker issues for unchecked action items",
	Long: `Reads the checklist under the configured heading and creates one tracker
issue per unchecked item that has no tracker id yet. Each created id is
appended to its item, e.g. "@Ana Send the deck (ENG-42)", so running push
again skips it.

An item whose issue cannot be created is left as it was and retried on the
next push.`,
	Args:        cobra.NoArgs,
	Annotations: documentAnnotation,
	RunE:        runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, _ []string) error {
	if actionService == nil {
		return errors.New("action item service not configured")
	}

	result, err := actionService.Push(cmd.Context())
	if err != nil {
		if status, ok := domain.SetupStatus(err); ok {
			cmd.Println(status)
			return nil
		}
		return fmt.Errorf("push failed: %w", err)
	}

	cmd.Println(result.Status())
	if verbose {
		for _, id := range result.Created {
			cmd.Printf("  created %s\n", id)
		}
	}
	return nil
}
