package cli

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driving"
)

var anchorsCmd = &cobra.Command{
	Use:         "anchors",
	Short:       "Find the action item section",
	Long:        `Commands for locating the heading that document.anchor_id points at.`,
	Annotations: documentAnnotation,
}

var anchorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every anchor in the document",
	Long: `Lists the heading ids and bookmarks the document exposes, with the text
they point at. Use one of the ids as document.anchor_id.`,
	Args: cobra.NoArgs,
	RunE: runAnchorsList,
}

var anchorsJumpCmd = &cobra.Command{
	Use:   "jump",
	Short: "Show a link to the action item section",
	Args:  cobra.NoArgs,
	RunE:  runAnchorsJump,
}

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func init() {
	anchorsJumpCmd.Flags().Bool("open", false, "open the link in the default browser")
	anchorsJumpCmd.Flags().Bool("copy", false, "copy the link to the clipboard")
	anchorsCmd.AddCommand(anchorsListCmd)
	anchorsCmd.AddCommand(anchorsJumpCmd)
	rootCmd.AddCommand(anchorsCmd)
}

func runAnchorsList(cmd *cobra.Command, _ []string) error {
	if anchorService == nil {
		return errors.New("anchor service not configured")
	}

	anchors, err := anchorService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list anchors: %w", err)
	}

	if len(anchors) == 0 {
		cmd.Println("No anchors found. Add a heading id or bookmark to the document.")
		return nil
	}

	cmd.Printf("Anchors (%d):\n", len(anchors))
	for _, a := range anchors {
		label := a.Label
		if label == "" {
			label = "(empty)"
		}
		cmd.Printf("  %-28s %s\n", a.ID, label)
	}
	return nil
}

func runAnchorsJump(cmd *cobra.Command, _ []string) error {
	if anchorService == nil {
		return errors.New("anchor service not configured")
	}

	open, err := cmd.Flags().GetBool("open")
	if err != nil {
		return fmt.Errorf("getting open flag: %w", err)
	}

	copyLink, err := cmd.Flags().GetBool("copy")
	if err != nil {
		return fmt.Errorf("getting copy flag: %w", err)
	}

	var loc *driving.AnchorLocation
	if open {
		loc, err = anchorService.Open(cmd.Context())
	} else {
		loc, err = anchorService.Locate(cmd.Context())
	}
	if err != nil {
		if status, ok := domain.SetupStatus(err); ok {
			cmd.Println(status)
			return nil
		}
		if loc == nil {
			return fmt.Errorf("failed to locate anchor: %w", err)
		}
		// Located but the browser could not be launched; still print the link.
		cmd.PrintErrf("Could not open browser: %v\n", err)
	}

	if loc.URL == "" {
		cmd.Printf("%s (no link available)\n", loc.Heading)
		return nil
	}
	cmd.Printf("%s: %s\n", loc.Heading, loc.URL)

	if copyLink {
		if err := copyToClipboard(loc.URL); err != nil {
			cmd.PrintErrf("Could not copy link: %v\n", err)
			return nil
		}
		cmd.Println("Link copied to clipboard.")
	}
	return nil
}
