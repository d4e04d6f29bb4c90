package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every indexed chunk and cached report",
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	removed, err := reportService.Reset(context.Background())
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Index reset: %d chunks removed.", removed)))
	return nil
}
