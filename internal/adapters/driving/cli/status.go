package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index health and chunk count",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	status, err := reportService.Diagnose(context.Background())
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	if !status.Healthy {
		cmd.Println(failureStyle.Render("Index: unhealthy"))
		cmd.Println("The index could not be read. Run reset to rebuild it.")
		return nil
	}

	cmd.Println(successStyle.Render("Index: healthy"))
	cmd.Printf("Indexed chunks: %d\n", status.DocumentCount)
	if status.DocumentCount == 0 {
		cmd.Println("The index is empty. Ingest documents before generating reports.")
	}
	return nil
}
