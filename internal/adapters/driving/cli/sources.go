package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List indexed sources and their chunk counts",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	sources, err := reportService.Sources(context.Background())
	if err != nil {
		return fmt.Errorf("listing sources failed: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources indexed.")
		return nil
	}

	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	cmd.Println("Indexed sources:")
	for _, id := range ids {
		cmd.Printf("  %s (%d chunks)\n", id, sources[id])
	}
	return nil
}
