package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportsmith/internal/core/ports/driving"
)

var (
	generateSections []string
	generateTopK     int
	generateSource   string
	generateStrict   bool
	generateJSON     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [query]",
	Short: "Generate a citation-backed report",
	Long: `Generates a report for the given query. Evidence is retrieved per
section, every section is written by the model from that evidence only,
and each claim cites its source as [source_id:page]. The command prints
a report ID; use preview to read the report.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVar(&generateSections, "section",
		[]string{"Executive Summary", "Key Findings", "Recommendations"},
		"section titles to generate (repeatable)")
	generateCmd.Flags().IntVarP(&generateTopK, "top-k", "k", 0,
		"overall evidence retrieval budget (0 = default)")
	generateCmd.Flags().StringVar(&generateSource, "source", "",
		"restrict evidence to this source ID")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false,
		"never broaden past the source filter, even when it matches nothing")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	reportID, err := reportService.Generate(context.Background(), generateSections, args[0],
		driving.GenerateOptions{
			TopK:         generateTopK,
			SourceFilter: generateSource,
			StrictFilter: generateStrict,
		})
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	if generateJSON {
		data, err := json.Marshal(map[string]string{"report_id": reportID})
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(successStyle.Render("Report generated."))
	cmd.Printf("Report ID: %s\n", reportID)
	cmd.Printf("Preview with: reportsmith preview %s\n", reportID)
	return nil
}
