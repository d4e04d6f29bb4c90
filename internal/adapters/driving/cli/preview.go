package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportsmith/internal/core/domain"
)

var previewJSON bool

var previewCmd = &cobra.Command{
	Use:   "preview [report-id]",
	Short: "Display a previously generated report",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	if reportService == nil {
		return errors.New("report service not configured")
	}

	report, err := reportService.Preview(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	if previewJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	renderReport(cmd, report)
	return nil
}

func renderReport(cmd *cobra.Command, report *domain.Report) {
	cmd.Println(headingStyle.Render("Report " + report.ID))
	cmd.Println()

	for _, section := range report.Sections {
		title := section.Title
		if section.Failed {
			title += " " + failureStyle.Render("[failed]")
		}
		cmd.Println(sectionStyle.Render(title))
		cmd.Println(section.Text)

		if len(section.Citations) > 0 {
			refs := make([]string, 0, len(section.Citations))
			for _, c := range section.Citations {
				refs = append(refs, fmt.Sprintf("[%s:%d]", c.SourceID, c.Page))
			}
			cmd.Println(citationStyle.Render("Sources: " + strings.Join(refs, " ")))
		}
		cmd.Println()
	}
}
