// Package cli implements the command-line interface.
//
// Commands hold no business logic: they parse flags, call the driving
// services injected via SetServices, and render the result. Services are
// package-level so cobra's init-based command registration can reach
// them.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportsmith/internal/core/ports/driving"
	"github.com/custodia-labs/reportsmith/internal/logger"
)

var version = "dev"

var (
	ingestService driving.IngestService
	reportService driving.ReportService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "reportsmith",
	Short: "Generate citation-backed reports from your documents",
	Long: `Reportsmith ingests plain-text documents, indexes them with embeddings,
and generates structured reports where every claim cites an ingested
document as [source_id:page].`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print pipeline diagnostics on stderr")
}

// SetServices injects the driving services. Must be called before
// Execute.
func SetServices(ingest driving.IngestService, reports driving.ReportService) {
	ingestService = ingest
	reportService = reports
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
