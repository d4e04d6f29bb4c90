package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var ingestSource string

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest plain-text documents into the index",
	Long: `Reads one or more plain-text files, splits them into chunks, embeds
each chunk, and stores the result in the index under a single source ID.
Pages are numbered continuously across the files, so re-ingesting the
same source overwrites in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestSource, "source", "s", "",
		"source ID for the ingested files (default: first file's base name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	texts := make([]string, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		texts = append(texts, string(data))
	}

	sourceID := ingestSource
	if sourceID == "" {
		sourceID = sourceIDFromPath(args[0])
	}

	ids, err := ingestService.Ingest(context.Background(), texts, sourceID)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Println(successStyle.Render(
		fmt.Sprintf("Ingested %d chunks from %d file(s) as source %q.", len(ids), len(args), sourceID)))
	return nil
}

// sourceIDFromPath derives a source ID from a file path: base name
// without extension, spaces replaced so the ID stays shell-friendly.
func sourceIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ReplaceAll(base, " ", "_")
}
