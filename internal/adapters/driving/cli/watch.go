package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportsmith/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new text files automatically",
	Long: `Watches a directory and ingests every .txt or .md file that is created
or modified, using the file's base name as the source ID. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for text files. Press Ctrl+C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Watch stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchableFile(event.Name) {
				continue
			}
			ingestWatchedFile(ctx, cmd, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func watchableFile(path string) bool {
	switch filepath.Ext(path) {
	case ".txt", ".md":
		return true
	}
	return false
}

// ingestWatchedFile ingests one changed file, logging failures instead of
// stopping the watch. A file written in several bursts is simply
// re-ingested; deterministic chunk IDs make that an overwrite.
func ingestWatchedFile(ctx context.Context, cmd *cobra.Command, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Failed to read %s: %v", path, err)
		return
	}

	sourceID := sourceIDFromPath(path)
	ids, err := ingestService.Ingest(ctx, []string{string(data)}, sourceID)
	if err != nil {
		logger.Warn("Failed to ingest %s: %v", path, err)
		return
	}
	cmd.Printf("Ingested %s: %d chunks as source %q\n", filepath.Base(path), len(ids), sourceID)
}
