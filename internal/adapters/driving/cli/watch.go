package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ragdoll-labs/ragdoll-cli/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the index in sync with the corpus directory",
	Long: `Runs an initial index, then watches the corpus directory and
reindexes whenever files change. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"how long to wait after a change before reindexing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	// The root context is signal-bound, so Ctrl-C lands here.
	ctx := cmd.Context()

	report, err := indexService.Reindex(ctx)
	if err != nil {
		return fmt.Errorf("initial indexing failed: %w", err)
	}
	printReport(cmd, report)

	w := watcher.New(corpusDir, indexService, watchDebounce)
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	cmd.Println("Stopped.")
	return nil
}
