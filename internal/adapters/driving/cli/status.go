package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if indexService == nil || vectorStore == nil {
		return errors.New("index service not configured")
	}

	ctx := cmd.Context()

	status, err := indexService.Status(ctx)
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	docs, chunks, err := vectorStore.Counts(ctx)
	if err != nil {
		return fmt.Errorf("reading index counts: %w", err)
	}

	cmd.Printf("Corpus:    %s\n", corpusDir)
	cmd.Printf("Documents: %d\n", docs)
	cmd.Printf("Chunks:    %d\n", chunks)
	if status.Running {
		cmd.Printf("Indexing:  running (%d processed, %d errors)\n",
			status.DocumentsProcessed, status.ErrorCount)
	} else {
		cmd.Println("Indexing:  idle")
	}
	return nil
}
