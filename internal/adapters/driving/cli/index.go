package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the corpus directory",
	Long: `Scans the corpus directory and brings the vector index up to date.
Unchanged documents are skipped, new and modified documents are
re-embedded, and documents removed from the corpus are deleted.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "output report as JSON")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	cmd.Printf("Indexing %s...\n", corpusDir)

	report, err := indexService.Reindex(cmd.Context())
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if indexJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.IndexReport) {
	cmd.Printf("Done in %s: %d indexed, %d skipped, %d deleted, %d failed.\n",
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
		report.Count(domain.OutcomeIndexed),
		report.Count(domain.OutcomeSkipped),
		report.Count(domain.OutcomeDeleted),
		report.Count(domain.OutcomeFailed))

	for _, result := range report.Results {
		if result.Outcome != domain.OutcomeFailed {
			continue
		}
		cmd.Printf("  failed: %s: %s\n", result.DocumentID, result.Err)
	}
}
