// Package cli provides the command-line interface for ragdoll.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driving"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// version is set via Configure from the build.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	indexService driving.Indexer
	queryService driving.QueryService
	vectorStore  driven.VectorStore
	corpusDir    string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragdoll",
	Short: "Ask questions about your documents",
	Long: `Ragdoll indexes a directory of documents (text, Markdown, PDF, DOCX)
into a local vector store and answers natural-language questions about
them using a local Ollama model. Nothing leaves your machine.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Services bundles everything the commands need.
type Services struct {
	Indexer   driving.Indexer
	Query     driving.QueryService
	Store     driven.VectorStore
	CorpusDir string
	Version   string
}

// Configure injects the wired services. Must be called before Execute.
func Configure(s Services) {
	indexService = s.Indexer
	queryService = s.Query
	vectorStore = s.Store
	corpusDir = s.CorpusDir
	if s.Version != "" {
		version = s.Version
	}
}

// Execute runs the root command. ctx flows into every command so an
// interrupt cancels in-flight embedding and generation calls.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
