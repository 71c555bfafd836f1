package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCorpusCmd = &cobra.Command{
	Use:   "set-corpus [directory]",
	Short: "Set the corpus directory to index",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetCorpus,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCorpusCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := file.LoadConfig("")
	if err != nil {
		return err
	}

	path, err := file.ConfigPath("")
	if err != nil {
		return err
	}

	cmd.Printf("Config:         %s\n", path)
	cmd.Printf("Corpus:         %s\n", cfg.CorpusDir)
	cmd.Printf("Chunk size:     %d\n", cfg.Chunking.Size)
	cmd.Printf("Chunk overlap:  %d\n", cfg.Chunking.Overlap)
	cmd.Printf("Top K:          %d\n", cfg.Retrieval.TopK)
	cmd.Printf("Context budget: %d\n", cfg.Retrieval.ContextBudget)
	cmd.Printf("Ollama:         %s\n", cfg.Ollama.BaseURL)
	cmd.Printf("Embed model:    %s\n", cfg.Ollama.EmbedModel)
	cmd.Printf("Gen model:      %s\n", cfg.Ollama.GenModel)
	return nil
}

func runConfigSetCorpus(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving directory: %w", err)
	}

	cfg, err := file.LoadConfig("")
	if err != nil {
		return err
	}

	cfg.CorpusDir = dir
	if err := file.SaveConfig("", cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Corpus directory set to %s\n", dir)
	return nil
}
