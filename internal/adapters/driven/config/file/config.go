package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ragdoll-labs/ragdoll-cli/internal/chunker"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/services"
)

// Default configuration values.
const (
	DefaultEmbedModel = "nomic-embed-text"
	DefaultGenModel   = "llama3.2:1b"
	DefaultBaseURL    = "http://localhost:11434"
	DefaultTimeout    = 120 * time.Second
)

// Config is the on-disk configuration, stored as TOML at
// ~/.ragdoll/config.toml.
type Config struct {
	// CorpusDir is the directory of documents to index.
	CorpusDir string `toml:"corpus_dir"`

	// DataDir holds the vector index database. Empty means
	// ~/.ragdoll/data.
	DataDir string `toml:"data_dir,omitempty"`

	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Ollama    OllamaConfig    `toml:"ollama"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls how questions are answered.
type RetrievalConfig struct {
	TopK          int `toml:"top_k"`
	ContextBudget int `toml:"context_budget"`
}

// OllamaConfig points at the local inference server.
type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`
	EmbedModel     string `toml:"embed_model"`
	GenModel       string `toml:"gen_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (o OllamaConfig) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// DefaultConfig returns a config populated with defaults. CorpusDir is
// intentionally empty; the caller must set it before indexing.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    chunker.DefaultSize,
			Overlap: chunker.DefaultOverlap,
		},
		Retrieval: RetrievalConfig{
			TopK:          services.DefaultTopK,
			ContextBudget: services.DefaultContextBudget,
		},
		Ollama: OllamaConfig{
			BaseURL:        DefaultBaseURL,
			EmbedModel:     DefaultEmbedModel,
			GenModel:       DefaultGenModel,
			TimeoutSeconds: int(DefaultTimeout / time.Second),
		},
	}
}

// ConfigPath returns the config file path under configDir, defaulting
// to ~/.ragdoll.
func ConfigPath(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".ragdoll")
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfig reads the config file, filling in defaults for anything
// unset. A missing file yields the defaults, not an error.
func LoadConfig(configDir string) (*Config, error) {
	path, err := ConfigPath(configDir)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// SaveConfig writes the config file with restricted permissions,
// creating the directory if needed.
func SaveConfig(configDir string, cfg *Config) error {
	path, err := ConfigPath(configDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// applyDefaults fills zero values left by a partial config file.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Chunking.Size <= 0 {
		cfg.Chunking.Size = def.Chunking.Size
	}
	if cfg.Chunking.Overlap < 0 {
		cfg.Chunking.Overlap = def.Chunking.Overlap
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Retrieval.ContextBudget <= 0 {
		cfg.Retrieval.ContextBudget = def.Retrieval.ContextBudget
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = def.Ollama.EmbedModel
	}
	if cfg.Ollama.GenModel == "" {
		cfg.Ollama.GenModel = def.Ollama.GenModel
	}
	if cfg.Ollama.TimeoutSeconds <= 0 {
		cfg.Ollama.TimeoutSeconds = def.Ollama.TimeoutSeconds
	}
}
