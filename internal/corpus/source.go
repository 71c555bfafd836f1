// Package corpus provides the filesystem corpus source: it walks a
// directory, fingerprints each supported file and extracts its text.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.CorpusSource = (*Source)(nil)

// Source reads documents from a corpus directory. The directory is
// treated as read-only; files added, removed or modified between scans
// drive the orchestrator's skip/add/delete decisions.
type Source struct {
	dir      string
	registry driven.ExtractorRegistry
}

// NewSource creates a filesystem corpus source rooted at dir.
func NewSource(dir string, registry driven.ExtractorRegistry) *Source {
	return &Source{
		dir:      dir,
		registry: registry,
	}
}

// Dir returns the corpus directory path.
func (s *Source) Dir() string {
	return s.dir
}

// Scan walks the corpus directory and emits one result per supported
// file. Files with unsupported extensions and hidden files are skipped.
// A file that cannot be read or extracted produces a result with Err
// set; the walk continues with the remaining files.
func (s *Source) Scan(ctx context.Context) (<-chan driven.ScanResult, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s: %w", s.dir, domain.ErrInvalidInput)
	}

	ch := make(chan driven.ScanResult)

	go func() {
		defer close(ch)

		walkErr := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				logger.Warn("Walk error at %s: %v", path, err)
				return nil
			}

			name := d.Name()
			if strings.HasPrefix(name, ".") && path != s.dir {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			extractor, ok := s.registry.ForPath(path)
			if !ok {
				logger.Debug("Skipping unsupported file: %s", path)
				return nil
			}

			rel, err := filepath.Rel(s.dir, path)
			if err != nil {
				rel = name
			}
			id := filepath.ToSlash(rel)

			result := s.loadOne(ctx, id, path, extractor)

			select {
			case ch <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if walkErr != nil && ctx.Err() == nil {
			logger.Warn("Corpus walk aborted: %v", walkErr)
		}
	}()

	return ch, nil
}

// loadOne reads, fingerprints and extracts a single file.
func (s *Source) loadOne(
	ctx context.Context, id, path string, extractor driven.Extractor,
) driven.ScanResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return driven.ScanResult{Path: id, Err: fmt.Errorf("read file: %w", err)}
	}

	extraction, err := extractor.Extract(ctx, path, data)
	if err != nil {
		return driven.ScanResult{Path: id, Err: fmt.Errorf("extract %s: %w", extractor.Format(), err)}
	}

	return driven.ScanResult{
		Path: id,
		Document: &domain.Document{
			ID:          id,
			Fingerprint: domain.FingerprintBytes(data),
			Format:      extractor.Format(),
			Title:       extraction.Title,
			Content:     extraction.Text,
			IndexedAt:   time.Now().UTC(),
		},
	}
}
