// Package plaintext extracts text from plain text files.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format tag.
func (e *Extractor) Format() string {
	return "text"
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".txt", ".text", ".log", ".csv"}
}

// Extract returns the file bytes as text.
func (e *Extractor) Extract(_ context.Context, path string, data []byte) (*driven.Extraction, error) {
	if !utf8.Valid(data) {
		return nil, domain.ErrInvalidInput
	}

	return &driven.Extraction{
		Title: titleFromPath(path),
		Text:  string(data),
	}, nil
}

// titleFromPath derives a human-readable title from a file path.
func titleFromPath(path string) string {
	filename := filepath.Base(path)
	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
