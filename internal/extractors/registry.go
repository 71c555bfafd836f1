// Package extractors wires the per-format text extractors into a static
// extension lookup table.
package extractors

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/extractors/docx"
	"github.com/ragdoll-labs/ragdoll-cli/internal/extractors/markdown"
	"github.com/ragdoll-labs/ragdoll-cli/internal/extractors/pdf"
	"github.com/ragdoll-labs/ragdoll-cli/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors. The table is built once
// at construction; selection is a plain map lookup, no reflection.
type Registry struct {
	byExtension map[string]driven.Extractor
}

// NewRegistry creates a registry for the given extractors.
// A later extractor claiming an already-registered extension wins.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Extractor),
	}
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			r.byExtension[strings.ToLower(ext)] = e
		}
	}
	return r
}

// NewDefaultRegistry creates a registry with all built-in extractors:
// plain text, Markdown, PDF and DOCX.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		pdf.New(),
		docx.New(),
	)
}

// ForPath returns the extractor for the path's extension.
func (r *Registry) ForPath(path string) (driven.Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExtension[ext]
	return e, ok
}

// Extensions returns all supported extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
