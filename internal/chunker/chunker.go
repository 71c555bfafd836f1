// Package chunker splits document text into fixed-size overlapping chunks.
package chunker

import (
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// DefaultSize is the default number of characters per chunk.
const DefaultSize = 1024

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 200

// Chunker produces the deterministic, order-preserving split of a
// document: identical content always yields identical chunks, including
// their IDs and offsets.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the chunk size in characters.
func WithSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must stay below the chunk size
	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split produces the ordered chunk sequence covering the full document
// content. Each chunk's start advances by size-overlap from the
// previous one; a trailing remainder shorter than one chunk is still
// emitted. Empty content produces no chunks.
func (c *Chunker) Split(doc *domain.Document) []domain.Chunk {
	content := doc.Content
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]domain.Chunk, 0, contentLen/step+1)

	position := 0
	for start := 0; ; start += step {
		end := start + c.size
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:          domain.ChunkID(doc.Fingerprint, position),
			DocumentID:  doc.ID,
			Fingerprint: doc.Fingerprint,
			Content:     content[start:end],
			Position:    position,
			Start:       start,
			End:         end,
		})
		position++

		if end == contentLen {
			break
		}
	}

	return chunks
}
