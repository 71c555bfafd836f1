package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Document represents a single corpus file after text extraction.
// Its identity is the corpus-relative path; its version is the
// content fingerprint.
type Document struct {
	// ID is the corpus-relative file path (e.g. "notes/doc1.txt").
	ID string

	// Fingerprint is the hex-encoded SHA-256 of the raw file bytes.
	// It changes whenever the file content changes.
	Fingerprint string

	// Format is the extractor format tag (e.g. "text", "markdown", "pdf").
	Format string

	// Title is a human-readable title derived from the file.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// IndexedAt is when the document was last written to the store.
	IndexedAt time.Time
}

// Chunk is the unit of embedding and retrieval: a bounded contiguous
// segment of a document's extracted text.
type Chunk struct {
	// ID is deterministic: re-chunking an unchanged document yields
	// chunks with identical IDs. See ChunkID.
	ID string

	// DocumentID is the owning document's corpus-relative path.
	DocumentID string

	// Fingerprint is the owning document's content fingerprint.
	Fingerprint string

	// Content is the chunk text.
	Content string

	// Position is the 0-based sequence index within the document.
	Position int

	// Start and End are the character offsets of the chunk within the
	// document content (half-open interval).
	Start int
	End   int

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// ChunkID builds the deterministic chunk identifier for a document
// version and sequence position.
func ChunkID(fingerprint string, position int) string {
	return fmt.Sprintf("%s:%04d", fingerprint, position)
}

// FingerprintBytes computes the content fingerprint for raw file bytes.
func FingerprintBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
