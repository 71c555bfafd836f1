package driven

import (
	"context"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// VectorStore persists (vector, chunk, document) records and serves
// similarity search. Backed by SQLite for durable storage.
//
// The store supports concurrent readers and mutually exclusive writers.
// Upsert and Delete replace a document's record set atomically: a
// concurrent Search sees either the fully-old or fully-new set, never a
// mix.
type VectorStore interface {
	// Upsert atomically replaces all records belonging to a prior
	// version of the document (matched by document ID) and inserts the
	// new chunk set. Chunks must carry embeddings of the store's fixed
	// dimension; mismatched vectors are rejected with
	// domain.ErrDimensionMismatch.
	Upsert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error

	// Has reports whether the document is stored under this ID with
	// this exact content fingerprint. Used to skip unchanged documents;
	// keyed by both so a renamed file with known content is still
	// indexed under its new ID.
	Has(ctx context.Context, documentID, fingerprint string) (bool, error)

	// Search returns the k records most similar to the query vector,
	// descending by cosine similarity, ties broken by document ID then
	// chunk position. A store that has never been written to returns an
	// empty result, not an error.
	Search(ctx context.Context, query []float32, k int) (*domain.RetrievalResult, error)

	// Delete removes all records for a document no longer present in
	// the corpus. Deleting an unknown document is a no-op.
	Delete(ctx context.Context, documentID string) error

	// ListDocuments returns the stored document metadata (no content),
	// used by the orchestrator to detect vanished documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// Counts returns the number of stored documents and chunks.
	Counts(ctx context.Context) (documents, chunks int, err error)

	// Close releases resources.
	Close() error
}
