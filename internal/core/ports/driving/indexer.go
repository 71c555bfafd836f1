package driving

import (
	"context"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// Indexer coordinates corpus (re)indexing.
type Indexer interface {
	// Reindex runs a full corpus scan: unchanged documents are skipped,
	// new and modified documents are chunked, embedded and stored, and
	// documents missing from the corpus are deleted from the store.
	//
	// Reindex is idempotent. A call made while a run is already in
	// flight does not start a second run; it waits for the in-flight run
	// and returns its report with Coalesced set.
	Reindex(ctx context.Context) (*domain.IndexReport, error)

	// Status returns the current indexing state.
	Status(ctx context.Context) (*domain.IndexStatus, error)
}
