package domain

import "time"

// DocumentOutcome is the per-document result of an indexing run.
type DocumentOutcome int

const (
	// OutcomeIndexed means the document was chunked, embedded and stored.
	OutcomeIndexed DocumentOutcome = iota

	// OutcomeSkipped means the stored fingerprint matched and the
	// document was not reprocessed.
	OutcomeSkipped

	// OutcomeFailed means extraction, embedding or storage failed for
	// this document. The run continues with the remaining documents.
	OutcomeFailed

	// OutcomeDeleted means the document vanished from the corpus and its
	// records were removed from the store.
	OutcomeDeleted
)

// String returns a human-readable outcome label.
func (o DocumentOutcome) String() string {
	switch o {
	case OutcomeIndexed:
		return "indexed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// DocumentResult records what happened to one document during a run.
type DocumentResult struct {
	// DocumentID is the corpus-relative path.
	DocumentID string

	// Outcome is the per-document result.
	Outcome DocumentOutcome

	// Err holds the failure message when Outcome is OutcomeFailed.
	Err string
}

// IndexReport summarises a completed indexing run. A run never fails as
// a whole because of a single document; per-document failures are
// collected here instead.
type IndexReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// Results holds one entry per document touched by the run.
	Results []DocumentResult

	// Coalesced is true when this report was produced by an already
	// in-flight run that the caller's request joined.
	Coalesced bool
}

// Count returns the number of results with the given outcome.
func (r *IndexReport) Count(outcome DocumentOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// IndexStatus reports the current state of the indexing orchestrator.
type IndexStatus struct {
	// Running indicates whether a run is in progress.
	Running bool

	// DocumentsProcessed counts documents handled so far in the current
	// run, or in the last completed run when idle.
	DocumentsProcessed int

	// ErrorCount counts per-document failures.
	ErrorCount int
}
