// Package services implements the core pipeline behind the driving
// ports: index orchestration, retrieval and answer synthesis.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ragdoll-labs/ragdoll-cli/internal/chunker"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driving"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// Ensure IndexOrchestrator implements the interface.
var _ driving.Indexer = (*IndexOrchestrator)(nil)

// inflightRun lets late Reindex callers join a run already in progress
// instead of starting their own.
type inflightRun struct {
	done   chan struct{}
	report *domain.IndexReport
	err    error
}

// IndexOrchestrator drives the scan, chunk, embed and store pipeline.
type IndexOrchestrator struct {
	corpus   driven.CorpusSource
	store    driven.VectorStore
	embedder driven.EmbeddingService
	chunker  *chunker.Chunker

	mu        sync.Mutex
	inflight  *inflightRun
	processed int
	errCount  int
}

// NewIndexOrchestrator creates an orchestrator over the given corpus,
// store and embedding service.
func NewIndexOrchestrator(
	corpus driven.CorpusSource,
	store driven.VectorStore,
	embedder driven.EmbeddingService,
	chk *chunker.Chunker,
) *IndexOrchestrator {
	if chk == nil {
		chk = chunker.New()
	}
	return &IndexOrchestrator{
		corpus:   corpus,
		store:    store,
		embedder: embedder,
		chunker:  chk,
	}
}

// Reindex runs a full corpus pass. Unchanged documents (matched by
// content fingerprint) are skipped without touching the embedding
// service; documents that vanished from the corpus are deleted from the
// store after the scan completes. A call made while another run is in
// flight joins that run and returns its report with Coalesced set.
func (o *IndexOrchestrator) Reindex(ctx context.Context) (*domain.IndexReport, error) {
	o.mu.Lock()
	if run := o.inflight; run != nil {
		o.mu.Unlock()
		select {
		case <-run.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if run.err != nil {
			return nil, run.err
		}
		joined := *run.report
		joined.Coalesced = true
		return &joined, nil
	}

	run := &inflightRun{done: make(chan struct{})}
	o.inflight = run
	o.processed = 0
	o.errCount = 0
	o.mu.Unlock()

	report, err := o.runIndex(ctx)

	o.mu.Lock()
	run.report = report
	run.err = err
	o.inflight = nil
	o.mu.Unlock()
	close(run.done)

	return report, err
}

// Status reports whether a run is in flight and the progress counters
// of the current (or most recent) run.
func (o *IndexOrchestrator) Status(_ context.Context) (*domain.IndexStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return &domain.IndexStatus{
		Running:            o.inflight != nil,
		DocumentsProcessed: o.processed,
		ErrorCount:         o.errCount,
	}, nil
}

func (o *IndexOrchestrator) runIndex(ctx context.Context) (*domain.IndexReport, error) {
	report := &domain.IndexReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	logger.Section("index run " + report.RunID)

	// Cancelling the scan on early return unblocks the source goroutine.
	scanCtx, cancelScan := context.WithCancel(ctx)
	defer cancelScan()

	results, err := o.corpus.Scan(scanCtx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for res := range results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[res.Path] = true

		outcome, err := o.processOne(ctx, res, report)
		if err != nil {
			// An unreachable embedding service dooms the whole run;
			// abort before the deletion pass so nothing is removed.
			return nil, err
		}
		o.mu.Lock()
		o.processed++
		if outcome == domain.OutcomeFailed {
			o.errCount++
		}
		o.mu.Unlock()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Documents in the store but absent from this scan are gone from
	// the corpus; a failed-to-extract file is still present and keeps
	// its records.
	stored, err := o.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	for _, doc := range stored {
		if seen[doc.ID] {
			continue
		}
		if err := o.store.Delete(ctx, doc.ID); err != nil {
			report.Results = append(report.Results, domain.DocumentResult{
				DocumentID: doc.ID,
				Outcome:    domain.OutcomeFailed,
				Err:        err.Error(),
			})
			continue
		}
		logger.Info("deleted vanished document %s", doc.ID)
		report.Results = append(report.Results, domain.DocumentResult{
			DocumentID: doc.ID,
			Outcome:    domain.OutcomeDeleted,
		})
	}

	report.FinishedAt = time.Now().UTC()
	logger.Info("index run complete: %d indexed, %d skipped, %d failed, %d deleted",
		report.Count(domain.OutcomeIndexed),
		report.Count(domain.OutcomeSkipped),
		report.Count(domain.OutcomeFailed),
		report.Count(domain.OutcomeDeleted))
	return report, nil
}

// processOne indexes a single scan result and records its outcome.
// Per-document failures (unreadable file, bad store row) are isolated;
// an unreachable embedding service is returned as an error because it
// dooms every remaining document too.
func (o *IndexOrchestrator) processOne(ctx context.Context, res driven.ScanResult, report *domain.IndexReport) (domain.DocumentOutcome, error) {
	record := func(outcome domain.DocumentOutcome, err error) domain.DocumentOutcome {
		result := domain.DocumentResult{
			DocumentID: res.Path,
			Outcome:    outcome,
		}
		if err != nil {
			result.Err = err.Error()
			logger.Warn("document %s failed: %v", res.Path, err)
		}
		report.Results = append(report.Results, result)
		return outcome
	}

	if res.Err != nil {
		return record(domain.OutcomeFailed, res.Err), nil
	}
	doc := res.Document

	// Skip only when this path already holds this exact content. A
	// renamed file (same bytes, new path) must be indexed under its new
	// path or the deletion pass would leave the content unreachable.
	known, err := o.store.Has(ctx, doc.ID, doc.Fingerprint)
	if err != nil {
		return record(domain.OutcomeFailed, err), nil
	}
	if known {
		logger.Debug("skipping unchanged document %s", doc.ID)
		return record(domain.OutcomeSkipped, nil), nil
	}

	chunks := o.chunker.Split(doc)
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i := range chunks {
			texts[i] = chunks[i].Content
		}
		embeddings, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			if errors.Is(err, domain.ErrEmbeddingUnavailable) {
				return domain.OutcomeFailed, err
			}
			return record(domain.OutcomeFailed, err), nil
		}
		for i := range chunks {
			chunks[i].Embedding = embeddings[i]
		}
	}

	doc.IndexedAt = time.Now().UTC()
	if err := o.store.Upsert(ctx, *doc, chunks); err != nil {
		return record(domain.OutcomeFailed, err), nil
	}

	logger.Debug("indexed %s (%d chunks)", doc.ID, len(chunks))
	return record(domain.OutcomeIndexed, nil), nil
}
