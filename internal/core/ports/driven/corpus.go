package driven

import (
	"context"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// CorpusSource enumerates the documents of a corpus. The filesystem
// adapter walks a directory; other implementations could read archives
// or remote stores.
type CorpusSource interface {
	// Scan emits one result per supported file. Unsupported extensions
	// are skipped silently. A failed file produces a result with Err set
	// and does not stop the scan; the channel is closed when the scan
	// completes or ctx is cancelled.
	Scan(ctx context.Context) (<-chan ScanResult, error)
}

// ScanResult is one discovered corpus file: either an extracted
// document or a per-file failure.
type ScanResult struct {
	// Path is the corpus-relative file path.
	Path string

	// Document is populated on success, with Fingerprint and Content set.
	Document *domain.Document

	// Err is the extraction or read failure for this file.
	Err error
}
