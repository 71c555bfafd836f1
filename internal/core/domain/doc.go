// Package domain contains the core types and business rules for the
// retrieval-augmented answering pipeline: documents, chunks, retrieval
// results, answers and indexing reports.
package domain
