// Package sqlite provides the SQLite-backed vector index store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. Embeddings are
// stored as little-endian float32 BLOBs alongside chunk text and source
// metadata; similarity search scans the chunk table and ranks by cosine
// similarity in process, which is well within budget for a single-corpus
// private document index.
//
// # Schema
//
// The database schema is managed through versioned migrations embedded
// in the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.ragdoll/data/index.db
//
// # Thread Safety
//
// Concurrent readers are supported; writes are serialised. Upsert and
// Delete run in a single transaction, so a concurrent search observes
// either the fully-old or fully-new record set for a document, never a
// mix. SQLite WAL mode provides the snapshot isolation.
package sqlite
