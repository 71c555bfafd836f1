package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ragdoll-labs/ragdoll-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
)

// metaKeyDimensions is the index_meta key recording the embedding
// dimension the index was created with.
const metaKeyDimensions = "embedding_dimensions"

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is the SQLite-backed vector index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the vector index at the specified data
// directory. If dataDir is empty, defaults to ~/.ragdoll/data/index.db.
//
// An unreadable or unmigratable database is reported as
// domain.ErrStoreCorruption so it cannot be mistaken for an index that
// has never been written to.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdoll", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode keeps readers unblocked while a write is in flight
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: enabling foreign keys: %v", domain.ErrStoreCorruption, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrStoreCorruption, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert atomically replaces the record set for a document. The prior
// version's chunks are removed and the new set inserted in a single
// transaction, so concurrent searches never see a mixed state.
func (s *Store) Upsert(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	if doc.ID == "" || doc.Fingerprint == "" {
		return fmt.Errorf("upsert document: %w", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	dims, err := s.dimensionsTx(tx)
	if err != nil {
		return err
	}
	for i := range chunks {
		n := len(chunks[i].Embedding)
		if n == 0 {
			return fmt.Errorf("chunk %s has no embedding: %w", chunks[i].ID, domain.ErrInvalidInput)
		}
		if dims == 0 {
			// First write fixes the dimension for the index lifetime
			dims = n
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO index_meta (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value
			`, metaKeyDimensions, strconv.Itoa(n)); err != nil {
				return fmt.Errorf("recording dimensions: %w", err)
			}
		}
		if n != dims {
			return fmt.Errorf("chunk %s has %d dimensions, index has %d: %w",
				chunks[i].ID, n, dims, domain.ErrDimensionMismatch)
		}
	}

	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, fingerprint, format, title, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			format = excluded.format,
			title = excluded.title,
			indexed_at = excluded.indexed_at
	`, doc.ID, doc.Fingerprint, doc.Format, doc.Title, doc.IndexedAt); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing prior chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, fingerprint, content, position, start_offset, end_offset, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		if _, err := stmt.ExecContext(ctx, c.ID, doc.ID, doc.Fingerprint, c.Content,
			c.Position, c.Start, c.End, float32SliceToBytes(c.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Has reports whether the document is stored under this ID with this
// exact content fingerprint.
func (s *Store) Has(ctx context.Context, documentID, fingerprint string) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM documents WHERE id = ? AND fingerprint = ?)",
		documentID, fingerprint)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("checking fingerprint: %w", err)
	}
	return exists, nil
}

// Search scans the chunk table and returns the k most similar records,
// descending by cosine similarity with (document ID, position)
// tie-breaking. An empty store returns an empty result.
func (s *Store) Search(ctx context.Context, query []float32, k int) (*domain.RetrievalResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("search k=%d: %w", k, domain.ErrInvalidInput)
	}
	if len(query) == 0 {
		return nil, fmt.Errorf("empty query vector: %w", domain.ErrInvalidInput)
	}

	dims, err := s.dimensions(ctx)
	if err != nil {
		return nil, err
	}
	if dims == 0 {
		// Never written to
		return &domain.RetrievalResult{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), dims, domain.ErrDimensionMismatch)
	}

	// Deterministic base order makes the stable sort's tie-breaking
	// independent of storage order.
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, fingerprint, content, position, start_offset, end_offset, embedding
		FROM chunks
		ORDER BY document_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var hits []domain.RetrievedChunk
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Fingerprint, &chunk.Content,
			&chunk.Position, &chunk.Start, &chunk.End, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		embedding, err := bytesToFloat32Slice(blob)
		if err != nil || len(embedding) != dims {
			return nil, fmt.Errorf("chunk %s embedding unreadable: %w", chunk.ID, domain.ErrStoreCorruption)
		}
		chunk.Embedding = embedding

		hits = append(hits, domain.RetrievedChunk{
			Chunk: chunk,
			Score: cosineSimilarity(query, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return &domain.RetrievalResult{Hits: hits}, nil
}

// Delete removes a document and its chunks. Unknown IDs are a no-op.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	// Chunks go via ON DELETE CASCADE
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = ?", documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// ListDocuments returns stored document metadata without content.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fingerprint, format, title, indexed_at
		FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var indexedAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Fingerprint, &doc.Format, &doc.Title, &indexedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if indexedAt.Valid {
			doc.IndexedAt = indexedAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Counts returns the number of stored documents and chunks.
func (s *Store) Counts(ctx context.Context) (int, int, error) {
	var docs, chunks int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&docs); err != nil {
		return 0, 0, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks").Scan(&chunks); err != nil {
		return 0, 0, fmt.Errorf("counting chunks: %w", err)
	}
	return docs, chunks, nil
}

// dimensions reads the recorded embedding dimension; 0 means the index
// has never been written to.
func (s *Store) dimensions(ctx context.Context) (int, error) {
	var value string
	row := s.db.QueryRowContext(ctx,
		"SELECT value FROM index_meta WHERE key = ?", metaKeyDimensions)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading dimensions: %w", err)
	}

	dims, err := strconv.Atoi(value)
	if err != nil || dims <= 0 {
		return 0, fmt.Errorf("dimensions value %q: %w", value, domain.ErrStoreCorruption)
	}
	return dims, nil
}

// dimensionsTx is the transactional variant of dimensions.
func (s *Store) dimensionsTx(tx *sql.Tx) (int, error) {
	var value string
	row := tx.QueryRow("SELECT value FROM index_meta WHERE key = ?", metaKeyDimensions)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading dimensions: %w", err)
	}

	dims, err := strconv.Atoi(value)
	if err != nil || dims <= 0 {
		return 0, fmt.Errorf("dimensions value %q: %w", value, domain.ErrStoreCorruption)
	}
	return dims, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors
// of equal length.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a little-endian byte
// slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a stored byte slice back to []float32.
func bytesToFloat32Slice(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(data))
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats, nil
}
