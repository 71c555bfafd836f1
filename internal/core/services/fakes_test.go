package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
)

// fakeCorpus replays a fixed set of scan results.
type fakeCorpus struct {
	results []driven.ScanResult
	scanErr error
}

func (f *fakeCorpus) Scan(ctx context.Context) (<-chan driven.ScanResult, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	ch := make(chan driven.ScanResult, len(f.results))
	for _, r := range f.results {
		ch <- r
	}
	close(ch)
	return ch, nil
}

func scanDoc(path, content string) driven.ScanResult {
	return driven.ScanResult{
		Path: path,
		Document: &domain.Document{
			ID:          path,
			Fingerprint: domain.FingerprintBytes([]byte(content)),
			Format:      "text",
			Title:       path,
			Content:     content,
		},
	}
}

func scanFailure(path string, err error) driven.ScanResult {
	return driven.ScanResult{Path: path, Err: err}
}

// fakeEmbedder maps text to a deterministic unit vector from a token
// hash, so similar texts sharing words land near each other. It counts
// Embed calls to observe skip behaviour.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

const fakeDims = 16

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vec := make([]float32, fakeDims)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		var h uint32 = 2166136261
		for i := 0; i < len(word); i++ {
			h = (h ^ uint32(word[i])) * 16777619
		}
		vec[h%fakeDims]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vec {
			vec[i] /= n
		}
	}
	return vec, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int            { return fakeDims }
func (f *fakeEmbedder) ModelName() string          { return "fake-embed" }
func (f *fakeEmbedder) Ping(context.Context) error { return nil }
func (f *fakeEmbedder) Close() error               { return nil }

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memoryStore is an in-memory VectorStore for service tests.
type memoryStore struct {
	mu     sync.RWMutex
	docs   map[string]domain.Document
	chunks map[string][]domain.Chunk
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		docs:   make(map[string]domain.Document),
		chunks: make(map[string][]domain.Chunk),
	}
}

func (m *memoryStore) Upsert(_ context.Context, doc domain.Document, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	m.chunks[doc.ID] = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *memoryStore) Has(_ context.Context, documentID, fingerprint string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[documentID]
	return ok && doc.Fingerprint == fingerprint, nil
}

func (m *memoryStore) Search(_ context.Context, query []float32, k int) (*domain.RetrievalResult, error) {
	if k < 1 {
		return nil, domain.ErrInvalidInput
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []domain.RetrievedChunk
	for _, chunks := range m.chunks {
		for _, c := range chunks {
			hits = append(hits, domain.RetrievedChunk{Chunk: c, Score: cosine(query, c.Embedding)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Chunk.DocumentID != hits[j].Chunk.DocumentID {
			return hits[i].Chunk.DocumentID < hits[j].Chunk.DocumentID
		}
		return hits[i].Chunk.Position < hits[j].Chunk.Position
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return &domain.RetrievalResult{Hits: hits}, nil
}

func (m *memoryStore) Delete(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, documentID)
	delete(m.chunks, documentID)
	return nil
}

func (m *memoryStore) ListDocuments(context.Context) ([]domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (m *memoryStore) Counts(context.Context) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var chunks int
	for _, c := range m.chunks {
		chunks += len(c)
	}
	return len(m.docs), chunks, nil
}

func (m *memoryStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// fakeGenerator records the last prompt and returns a canned answer.
type fakeGenerator struct {
	mu         sync.Mutex
	lastPrompt string
	calls      int
	response   string
	fail       bool
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	if f.fail {
		return "", domain.ErrGenerationUnavailable
	}
	if f.response == "" {
		return "canned answer", nil
	}
	return f.response, nil
}

func (f *fakeGenerator) ModelName() string          { return "fake-gen" }
func (f *fakeGenerator) Ping(context.Context) error { return nil }
func (f *fakeGenerator) Close() error               { return nil }

var errBoom = errors.New("boom")
