package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Retriever embeds a question and finds the most similar stored chunks.
type Retriever struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	topK     int
}

// NewRetriever creates a retriever. topK values below 1 fall back to
// DefaultTopK.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, topK int) *Retriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		store:    store,
		topK:     topK,
	}
}

// TopK returns the configured retrieval depth.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve embeds the question and returns up to topK chunks ranked by
// cosine similarity. An empty index yields an empty result, not an
// error.
func (r *Retriever) Retrieve(ctx context.Context, question string) (*domain.RetrievalResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	query, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	result, err := r.store.Search(ctx, query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	logger.Debug("retrieved %d chunks for question", len(result.Hits))
	return result, nil
}
