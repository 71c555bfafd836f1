package driving

import (
	"context"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
)

// QueryService answers natural-language questions over the indexed corpus.
type QueryService interface {
	// Ask embeds the question, retrieves the most similar chunks,
	// assembles a bounded grounding prompt and generates an answer.
	// An empty index produces a valid no-grounding answer, not an error.
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}
