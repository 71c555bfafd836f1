package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ragdoll-labs/ragdoll-cli/internal/core/domain"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driven"
	"github.com/ragdoll-labs/ragdoll-cli/internal/core/ports/driving"
	"github.com/ragdoll-labs/ragdoll-cli/internal/logger"
)

// Ensure Answerer implements the interface.
var _ driving.QueryService = (*Answerer)(nil)

// DefaultContextBudget is the character budget for retrieved context in
// the grounding prompt.
const DefaultContextBudget = 6000

// noGroundingAnswer is returned when retrieval finds nothing; the
// generation service is not called in that case.
const noGroundingAnswer = "I don't have any indexed documents relevant to that question."

// answerPromptFormat frames the question with the retrieved excerpts and
// instructs the model to stay grounded in them.
const answerPromptFormat = `You are a helpful assistant answering questions about a document collection.
Answer the question using ONLY the excerpts below. If the excerpts do not
contain the answer, say you don't know. Cite facts, do not speculate.

Excerpts:
%s
Question: %s

Answer:`

// Answerer assembles grounding prompts and synthesises answers.
type Answerer struct {
	retriever     *Retriever
	generator     driven.GenerationService
	promptStore   driven.PromptStore
	contextBudget int
}

// NewAnswerer creates an answerer. contextBudget values below 1 fall
// back to DefaultContextBudget.
func NewAnswerer(retriever *Retriever, generator driven.GenerationService, contextBudget int) *Answerer {
	if contextBudget < 1 {
		contextBudget = DefaultContextBudget
	}
	return &Answerer{
		retriever:     retriever,
		generator:     generator,
		contextBudget: contextBudget,
	}
}

// SetPromptStore sets the store for loading a customised answer prompt.
// If not set, the embedded default prompt is used.
func (a *Answerer) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Ask answers a question over the indexed corpus. Retrieved excerpts
// that do not fit the context budget are dropped least-similar-first;
// the answer's sources list only the documents whose excerpts survived.
func (a *Answerer) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}

	result, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	if result.Empty() {
		logger.Info("no relevant chunks found, skipping generation")
		return &domain.Answer{
			Text:     noGroundingAnswer,
			Grounded: false,
		}, nil
	}

	prompt, surviving := a.buildPrompt(question, result.Hits)

	text, err := a.generator.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:     strings.TrimSpace(text),
		Sources:  surviving.Sources(),
		Grounded: true,
	}, nil
}

// buildPrompt lays out the excerpts most-similar-first, each labelled
// with its source document, stopping when the context budget is spent.
// At least one excerpt is always included, truncated if necessary.
func (a *Answerer) buildPrompt(question string, hits []domain.RetrievedChunk) (string, *domain.RetrievalResult) {
	var sb strings.Builder
	surviving := &domain.RetrievalResult{}

	used := 0
	for i, hit := range hits {
		excerpt := fmt.Sprintf("[%s]\n%s\n\n", hit.Chunk.DocumentID, hit.Chunk.Content)
		if used+len(excerpt) > a.contextBudget {
			if i == 0 {
				// A single oversized chunk still grounds the answer.
				// Trim back to a rune boundary so the prompt never ends
				// mid-sequence.
				cut := a.contextBudget
				for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
					cut--
				}
				excerpt = excerpt[:cut]
			} else {
				logger.Debug("context budget reached, dropping %d of %d excerpts", len(hits)-i, len(hits))
				break
			}
		}
		sb.WriteString(excerpt)
		used += len(excerpt)
		surviving.Hits = append(surviving.Hits, hit)
	}

	return fmt.Sprintf(a.promptTemplate(), sb.String(), question), surviving
}

// promptTemplate loads the answer prompt from the store, falling back
// to the embedded default if unavailable or malformed.
func (a *Answerer) promptTemplate() string {
	if a.promptStore == nil {
		return answerPromptFormat
	}
	prompt, err := a.promptStore.Load(driven.PromptAnswer)
	if err != nil {
		return answerPromptFormat
	}
	// A custom template needs exactly the two %s verbs (excerpts,
	// question); anything else would leak %!s(MISSING) noise or stray
	// excerpts into the model prompt.
	if strings.Count(prompt, "%s") != 2 {
		logger.Warn("custom answer prompt does not have exactly two %%s placeholders, using default")
		return answerPromptFormat
	}
	return prompt
}
