package domain

// RetrievedChunk is a single similarity-search hit.
type RetrievedChunk struct {
	// Chunk is the matched chunk, including its text and offsets.
	Chunk Chunk

	// Score is the cosine similarity to the query vector.
	Score float64
}

// RetrievalResult is an ordered sequence of hits, descending by
// similarity. Ties are broken by document ID, then chunk position, so
// an unmodified store always returns the same ordering.
type RetrievalResult struct {
	// Hits has length <= the requested K.
	Hits []RetrievedChunk
}

// Empty reports whether no chunks were retrieved.
func (r *RetrievalResult) Empty() bool {
	return len(r.Hits) == 0
}

// Sources returns the distinct source document IDs in hit order.
func (r *RetrievalResult) Sources() []string {
	seen := make(map[string]struct{}, len(r.Hits))
	var sources []string
	for _, hit := range r.Hits {
		id := hit.Chunk.DocumentID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sources = append(sources, id)
	}
	return sources
}

// Answer is the outcome of a question: generated text plus the distinct
// source documents whose chunks grounded the prompt, in descending
// similarity order.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the document IDs that survived the context budget.
	// Empty when no grounding was found.
	Sources []string

	// Grounded is false when the index returned no relevant chunks and
	// the answer states that no grounding was found.
	Grounded bool
}
