package driven

// Prompt names recognised by the prompt store.
const (
	// PromptAnswer frames the question and retrieved excerpts for
	// answer generation. Takes two %s placeholders: excerpts, question.
	PromptAnswer = "answer"
)

// PromptStore loads prompt templates, allowing users to customise how
// answers are framed without rebuilding the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
