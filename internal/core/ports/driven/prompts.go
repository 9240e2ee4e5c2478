package driven

// PromptStore provides access to LLM prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the built-in
	// default or an error when none exists.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer instructs the model to answer from the supplied context.
	// The template uses %[1]s for the question and %[2]s for the context.
	PromptAnswer = "answer"

	// PromptSummary asks for a bullet-point summary of the corpus.
	// The template uses %[1]s for the context.
	PromptSummary = "summary"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// If no store is set, the service uses its built-in default prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	SetPromptStore(store PromptStore)
}
