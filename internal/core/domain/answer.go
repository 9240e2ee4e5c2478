package domain

// Confidence tags the reliability of an Answer.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh  Confidence = "high"
	ConfidenceLow   Confidence = "low"
	ConfidenceError Confidence = "error"
)

// Answer is the structured result of asking a question.
type Answer struct {
	// Text is the generated answer, or an explanatory message.
	Text string `json:"answer" yaml:"answer"`

	// Sources lists document identifiers credited for the answer.
	Sources []string `json:"sources" yaml:"sources"`

	// Confidence is high on success, low on precondition failure and
	// error when generation failed.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// ContextLength is the character length of the assembled context.
	ContextLength int `json:"context_length,omitempty" yaml:"context_length,omitempty"`

	// DocumentsUsed is the number of sources.
	DocumentsUsed int `json:"documents_used,omitempty" yaml:"documents_used,omitempty"`
}

// Summary is the result of summarising the whole corpus.
type Summary struct {
	Summary       string     `json:"summary" yaml:"summary"`
	DocumentCount int        `json:"document_count,omitempty" yaml:"document_count,omitempty"`
	TotalChars    int        `json:"total_chars,omitempty" yaml:"total_chars,omitempty"`
	DocumentTypes []string   `json:"document_types,omitempty" yaml:"document_types,omitempty"`
	Confidence    Confidence `json:"confidence" yaml:"confidence"`
}

// SearchHit is a single substring match within a document.
type SearchHit struct {
	Document string       `json:"document" yaml:"document"`
	Type     DocumentType `json:"type" yaml:"type"`
	Snippet  string       `json:"snippet" yaml:"snippet"`
	Position int          `json:"position" yaml:"position"`
}

// RankedCandidate is a document scored against a query.
type RankedCandidate struct {
	ID    string
	Text  string
	Score int
	Type  DocumentType
}
