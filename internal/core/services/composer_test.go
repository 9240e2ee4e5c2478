package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

func newTestComposer(corpus driven.CorpusStore, llm driven.LLMService) *Composer {
	return NewComposer(corpus, NewRetriever(corpus), llm, ComposerConfig{})
}

func TestComposer_Ask_EmptyCorpus(t *testing.T) {
	llm := &mockLLM{response: "unused"}
	c := newTestComposer(memory.NewCorpusStore(), llm)

	answer := c.Ask(context.Background(), "What happened?")

	assert.Equal(t, "No documents are loaded. Please load documents first.", answer.Text)
	assert.Equal(t, []string{}, answer.Sources)
	assert.Equal(t, domain.ConfidenceLow, answer.Confidence)
	assert.Empty(t, llm.prompts, "no LLM call on empty corpus")
}

// Scenario A.
func TestComposer_Ask_Success(t *testing.T) {
	corpus := corpusOf(
		domain.Document{ID: "a.wav", Text: "hello world", Type: domain.TypeAudio},
		domain.Document{ID: "b.txt", Text: "Quarterly revenue rose 12%", Type: domain.TypePlainText},
	)
	llm := &mockLLM{response: "  Revenue rose 12% per b.txt.\n"}
	c := newTestComposer(corpus, llm)

	answer := c.Ask(context.Background(), "What happened to revenue")

	require.Len(t, llm.prompts, 1)
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "QUESTION: What happened to revenue")
	assert.Contains(t, prompt, "=== b.txt (Plain Text) ===")
	assert.NotContains(t, prompt, "a.wav")
	assert.Contains(t, prompt, "Do NOT hallucinate.")
	assert.True(t, strings.HasSuffix(prompt, "ANSWER:"))

	assert.Equal(t, "Revenue rose 12% per b.txt.", answer.Text)
	assert.Equal(t, []string{"a.wav", "b.txt"}, answer.Sources)
	assert.Equal(t, domain.ConfidenceHigh, answer.Confidence)
	assert.Equal(t, 2, answer.DocumentsUsed)
	assert.Equal(t, len("DOCUMENT CONTENTS:\n\n=== b.txt (Plain Text) ===\nQuarterly revenue rose 12%\n\n"), answer.ContextLength)
	assert.Equal(t, domain.DefaultMaxTokens, llm.opts[0].MaxTokens)
}

// Scenario B.
func TestComposer_Ask_Fallback(t *testing.T) {
	corpus := corpusOf(
		domain.Document{ID: "a.wav", Text: "hello world", Type: domain.TypeAudio},
		domain.Document{ID: "b.txt", Text: "Quarterly revenue rose 12%", Type: domain.TypePlainText},
	)
	llm := &mockLLM{response: "The documents do not say."}
	c := newTestComposer(corpus, llm)

	answer := c.Ask(context.Background(), "zebra migration")

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "=== a.wav (Audio Transcript) ===")
	assert.Contains(t, llm.prompts[0], "=== b.txt (Plain Text) ===")
	assert.Equal(t, []string{"a.wav", "b.txt"}, answer.Sources)
	assert.Equal(t, domain.ConfidenceHigh, answer.Confidence)
}

func TestComposer_Ask_GenerationError(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "alpha"})
	llm := &mockLLM{err: errors.New("deadline exceeded")}
	c := newTestComposer(corpus, llm)

	answer := c.Ask(context.Background(), "alpha?")

	assert.Equal(t, "Error generating response: deadline exceeded", answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, domain.ConfidenceError, answer.Confidence)
	assert.Len(t, llm.prompts, 1, "exactly one call, no retries")
}

func TestComposer_Ask_NoLLM(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "alpha"})
	c := newTestComposer(corpus, nil)

	answer := c.Ask(context.Background(), "alpha?")

	assert.Equal(t, domain.ConfidenceError, answer.Confidence)
	assert.Contains(t, answer.Text, "Error generating response: ")
	assert.Contains(t, answer.Text, domain.ErrLLMUnavailable.Error())
}

func TestComposer_Ask_CustomPrompt(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "alpha"})
	llm := &mockLLM{response: "ok"}
	c := newTestComposer(corpus, llm)
	c.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptAnswer: "Q=%[1]s C=%[2]s",
	}})

	c.Ask(context.Background(), "alpha")

	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "Q=alpha C=DOCUMENT CONTENTS:"))
}

func TestComposer_Ask_PromptStoreMissFallsBack(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "alpha"})
	llm := &mockLLM{response: "ok"}
	c := newTestComposer(corpus, llm)
	c.SetPromptStore(&mockPromptStore{prompts: map[string]string{}})

	c.Ask(context.Background(), "alpha")

	assert.Contains(t, llm.prompts[0], "QUESTION: alpha")
}

func TestComposer_Ask_UsesQABudget(t *testing.T) {
	long := strings.Repeat("word ", 5000)
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: long})
	llm := &mockLLM{response: "ok"}
	c := NewComposer(corpus, NewRetriever(corpus), llm, ComposerConfig{QABudget: 500})

	answer := c.Ask(context.Background(), "word")

	assert.LessOrEqual(t, answer.ContextLength, 500)
}

// committingLLM commits a document while generation is in flight, the way
// a concurrent Load would.
type committingLLM struct {
	mockLLM
	corpus driven.CorpusStore
	doc    domain.Document
}

func (m *committingLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.corpus.Put(m.doc)
	return m.mockLLM.Generate(ctx, prompt, opts)
}

func TestComposer_Ask_SourcesMatchContextSnapshot(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "revenue rose", Type: domain.TypePlainText})
	llm := &committingLLM{
		mockLLM: mockLLM{response: "ok"},
		corpus:  corpus,
		doc:     domain.Document{ID: "late.txt", Text: "revenue fell", Type: domain.TypePlainText},
	}
	c := newTestComposer(corpus, llm)

	answer := c.Ask(context.Background(), "revenue")

	require.Len(t, llm.prompts, 1)
	assert.NotContains(t, llm.prompts[0], "late.txt")
	assert.Equal(t, []string{"a.txt"}, answer.Sources)
	assert.Equal(t, 1, answer.DocumentsUsed)
	assert.Equal(t, 2, corpus.Len())
}

func TestComposer_Summarize_EmptyCorpus(t *testing.T) {
	c := newTestComposer(memory.NewCorpusStore(), &mockLLM{})

	summary := c.Summarize(context.Background())

	assert.Equal(t, "No documents loaded", summary.Summary)
	assert.Zero(t, summary.DocumentCount)
}

func TestComposer_Summarize_Success(t *testing.T) {
	corpus := corpusOf(
		domain.Document{ID: "a.pdf", Text: "alpha", Type: domain.TypePDF},
		domain.Document{ID: "b.txt", Text: "bravo!", Type: domain.TypePlainText},
		domain.Document{ID: "c.pdf", Text: "charlie", Type: domain.TypePDF},
	)
	llm := &mockLLM{response: "• a.pdf: alpha\n"}
	c := newTestComposer(corpus, llm)

	summary := c.Summarize(context.Background())

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "bullet-point summary")
	assert.Contains(t, llm.prompts[0], "CONTENTS:\nDOCUMENT CONTENTS:")
	assert.True(t, strings.HasSuffix(llm.prompts[0], "SUMMARY:"))

	assert.Equal(t, "• a.pdf: alpha", summary.Summary)
	assert.Equal(t, 3, summary.DocumentCount)
	assert.Equal(t, 18, summary.TotalChars)
	assert.Equal(t, []string{"PDF Document", "Plain Text"}, summary.DocumentTypes)
	assert.Equal(t, domain.ConfidenceHigh, summary.Confidence)
}

func TestComposer_Summarize_Error(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.pdf", Text: "alpha", Type: domain.TypePDF})
	c := newTestComposer(corpus, &mockLLM{err: errors.New("boom")})

	summary := c.Summarize(context.Background())

	assert.Equal(t, "Error generating summary: boom", summary.Summary)
	assert.Equal(t, domain.ConfidenceError, summary.Confidence)
	assert.Zero(t, summary.DocumentCount)
}
