package transcript

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

func TestTranscript_Empty(t *testing.T) {
	tr := New(nil, 0, 10)

	require.NotNil(t, tr)
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Content())
}

func TestTranscript_QuestionAndAnswer(t *testing.T) {
	tr := New(nil, 0, 10)

	tr.AddQuestion("What happened to revenue?")
	tr.AddAnswer(domain.Answer{
		Text:          "Revenue grew 12%.",
		Sources:       []string{"q3.txt", "memo.docx"},
		Confidence:    domain.ConfidenceHigh,
		ContextLength: 240,
	})

	content := tr.Content()
	assert.Equal(t, 2, tr.Len())
	assert.Contains(t, content, "> What happened to revenue?")
	assert.Contains(t, content, "Revenue grew 12%.")
	assert.Contains(t, content, " • q3.txt")
	assert.Contains(t, content, " • memo.docx")
	assert.Contains(t, content, "confidence: high · context: 240 chars")
	assert.NotContains(t, content, "more")
}

func TestTranscript_AnswerShowsFirstFiveSources(t *testing.T) {
	tr := New(nil, 0, 10)

	sources := make([]string, 8)
	for i := range sources {
		sources[i] = fmt.Sprintf("doc-%d.txt", i)
	}
	tr.AddAnswer(domain.Answer{Text: "ok", Sources: sources, Confidence: domain.ConfidenceHigh})

	content := tr.Content()
	for _, src := range sources[:MaxSources] {
		assert.Contains(t, content, src)
	}
	assert.NotContains(t, content, "doc-5.txt")
	assert.Contains(t, content, "and 3 more")
}

func TestTranscript_ErrorAnswer(t *testing.T) {
	tr := New(nil, 0, 10)

	tr.AddAnswer(domain.Answer{
		Text:       "Error generating response: LLM service unavailable",
		Confidence: domain.ConfidenceError,
	})

	content := tr.Content()
	assert.NotContains(t, content, "Sources:")
	assert.Contains(t, content, "confidence: error")
	assert.NotContains(t, content, "context:")
}

func TestTranscript_Summary(t *testing.T) {
	tr := New(nil, 0, 10)

	tr.AddSummary(domain.Summary{
		Summary:       "• q3.txt: revenue",
		DocumentCount: 2,
		TotalChars:    300,
		DocumentTypes: []string{"Plain Text", "Word Document"},
	})

	content := tr.Content()
	assert.Contains(t, content, "Summary")
	assert.Contains(t, content, "• q3.txt: revenue")
	assert.Contains(t, content, "2 documents · 300 chars · Plain Text, Word Document")
}

func TestTranscript_Documents(t *testing.T) {
	t.Run("listing", func(t *testing.T) {
		tr := New(nil, 0, 10)
		tr.AddDocuments([]domain.DocumentInfo{
			{Name: "deck.pptx", Type: domain.TypePresentation, SizeChars: 42},
		})
		content := tr.Content()
		assert.Contains(t, content, "Documents (1)")
		assert.Contains(t, content, "deck.pptx")
		assert.Contains(t, content, "PowerPoint Presentation, 42 chars")
	})

	t.Run("empty", func(t *testing.T) {
		tr := New(nil, 0, 10)
		tr.AddDocuments(nil)
		assert.Contains(t, tr.Content(), "No documents are loaded.")
	})
}

func TestTranscript_ReportAndError(t *testing.T) {
	tr := New(nil, 0, 10)

	tr.AddReport(&domain.LoadReport{Bucket: "gs://b", Found: 4, Loaded: 2, Skipped: 1, Failed: 1})
	tr.AddError(errors.New("bucket not found"))

	content := tr.Content()
	assert.Contains(t, content, "Loaded 2 documents from gs://b (4 found, 1 skipped, 1 failed).")
	assert.Contains(t, content, "Error: bucket not found")
}

func TestTranscript_SetSizeRewraps(t *testing.T) {
	tr := New(nil, 0, 10)
	tr.AddNotice("alpha beta gamma delta")

	assert.Equal(t, 1, strings.Count(tr.Content(), "\n")+1)

	tr.SetSize(11, 10)
	assert.Greater(t, strings.Count(tr.Content(), "\n"), 0)
	assert.NotEmpty(t, tr.View())
}
