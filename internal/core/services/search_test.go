package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

func TestSearchCorpus_FirstMatchPerDocument(t *testing.T) {
	corpus := corpusOf(
		domain.Document{ID: "a.txt", Text: "Revenue grew. Revenue again.", Type: domain.TypePlainText},
		domain.Document{ID: "b.pdf", Text: "no match here", Type: domain.TypePDF},
		domain.Document{ID: "c.docx", Text: "Costs and REVENUE", Type: domain.TypeWord},
	)

	hits := SearchCorpus(corpus, "revenue")

	require.Len(t, hits, 2)
	assert.Equal(t, "a.txt", hits[0].Document)
	assert.Equal(t, 0, hits[0].Position)
	assert.Equal(t, domain.TypePlainText, hits[0].Type)
	assert.Equal(t, "Revenue grew. Revenue again.", hits[0].Snippet)
	assert.Equal(t, "c.docx", hits[1].Document)
	assert.Equal(t, 10, hits[1].Position)
}

func TestSearchCorpus_SnippetWindow(t *testing.T) {
	text := strings.Repeat("a", 300) + "NEEDLE" + strings.Repeat("b", 300)
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: text})

	hits := SearchCorpus(corpus, "needle")

	require.Len(t, hits, 1)
	assert.Equal(t, 300, hits[0].Position)
	assert.Equal(t, strings.Repeat("a", 120)+"NEEDLE"+strings.Repeat("b", 120), hits[0].Snippet)
}

func TestSearchCorpus_PositionsCountCharacters(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "Ünïcödé text with target"})

	hits := SearchCorpus(corpus, "TARGET")

	require.Len(t, hits, 1)
	assert.Equal(t, 18, hits[0].Position)
	assert.Equal(t, "Ünïcödé text with target", hits[0].Snippet)
}

func TestSearchCorpus_NoHits(t *testing.T) {
	corpus := corpusOf(domain.Document{ID: "a.txt", Text: "alpha"})

	assert.Empty(t, SearchCorpus(corpus, "omega"))
	assert.Empty(t, SearchCorpus(corpus, "   "))
}
