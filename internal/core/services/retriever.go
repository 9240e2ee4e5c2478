package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Context assembly constants.
const (
	// NoDocumentsContext is returned by BuildContext for an empty corpus.
	NoDocumentsContext = "No documents loaded."

	contextPreamble = "DOCUMENT CONTENTS:\n\n"

	// contextReserve is held back from every snippet so the prompt has
	// room around the context.
	contextReserve = 100

	// fallbackCandidates is the number of documents used when no document
	// matches any query term.
	fallbackCandidates = 2
)

// Retriever selects corpus documents for a query by term overlap and
// assembles them into a size-bounded context block.
type Retriever struct {
	corpus driven.CorpusStore
}

// NewRetriever creates a retriever over corpus.
func NewRetriever(corpus driven.CorpusStore) *Retriever {
	return &Retriever{corpus: corpus}
}

// QueryTerms lower-cases query, splits on whitespace and removes duplicates.
func QueryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// Score counts the distinct terms that occur as substrings of the
// lower-cased text.
func Score(terms []string, text string) int {
	lowered := strings.ToLower(text)
	score := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			score++
		}
	}
	return score
}

// Rank returns the documents with a positive score for query, highest
// first. Ties keep insertion order. If nothing matches, the first two
// documents are returned with score zero.
func (r *Retriever) Rank(query string) []domain.RankedCandidate {
	return rankDocuments(r.corpus.List(), query)
}

func rankDocuments(docs []domain.Document, query string) []domain.RankedCandidate {
	terms := QueryTerms(query)

	var ranked []domain.RankedCandidate
	for _, doc := range docs {
		if score := Score(terms, doc.Text); score > 0 {
			ranked = append(ranked, domain.RankedCandidate{ID: doc.ID, Text: doc.Text, Score: score, Type: doc.Type})
		}
	}

	if len(ranked) == 0 {
		logger.Debug("No document matches %d query terms, using first %d documents", len(terms), fallbackCandidates)
		for i := 0; i < len(docs) && i < fallbackCandidates; i++ {
			ranked = append(ranked, domain.RankedCandidate{ID: docs[i].ID, Text: docs[i].Text, Type: docs[i].Type})
		}
		return ranked
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// BuildContext assembles the ranked documents for query into a context
// of at most maxChars characters. Each document is added as a header line
// and a leading snippet. Assembly stops at the first document that no
// longer fits.
func (r *Retriever) BuildContext(query string, maxChars int) string {
	return buildContext(r.corpus.List(), query, maxChars)
}

// BuildContextFrom is BuildContext over docs, a snapshot the caller has
// already taken from the corpus.
func (r *Retriever) BuildContextFrom(docs []domain.Document, query string, maxChars int) string {
	return buildContext(docs, query, maxChars)
}

func buildContext(docs []domain.Document, query string, maxChars int) string {
	if len(docs) == 0 {
		return NoDocumentsContext
	}

	var b strings.Builder
	b.WriteString(contextPreamble)
	length := utf8.RuneCountInString(contextPreamble)

	for _, c := range rankDocuments(docs, query) {
		header := fmt.Sprintf("=== %s (%s) ===\n", c.ID, c.Type)
		remaining := maxChars - length - utf8.RuneCountInString(header) - contextReserve
		if remaining <= 0 {
			break
		}

		snippet := truncateRunes(c.Text, remaining)
		b.WriteString(header)
		b.WriteString(snippet)
		b.WriteString("\n\n")
		length += utf8.RuneCountInString(header) + utf8.RuneCountInString(snippet) + 2
	}

	logger.Debug("Built context of %d chars for %q", length, query)
	return b.String()
}

// truncateRunes returns the first n characters of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
