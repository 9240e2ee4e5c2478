package services

import (
	"strings"
	"unicode"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// searchWindow is the number of characters kept on each side of a match.
const searchWindow = 120

// SearchCorpus returns the first case-insensitive occurrence of term in
// each document, in corpus order. Documents without a match are omitted.
// Positions and snippet bounds count characters, not bytes.
func SearchCorpus(corpus driven.CorpusStore, term string) []domain.SearchHit {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	needle := []rune(lowerRunes(term))

	var hits []domain.SearchHit
	for _, doc := range corpus.List() {
		text := []rune(doc.Text)
		idx := indexRunes([]rune(lowerRunes(doc.Text)), needle)
		if idx < 0 {
			continue
		}
		start := max(0, idx-searchWindow)
		end := min(len(text), idx+len(needle)+searchWindow)
		hits = append(hits, domain.SearchHit{
			Document: doc.ID,
			Type:     doc.Type,
			Snippet:  string(text[start:end]),
			Position: idx,
		})
	}
	return hits
}

// lowerRunes lower-cases s one rune at a time so rune offsets in the result
// match those in s.
func lowerRunes(s string) string {
	return strings.Map(unicode.ToLower, s)
}

func indexRunes(haystack, needle []rune) int {
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
