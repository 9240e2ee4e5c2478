// Package memory provides in-memory implementations of driven port interfaces.
package memory

import (
	"sync"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// Documents are kept in insertion order. Replacing a document keeps its
// original position.
type CorpusStore struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	order []string
}

// NewCorpusStore creates an empty corpus.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{
		docs: make(map[string]domain.Document),
	}
}

// Put stores or replaces a document.
func (s *CorpusStore) Put(doc domain.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.docs[doc.ID] = doc
}

// Get retrieves a document by ID.
func (s *CorpusStore) Get(id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// List returns a snapshot of all documents in insertion order.
func (s *CorpusStore) List() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		docs = append(docs, s.docs[id])
	}
	return docs
}

// IDs returns all document IDs in insertion order.
func (s *CorpusStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len returns the number of documents.
func (s *CorpusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
