package driven

import "github.com/custodia-labs/bucketqa/internal/core/domain"

// CorpusStore holds extracted documents keyed by base filename.
// Implementations must be safe for concurrent use. A Put replaces any
// previous record with the same ID wholesale and keeps its original
// insertion position.
type CorpusStore interface {
	// Put commits a document.
	Put(doc domain.Document)

	// Get returns the document with the given ID or domain.ErrNotFound.
	Get(id string) (*domain.Document, error)

	// List returns all documents in insertion order.
	List() []domain.Document

	// IDs returns all document IDs in insertion order.
	IDs() []string

	// Len returns the number of documents.
	Len() int
}
