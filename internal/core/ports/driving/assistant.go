package driving

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// AssistantService is the question-answering surface over a bucket corpus.
type AssistantService interface {
	// Load ingests every object under the fixed prefix of bucket and
	// returns the report. The corpus size after the run is report.Loaded.
	// Runs are serialised.
	Load(ctx context.Context, bucket string) (*domain.LoadReport, error)

	// Ask answers a question from the corpus. Failures are reported in
	// the Answer rather than as an error.
	Ask(ctx context.Context, question string) domain.Answer

	// Summarize produces a bullet-point summary of the whole corpus.
	Summarize(ctx context.Context) domain.Summary

	// ListDocuments returns the corpus listing in insertion order.
	ListDocuments() []domain.DocumentInfo

	// Search returns the first case-insensitive match per document.
	Search(term string) []domain.SearchHit

	// Document returns one corpus document or domain.ErrNotFound.
	Document(id string) (*domain.Document, error)

	// Watch re-runs Load on every change under the prefix until ctx is
	// cancelled. Returns domain.ErrWatchUnsupported when the store
	// cannot be watched.
	Watch(ctx context.Context, bucket string, onReload func(*domain.LoadReport, error)) error
}
