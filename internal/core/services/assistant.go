package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Ensure Assistant implements the interface.
var _ driving.AssistantService = (*Assistant)(nil)

// Assistant is the question-answering facade over one corpus.
type Assistant struct {
	store    driven.ObjectStore
	corpus   driven.CorpusStore
	pipeline *IngestionPipeline
	composer *Composer

	// loadMu serialises ingestion runs.
	loadMu sync.Mutex
}

// NewAssistant creates an assistant.
func NewAssistant(
	store driven.ObjectStore,
	corpus driven.CorpusStore,
	pipeline *IngestionPipeline,
	composer *Composer,
) *Assistant {
	return &Assistant{
		store:    store,
		corpus:   corpus,
		pipeline: pipeline,
		composer: composer,
	}
}

// Load ingests bucket. Concurrent calls wait for the running one.
func (a *Assistant) Load(ctx context.Context, bucket string) (*domain.LoadReport, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: bucket is required", domain.ErrInvalidInput)
	}

	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	return a.pipeline.Run(ctx, bucket)
}

// Ask answers question from the corpus.
func (a *Assistant) Ask(ctx context.Context, question string) domain.Answer {
	return a.composer.Ask(ctx, question)
}

// Summarize summarises the corpus.
func (a *Assistant) Summarize(ctx context.Context) domain.Summary {
	return a.composer.Summarize(ctx)
}

// ListDocuments returns the corpus listing in insertion order.
func (a *Assistant) ListDocuments() []domain.DocumentInfo {
	docs := a.corpus.List()
	infos := make([]domain.DocumentInfo, 0, len(docs))
	for _, d := range docs {
		infos = append(infos, d.Info())
	}
	return infos
}

// Search finds term in every document.
func (a *Assistant) Search(term string) []domain.SearchHit {
	return SearchCorpus(a.corpus, term)
}

// Document returns a single corpus document.
func (a *Assistant) Document(id string) (*domain.Document, error) {
	return a.corpus.Get(id)
}

// Watch reloads bucket whenever the store reports a change under the
// ingestion prefix. It blocks until ctx is cancelled.
func (a *Assistant) Watch(ctx context.Context, bucket string, onReload func(*domain.LoadReport, error)) error {
	watcher, ok := a.store.(driven.WatchableStore)
	if !ok {
		return domain.ErrWatchUnsupported
	}

	logger.Info("Watching %s under %q", bucket, domain.IngestPrefix)
	err := watcher.Watch(ctx, bucket, domain.IngestPrefix, func() {
		report, err := a.Load(ctx, bucket)
		if err != nil {
			logger.Warn("Reload of %s failed: %v", bucket, err)
		}
		if onReload != nil {
			onReload(report, err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
