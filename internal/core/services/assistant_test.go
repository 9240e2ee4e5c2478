package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

func newTestAssistant(t *testing.T, store driven.ObjectStore, llm driven.LLMService) *Assistant {
	t.Helper()
	corpus := memory.NewCorpusStore()
	ex := NewExtractor(store, nil, nil, allParsers(), "")
	ex.SetTempDir(t.TempDir())
	pipeline := NewIngestionPipeline(store, ex, corpus)
	composer := NewComposer(corpus, NewRetriever(corpus), llm, ComposerConfig{})
	return NewAssistant(store, corpus, pipeline, composer)
}

func TestAssistant_LoadAskList(t *testing.T) {
	store := newMockObjectStore()
	store.add("extracted/a.txt", "alpha report")
	store.add("extracted/b.pptx", "bravo slides")
	llm := &mockLLM{response: "alpha"}
	a := newTestAssistant(t, store, llm)

	report, err := a.Load(context.Background(), "test-bucket")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)

	infos := a.ListDocuments()
	require.Len(t, infos, 2)
	assert.Equal(t, "a.txt", infos[0].Name)
	assert.Equal(t, domain.TypePresentation, infos[1].Type)
	assert.Equal(t, 12, infos[1].SizeChars)

	answer := a.Ask(context.Background(), "alpha")
	assert.Equal(t, domain.ConfidenceHigh, answer.Confidence)

	hits := a.Search("slides")
	require.Len(t, hits, 1)
	assert.Equal(t, "b.pptx", hits[0].Document)

	doc, err := a.Document("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha report", doc.Text)

	_, err = a.Document("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssistant_Load_RequiresBucket(t *testing.T) {
	a := newTestAssistant(t, newMockObjectStore(), nil)

	_, err := a.Load(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssistant_Load_Concurrent(t *testing.T) {
	store := newMockObjectStore()
	store.add("extracted/a.txt", "alpha")
	a := newTestAssistant(t, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Load(context.Background(), "test-bucket")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, a.ListDocuments(), 1)
	assert.Equal(t, 5, store.listCalls)
}

func TestAssistant_Watch_Unsupported(t *testing.T) {
	a := newTestAssistant(t, newMockObjectStore(), nil)

	err := a.Watch(context.Background(), "test-bucket", nil)

	assert.ErrorIs(t, err, domain.ErrWatchUnsupported)
}

func TestAssistant_Watch_ReloadsOnChange(t *testing.T) {
	inner := newMockObjectStore()
	inner.add("extracted/a.txt", "alpha")
	store := &mockWatchableStore{mockObjectStore: inner, changes: 2}
	a := newTestAssistant(t, store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var reloads []*domain.LoadReport
	err := a.Watch(ctx, "test-bucket", func(r *domain.LoadReport, err error) {
		assert.NoError(t, err)
		reloads = append(reloads, r)
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, reloads, 2)
	assert.Equal(t, 1, reloads[1].Loaded)
}
