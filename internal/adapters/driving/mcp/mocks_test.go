package mcp

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// mockAssistant is a mock implementation of driving.AssistantService.
type mockAssistant struct {
	answer    domain.Answer
	summary   domain.Summary
	docs      []domain.DocumentInfo
	hits      []domain.SearchHit
	documents map[string]*domain.Document
	report    *domain.LoadReport
	err       error

	question     string
	searchTerm   string
	loadedBucket string
}

func (m *mockAssistant) Load(_ context.Context, bucket string) (*domain.LoadReport, error) {
	m.loadedBucket = bucket
	return m.report, m.err
}

func (m *mockAssistant) Ask(_ context.Context, question string) domain.Answer {
	m.question = question
	return m.answer
}

func (m *mockAssistant) Summarize(_ context.Context) domain.Summary {
	return m.summary
}

func (m *mockAssistant) ListDocuments() []domain.DocumentInfo {
	return m.docs
}

func (m *mockAssistant) Search(term string) []domain.SearchHit {
	m.searchTerm = term
	return m.hits
}

func (m *mockAssistant) Document(id string) (*domain.Document, error) {
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockAssistant) Watch(_ context.Context, _ string, _ func(*domain.LoadReport, error)) error {
	return domain.ErrWatchUnsupported
}
