package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// --- Mock implementations ---

type mockAssistant struct {
	answer    domain.Answer
	summary   domain.Summary
	docs      []domain.DocumentInfo
	hits      []domain.SearchHit
	documents map[string]*domain.Document
	report    *domain.LoadReport
	loadErr   error

	questions    []string
	searchTerm   string
	loadedBucket string
}

func (m *mockAssistant) Load(_ context.Context, bucket string) (*domain.LoadReport, error) {
	m.loadedBucket = bucket
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.LoadReport{Bucket: bucket, Prefix: domain.IngestPrefix}, nil
}

func (m *mockAssistant) Ask(_ context.Context, question string) domain.Answer {
	m.questions = append(m.questions, question)
	return m.answer
}

func (m *mockAssistant) Summarize(_ context.Context) domain.Summary { return m.summary }

func (m *mockAssistant) ListDocuments() []domain.DocumentInfo { return m.docs }

func (m *mockAssistant) Search(term string) []domain.SearchHit {
	m.searchTerm = term
	return m.hits
}

func (m *mockAssistant) Document(id string) (*domain.Document, error) {
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (m *mockAssistant) Watch(_ context.Context, _ string, _ func(*domain.LoadReport, error)) error {
	return domain.ErrWatchUnsupported
}

type mockSettings struct {
	settings    domain.Settings
	setCalls    map[string]string
	setErr      error
	validateErr error
}

func newMockSettings() *mockSettings {
	return &mockSettings{
		settings: domain.DefaultSettings(),
		setCalls: make(map[string]string),
	}
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"gcp.project", "ingest.bucket", "llm.provider"}
}

func (m *mockSettings) ValidateLLMConfig(_ context.Context) error {
	return m.validateErr
}

// setupTestServices installs the mocks and restores the package state
// after the test.
func setupTestServices(t *testing.T, assistant *mockAssistant, settings *mockSettings, bucket string) {
	t.Helper()

	origFactory := serviceFactory
	serviceFactory = nil
	if assistant != nil {
		assistantService = assistant
	}
	if settings != nil {
		settingsService = settings
	}
	configuredBucket = bucket

	t.Cleanup(func() {
		serviceFactory = origFactory
		assistantService = nil
		settingsService = nil
		configuredBucket = ""
		llmModel = ""
		closeServices = nil
		bucketFlag = ""
		outputFormat = formatText
		searchLimit = 10
		verbose = false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetErr(nil)
	})
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
