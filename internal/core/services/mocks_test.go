package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockObjectStore implements driven.ObjectStore over an in-memory bucket.
type mockObjectStore struct {
	mu          sync.Mutex
	objects     []domain.Object
	content     map[string]string
	listErr     error
	downloadErr map[string]error
	listCalls   int
	downloads   []string
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		content:     make(map[string]string),
		downloadErr: make(map[string]error),
	}
}

// add registers an object with its content under bucket "test-bucket".
func (m *mockObjectStore) add(path, content string) {
	m.objects = append(m.objects, domain.Object{Bucket: "test-bucket", Path: path, Size: int64(len(content))})
	m.content[path] = content
}

func (m *mockObjectStore) List(_ context.Context, _, prefix string) ([]domain.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Object
	for _, o := range m.objects {
		if strings.HasPrefix(o.Path, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockObjectStore) Download(_ context.Context, obj domain.Object, w io.Writer) error {
	m.mu.Lock()
	m.downloads = append(m.downloads, obj.Path)
	err := m.downloadErr[obj.Path]
	content := m.content[obj.Path]
	m.mu.Unlock()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

func (m *mockObjectStore) URI(obj domain.Object) string {
	return fmt.Sprintf("gs://%s/%s", obj.Bucket, obj.Path)
}

// mockWatchableStore adds driven.WatchableStore to mockObjectStore.
type mockWatchableStore struct {
	*mockObjectStore
	changes int
}

func (m *mockWatchableStore) Watch(ctx context.Context, _, _ string, onChange func()) error {
	for i := 0; i < m.changes; i++ {
		onChange()
	}
	<-ctx.Done()
	return ctx.Err()
}

// mockSpeech implements driven.SpeechTranscriber.
type mockSpeech struct {
	segments []string
	err      error
	calls    []string
	encoding domain.AudioEncoding
	language string
}

func (m *mockSpeech) Transcribe(_ context.Context, uri string, enc domain.AudioEncoding, lang string) ([]string, error) {
	m.calls = append(m.calls, uri)
	m.encoding = enc
	m.language = lang
	return m.segments, m.err
}

// mockVideo implements driven.VideoTranscriber.
type mockVideo struct {
	segments []string
	err      error
	calls    []string
}

func (m *mockVideo) TranscribeSpeech(_ context.Context, uri string) ([]string, error) {
	m.calls = append(m.calls, uri)
	return m.segments, m.err
}

// mockParser implements driven.TextParser by returning the file content,
// optionally failing or panicking for configured contents.
type mockParser struct {
	docType  domain.DocumentType
	failOn   string
	panicOn  string
	paths    []string
	existing []bool
}

func (m *mockParser) Type() domain.DocumentType { return m.docType }

func (m *mockParser) Name() string { return strings.ToLower(m.docType.String()) }

func (m *mockParser) Parse(_ context.Context, path string) (string, error) {
	m.paths = append(m.paths, path)
	data, err := os.ReadFile(path)
	m.existing = append(m.existing, err == nil)
	if err != nil {
		return "", err
	}
	content := string(data)
	if m.panicOn != "" && content == m.panicOn {
		panic("parser exploded")
	}
	if m.failOn != "" && content == m.failOn {
		return "", errors.New("malformed document")
	}
	return content, nil
}

// allParsers returns mock parsers for every locally parsed type.
func allParsers() []driven.TextParser {
	return []driven.TextParser{
		&mockParser{docType: domain.TypePDF},
		&mockParser{docType: domain.TypeWord},
		&mockParser{docType: domain.TypePresentation},
		&mockParser{docType: domain.TypePlainText},
	}
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.values[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/config.toml" }

// mockValidator implements driven.AIConfigValidator.
type mockValidator struct {
	err      error
	settings *domain.Settings
}

func (m *mockValidator) ValidateLLM(_ context.Context, settings *domain.Settings) error {
	m.settings = settings
	return m.err
}
