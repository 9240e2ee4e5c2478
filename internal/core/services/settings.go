package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyProject         = "gcp.project"
	keyLocation        = "gcp.location"
	keyCredentialsFile = "gcp.credentials_file"
	keyRequestsPerSec  = "gcp.requests_per_second"
	keyBucket          = "ingest.bucket"
	keyLanguage        = "ingest.language"
	keyVideoTimeout    = "ingest.video_timeout_seconds"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyQABudget        = "retrieval.qa_budget"
	keySummaryBudget   = "retrieval.summary_budget"
)

// intKeys are stored as integers. All other keys are strings.
var intKeys = map[string]bool{
	keyRequestsPerSec: true,
	keyVideoTimeout:   true,
	keyLLMMaxTokens:   true,
	keyQABudget:       true,
	keySummaryBudget:  true,
}

// envOverrides maps environment variables onto config keys. Earlier
// entries win when several are set for the same key.
//
//nolint:gosec // G101: These are environment variable names.
var envOverrides = []struct {
	env string
	key string
}{
	{"BUCKETQA_PROJECT", keyProject},
	{"GOOGLE_CLOUD_PROJECT", keyProject},
	{"BUCKETQA_LOCATION", keyLocation},
	{"GOOGLE_APPLICATION_CREDENTIALS", keyCredentialsFile},
	{"BUCKETQA_BUCKET", keyBucket},
	{"BUCKETQA_LANGUAGE", keyLanguage},
	{"BUCKETQA_LLM_PROVIDER", keyLLMProvider},
	{"BUCKETQA_LLM_MODEL", keyLLMModel},
	{"BUCKETQA_LLM_BASE_URL", keyLLMBaseURL},
	{"BUCKETQA_LLM_API_KEY", keyLLMAPIKey},
}

// SettingsService resolves application settings from the config store and
// the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. aiValidator is optional.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get returns defaults overlaid with the config file and the environment.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	provider := domain.LLMProvider(s.getString(keyLLMProvider, d.LLM.Provider.String()))
	if !provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, provider)
	}

	apiKey := s.getString(keyLLMAPIKey, "")
	if apiKey == "" && provider == domain.LLMProviderOpenAI {
		apiKey = s.getenv("OPENAI_API_KEY")
	}
	baseURL := s.getString(keyLLMBaseURL, "")
	if baseURL == "" && provider == domain.LLMProviderOllama {
		baseURL = domain.DefaultOllamaBaseURL
	}

	settings := &domain.Settings{
		Cloud: domain.CloudSettings{
			Project:           s.getString(keyProject, ""),
			Location:          s.getString(keyLocation, d.Cloud.Location),
			CredentialsFile:   s.getString(keyCredentialsFile, ""),
			RequestsPerSecond: s.getInt(keyRequestsPerSec, d.Cloud.RequestsPerSecond),
		},
		Ingest: domain.IngestSettings{
			Bucket:       s.getString(keyBucket, ""),
			Language:     s.getString(keyLanguage, d.Ingest.Language),
			VideoTimeout: time.Duration(s.getInt(keyVideoTimeout, int(d.Ingest.VideoTimeout/time.Second))) * time.Second,
		},
		LLM: domain.LLMSettings{
			Provider:  provider,
			Model:     s.getString(keyLLMModel, domain.DefaultModelFor(provider)),
			BaseURL:   baseURL,
			APIKey:    apiKey,
			MaxTokens: s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
		},
		Retrieval: domain.RetrievalSettings{
			QABudget:      s.getInt(keyQABudget, d.Retrieval.QABudget),
			SummaryBudget: s.getInt(keySummaryBudget, d.Retrieval.SummaryBudget),
		},
	}

	return settings, nil
}

// Set validates and stores a single key.
func (s *SettingsService) Set(key, value string) error {
	if !s.isKnownKey(key) {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	if key == keyLLMProvider && !domain.LLMProvider(value).IsValid() {
		return fmt.Errorf("%w: invalid llm provider %q", domain.ErrInvalidInput, value)
	}

	if intKeys[key] {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		if err := s.configStore.Set(key, n); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		return nil
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the recognised config keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyProject, keyLocation, keyCredentialsFile, keyRequestsPerSec,
		keyBucket, keyLanguage, keyVideoTimeout,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMMaxTokens,
		keyQABudget, keySummaryBudget,
	}
	sort.Strings(keys)
	return keys
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, settings)
}

func (s *SettingsService) isKnownKey(key string) bool {
	for _, k := range s.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// envFor returns the first non-empty environment override for key.
func (s *SettingsService) envFor(key string) string {
	for _, o := range envOverrides {
		if o.key != key {
			continue
		}
		if v := s.getenv(o.env); v != "" {
			return v
		}
	}
	return ""
}

// getString returns the environment override, then the stored value, then the default.
func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.envFor(key); v != "" {
		return v
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

// getInt returns the stored value or the default when unset or not positive.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}
