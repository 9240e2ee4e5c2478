package domain

import "time"

const unknownDescription = "Unknown"

// Defaults applied when no configuration overrides them.
const (
	DefaultLocation      = "us-central1"
	DefaultLanguage      = "en-US"
	DefaultVertexModel   = "gemini-2.5-flash"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOllamaModel   = "llama3.2"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultQABudget      = 8000
	DefaultSummaryBudget = 12000
	DefaultVideoTimeout  = 300 * time.Second
	DefaultMaxTokens     = 2048
)

// DefaultRequestsPerSecond caps calls to each Google API.
const DefaultRequestsPerSecond = 10

// LLMProvider identifies the language model backend.
type LLMProvider string

// Available LLM providers.
const (
	// LLMProviderVertex is Gemini served by Vertex AI.
	LLMProviderVertex LLMProvider = "vertex"

	// LLMProviderOpenAI is the OpenAI API or a compatible endpoint.
	LLMProviderOpenAI LLMProvider = "openai"

	// LLMProviderOllama is a local Ollama instance.
	LLMProviderOllama LLMProvider = "ollama"

	// LLMProviderNone disables generation. Ask and Summarize report errors.
	LLMProviderNone LLMProvider = "none"
)

// IsValid returns true if the provider is recognised.
func (p LLMProvider) IsValid() bool {
	switch p {
	case LLMProviderVertex, LLMProviderOpenAI, LLMProviderOllama, LLMProviderNone:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p LLMProvider) RequiresAPIKey() bool {
	return p == LLMProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p LLMProvider) IsLocal() bool {
	return p == LLMProviderOllama
}

// String returns the string representation.
func (p LLMProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p LLMProvider) Description() string {
	switch p {
	case LLMProviderVertex:
		return "Gemini on Vertex AI (cloud)"
	case LLMProviderOpenAI:
		return "OpenAI (cloud)"
	case LLMProviderOllama:
		return "Ollama (local)"
	case LLMProviderNone:
		return "Disabled"
	default:
		return unknownDescription
	}
}

// DefaultModelFor returns the default model name for a provider.
func DefaultModelFor(p LLMProvider) string {
	switch p {
	case LLMProviderVertex:
		return DefaultVertexModel
	case LLMProviderOpenAI:
		return DefaultOpenAIModel
	case LLMProviderOllama:
		return DefaultOllamaModel
	default:
		return ""
	}
}

// CloudSettings holds Google Cloud project configuration.
type CloudSettings struct {
	// Project is the Google Cloud project ID.
	Project string

	// Location is the Vertex AI region.
	Location string

	// CredentialsFile is a service account JSON key. Empty uses
	// application default credentials.
	CredentialsFile string

	// RequestsPerSecond caps calls to each Google API.
	RequestsPerSecond int
}

// IngestSettings holds ingestion configuration.
type IngestSettings struct {
	// Bucket is the bucket name, or a file:// URI for a local directory.
	Bucket string

	// Language is the BCP-47 code passed to speech recognition.
	Language string

	// VideoTimeout bounds the wait for a video transcription.
	VideoTimeout time.Duration
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	Provider  LLMProvider
	Model     string
	BaseURL   string
	APIKey    string
	MaxTokens int
}

// IsConfigured returns true if the provider has what it needs to run.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == LLMProviderNone {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds context budgets.
type RetrievalSettings struct {
	QABudget      int
	SummaryBudget int
}

// Settings is the complete application configuration.
type Settings struct {
	Cloud     CloudSettings
	Ingest    IngestSettings
	LLM       LLMSettings
	Retrieval RetrievalSettings
}

// DefaultSettings returns settings populated with defaults.
func DefaultSettings() Settings {
	return Settings{
		Cloud: CloudSettings{
			Location:          DefaultLocation,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Ingest: IngestSettings{
			Language:     DefaultLanguage,
			VideoTimeout: DefaultVideoTimeout,
		},
		LLM: LLMSettings{
			Provider:  LLMProviderVertex,
			Model:     DefaultVertexModel,
			MaxTokens: DefaultMaxTokens,
		},
		Retrieval: RetrievalSettings{
			QABudget:      DefaultQABudget,
			SummaryBudget: DefaultSummaryBudget,
		},
	}
}
