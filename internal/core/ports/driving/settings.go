package driving

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.Settings, error)

	// Set stores a single dotted key and persists the config file.
	Set(key, value string) error

	// Keys returns the recognised config keys.
	Keys() []string

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig(ctx context.Context) error
}
