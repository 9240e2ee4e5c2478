package driven

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// AIConfigValidator validates LLM provider configurations.
// Implementations verify that configurations are valid by testing connectivity.
type AIConfigValidator interface {
	// ValidateLLM validates an LLM configuration by pinging the provider.
	// Returns nil if the provider is not configured.
	ValidateLLM(ctx context.Context, settings *domain.Settings) error
}
