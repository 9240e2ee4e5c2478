// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	ollamallm "github.com/custodia-labs/bucketqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/bucketqa/internal/adapters/driven/llm/openai"
	vertexllm "github.com/custodia-labs/bucketqa/internal/adapters/driven/llm/vertex"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// clientOptions resolves Google credentials. Tests replace it.
var clientOptions = gcp.ClientOptions

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// It returns nil, nil when no provider is configured.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.Settings) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'bucketqa config set llm.provider ...' to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig creates a service from settings and pings it.
func ValidateLLMConfig(ctx context.Context, settings *domain.Settings) error {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// CreateLLMService creates the LLM service selected by settings.
// It returns nil, nil when the provider is none or not fully configured.
func CreateLLMService(ctx context.Context, settings *domain.Settings) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	llm := settings.LLM
	if llm.Provider != "" && !llm.Provider.IsValid() {
		return nil, fmt.Errorf("unsupported LLM provider: %s", llm.Provider)
	}
	if !llm.IsConfigured() {
		return nil, nil
	}

	switch llm.Provider {
	case domain.LLMProviderVertex:
		return createVertexLLM(ctx, settings)
	case domain.LLMProviderOpenAI:
		return createOpenAILLM(llm)
	case domain.LLMProviderOllama:
		return createOllamaLLM(llm), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llm.Provider)
	}
}

// createVertexLLM creates a Gemini service on Vertex AI.
func createVertexLLM(ctx context.Context, settings *domain.Settings) (driven.LLMService, error) {
	if settings.Cloud.Project == "" {
		return nil, vertexllm.ErrMissingProject
	}

	opts, err := clientOptions(ctx, settings.Cloud)
	if err != nil {
		return nil, err
	}

	location := settings.Cloud.Location
	if location == "" {
		location = domain.DefaultLocation
	}
	endpoint := settings.LLM.BaseURL
	if endpoint == "" {
		endpoint = vertexllm.Endpoint(location)
	}
	opts = append(opts, option.WithEndpoint(endpoint))

	limiter := gcp.NewRateLimiter(gcp.ServiceVertex, settings.Cloud.RequestsPerSecond)
	svc, err := vertexllm.NewLLMService(ctx, vertexllm.Config{
		Project:  settings.Cloud.Project,
		Location: location,
		Model:    settings.LLM.Model,
	}, limiter, opts...)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(llm domain.LLMSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openaillm.Config{
		APIKey:  llm.APIKey,
		BaseURL: llm.BaseURL,
		Model:   llm.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(llm domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.Config{
		BaseURL: llm.BaseURL,
		Model:   llm.Model,
	})
}
