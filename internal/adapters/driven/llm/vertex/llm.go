// Package vertex provides an LLM service adapter for Gemini models on
// Vertex AI, using the aiplatform v1 REST API.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// ErrMissingProject is returned when no project is configured.
var ErrMissingProject = errors.New("vertex: project is required")

// Config holds configuration for the Vertex AI LLM service.
type Config struct {
	// Project is the Google Cloud project ID (required).
	Project string

	// Location is the Vertex AI region (default: us-central1).
	Location string

	// Model is the publisher model ID (default: gemini-2.5-flash).
	Model string
}

// LLMService generates content with a Google publisher model.
type LLMService struct {
	svc      *aiplatform.Service
	limiter  *gcp.RateLimiter
	model    string
	resource string
}

// Endpoint returns the regional API endpoint for location.
func Endpoint(location string) string {
	return "https://" + location + "-aiplatform.googleapis.com/"
}

// ModelResource returns the full resource name of a Google publisher model.
func ModelResource(project, location, model string) string {
	return fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", project, location, model)
}

// NewLLMService creates a Vertex AI service. When opts carries no endpoint
// the caller should include option.WithEndpoint(Endpoint(location)).
func NewLLMService(ctx context.Context, cfg Config, limiter *gcp.RateLimiter, opts ...option.ClientOption) (*LLMService, error) {
	if cfg.Project == "" {
		return nil, ErrMissingProject
	}
	if cfg.Location == "" {
		cfg.Location = domain.DefaultLocation
	}
	if cfg.Model == "" {
		cfg.Model = domain.DefaultVertexModel
	}

	svc, err := aiplatform.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create aiplatform service: %w", err)
	}

	return &LLMService{
		svc:      svc,
		limiter:  limiter,
		model:    cfg.Model,
		resource: ModelResource(cfg.Project, cfg.Location, cfg.Model),
	}, nil
}

// Generate sends prompt as a single user turn and joins the text parts of
// the first candidate.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := &aiplatform.GoogleCloudAiplatformV1GenerateContentRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{userContent(prompt)},
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 || len(opts.StopWords) > 0 {
		req.GenerationConfig = &aiplatform.GoogleCloudAiplatformV1GenerationConfig{
			MaxOutputTokens: int64(opts.MaxTokens),
			Temperature:     opts.Temperature,
			StopSequences:   opts.StopWords,
		}
	}

	call := s.svc.Projects.Locations.Publishers.Models.GenerateContent(s.resource, req).Context(ctx)
	resp, err := gcp.Call(ctx, s.limiter, func() (*aiplatform.GoogleCloudAiplatformV1GenerateContentResponse, error) {
		return call.Do()
	})
	if err != nil {
		return "", fmt.Errorf("vertex: generate content: %w", err)
	}

	return candidateText(resp)
}

// ModelName returns the publisher model ID.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping counts tokens for a short text, which checks credentials and model
// access without running generation.
func (s *LLMService) Ping(ctx context.Context) error {
	req := &aiplatform.GoogleCloudAiplatformV1CountTokensRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{userContent("ping")},
	}
	call := s.svc.Projects.Locations.Publishers.Models.CountTokens(s.resource, req).Context(ctx)
	_, err := gcp.Call(ctx, s.limiter, func() (*aiplatform.GoogleCloudAiplatformV1CountTokensResponse, error) {
		return call.Do()
	})
	if err != nil {
		return fmt.Errorf("vertex: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func userContent(text string) *aiplatform.GoogleCloudAiplatformV1Content {
	return &aiplatform.GoogleCloudAiplatformV1Content{
		Role:  "user",
		Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: text}},
	}
}

func candidateText(resp *aiplatform.GoogleCloudAiplatformV1GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("vertex: prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("vertex: response contained no candidates")
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", fmt.Errorf("vertex: candidate has no content (finish reason %s)", cand.FinishReason)
	}

	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
