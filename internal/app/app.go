// Package app wires adapters and services into a running assistant.
package app

import (
	"context"
	"fmt"
	"path/filepath"

	"google.golang.org/api/option"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/objectstore"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/objectstore/gcs"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/objectstore/local"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/transcription/speech"
	"github.com/custodia-labs/bucketqa/internal/adapters/driven/transcription/video"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/core/services"
	"github.com/custodia-labs/bucketqa/internal/logger"
	"github.com/custodia-labs/bucketqa/internal/normalisers/docx"
	"github.com/custodia-labs/bucketqa/internal/normalisers/pdf"
	"github.com/custodia-labs/bucketqa/internal/normalisers/plaintext"
	"github.com/custodia-labs/bucketqa/internal/normalisers/pptx"
)

// App holds the wired services.
type App struct {
	Settings  *services.SettingsService
	Assistant *services.Assistant
	Config    domain.Settings

	llm driven.LLMService
}

// Options tune wiring. Zero values use the defaults.
type Options struct {
	// ConfigDir holds config.toml and prompts/. Empty means ~/.bucketqa.
	ConfigDir string

	// SkipLLMPing skips the start-up connectivity check.
	SkipLLMPing bool
}

// New loads settings and builds the assistant. Missing Google credentials
// or an unreachable LLM are logged and leave the affected backend
// unavailable; only configuration errors are returned.
func New(ctx context.Context, opts Options) (*App, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	promptStore, err := file.NewPromptStore(promptDir)
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	llm := buildLLM(ctx, settings, opts.SkipLLMPing)
	assistant := BuildAssistant(ctx, *settings, llm, promptStore)

	return &App{
		Settings:  settingsSvc,
		Assistant: assistant,
		Config:    *settings,
		llm:       llm,
	}, nil
}

// Close releases the LLM client.
func (a *App) Close() error {
	if a.llm != nil {
		return a.llm.Close()
	}
	return nil
}

// ModelName returns the LLM model in use, or empty when none is configured.
func (a *App) ModelName() string {
	if a.llm == nil {
		return ""
	}
	return a.llm.ModelName()
}

// BuildAssistant assembles the ingestion and answering services for
// settings. llm and prompts may be nil.
func BuildAssistant(ctx context.Context, settings domain.Settings, llm driven.LLMService, prompts driven.PromptStore) *services.Assistant {
	cloudOpts, cloudErr := gcp.ClientOptions(ctx, settings.Cloud)
	if cloudErr != nil {
		logger.Debug("Google credentials unavailable: %v", cloudErr)
	}

	store := objectstore.NewRouter(local.New(), remoteFactory(settings.Cloud, cloudOpts, cloudErr))

	var (
		speechTr driven.SpeechTranscriber
		videoTr  driven.VideoTranscriber
	)
	if cloudErr == nil {
		speechTr, videoTr = buildTranscribers(ctx, settings, cloudOpts)
	}

	parsers := []driven.TextParser{pdf.New(), docx.New(), pptx.New(), plaintext.New()}
	extractor := services.NewExtractor(store, speechTr, videoTr, parsers, settings.Ingest.Language)

	corpus := memory.NewCorpusStore()
	pipeline := services.NewIngestionPipeline(store, extractor, corpus)

	composer := services.NewComposer(corpus, services.NewRetriever(corpus), llm, services.ComposerConfig{
		QABudget:      settings.Retrieval.QABudget,
		SummaryBudget: settings.Retrieval.SummaryBudget,
		MaxTokens:     settings.LLM.MaxTokens,
	})
	if prompts != nil {
		composer.SetPromptStore(prompts)
	}

	return services.NewAssistant(store, corpus, pipeline, composer)
}

func remoteFactory(cloud domain.CloudSettings, opts []option.ClientOption, cloudErr error) objectstore.RemoteFactory {
	return func(ctx context.Context) (driven.ObjectStore, error) {
		if cloudErr != nil {
			return nil, cloudErr
		}
		limiter := gcp.NewRateLimiter(gcp.ServiceStorage, cloud.RequestsPerSecond)
		return gcs.New(ctx, limiter, opts...)
	}
}

func buildTranscribers(ctx context.Context, settings domain.Settings, opts []option.ClientOption) (driven.SpeechTranscriber, driven.VideoTranscriber) {
	var (
		speechTr driven.SpeechTranscriber
		videoTr  driven.VideoTranscriber
	)

	sp, err := speech.New(ctx, gcp.NewRateLimiter(gcp.ServiceSpeech, settings.Cloud.RequestsPerSecond), opts...)
	if err != nil {
		logger.Warn("Speech transcription unavailable: %v", err)
	} else {
		speechTr = sp
	}

	vi, err := video.New(ctx, gcp.NewRateLimiter(gcp.ServiceVideo, settings.Cloud.RequestsPerSecond), video.Config{
		Language: settings.Ingest.Language,
		Timeout:  settings.Ingest.VideoTimeout,
	}, opts...)
	if err != nil {
		logger.Warn("Video transcription unavailable: %v", err)
	} else {
		videoTr = vi
	}

	return speechTr, videoTr
}

func buildLLM(ctx context.Context, settings *domain.Settings, skipPing bool) driven.LLMService {
	if !settings.LLM.IsConfigured() {
		logger.Info("No LLM provider configured; answers will report errors")
		return nil
	}

	var (
		llm driven.LLMService
		err error
	)
	if skipPing {
		llm, err = ai.CreateLLMService(ctx, settings)
	} else {
		llm, err = ai.CreateAndValidateLLMService(ctx, settings)
	}
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		return nil
	}
	if llm != nil {
		logger.Info("Using %s model %s", settings.LLM.Provider, llm.ModelName())
	}
	return llm
}
