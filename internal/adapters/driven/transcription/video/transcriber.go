// Package video implements driven.VideoTranscriber on the Video
// Intelligence v1 REST API.
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	vi "google.golang.org/api/videointelligence/v1"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Ensure Transcriber implements the interface.
var _ driven.VideoTranscriber = (*Transcriber)(nil)

// featureSpeechTranscription is the only annotation feature requested.
const featureSpeechTranscription = "SPEECH_TRANSCRIPTION"

// defaultPollInterval is the delay between operation status checks.
const defaultPollInterval = 5 * time.Second

// Config controls a Transcriber.
type Config struct {
	// Language is the BCP-47 code passed to speech transcription.
	Language string
	// Timeout bounds the wait for one annotation operation.
	Timeout time.Duration
	// PollInterval is the delay between status checks.
	PollInterval time.Duration
}

// Transcriber requests speech transcription and polls the resulting
// long-running operation.
type Transcriber struct {
	svc     *vi.Service
	limiter *gcp.RateLimiter
	cfg     Config
}

// New creates a transcriber using opts for authentication and endpoint.
func New(ctx context.Context, limiter *gcp.RateLimiter, cfg Config, opts ...option.ClientOption) (*Transcriber, error) {
	svc, err := vi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create video intelligence service: %w", err)
	}
	if cfg.Language == "" {
		cfg.Language = domain.DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultVideoTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Transcriber{svc: svc, limiter: limiter, cfg: cfg}, nil
}

// TranscribeSpeech starts annotation of the video at uri and waits for it
// to finish. Exceeding the configured timeout returns
// domain.ErrTranscriptionTimeout.
func (t *Transcriber) TranscribeSpeech(ctx context.Context, uri string) ([]string, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return nil, fmt.Errorf("%w: video annotation needs a gs:// URI, got %q", domain.ErrInvalidURI, uri)
	}

	req := &vi.GoogleCloudVideointelligenceV1AnnotateVideoRequest{
		InputUri: uri,
		Features: []string{featureSpeechTranscription},
		VideoContext: &vi.GoogleCloudVideointelligenceV1VideoContext{
			SpeechTranscriptionConfig: &vi.GoogleCloudVideointelligenceV1SpeechTranscriptionConfig{
				LanguageCode:               t.cfg.Language,
				EnableAutomaticPunctuation: true,
			},
		},
	}

	op, err := gcp.Call(ctx, t.limiter, func() (*vi.GoogleLongrunningOperation, error) {
		return t.svc.Videos.Annotate(req).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", uri, err)
	}
	logger.Debug("Video annotation started: %s", op.Name)

	op, err = t.wait(ctx, op)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", uri, err)
	}

	return decodeTranscripts(op)
}

// wait polls op until it is done or the timeout elapses.
func (t *Transcriber) wait(ctx context.Context, op *vi.GoogleLongrunningOperation) (*vi.GoogleLongrunningOperation, error) {
	waitCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for !op.Done {
		select {
		case <-waitCtx.Done():
			if ctx.Err() == nil {
				return nil, fmt.Errorf("%w after %s", domain.ErrTranscriptionTimeout, t.cfg.Timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		next, err := gcp.Call(waitCtx, t.limiter, func() (*vi.GoogleLongrunningOperation, error) {
			return t.svc.Projects.Locations.Operations.Get(op.Name).Context(waitCtx).Do()
		})
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w after %s", domain.ErrTranscriptionTimeout, t.cfg.Timeout)
			}
			return nil, fmt.Errorf("poll operation %s: %w", op.Name, err)
		}
		op = next
	}

	return op, nil
}

// decodeTranscripts reads the annotation response of a finished operation.
func decodeTranscripts(op *vi.GoogleLongrunningOperation) ([]string, error) {
	if op.Error != nil {
		return nil, fmt.Errorf("operation failed: %s (code %d)", op.Error.Message, op.Error.Code)
	}
	if len(op.Response) == 0 {
		return nil, nil
	}

	var resp vi.GoogleCloudVideointelligenceV1AnnotateVideoResponse
	if err := json.Unmarshal(op.Response, &resp); err != nil {
		return nil, fmt.Errorf("decode annotation response: %w", err)
	}
	return collectTranscripts(&resp), nil
}

// collectTranscripts takes the first alternative of every transcription in
// every annotation result.
func collectTranscripts(resp *vi.GoogleCloudVideointelligenceV1AnnotateVideoResponse) []string {
	var segments []string
	for _, result := range resp.AnnotationResults {
		if result == nil {
			continue
		}
		for _, tr := range result.SpeechTranscriptions {
			if tr == nil || len(tr.Alternatives) == 0 || tr.Alternatives[0] == nil {
				continue
			}
			segments = append(segments, tr.Alternatives[0].Transcript)
		}
	}
	return segments
}
