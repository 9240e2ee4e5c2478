// Package speech implements driven.SpeechTranscriber on the Speech-to-Text
// v1 REST API.
package speech

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	speechapi "google.golang.org/api/speech/v1"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure Transcriber implements the interface.
var _ driven.SpeechTranscriber = (*Transcriber)(nil)

// Transcriber runs synchronous recognition requests.
type Transcriber struct {
	svc     *speechapi.Service
	limiter *gcp.RateLimiter
}

// New creates a transcriber using opts for authentication and endpoint.
func New(ctx context.Context, limiter *gcp.RateLimiter, opts ...option.ClientOption) (*Transcriber, error) {
	svc, err := speechapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	return &Transcriber{svc: svc, limiter: limiter}, nil
}

// Transcribe recognises the audio at uri with automatic punctuation.
// Results without alternatives are skipped.
func (t *Transcriber) Transcribe(ctx context.Context, uri string, encoding domain.AudioEncoding, language string) ([]string, error) {
	if !strings.HasPrefix(uri, "gs://") {
		return nil, fmt.Errorf("%w: speech recognition needs a gs:// URI, got %q", domain.ErrInvalidURI, uri)
	}
	if language == "" {
		language = domain.DefaultLanguage
	}

	req := &speechapi.RecognizeRequest{
		Config: &speechapi.RecognitionConfig{
			Encoding:                   string(encoding),
			LanguageCode:               language,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechapi.RecognitionAudio{Uri: uri},
	}

	resp, err := gcp.Call(ctx, t.limiter, func() (*speechapi.RecognizeResponse, error) {
		return t.svc.Speech.Recognize(req).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", uri, err)
	}

	return collectTranscripts(resp), nil
}

func collectTranscripts(resp *speechapi.RecognizeResponse) []string {
	if resp == nil {
		return nil
	}
	var segments []string
	for _, result := range resp.Results {
		if result == nil || len(result.Alternatives) == 0 || result.Alternatives[0] == nil {
			continue
		}
		segments = append(segments, result.Alternatives[0].Transcript)
	}
	return segments
}
