package driven

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// SpeechTranscriber converts an audio object into transcript segments.
type SpeechTranscriber interface {
	// Transcribe recognises speech in the audio at uri. It returns the best
	// alternative of each result, in response order.
	Transcribe(ctx context.Context, uri string, encoding domain.AudioEncoding, language string) ([]string, error)
}

// VideoTranscriber converts the speech track of a video object into
// transcript segments.
type VideoTranscriber interface {
	// TranscribeSpeech requests speech transcription for the video at uri
	// and waits for completion. It returns the best alternative of every
	// transcription across all annotation results, in result order.
	TranscribeSpeech(ctx context.Context, uri string) ([]string, error)
}
