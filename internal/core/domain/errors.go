package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an extension outside the recognised set.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmptyExtraction indicates extraction succeeded but produced no text.
	ErrEmptyExtraction = errors.New("no textual content extracted")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrBackendUnavailable indicates an extraction backend is not configured.
	ErrBackendUnavailable = errors.New("extraction backend unavailable")

	// ErrTranscriptionTimeout indicates a transcription did not finish in time.
	ErrTranscriptionTimeout = errors.New("transcription timed out")

	// ErrInvalidURI indicates an object URI could not be parsed.
	ErrInvalidURI = errors.New("invalid object URI")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrWatchUnsupported indicates the object store cannot be watched.
	ErrWatchUnsupported = errors.New("object store does not support watching")
)

// ExtractionError reports a failed extraction of a single object.
type ExtractionError struct {
	// Extractor names the backend that failed (e.g. "speech", "pdf").
	Extractor string

	// Reference is the object URI or local path that was processed.
	Reference string

	// Err is the underlying failure.
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed for %s: %v", e.Extractor, e.Reference, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
