package tui

import "errors"

// ErrMissingAssistantService is returned when the assistant service is not provided.
var ErrMissingAssistantService = errors.New("tui: assistant service is required")

// ErrWatchWithoutBucket is returned when watching is requested without a bucket.
var ErrWatchWithoutBucket = errors.New("tui: watch requires a bucket")
