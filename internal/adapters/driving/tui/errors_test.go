package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.EqualError(t, ErrMissingAssistantService, "tui: assistant service is required")
	assert.EqualError(t, ErrWatchWithoutBucket, "tui: watch requires a bucket")
}
