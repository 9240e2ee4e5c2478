// Package tui provides the interactive chat interface for bucketqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports and session details required by the TUI.
type Ports struct {
	// Assistant answers questions over the loaded corpus.
	Assistant driving.AssistantService

	// Bucket is reloaded by ctrl+r and watched when Watch is set.
	Bucket string

	// Model is the LLM model name shown in the status bar.
	Model string

	// Watch reloads the corpus whenever the bucket changes.
	Watch bool

	// InitialReport is the load that ran before the TUI started, if any.
	InitialReport *domain.LoadReport
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	if p.Watch && p.Bucket == "" {
		return ErrWatchWithoutBucket
	}
	return nil
}
