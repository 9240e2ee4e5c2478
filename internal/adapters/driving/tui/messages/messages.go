// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// AnswerReceived carries the answer to a submitted question.
type AnswerReceived struct {
	Question string
	Answer   domain.Answer
}

// SummaryReceived carries a corpus summary.
type SummaryReceived struct {
	Summary domain.Summary
}

// DocumentsListed carries the corpus listing.
type DocumentsListed struct {
	Documents []domain.DocumentInfo
}

// LoadCompleted is sent when an ingestion run finishes, whether started
// from the TUI or by the bucket watcher.
type LoadCompleted struct {
	Report *domain.LoadReport
	Err    error

	// Watched is set when the run was triggered by a bucket change.
	Watched bool
}

// WatchStopped is sent when the bucket watcher exits.
type WatchStopped struct {
	Err error
}
