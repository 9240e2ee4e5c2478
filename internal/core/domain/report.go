package domain

import "time"

// DiagnosticKind classifies a per-object ingestion outcome that did not
// produce a corpus entry.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagnosticUnsupported DiagnosticKind = "unsupported"
	DiagnosticEmpty       DiagnosticKind = "empty"
	DiagnosticFailed      DiagnosticKind = "failed"
)

// Diagnostic records why an object was not committed to the corpus.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind" yaml:"kind"`
	Object    string         `json:"object" yaml:"object"`
	Extractor string         `json:"extractor,omitempty" yaml:"extractor,omitempty"`
	Reference string         `json:"reference,omitempty" yaml:"reference,omitempty"`
	Detail    string         `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// LoadReport is the outcome of one ingestion run.
type LoadReport struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	Bucket      string        `json:"bucket" yaml:"bucket"`
	Prefix      string        `json:"prefix" yaml:"prefix"`
	Found       int           `json:"found" yaml:"found"`
	Committed   int           `json:"committed" yaml:"committed"`
	Skipped     int           `json:"skipped" yaml:"skipped"`
	Failed      int           `json:"failed" yaml:"failed"`
	Loaded      int           `json:"loaded" yaml:"loaded"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	StartedAt   time.Time     `json:"started_at" yaml:"started_at"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}
