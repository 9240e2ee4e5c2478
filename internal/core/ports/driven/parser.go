package driven

import (
	"context"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// TextParser extracts plain text from a local file of one document type.
type TextParser interface {
	// Type returns the document type this parser handles.
	Type() domain.DocumentType

	// Name identifies the parser in diagnostics.
	Name() string

	// Parse reads the file at path and returns its text.
	Parse(ctx context.Context, path string) (string, error)
}
