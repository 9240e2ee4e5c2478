// Package plaintext reads UTF-8 text files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.TextParser = (*Parser)(nil)

// utf8BOM is stripped from the start of files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads whole text files.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Type returns domain.TypePlainText.
func (p *Parser) Type() domain.DocumentType {
	return domain.TypePlainText
}

// Name identifies the parser in diagnostics.
func (p *Parser) Name() string {
	return "txt"
}

// Parse returns the trimmed file content. Files that are not valid UTF-8
// yield domain.ErrInvalidInput.
func (p *Parser) Parse(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8", domain.ErrInvalidInput)
	}

	return strings.TrimSpace(string(data)), nil
}
