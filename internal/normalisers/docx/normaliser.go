// Package docx extracts paragraph text from Word documents.
package docx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/normalisers/ooxml"
)

// Ensure Parser implements the interface.
var _ driven.TextParser = (*Parser)(nil)

// documentPart is the main story of a WordprocessingML package.
const documentPart = "word/document.xml"

// Parser reads word/document.xml.
type Parser struct{}

// New creates a new DOCX parser.
func New() *Parser {
	return &Parser{}
}

// Type returns domain.TypeWord.
func (p *Parser) Type() domain.DocumentType {
	return domain.TypeWord
}

// Name identifies the parser in diagnostics.
func (p *Parser) Name() string {
	return "docx"
}

// Parse returns the non-blank body paragraphs joined by newlines.
func (p *Parser) Parse(ctx context.Context, path string) (string, error) {
	zr, err := ooxml.Open(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	dec, closer, err := ooxml.Stream(&zr.Reader, documentPart)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	defer closer.Close()

	paragraphs, err := readParagraphs(ctx, dec)
	if err != nil {
		return "", err
	}

	var kept []string
	for _, para := range paragraphs {
		if strings.TrimSpace(para) != "" {
			kept = append(kept, para)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), nil
}

// readParagraphs walks w:p elements. Text comes from w:t runs; w:tab and
// w:br map to tab and newline.
func readParagraphs(ctx context.Context, dec *xml.Decoder) ([]string, error) {
	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return paragraphs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					if err := ctx.Err(); err != nil {
						return nil, err
					}
					current.Reset()
				}
				depth++
			case "t":
				inText = depth > 0
			case "tab":
				if depth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
				}
			}
		}
	}
}
