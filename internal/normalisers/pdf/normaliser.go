// Package pdf extracts text from PDF documents using pdfcpu.
package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.TextParser = (*Parser)(nil)

// pdfcpu writes a config directory on first use unless told not to.
var disableConfigDir sync.Once

// Parser reads the text operators of each page content stream.
type Parser struct{}

// New creates a new PDF parser.
func New() *Parser {
	disableConfigDir.Do(api.DisableConfigDir)
	return &Parser{}
}

// Type returns domain.TypePDF.
func (p *Parser) Type() domain.DocumentType {
	return domain.TypePDF
}

// Name identifies the parser in diagnostics.
func (p *Parser) Name() string {
	return "pdf"
}

// Parse returns the text of every page, pages separated by newlines.
// Pages whose content cannot be read are skipped.
func (p *Parser) Parse(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("%w: pdfcpu read: %v", domain.ErrInvalidInput, err)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := pageText(pdfCtx, pageNr)
		if err != nil {
			logger.Debug("Skipping page %d of %s: %v", pageNr, path, err)
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func pageText(pdfCtx *model.Context, pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return ContentText(data), nil
}
