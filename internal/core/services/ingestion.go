package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// IngestionPipeline enumerates a bucket prefix and commits the extracted
// text of every supported object to the corpus. Objects are processed one
// at a time. A failure on one object never stops the run.
type IngestionPipeline struct {
	store     driven.ObjectStore
	extractor *Extractor
	corpus    driven.CorpusStore
	now       func() time.Time
}

// NewIngestionPipeline creates an ingestion pipeline.
func NewIngestionPipeline(store driven.ObjectStore, extractor *Extractor, corpus driven.CorpusStore) *IngestionPipeline {
	return &IngestionPipeline{
		store:     store,
		extractor: extractor,
		corpus:    corpus,
		now:       time.Now,
	}
}

// Run ingests every object under domain.IngestPrefix in bucket.
// It returns an error only if enumeration fails or ctx is cancelled.
// Per-object outcomes are recorded in the report diagnostics.
func (p *IngestionPipeline) Run(ctx context.Context, bucket string) (*domain.LoadReport, error) {
	started := p.now()
	report := &domain.LoadReport{
		RunID:     uuid.NewString(),
		Bucket:    bucket,
		Prefix:    domain.IngestPrefix,
		StartedAt: started,
	}

	logger.Section("Ingestion")
	logger.Info("Run %s: listing %s under %q", report.RunID, bucket, domain.IngestPrefix)

	objects, err := p.store.List(ctx, bucket, domain.IngestPrefix)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			p.finish(report, started)
			return report, err
		}
		if !strings.HasPrefix(obj.Path, domain.IngestPrefix) || strings.HasSuffix(obj.Path, "/") {
			continue
		}
		report.Found++
		p.ingestObject(ctx, obj, report)
	}

	p.finish(report, started)
	logger.Info("Run %s complete: %d committed, %d skipped, %d failed, %d in corpus",
		report.RunID, report.Committed, report.Skipped, report.Failed, report.Loaded)
	return report, nil
}

func (p *IngestionPipeline) finish(report *domain.LoadReport, started time.Time) {
	report.Loaded = p.corpus.Len()
	report.Duration = p.now().Sub(started)
}

func (p *IngestionPipeline) ingestObject(ctx context.Context, obj domain.Object, report *domain.LoadReport) {
	name := obj.Name()
	docType := obj.Type()

	if !docType.IsSupported() {
		logger.Debug("Skipping %s: unsupported extension %q", obj.Path, obj.Ext())
		report.Skipped++
		report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
			Kind:   domain.DiagnosticUnsupported,
			Object: obj.Path,
			Detail: fmt.Sprintf("%v: %q", domain.ErrUnsupportedType, obj.Ext()),
		})
		return
	}

	logger.Debug("Processing %s as %s", obj.Path, docType)

	text, err := p.extract(ctx, obj, docType)
	if err != nil {
		logger.Warn("Error processing %s: %v", obj.Path, err)
		report.Failed++
		diag := domain.Diagnostic{Kind: domain.DiagnosticFailed, Object: obj.Path, Detail: err.Error()}
		var extErr *domain.ExtractionError
		if errors.As(err, &extErr) {
			diag.Extractor = extErr.Extractor
			diag.Reference = extErr.Reference
			diag.Detail = extErr.Err.Error()
		}
		report.Diagnostics = append(report.Diagnostics, diag)
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Info("No text extracted from %s", name)
		report.Skipped++
		report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
			Kind:   domain.DiagnosticEmpty,
			Object: obj.Path,
			Detail: domain.ErrEmptyExtraction.Error(),
		})
		return
	}

	if _, err := p.corpus.Get(name); err == nil {
		logger.Debug("Replacing %s with %s", name, obj.Path)
	}
	p.corpus.Put(domain.Document{
		ID:             name,
		Text:           text,
		Type:           docType,
		SizeChars:      utf8.RuneCountInString(text),
		SourceLocation: p.store.URI(obj),
		IngestedAt:     p.now().UTC(),
	})
	report.Committed++
	logger.Info("Loaded %s (%d chars)", name, utf8.RuneCountInString(text))
}

// extract runs the extractor and converts a panic in any backend into an
// error so the run can continue with the next object.
func (p *IngestionPipeline) extract(ctx context.Context, obj domain.Object, docType domain.DocumentType) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during extraction: %v", r)
		}
	}()
	return p.extractor.Extract(ctx, obj, docType)
}
