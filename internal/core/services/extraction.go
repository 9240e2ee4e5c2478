package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Extractor names used in diagnostics for the remote backends.
const (
	extractorSpeech   = "speech"
	extractorVideo    = "video"
	extractorDownload = "download"
)

// Extractor converts a single stored object into plain text.
// Audio and video are transcribed from the remote URI. The remaining
// types are parsed from a temporary local copy that is always removed.
type Extractor struct {
	store    driven.ObjectStore
	speech   driven.SpeechTranscriber
	video    driven.VideoTranscriber
	parsers  map[domain.DocumentType]driven.TextParser
	language string
	tempDir  string
}

// NewExtractor creates an extractor. speech and video are optional.
func NewExtractor(
	store driven.ObjectStore,
	speech driven.SpeechTranscriber,
	video driven.VideoTranscriber,
	parsers []driven.TextParser,
	language string,
) *Extractor {
	if language == "" {
		language = domain.DefaultLanguage
	}
	byType := make(map[domain.DocumentType]driven.TextParser, len(parsers))
	for _, p := range parsers {
		byType[p.Type()] = p
	}
	return &Extractor{
		store:    store,
		speech:   speech,
		video:    video,
		parsers:  byType,
		language: language,
	}
}

// SetTempDir overrides the directory used for local copies.
// Empty means os.TempDir().
func (e *Extractor) SetTempDir(dir string) {
	e.tempDir = dir
}

// Extract returns the trimmed text of obj. Unsupported types yield an empty
// string and no error without touching any backend. Every backend failure
// is returned as a *domain.ExtractionError.
func (e *Extractor) Extract(ctx context.Context, obj domain.Object, docType domain.DocumentType) (string, error) {
	switch docType {
	case domain.TypeUnsupported:
		return "", nil
	case domain.TypeAudio:
		return e.transcribeAudio(ctx, obj)
	case domain.TypeVideo:
		return e.transcribeVideo(ctx, obj)
	default:
		return e.parseLocal(ctx, obj, docType)
	}
}

func (e *Extractor) transcribeAudio(ctx context.Context, obj domain.Object) (string, error) {
	uri := e.store.URI(obj)
	if e.speech == nil {
		return "", &domain.ExtractionError{Extractor: extractorSpeech, Reference: uri, Err: domain.ErrBackendUnavailable}
	}

	encoding := domain.AudioEncodingFor(obj.Ext())
	logger.Debug("Transcribing audio %s (encoding %s, language %s)", uri, encoding, e.language)

	segments, err := e.speech.Transcribe(ctx, uri, encoding, e.language)
	if err != nil {
		return "", &domain.ExtractionError{Extractor: extractorSpeech, Reference: uri, Err: err}
	}
	return joinSegments(segments), nil
}

func (e *Extractor) transcribeVideo(ctx context.Context, obj domain.Object) (string, error) {
	uri := e.store.URI(obj)
	if e.video == nil {
		return "", &domain.ExtractionError{Extractor: extractorVideo, Reference: uri, Err: domain.ErrBackendUnavailable}
	}

	logger.Debug("Transcribing video %s", uri)

	segments, err := e.video.TranscribeSpeech(ctx, uri)
	if err != nil {
		return "", &domain.ExtractionError{Extractor: extractorVideo, Reference: uri, Err: err}
	}
	return joinSegments(segments), nil
}

func (e *Extractor) parseLocal(ctx context.Context, obj domain.Object, docType domain.DocumentType) (string, error) {
	parser, ok := e.parsers[docType]
	if !ok {
		return "", &domain.ExtractionError{
			Extractor: strings.ToLower(docType.String()),
			Reference: e.store.URI(obj),
			Err:       fmt.Errorf("%w: no parser for %s", domain.ErrBackendUnavailable, docType),
		}
	}

	path, release, err := acquireLocalCopy(ctx, e.store, obj, e.tempDir)
	if err != nil {
		return "", &domain.ExtractionError{Extractor: extractorDownload, Reference: e.store.URI(obj), Err: err}
	}
	defer release()

	text, err := parser.Parse(ctx, path)
	if err != nil {
		return "", &domain.ExtractionError{Extractor: parser.Name(), Reference: e.store.URI(obj), Err: err}
	}
	return strings.TrimSpace(text), nil
}

// acquireLocalCopy downloads obj into a new temporary file that keeps the
// object's extension. The returned release func removes the file and must
// be called on every path once the copy is no longer needed.
func acquireLocalCopy(
	ctx context.Context, store driven.ObjectStore, obj domain.Object, dir string,
) (string, func(), error) {
	pattern := "bucketqa-*"
	if ext := obj.Ext(); ext != "" {
		pattern += "." + ext
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	release := func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to remove temp file %s: %v", path, err)
		}
	}

	if err := store.Download(ctx, obj, f); err != nil {
		f.Close()
		release()
		return "", nil, fmt.Errorf("download %s: %w", obj.Path, err)
	}
	if err := f.Close(); err != nil {
		release()
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}

	return path, release, nil
}

// joinSegments concatenates transcript segments with single spaces.
func joinSegments(segments []string) string {
	return strings.TrimSpace(strings.Join(segments, " "))
}
