package domain

import (
	"path"
	"strings"
	"time"
)

// IngestPrefix is the only object prefix considered during ingestion.
const IngestPrefix = "extracted/"

// DocumentType is the closed set of formats the extraction adapter understands.
// It is resolved once per object from the file extension.
type DocumentType int

// Supported document types.
const (
	// TypeUnsupported marks any extension outside the recognised set.
	TypeUnsupported DocumentType = iota
	TypeAudio
	TypeVideo
	TypePDF
	TypeWord
	TypePresentation
	TypePlainText
)

var extensionTypes = map[string]DocumentType{
	"wav":  TypeAudio,
	"mp3":  TypeAudio,
	"flac": TypeAudio,
	"m4a":  TypeAudio,
	"mp4":  TypeVideo,
	"avi":  TypeVideo,
	"mov":  TypeVideo,
	"mkv":  TypeVideo,
	"pdf":  TypePDF,
	"docx": TypeWord,
	"pptx": TypePresentation,
	"txt":  TypePlainText,
}

// ClassifyExtension maps a file extension (with or without the leading dot,
// any case) to its DocumentType.
func ClassifyExtension(ext string) DocumentType {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return TypeUnsupported
}

// String returns the human-readable content label used in context headers
// and listings.
func (t DocumentType) String() string {
	switch t {
	case TypeAudio:
		return "Audio Transcript"
	case TypeVideo:
		return "Video Transcript"
	case TypePDF:
		return "PDF Document"
	case TypeWord:
		return "Word Document"
	case TypePresentation:
		return "PowerPoint Presentation"
	case TypePlainText:
		return "Plain Text"
	default:
		return "Unknown"
	}
}

// MarshalText renders the type as its label for JSON and YAML output.
func (t DocumentType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// IsRemote reports whether the type is extracted from the remote object URI
// rather than from a downloaded local copy.
func (t DocumentType) IsRemote() bool {
	return t == TypeAudio || t == TypeVideo
}

// IsSupported reports whether an extractor exists for the type.
func (t DocumentType) IsSupported() bool {
	return t != TypeUnsupported
}

// AudioEncoding is the encoding hint passed to the speech backend.
type AudioEncoding string

// Audio encoding hints.
const (
	EncodingUnspecified AudioEncoding = "ENCODING_UNSPECIFIED"
	EncodingLinear16    AudioEncoding = "LINEAR16"
	EncodingFLAC        AudioEncoding = "FLAC"
	EncodingMP3         AudioEncoding = "MP3"
	EncodingMP4         AudioEncoding = "MP4"
)

// AudioEncodingFor selects the encoding hint for an audio file extension.
func AudioEncodingFor(ext string) AudioEncoding {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav":
		return EncodingLinear16
	case "flac":
		return EncodingFLAC
	case "mp3":
		return EncodingMP3
	case "m4a":
		return EncodingMP4
	default:
		return EncodingUnspecified
	}
}

// Object describes a stored object enumerated from a bucket.
type Object struct {
	// Bucket is the bucket the object lives in.
	Bucket string

	// Path is the full object path within the bucket.
	Path string

	// Size is the object size in bytes, when known.
	Size int64

	// ContentType is the stored content type, when known.
	ContentType string

	// Updated is the last modification time, when known.
	Updated time.Time
}

// Name returns the base filename of the object. It is the document
// identifier in the corpus.
func (o Object) Name() string {
	return path.Base(o.Path)
}

// Ext returns the lower-cased extension of the object path without the dot.
func (o Object) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(o.Path), "."))
}

// Type classifies the object by its extension.
func (o Object) Type() DocumentType {
	return ClassifyExtension(o.Ext())
}

// Document is an extracted document held in the corpus.
// It is created only when extraction yields non-empty text and is replaced
// wholesale on re-ingestion.
type Document struct {
	// ID is the base filename of the source object.
	ID string

	// Text is the extracted plain text.
	Text string

	// Type is the classified format of the source object.
	Type DocumentType

	// SizeChars is the number of characters in Text.
	SizeChars int

	// SourceLocation is the URI of the source object.
	SourceLocation string

	// IngestedAt is when the document was committed.
	IngestedAt time.Time
}

// DocumentInfo is the listing view of a corpus document.
type DocumentInfo struct {
	Name           string       `json:"name" yaml:"name"`
	Type           DocumentType `json:"type" yaml:"type"`
	SizeChars      int          `json:"size_chars" yaml:"size_chars"`
	IngestedAt     time.Time    `json:"ingested_at" yaml:"ingested_at"`
	SourceLocation string       `json:"source_location" yaml:"source_location"`
}

// Info returns the listing view of the document.
func (d Document) Info() DocumentInfo {
	return DocumentInfo{
		Name:           d.ID,
		Type:           d.Type,
		SizeChars:      d.SizeChars,
		IngestedAt:     d.IngestedAt,
		SourceLocation: d.SourceLocation,
	}
}
