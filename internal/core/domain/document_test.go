package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want DocumentType
	}{
		{"wav", TypeAudio},
		{"MP3", TypeAudio},
		{".flac", TypeAudio},
		{"m4a", TypeAudio},
		{"mp4", TypeVideo},
		{"AVI", TypeVideo},
		{"mov", TypeVideo},
		{"mkv", TypeVideo},
		{"pdf", TypePDF},
		{"DOCX", TypeWord},
		{"pptx", TypePresentation},
		{"txt", TypePlainText},
		{"csv", TypeUnsupported},
		{"doc", TypeUnsupported},
		{"", TypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyExtension(tt.ext))
		})
	}
}

func TestDocumentType_String(t *testing.T) {
	assert.Equal(t, "Audio Transcript", TypeAudio.String())
	assert.Equal(t, "Video Transcript", TypeVideo.String())
	assert.Equal(t, "PDF Document", TypePDF.String())
	assert.Equal(t, "Word Document", TypeWord.String())
	assert.Equal(t, "PowerPoint Presentation", TypePresentation.String())
	assert.Equal(t, "Plain Text", TypePlainText.String())
	assert.Equal(t, "Unknown", TypeUnsupported.String())
}

func TestDocumentType_IsRemote(t *testing.T) {
	assert.True(t, TypeAudio.IsRemote())
	assert.True(t, TypeVideo.IsRemote())
	assert.False(t, TypePDF.IsRemote())
	assert.False(t, TypePlainText.IsRemote())
	assert.False(t, TypeUnsupported.IsSupported())
	assert.True(t, TypeWord.IsSupported())
}

func TestDocumentType_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Type DocumentType `json:"type"`
	}{TypePDF})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"PDF Document"}`, string(data))
}

func TestAudioEncodingFor(t *testing.T) {
	assert.Equal(t, EncodingLinear16, AudioEncodingFor("wav"))
	assert.Equal(t, EncodingFLAC, AudioEncodingFor("FLAC"))
	assert.Equal(t, EncodingMP3, AudioEncodingFor("mp3"))
	assert.Equal(t, EncodingMP4, AudioEncodingFor("m4a"))
	assert.Equal(t, EncodingUnspecified, AudioEncodingFor("ogg"))
}

func TestObject_NameAndExt(t *testing.T) {
	obj := Object{Bucket: "b", Path: "extracted/reports/Q3.PDF"}

	assert.Equal(t, "Q3.PDF", obj.Name())
	assert.Equal(t, "pdf", obj.Ext())
	assert.Equal(t, TypePDF, obj.Type())
}

func TestObject_NoExtension(t *testing.T) {
	obj := Object{Path: "extracted/README"}

	assert.Equal(t, "README", obj.Name())
	assert.Empty(t, obj.Ext())
	assert.Equal(t, TypeUnsupported, obj.Type())
}

func TestDocument_Info(t *testing.T) {
	now := time.Now()
	doc := Document{
		ID:             "notes.txt",
		Text:           "hello",
		Type:           TypePlainText,
		SizeChars:      5,
		SourceLocation: "gs://b/extracted/notes.txt",
		IngestedAt:     now,
	}

	info := doc.Info()
	assert.Equal(t, "notes.txt", info.Name)
	assert.Equal(t, TypePlainText, info.Type)
	assert.Equal(t, 5, info.SizeChars)
	assert.Equal(t, now, info.IngestedAt)
	assert.Equal(t, "gs://b/extracted/notes.txt", info.SourceLocation)
}
