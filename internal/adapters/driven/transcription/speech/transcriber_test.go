package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/custodia-labs/bucketqa/internal/adapters/driven/gcp"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

type recognizeRequest struct {
	Config struct {
		Encoding                   string `json:"encoding"`
		LanguageCode               string `json:"languageCode"`
		EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	} `json:"config"`
	Audio struct {
		URI string `json:"uri"`
	} `json:"audio"`
}

func newTestTranscriber(t *testing.T, handler http.HandlerFunc) *Transcriber {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tr, err := New(context.Background(), nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return tr
}

func TestTranscriber_Transcribe(t *testing.T) {
	var got recognizeRequest
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/speech:recognize", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[
			{"alternatives":[{"transcript":"Revenue grew.","confidence":0.9},{"transcript":"Revenue grue."}]},
			{"alternatives":[]},
			{"alternatives":[{"transcript":"Costs fell."}]}
		]}`)
	})

	segments, err := tr.Transcribe(context.Background(), "gs://b/extracted/call.mp3", domain.EncodingMP3, "en-GB")
	require.NoError(t, err)

	assert.Equal(t, []string{"Revenue grew.", "Costs fell."}, segments)
	assert.Equal(t, "MP3", got.Config.Encoding)
	assert.Equal(t, "en-GB", got.Config.LanguageCode)
	assert.True(t, got.Config.EnableAutomaticPunctuation)
	assert.Equal(t, "gs://b/extracted/call.mp3", got.Audio.URI)
}

func TestTranscriber_Transcribe_DefaultLanguage(t *testing.T) {
	var got recognizeRequest
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{}`)
	})

	segments, err := tr.Transcribe(context.Background(), "gs://b/extracted/a.wav", domain.EncodingLinear16, "")
	require.NoError(t, err)
	assert.Empty(t, segments)
	assert.Equal(t, domain.DefaultLanguage, got.Config.LanguageCode)
}

func TestTranscriber_Transcribe_InvalidURI(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})

	_, err := tr.Transcribe(context.Background(), "file:///tmp/a.mp3", domain.EncodingMP3, "en-US")
	assert.ErrorIs(t, err, domain.ErrInvalidURI)
}

func TestTranscriber_Transcribe_BackendError(t *testing.T) {
	tr := newTestTranscriber(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"permission denied"}}`)
	})

	_, err := tr.Transcribe(context.Background(), "gs://b/extracted/a.flac", domain.EncodingFLAC, "en-US")
	require.Error(t, err)
	assert.ErrorIs(t, err, gcp.ErrForbidden)
}

func TestCollectTranscripts_Nil(t *testing.T) {
	assert.Nil(t, collectTranscripts(nil))
}
