package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

func TestConfigShow(t *testing.T) {
	settings := newMockSettings()
	settings.settings.Cloud.Project = "acme"
	settings.settings.Ingest.Bucket = "reports"
	setupTestServices(t, nil, settings, "")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "[Google Cloud]")
	assert.Contains(t, out, "Project: acme")
	assert.Contains(t, out, "Credentials: application default")
	assert.Contains(t, out, "Bucket: reports")
	assert.Contains(t, out, "Prefix: extracted/")
	assert.Contains(t, out, "Provider: Gemini on Vertex AI (cloud)")
	assert.Contains(t, out, "[Retrieval]")
}

func TestConfigShow_IsDefault(t *testing.T) {
	setupTestServices(t, nil, newMockSettings(), "")

	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestConfigShow_MasksAPIKey(t *testing.T) {
	settings := newMockSettings()
	settings.settings.LLM = domain.LLMSettings{
		Provider:  domain.LLMProviderOpenAI,
		Model:     "gpt-4o-mini",
		APIKey:    "sk-1234567890abcdef",
		MaxTokens: 1024,
	}
	setupTestServices(t, nil, settings, "")

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
}

func TestConfigShow_JSON(t *testing.T) {
	settings := newMockSettings()
	settings.settings.LLM.Provider = domain.LLMProviderOpenAI
	settings.settings.LLM.APIKey = "sk-1234567890abcdef"
	setupTestServices(t, nil, settings, "")

	out, err := execute(t, "config", "show", "-o", "json")
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "openai", got["llm"]["provider"])
	assert.Equal(t, "sk-1...cdef", got["llm"]["api_key"])
	assert.Equal(t, "extracted/", got["ingest"]["prefix"])
}

func TestConfigSet(t *testing.T) {
	settings := newMockSettings()
	setupTestServices(t, nil, settings, "")

	out, err := execute(t, "config", "set", "ingest.bucket", "reports")
	require.NoError(t, err)
	assert.Equal(t, "reports", settings.setCalls["ingest.bucket"])
	assert.Contains(t, out, "Set ingest.bucket")
}

func TestConfigSet_Error(t *testing.T) {
	settings := newMockSettings()
	settings.setErr = domain.ErrInvalidInput
	setupTestServices(t, nil, settings, "")

	_, err := execute(t, "config", "set", "bogus", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigSet_RequiresTwoArgs(t *testing.T) {
	setupTestServices(t, nil, newMockSettings(), "")

	_, err := execute(t, "config", "set", "ingest.bucket")
	assert.Error(t, err)
}

func TestConfigKeys(t *testing.T) {
	setupTestServices(t, nil, newMockSettings(), "")

	out, err := execute(t, "config", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "ingest.bucket")
	assert.Contains(t, out, "llm.provider")
}

func TestConfigCheck(t *testing.T) {
	setupTestServices(t, nil, newMockSettings(), "")

	out, err := execute(t, "config", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "reachable")
}

func TestConfigCheck_Failure(t *testing.T) {
	settings := newMockSettings()
	settings.validateErr = errors.New("connection refused")
	setupTestServices(t, nil, settings, "")

	_, err := execute(t, "config", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestConfig_NoSettingsService(t *testing.T) {
	setupTestServices(t, nil, nil, "")

	_, err := execute(t, "config", "show")
	assert.ErrorIs(t, err, errSettingsNotConfigured)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...mnop", maskAPIKey("abcdefghijklmnop"))
}
