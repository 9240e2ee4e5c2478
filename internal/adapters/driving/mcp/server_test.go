package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil assistant returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingAssistantService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Assistant: &mockAssistant{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingAssistantService)
	assert.NoError(t, (&Ports{Assistant: &mockAssistant{}}).Validate())
}

// connect starts server over in-memory transports and returns a client session.
func connect(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestServer_OverTransport(t *testing.T) {
	assistant := &mockAssistant{
		answer: domain.Answer{
			Text:          "Revenue grew 12%.",
			Sources:       []string{"q3.txt"},
			Confidence:    domain.ConfidenceHigh,
			ContextLength: 120,
			DocumentsUsed: 1,
		},
		docs: []domain.DocumentInfo{
			{Name: "q3.txt", Type: domain.TypePlainText, SizeChars: 23, SourceLocation: "gs://b/extracted/q3.txt"},
		},
		documents: map[string]*domain.Document{
			"q3.txt": {ID: "q3.txt", Text: "Revenue grew 12% in Q3.", Type: domain.TypePlainText},
		},
	}
	server, err := NewServer(&Ports{Assistant: assistant})
	require.NoError(t, err)
	cs := connect(t, server)
	ctx := context.Background()

	t.Run("lists every tool", func(t *testing.T) {
		res, err := cs.ListTools(ctx, nil)
		require.NoError(t, err)
		var names []string
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{"ask", "search", "list_documents", "summarize", "load"}, names)
	})

	t.Run("ask returns structured answer", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &mcp.CallToolParams{
			Name:      "ask",
			Arguments: map[string]any{"question": "What happened to revenue?"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		require.Len(t, res.Content, 1)

		var out AskOutput
		require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*mcp.TextContent).Text), &out))
		assert.Equal(t, "Revenue grew 12%.", out.Answer)
		assert.Equal(t, []string{"q3.txt"}, out.Sources)
		assert.Equal(t, "high", out.Confidence)
		assert.Equal(t, "What happened to revenue?", assistant.question)
	})

	t.Run("load without bucket is a tool error", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "load", Arguments: map[string]any{}})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("reads document listing", func(t *testing.T) {
		res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "bucketqa://documents"})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Contains(t, res.Contents[0].Text, `"name": "q3.txt"`)
		assert.Contains(t, res.Contents[0].Text, `"type": "Plain Text"`)
	})

	t.Run("reads document content", func(t *testing.T) {
		res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "bucketqa://documents/q3.txt"})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "Revenue grew 12% in Q3.", res.Contents[0].Text)
	})

	t.Run("unknown document is an error", func(t *testing.T) {
		_, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "bucketqa://documents/missing.txt"})
		assert.Error(t, err)
	})
}
