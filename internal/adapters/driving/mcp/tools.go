package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// defaultSearchLimit caps search results when the caller sets no limit.
const defaultSearchLimit = 10

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the loaded documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	Confidence    string   `json:"confidence"`
	ContextLength int      `json:"context_length"`
	DocumentsUsed int      `json:"documents_used"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find, matched case-insensitively"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search hit.
type SearchResultOutput struct {
	Document string `json:"document"`
	Type     string `json:"type"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput is the listing view of one corpus document.
type DocumentOutput struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	SizeChars      int    `json:"size_chars"`
	SourceLocation string `json:"source_location"`
	IngestedAt     string `json:"ingested_at"`
}

// SummarizeInput is the input schema for the summarize tool.
type SummarizeInput struct{}

// SummarizeOutput is the output schema for the summarize tool.
type SummarizeOutput struct {
	Summary       string   `json:"summary"`
	DocumentCount int      `json:"document_count"`
	TotalChars    int      `json:"total_chars"`
	DocumentTypes []string `json:"document_types"`
	Confidence    string   `json:"confidence"`
}

// LoadInput is the input schema for the load tool.
type LoadInput struct {
	Bucket string `json:"bucket,omitempty" jsonschema:"bucket to ingest, gs://name or file:///dir (default: the configured bucket)"`
}

// LoadOutput is the output schema for the load tool.
type LoadOutput struct {
	Bucket      string             `json:"bucket"`
	Found       int                `json:"found"`
	Committed   int                `json:"committed"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	Loaded      int                `json:"loaded"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
}

// DiagnosticOutput explains why one object was not loaded.
type DiagnosticOutput struct {
	Kind   string `json:"kind"`
	Object string `json:"object"`
	Detail string `json:"detail,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the loaded bucket documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find a substring in every loaded document",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the loaded documents",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize",
		Description: "Summarise all loaded documents as bullet points",
	}, s.handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load",
		Description: "Ingest every document under extracted/ in a bucket",
	}, s.handleLoad)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}

	answer := s.ports.Assistant.Ask(ctx, question)
	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	return nil, AskOutput{
		Answer:        answer.Text,
		Sources:       sources,
		Confidence:    string(answer.Confidence),
		ContextLength: answer.ContextLength,
		DocumentsUsed: answer.DocumentsUsed,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	hits := s.ports.Assistant.Search(input.Query)
	if len(hits) > limit {
		hits = hits[:limit]
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(hits)),
		Count:   len(hits),
	}
	for i, h := range hits {
		output.Results[i] = SearchResultOutput{
			Document: h.Document,
			Type:     h.Type.String(),
			Snippet:  h.Snippet,
			Position: h.Position,
		}
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := documentOutputs(s.ports.Assistant.ListDocuments())
	return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
}

func (s *Server) handleSummarize(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SummarizeInput,
) (*mcp.CallToolResult, SummarizeOutput, error) {
	summary := s.ports.Assistant.Summarize(ctx)
	types := summary.DocumentTypes
	if types == nil {
		types = []string{}
	}
	return nil, SummarizeOutput{
		Summary:       summary.Summary,
		DocumentCount: summary.DocumentCount,
		TotalChars:    summary.TotalChars,
		DocumentTypes: types,
		Confidence:    string(summary.Confidence),
	}, nil
}

func (s *Server) handleLoad(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, LoadOutput, error) {
	bucket := input.Bucket
	if bucket == "" {
		bucket = s.ports.Bucket
	}
	if bucket == "" {
		return nil, LoadOutput{}, ErrNoBucket
	}

	report, err := s.ports.Assistant.Load(ctx, bucket)
	if err != nil {
		return nil, LoadOutput{}, fmt.Errorf("loading %s: %w", bucket, err)
	}

	output := LoadOutput{
		Bucket:      bucket,
		Found:       report.Found,
		Committed:   report.Committed,
		Skipped:     report.Skipped,
		Failed:      report.Failed,
		Loaded:      report.Loaded,
		Diagnostics: make([]DiagnosticOutput, len(report.Diagnostics)),
	}
	for i, d := range report.Diagnostics {
		output.Diagnostics[i] = DiagnosticOutput{
			Kind:   string(d.Kind),
			Object: d.Object,
			Detail: d.Detail,
		}
	}
	return nil, output, nil
}

func documentOutputs(infos []domain.DocumentInfo) []DocumentOutput {
	docs := make([]DocumentOutput, len(infos))
	for i, info := range infos {
		docs[i] = DocumentOutput{
			Name:           info.Name,
			Type:           info.Type.String(),
			SizeChars:      info.SizeChars,
			SourceLocation: info.SourceLocation,
			IngestedAt:     info.IngestedAt.Format(time.RFC3339),
		}
	}
	return docs
}
