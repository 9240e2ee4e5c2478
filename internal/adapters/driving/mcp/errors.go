// Package mcp provides an MCP (Model Context Protocol) server adapter for bucketqa.
// It lets AI assistants load a bucket, ask questions and read the corpus.
package mcp

import "errors"

var (
	// ErrMissingAssistantService is returned when the assistant service is not provided.
	ErrMissingAssistantService = errors.New("mcp: assistant service is required")

	// ErrNoBucket is returned by the load tool when neither the call nor the
	// server names a bucket.
	ErrNoBucket = errors.New("mcp: no bucket configured")
)
