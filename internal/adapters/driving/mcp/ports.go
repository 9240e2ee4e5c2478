package mcp

import (
	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
)

// Ports aggregates the driving ports and defaults required by the MCP server.
type Ports struct {
	// Assistant answers questions over the loaded corpus.
	Assistant driving.AssistantService

	// Bucket is loaded by the load tool when the call names none.
	Bucket string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}
