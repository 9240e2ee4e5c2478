package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/mcp"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The configured bucket is loaded first. Tools: ask, search, list_documents,
summarize and load. Resources: bucketqa://documents and
bucketqa://documents/{name}.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  bucketqa mcp serve --bucket gs://reports

  # HTTP mode (for MCP Inspector, remote access)
  bucketqa mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "bucketqa": {
        "command": "/path/to/bucketqa",
        "args": ["mcp", "serve", "--bucket", "gs://reports"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if assistantService == nil {
		return errAssistantNotConfigured
	}

	// The load tool can retry, so a failed start-up load is not fatal.
	bucket, _ := resolveBucket()
	if bucket != "" {
		if err := loadQuietly(cmd); err != nil {
			logger.Error("%v", err)
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Assistant: assistantService,
		Bucket:    bucket,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
