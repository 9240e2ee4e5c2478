package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/httpapi"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Loads the bucket and serves the assistant over HTTP:

  POST /api/load             reload the bucket ({"bucket": "..."} optional)
  POST /api/ask              {"question": "..."}
  GET  /api/summary
  GET  /api/documents
  GET  /api/documents/{name}
  GET  /api/search?q=term&limit=n
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "reload when the bucket changes (file:// buckets)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := loadQuietly(cmd); err != nil {
		return err
	}
	bucket, _ := resolveBucket()

	server, err := httpapi.NewServer(assistantService, bucket)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if serveWatch {
		go watchBucket(ctx, cmd.ErrOrStderr(), bucket)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %s on %s\n", bucket, serveAddr)
	return server.Run(ctx, serveAddr)
}
