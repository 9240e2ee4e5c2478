// Command bucketqa answers questions about the documents in a bucket.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/bucketqa/internal/app"
)

func main() {
	// Load .env if present, for API keys and BUCKETQA_* overrides.
	_ = godotenv.Load()

	cli.SetServiceFactory(func(ctx context.Context, opts cli.ServiceOptions) (*cli.Services, error) {
		a, err := app.New(ctx, app.Options{
			ConfigDir:   opts.ConfigDir,
			SkipLLMPing: opts.SkipLLMPing,
		})
		if err != nil {
			return nil, err
		}
		return &cli.Services{
			Assistant: a.Assistant,
			Settings:  a.Settings,
			Bucket:    a.Config.Ingest.Bucket,
			Model:     a.ModelName(),
			Close:     a.Close,
		}, nil
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
