// Package cli provides the bucketqa command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketqa/internal/core/ports/driving"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Command annotations controlling service construction.
const (
	annotationServices = "services"
	servicesNone       = "none"
	servicesSettings   = "settings"
)

var (
	errAssistantNotConfigured = errors.New("assistant service not configured")
	errSettingsNotConfigured  = errors.New("settings service not configured")
	errNoBucket               = errors.New("no bucket configured: pass --bucket or run 'bucketqa config set ingest.bucket <name>'")
)

// Services are the dependencies commands run against.
type Services struct {
	Assistant driving.AssistantService
	Settings  driving.SettingsService

	// Bucket is the configured default bucket.
	Bucket string

	// Model is the LLM model name, empty when no LLM is configured.
	Model string

	// Close releases the services. May be nil.
	Close func() error
}

// ServiceOptions tune service construction for a command.
type ServiceOptions struct {
	ConfigDir string

	// SkipLLMPing is set for commands that never generate text.
	SkipLLMPing bool
}

// ServiceFactory builds the services on first use.
type ServiceFactory func(ctx context.Context, opts ServiceOptions) (*Services, error)

var (
	serviceFactory   ServiceFactory
	assistantService driving.AssistantService
	settingsService  driving.SettingsService
	configuredBucket string
	llmModel         string
	closeServices    func() error
)

// Persistent flags.
var (
	verbose      bool
	configDir    string
	bucketFlag   string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "bucketqa",
	Short: "Ask questions about the documents in a storage bucket",
	Long: `bucketqa loads every document under extracted/ in a Google Cloud Storage
bucket (or a local file:// directory), extracts its text and answers questions
about it with a single grounded LLM call.

Audio and video are transcribed with Google Speech-to-Text and Video
Intelligence; PDF, Word, PowerPoint and plain text are parsed locally.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// SetServiceFactory sets how services are built.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("Closing services: %v", cerr)
		}
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.bucketqa)")
	rootCmd.PersistentFlags().StringVarP(&bucketFlag, "bucket", "b", "", "bucket to load, gs://name or file:///dir (default ingest.bucket)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "output format: text, json or yaml")
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if err := validateFormat(outputFormat); err != nil {
		return err
	}

	mode := cmd.Annotations[annotationServices]
	if mode == servicesNone || serviceFactory == nil || assistantService != nil {
		return nil
	}

	svc, err := serviceFactory(cmd.Context(), ServiceOptions{
		ConfigDir:   configDir,
		SkipLLMPing: mode == servicesSettings,
	})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}

	assistantService = svc.Assistant
	settingsService = svc.Settings
	configuredBucket = svc.Bucket
	llmModel = svc.Model
	closeServices = svc.Close
	return nil
}

// resolveBucket returns the bucket named on the command line, then the
// configured one.
func resolveBucket(args ...string) (string, error) {
	candidates := make([]string, 0, len(args)+2)
	candidates = append(candidates, args...)
	candidates = append(candidates, bucketFlag, configuredBucket)
	for _, b := range candidates {
		if b != "" {
			return b, nil
		}
	}
	return "", errNoBucket
}
