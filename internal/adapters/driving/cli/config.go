package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// checkTimeout bounds the LLM connectivity check.
const checkTimeout = 15 * time.Second

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Manage configuration",
	Long:        `View and change settings stored in config.toml. Environment variables override the file.`,
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show effective settings",
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a single dotted key, for example:

  bucketqa config set ingest.bucket my-bucket
  bucketqa config set llm.provider openai
  bucketqa config set retrieval.qa_budget 12000

Run 'bucketqa config keys' to list every key.`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:         "keys",
	Short:       "List configuration keys",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigKeys,
}

var configCheckCmd = &cobra.Command{
	Use:         "check",
	Short:       "Check that the LLM provider is reachable",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationServices: servicesSettings},
	RunE:        runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configKeysCmd, configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	view := settingsView(settings)
	return render(cmd, view, func() {
		cmd.Println("Current Settings")
		cmd.Println("================")
		cmd.Println()

		cmd.Println("[Google Cloud]")
		cmd.Printf("  Project: %s\n", orNotSet(settings.Cloud.Project))
		cmd.Printf("  Location: %s\n", settings.Cloud.Location)
		cmd.Printf("  Credentials: %s\n", orDefault(settings.Cloud.CredentialsFile, "application default"))
		cmd.Printf("  Requests/sec: %d\n", settings.Cloud.RequestsPerSecond)
		cmd.Println()

		cmd.Println("[Ingest]")
		cmd.Printf("  Bucket: %s\n", orNotSet(settings.Ingest.Bucket))
		cmd.Printf("  Prefix: %s\n", domain.IngestPrefix)
		cmd.Printf("  Language: %s\n", settings.Ingest.Language)
		cmd.Printf("  Video timeout: %s\n", settings.Ingest.VideoTimeout)
		cmd.Println()

		cmd.Println("[LLM]")
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", orNotSet(settings.LLM.Model))
		if settings.LLM.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
		}
		if settings.LLM.Provider.RequiresAPIKey() {
			cmd.Printf("  API Key: %s\n", view.LLM.APIKey)
		}
		cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
		status := "configured"
		if !settings.LLM.IsConfigured() {
			status = "not configured"
		}
		cmd.Printf("  Status: %s\n", status)
		cmd.Println()

		cmd.Println("[Retrieval]")
		cmd.Printf("  Q&A budget: %d chars\n", settings.Retrieval.QABudget)
		cmd.Printf("  Summary budget: %d chars\n", settings.Retrieval.SummaryBudget)
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	keys := settingsService.Keys()
	return render(cmd, keys, func() {
		for _, k := range keys {
			cmd.Println(k)
		}
	})
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
	defer cancel()

	if err := settingsService.ValidateLLMConfig(ctx); err != nil {
		return fmt.Errorf("LLM check failed: %w", err)
	}
	cmd.Println("LLM provider is reachable.")
	return nil
}

// configView is the serialised form of settings with secrets masked.
type configView struct {
	Cloud struct {
		Project           string `json:"project" yaml:"project"`
		Location          string `json:"location" yaml:"location"`
		CredentialsFile   string `json:"credentials_file,omitempty" yaml:"credentials_file,omitempty"`
		RequestsPerSecond int    `json:"requests_per_second" yaml:"requests_per_second"`
	} `json:"gcp" yaml:"gcp"`
	Ingest struct {
		Bucket              string `json:"bucket" yaml:"bucket"`
		Prefix              string `json:"prefix" yaml:"prefix"`
		Language            string `json:"language" yaml:"language"`
		VideoTimeoutSeconds int    `json:"video_timeout_seconds" yaml:"video_timeout_seconds"`
	} `json:"ingest" yaml:"ingest"`
	LLM struct {
		Provider  string `json:"provider" yaml:"provider"`
		Model     string `json:"model" yaml:"model"`
		BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
		APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
		MaxTokens int    `json:"max_tokens" yaml:"max_tokens"`
	} `json:"llm" yaml:"llm"`
	Retrieval struct {
		QABudget      int `json:"qa_budget" yaml:"qa_budget"`
		SummaryBudget int `json:"summary_budget" yaml:"summary_budget"`
	} `json:"retrieval" yaml:"retrieval"`
}

func settingsView(s *domain.Settings) configView {
	var v configView
	v.Cloud.Project = s.Cloud.Project
	v.Cloud.Location = s.Cloud.Location
	v.Cloud.CredentialsFile = s.Cloud.CredentialsFile
	v.Cloud.RequestsPerSecond = s.Cloud.RequestsPerSecond
	v.Ingest.Bucket = s.Ingest.Bucket
	v.Ingest.Prefix = domain.IngestPrefix
	v.Ingest.Language = s.Ingest.Language
	v.Ingest.VideoTimeoutSeconds = int(s.Ingest.VideoTimeout / time.Second)
	v.LLM.Provider = string(s.LLM.Provider)
	v.LLM.Model = s.LLM.Model
	v.LLM.BaseURL = s.LLM.BaseURL
	if s.LLM.APIKey != "" {
		v.LLM.APIKey = maskAPIKey(s.LLM.APIKey)
	} else if s.LLM.Provider.RequiresAPIKey() {
		v.LLM.APIKey = "(not set)"
	}
	v.LLM.MaxTokens = s.LLM.MaxTokens
	v.Retrieval.QABudget = s.Retrieval.QABudget
	v.Retrieval.SummaryBudget = s.Retrieval.SummaryBudget
	return v
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
