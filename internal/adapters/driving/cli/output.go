package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// maxSourcesShown is how many sources text output lists under an answer.
const maxSourcesShown = 5

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidInput, format)
	}
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(cmd *cobra.Command, v any, text func()) error {
	switch outputFormat {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Println(string(data))
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		cmd.Print(string(data))
	default:
		text()
	}
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println()
	cmd.Println("--- Answer ----------------------------------------------------")
	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("--- Sources ---------------------------------------------------")
		shown := answer.Sources
		if len(shown) > maxSourcesShown {
			shown = shown[:maxSourcesShown]
		}
		for _, src := range shown {
			cmd.Printf(" • %s\n", src)
		}
		if extra := len(answer.Sources) - len(shown); extra > 0 {
			cmd.Printf("   and %d more\n", extra)
		}
	}

	cmd.Println()
	cmd.Printf("Confidence: %s", answer.Confidence)
	if answer.ContextLength > 0 {
		cmd.Printf("  Context length: %d chars", answer.ContextLength)
	}
	cmd.Println()
}

// printReport writes the run counts, and the per-object diagnostics when
// details is set.
func printReport(w io.Writer, report *domain.LoadReport, details bool) {
	fmt.Fprintf(w, "Loaded %d documents from %s\n", report.Loaded, report.Bucket)
	fmt.Fprintf(w, "  found: %d  committed: %d  skipped: %d  failed: %d\n",
		report.Found, report.Committed, report.Skipped, report.Failed)
	if !details {
		return
	}
	for _, d := range report.Diagnostics {
		detail := d.Detail
		if d.Extractor != "" {
			detail = d.Extractor + ": " + detail
		}
		fmt.Fprintf(w, "  %-12s %s  %s\n", d.Kind, d.Object, detail)
	}
}
