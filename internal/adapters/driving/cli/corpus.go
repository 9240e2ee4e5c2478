package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

var searchLimit int

var loadCmd = &cobra.Command{
	Use:   "load [bucket]",
	Short: "Load documents from a bucket and report the result",
	Long: `Lists every object under extracted/ in the bucket, extracts its text and
reports what was committed, skipped and failed.

The bucket is a GCS bucket name (my-bucket or gs://my-bucket) or a local
directory (file:///srv/docs).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the bucket documents",
	Long: `Loads the bucket, ranks documents by keyword overlap with the question and
asks the LLM to answer strictly from the assembled context.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarise every document in the bucket",
	Args:  cobra.NoArgs,
	RunE:  runSummarize,
}

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs", "ls"},
	Short:   "List the documents loaded from the bucket",
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Find a term in the bucket documents",
	Long: `Case-insensitive substring search over the extracted text. Reports the
first match in each document with surrounding context.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results (0 = all)")
	rootCmd.AddCommand(loadCmd, askCmd, summarizeCmd, documentsCmd, searchCmd)
}

// loadCorpus ingests the bucket named in args, by flag or in config.
func loadCorpus(cmd *cobra.Command, args ...string) (*domain.LoadReport, error) {
	if assistantService == nil {
		return nil, errAssistantNotConfigured
	}
	bucket, err := resolveBucket(args...)
	if err != nil {
		return nil, err
	}

	report, err := assistantService.Load(cmd.Context(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", bucket, err)
	}
	return report, nil
}

// loadQuietly loads the bucket and writes the counts to stderr.
func loadQuietly(cmd *cobra.Command) error {
	report, err := loadCorpus(cmd)
	if err != nil {
		return err
	}
	printReport(cmd.ErrOrStderr(), report, verbose)
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	report, err := loadCorpus(cmd, args...)
	if err != nil {
		return err
	}
	return render(cmd, report, func() {
		printReport(cmd.OutOrStdout(), report, true)
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if err := loadQuietly(cmd); err != nil {
		return err
	}

	answer := assistantService.Ask(cmd.Context(), question)
	return render(cmd, answer, func() {
		printAnswer(cmd, answer)
	})
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	if err := loadQuietly(cmd); err != nil {
		return err
	}

	summary := assistantService.Summarize(cmd.Context())
	return render(cmd, summary, func() {
		cmd.Println("--- Summary ---------------------------------------------------")
		cmd.Println(summary.Summary)
		if summary.DocumentCount > 0 {
			cmd.Println()
			cmd.Printf("Documents: %d  Total chars: %d  Types: %s\n",
				summary.DocumentCount, summary.TotalChars, strings.Join(summary.DocumentTypes, ", "))
		}
	})
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if err := loadQuietly(cmd); err != nil {
		return err
	}

	docs := assistantService.ListDocuments()
	if docs == nil {
		docs = []domain.DocumentInfo{}
	}
	return render(cmd, docs, func() {
		if len(docs) == 0 {
			cmd.Println("No documents loaded.")
			return
		}
		for i, d := range docs {
			cmd.Printf("  [%d] %s (%s, %d chars)\n", i+1, d.Name, d.Type, d.SizeChars)
			cmd.Printf("      %s\n", d.SourceLocation)
		}
	})
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := loadQuietly(cmd); err != nil {
		return err
	}

	hits := assistantService.Search(args[0])
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	if searchLimit > 0 && len(hits) > searchLimit {
		hits = hits[:searchLimit]
	}
	return render(cmd, hits, func() {
		if len(hits) == 0 {
			cmd.Println("No results found.")
			return
		}
		cmd.Println("Results:")
		cmd.Println()
		for i, h := range hits {
			cmd.Printf("  [%d] %s (%s) at %d\n", i+1, h.Document, h.Type, h.Position)
			cmd.Printf("      %s\n", h.Snippet)
			cmd.Println()
		}
	})
}
