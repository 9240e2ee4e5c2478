package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

var chatWatch bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bucket documents",
	Long: `Loads the bucket and starts an interactive question and answer session.

On a terminal this opens the chat TUI:
  Enter   - Ask the typed question
  Ctrl+S  - Summarise the documents
  Ctrl+D  - List the documents
  Ctrl+R  - Reload the bucket
  PgUp/Dn - Scroll
  Esc     - Quit

Otherwise questions are read line by line from stdin until 'exit' or 'quit'.

With --watch, changes under extracted/ in a file:// bucket reload the corpus.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVarP(&chatWatch, "watch", "w", false, "reload when the bucket changes (file:// buckets)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	report, err := loadCorpus(cmd)
	if err != nil {
		return err
	}
	bucket, _ := resolveBucket()

	if isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout()) {
		app, err := tui.NewApp(&tui.Ports{
			Assistant:     assistantService,
			Bucket:        bucket,
			Model:         llmModel,
			Watch:         chatWatch,
			InitialReport: report,
		})
		if err != nil {
			return fmt.Errorf("failed to create TUI: %w", err)
		}
		if err := app.WithContext(cmd.Context()).Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	}

	printReport(cmd.ErrOrStderr(), report, verbose)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if chatWatch {
		go watchBucket(ctx, cmd.ErrOrStderr(), bucket)
	}
	return runREPL(ctx, cmd)
}

// runREPL answers questions read line by line until exit, quit or EOF.
func runREPL(ctx context.Context, cmd *cobra.Command) error {
	cmd.Println("=== Ask anything about the loaded documents (type 'exit' to quit) ===")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("\nQuestion: ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		printAnswer(cmd, assistantService.Ask(ctx, question))
		if ctx.Err() != nil {
			return nil
		}
	}
}

// watchBucket reloads the corpus on bucket changes until ctx ends.
func watchBucket(ctx context.Context, w io.Writer, bucket string) {
	err := assistantService.Watch(ctx, bucket, func(report *domain.LoadReport, err error) {
		if err != nil {
			fmt.Fprintf(w, "Reload failed: %v\n", err)
			return
		}
		printReport(w, report, false)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(w, "Watch stopped: %v\n", err)
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
