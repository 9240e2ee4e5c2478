// Package transcript renders the scrolling chat history.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// MaxSources is how many credited documents are listed under an answer.
const MaxSources = 5

// Transcript is a viewport over the rendered conversation.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	blocks   []func() string
	width    int
}

// New creates an empty transcript.
func New(s *styles.Styles, width, height int) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		viewport: viewport.New(width, height),
		styles:   s,
		width:    width,
	}
}

// Update forwards scrolling messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetSize resizes the viewport and re-wraps every block.
func (t *Transcript) SetSize(width, height int) {
	t.width = width
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Len returns the number of blocks.
func (t *Transcript) Len() int {
	return len(t.blocks)
}

// Content returns the full rendered transcript.
func (t *Transcript) Content() string {
	rendered := make([]string, len(t.blocks))
	for i, render := range t.blocks {
		rendered[i] = render()
	}
	return strings.Join(rendered, "\n\n")
}

// AddNotice appends a muted informational line.
func (t *Transcript) AddNotice(text string) {
	t.add(func() string { return t.styles.Muted.Render(t.wrap(text)) })
}

// AddError appends an error line.
func (t *Transcript) AddError(err error) {
	msg := "Error: " + err.Error()
	t.add(func() string { return t.styles.Error.Render(t.wrap(msg)) })
}

// AddQuestion appends the user's question.
func (t *Transcript) AddQuestion(question string) {
	t.add(func() string { return t.styles.Question.Render(t.wrap("> " + question)) })
}

// AddAnswer appends an answer with its first sources and context length.
func (t *Transcript) AddAnswer(answer domain.Answer) {
	t.add(func() string { return t.renderAnswer(answer) })
}

func (t *Transcript) renderAnswer(answer domain.Answer) string {
	var b strings.Builder
	b.WriteString(t.styles.Answer.Render(t.wrap(answer.Text)))

	if len(answer.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(t.styles.Muted.Render("Sources:"))
		shown := answer.Sources
		if len(shown) > MaxSources {
			shown = shown[:MaxSources]
		}
		for _, src := range shown {
			b.WriteString("\n")
			b.WriteString(t.styles.Source.Render(" • " + src))
		}
		if extra := len(answer.Sources) - len(shown); extra > 0 {
			b.WriteString("\n")
			b.WriteString(t.styles.Muted.Render(fmt.Sprintf("   and %d more", extra)))
		}
	}

	b.WriteString("\n")
	meta := fmt.Sprintf("confidence: %s", answer.Confidence)
	if answer.ContextLength > 0 {
		meta += fmt.Sprintf(" · context: %d chars", answer.ContextLength)
	}
	b.WriteString(t.styles.Confidence(answer.Confidence).Render(meta))
	return b.String()
}

// AddSummary appends a corpus summary.
func (t *Transcript) AddSummary(summary domain.Summary) {
	t.add(func() string { return t.renderSummary(summary) })
}

func (t *Transcript) renderSummary(summary domain.Summary) string {
	var b strings.Builder
	b.WriteString(t.styles.Title.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(t.styles.Answer.Render(t.wrap(summary.Summary)))
	if summary.DocumentCount > 0 {
		b.WriteString("\n")
		b.WriteString(t.styles.Muted.Render(fmt.Sprintf("%d documents · %d chars · %s",
			summary.DocumentCount, summary.TotalChars, strings.Join(summary.DocumentTypes, ", "))))
	}
	return b.String()
}

// AddDocuments appends the corpus listing.
func (t *Transcript) AddDocuments(docs []domain.DocumentInfo) {
	if len(docs) == 0 {
		t.AddNotice("No documents are loaded.")
		return
	}
	t.add(func() string {
		var b strings.Builder
		b.WriteString(t.styles.Title.Render(fmt.Sprintf("Documents (%d)", len(docs))))
		for _, d := range docs {
			b.WriteString("\n")
			b.WriteString(t.styles.Source.Render(" • " + d.Name))
			b.WriteString(t.styles.Muted.Render(fmt.Sprintf("  %s, %d chars", d.Type, d.SizeChars)))
		}
		return b.String()
	})
}

// AddReport appends a one-line ingestion summary.
func (t *Transcript) AddReport(report *domain.LoadReport) {
	line := fmt.Sprintf("Loaded %d documents from %s (%d found, %d skipped, %d failed).",
		report.Loaded, report.Bucket, report.Found, report.Skipped, report.Failed)
	style := t.styles.Success
	if report.Failed > 0 {
		style = t.styles.Warning
	}
	t.add(func() string { return style.Render(t.wrap(line)) })
}

// add appends a block rendered lazily so resizes re-wrap it.
func (t *Transcript) add(render func() string) {
	t.blocks = append(t.blocks, render)
	t.refresh()
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.Content())
	t.viewport.GotoBottom()
}

// wrap soft-wraps text at the transcript width.
func (t *Transcript) wrap(text string) string {
	if t.width <= 0 {
		return text
	}
	return styles.Wrap(text, t.width)
}
