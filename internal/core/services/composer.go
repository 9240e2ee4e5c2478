package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/logger"
)

// Messages returned when the corpus is empty.
const (
	NoDocumentsAnswer  = "No documents are loaded. Please load documents first."
	NoDocumentsSummary = "No documents loaded"
)

// summaryQuery is the fixed query used to rank documents for a summary.
const summaryQuery = "summary overview"

// defaultAnswerPrompt is the fallback prompt when no PromptStore is configured.
const defaultAnswerPrompt = `You are an AI assistant that answers questions strictly using the
documents provided in the CONTEXT section below. Do NOT hallucinate.
If the answer can't be found, explicitly say so and cite the relevant documents.

QUESTION: %[1]s

CONTEXT:
%[2]s

ANSWER:`

// defaultSummaryPrompt is the fallback prompt when no PromptStore is configured.
const defaultSummaryPrompt = `Please provide a concise, bullet-point summary of the following
documents. Include for each document:
• Title / file name
• Main topics covered
• Any especially important fact or figure

CONTENTS:
%[1]s

SUMMARY:`

// Ensure Composer can take a custom prompt store.
var _ driven.PromptStoreAware = (*Composer)(nil)

// ComposerConfig holds the budgets used when composing prompts.
type ComposerConfig struct {
	QABudget      int
	SummaryBudget int
	MaxTokens     int
}

// Composer turns questions into a single grounded LLM call.
// The LLM service is optional. Without it every generation reports an
// error answer.
type Composer struct {
	corpus      driven.CorpusStore
	retriever   *Retriever
	llm         driven.LLMService
	promptStore driven.PromptStore
	cfg         ComposerConfig
}

// NewComposer creates a composer. Zero budgets fall back to the defaults.
func NewComposer(corpus driven.CorpusStore, retriever *Retriever, llm driven.LLMService, cfg ComposerConfig) *Composer {
	if cfg.QABudget <= 0 {
		cfg.QABudget = domain.DefaultQABudget
	}
	if cfg.SummaryBudget <= 0 {
		cfg.SummaryBudget = domain.DefaultSummaryBudget
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = domain.DefaultMaxTokens
	}
	return &Composer{
		corpus:    corpus,
		retriever: retriever,
		llm:       llm,
		cfg:       cfg,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
func (c *Composer) SetPromptStore(store driven.PromptStore) {
	c.promptStore = store
}

// Ask answers question from the corpus with exactly one LLM call.
// Sources credit every document in the corpus snapshot the context was
// built from.
func (c *Composer) Ask(ctx context.Context, question string) domain.Answer {
	docs := c.corpus.List()
	if len(docs) == 0 {
		return domain.Answer{
			Text:       NoDocumentsAnswer,
			Sources:    []string{},
			Confidence: domain.ConfidenceLow,
		}
	}

	logger.Section("Answer")
	block := c.retriever.BuildContextFrom(docs, question, c.cfg.QABudget)
	prompt := fmt.Sprintf(c.loadPrompt(driven.PromptAnswer, defaultAnswerPrompt), question, block)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		return domain.Answer{
			Text:       fmt.Sprintf("Error generating response: %v", err),
			Sources:    []string{},
			Confidence: domain.ConfidenceError,
		}
	}

	sources := make([]string, len(docs))
	for i, d := range docs {
		sources[i] = d.ID
	}
	return domain.Answer{
		Text:          text,
		Sources:       sources,
		Confidence:    domain.ConfidenceHigh,
		ContextLength: utf8.RuneCountInString(block),
		DocumentsUsed: len(sources),
	}
}

// Summarize asks for a bullet-point summary of the corpus.
func (c *Composer) Summarize(ctx context.Context) domain.Summary {
	docs := c.corpus.List()
	if len(docs) == 0 {
		return domain.Summary{Summary: NoDocumentsSummary, Confidence: domain.ConfidenceLow}
	}

	logger.Section("Summary")
	block := c.retriever.BuildContextFrom(docs, summaryQuery, c.cfg.SummaryBudget)
	prompt := fmt.Sprintf(c.loadPrompt(driven.PromptSummary, defaultSummaryPrompt), block)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		logger.Warn("Summary generation failed: %v", err)
		return domain.Summary{
			Summary:    fmt.Sprintf("Error generating summary: %v", err),
			Confidence: domain.ConfidenceError,
		}
	}

	total := 0
	seen := make(map[domain.DocumentType]bool)
	var types []string
	for _, d := range docs {
		total += utf8.RuneCountInString(d.Text)
		if !seen[d.Type] {
			seen[d.Type] = true
			types = append(types, d.Type.String())
		}
	}

	return domain.Summary{
		Summary:       text,
		DocumentCount: len(docs),
		TotalChars:    total,
		DocumentTypes: types,
		Confidence:    domain.ConfidenceHigh,
	}
}

func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	logger.Debug("Sending prompt of %d chars to %s", utf8.RuneCountInString(prompt), c.llm.ModelName())

	text, err := c.llm.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: c.cfg.MaxTokens})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (c *Composer) loadPrompt(name, fallback string) string {
	if c.promptStore == nil {
		return fallback
	}
	prompt, err := c.promptStore.Load(name)
	if err != nil {
		logger.Debug("Using default %s prompt: %v", name, err)
		return fallback
	}
	return prompt
}
