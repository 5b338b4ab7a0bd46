package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/llm"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// Fallback answers. These exact strings are part of the UI contract: the
// sidebar recognizes them as "no citation markers expected".
const (
	NoResultsAnswer  = "I couldn't find any relevant information on this page to answer your question."
	NoAnswerFallback = "I found relevant information on this page but couldn't generate a summary. Try rephrasing your question."
)

// StreamFunc receives incremental answer text: the new chunk and the
// accumulated text so far. Calls are strictly sequential within one
// generation.
type StreamFunc func(chunk, accumulated string)

// Generator produces natural-language answers from ranked page chunks and a
// bounded conversation history.
type Generator struct {
	provider    llm.Provider
	model       string
	maxTokens   int
	temperature float64
}

// NewGenerator creates a Generator on the given provider. model may be empty
// to use the provider's default.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{
		provider:    provider,
		model:       model,
		maxTokens:   1024,
		temperature: 0.3,
	}
}

// Generate returns an answer for the query given ranked results and prior
// conversation. The history must already be bounded by the caller (at most a
// summary plus the retained window); the generator does not truncate it.
// With no results it returns the fixed no-results answer without calling the
// provider.
func (g *Generator) Generate(ctx context.Context, query string, results []retrieval.ScoredResult, hist []history.Message) (string, error) {
	return g.generate(ctx, query, results, hist, nil)
}

// GenerateStream behaves like Generate but forwards incremental text to
// onChunk as it arrives. The final return value is the complete accumulated
// answer; the stream is finite and not restartable.
func (g *Generator) GenerateStream(ctx context.Context, query string, results []retrieval.ScoredResult, hist []history.Message, onChunk StreamFunc) (string, error) {
	return g.generate(ctx, query, results, hist, onChunk)
}

func (g *Generator) generate(ctx context.Context, query string, results []retrieval.ScoredResult, hist []history.Message, onChunk StreamFunc) (string, error) {
	if len(results) == 0 {
		if onChunk != nil {
			onChunk(NoResultsAnswer, NoResultsAnswer)
		}
		return NoResultsAnswer, nil
	}

	req := llm.CompletionRequest{
		Model:       g.model,
		Messages:    buildMessages(query, results, hist),
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}

	var (
		resp *llm.CompletionResponse
		err  error
	)
	if onChunk != nil {
		var sb strings.Builder
		resp, err = g.provider.CompleteStream(ctx, req, func(delta string) {
			sb.WriteString(delta)
			onChunk(delta, sb.String())
		})
	} else {
		resp, err = g.provider.Complete(ctx, req)
	}
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return NoAnswerFallback, nil
	}
	return text, nil
}

// Summarize condenses a conversation transcript; used by the history
// compactor. Output is bounded by summaryMaxTokens.
func (g *Generator) Summarize(ctx context.Context, transcript string) (string, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(summaryPrompt, transcript)},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("summarizing history: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// buildMessages assembles the provider request: system prompt with numbered
// sources, then prior turns, then the current query.
func buildMessages(query string, results []retrieval.ScoredResult, hist []history.Message) []llm.Message {
	messages := make([]llm.Message, 0, len(hist)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: fmt.Sprintf(systemPromptTemplate, retrieval.FormatSources(results)),
	})

	for _, m := range hist {
		role := llm.RoleUser
		if m.Role == history.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: query})
	return messages
}
