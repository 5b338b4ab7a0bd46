package history

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/pagelens/pagelens/internal/citation"
)

var (
	errNoSummarizer = errors.New("no summarizer configured")
	errEmptySummary = errors.New("summarizer produced empty output")
)

// RetainedWindow is the number of most recent messages kept verbatim through
// compaction. Together with at most one summary message, conversation length
// never exceeds RetainedWindow+1 after an append.
const RetainedWindow = 10

// Summarizer condenses a conversation transcript into a short summary.
// Implemented by answer.Generator.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// Compactor bounds conversation memory by replacing overflow turns with a
// single tagged summary message. Summarization failures degrade to plain
// truncation; compaction never surfaces an error to the caller and never
// drops the most recent messages.
type Compactor struct {
	summarizer Summarizer
}

// NewCompactor creates a Compactor using the given summarizer. A nil
// summarizer is allowed; compaction then always degrades to truncation.
func NewCompactor(summarizer Summarizer) *Compactor {
	return &Compactor{summarizer: summarizer}
}

// Compact enforces the window before a new user turn is appended. When the
// history holds more than RetainedWindow messages, everything older than the
// last RetainedWindow is summarized into a single tagged message; an existing
// summary at the front is folded into the transcript rather than summarized
// verbatim. On summarization failure the overflow is discarded and only the
// retained window survives.
func (c *Compactor) Compact(ctx context.Context, msgs []Message) []Message {
	n := len(msgs)
	if n <= RetainedWindow {
		return msgs
	}

	toSummarize := msgs[:n-RetainedWindow]
	retained := msgs[n-RetainedWindow:]

	summary, err := c.summarize(ctx, toSummarize)
	if err != nil {
		log.Printf("history: compaction summarization failed, truncating %d messages: %v", len(toSummarize), err)
		return append([]Message(nil), retained...)
	}

	out := make([]Message, 0, 1+len(retained))
	out = append(out, NewAssistantMessage(SummaryPrefix+summary))
	out = append(out, retained...)
	return out
}

// Enforce re-runs compaction after an append. A single append can push the
// history past the bound even when Compact ran just before it; this keeps
// the invariant len <= RetainedWindow+1 (the +1 being the summary slot).
func (c *Compactor) Enforce(ctx context.Context, msgs []Message) []Message {
	limit := RetainedWindow
	if len(msgs) > 0 && msgs[0].IsSummary() {
		limit = RetainedWindow + 1
	}
	if len(msgs) <= limit {
		return msgs
	}
	return c.Compact(ctx, msgs)
}

func (c *Compactor) summarize(ctx context.Context, msgs []Message) (string, error) {
	transcript := Flatten(msgs)
	if c.summarizer == nil {
		return "", errNoSummarizer
	}

	summary, err := c.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", errEmptySummary
	}
	return summary, nil
}

// Flatten renders messages as a plain transcript for summarization. Citation
// markers are stripped; an existing summary contributes its text as opening
// context with the tag removed.
func Flatten(msgs []Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		if m.IsSummary() {
			sb.WriteString("Earlier context: ")
			sb.WriteString(m.SummaryText())
			sb.WriteString("\n")
			continue
		}
		switch m.Role {
		case RoleUser:
			sb.WriteString("User: ")
		case RoleAssistant:
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(citation.StripMarkers(m.Content))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
