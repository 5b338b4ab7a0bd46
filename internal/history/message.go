package history

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pagelens/pagelens/internal/citation"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SummaryPrefix tags a synthetic summary message produced by compaction, so
// later passes can detect it and fold its text instead of re-summarizing.
const SummaryPrefix = "[Conversation summary] "

// Message is one turn of the conversation. Assistant messages may carry the
// sources and citation spans that produced them; user messages never do.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Sources   []retrieval.ScoredResult
	Citations []citation.Span
}

// NewUserMessage creates a user message with the given content.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with the given content.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsSummary reports whether the message is a compaction summary.
func (m *Message) IsSummary() bool {
	return strings.HasPrefix(m.Content, SummaryPrefix)
}

// SummaryText returns the summary content with the tag stripped.
func (m *Message) SummaryText() string {
	return strings.TrimPrefix(m.Content, SummaryPrefix)
}
