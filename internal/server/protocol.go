package server

import (
	"github.com/pagelens/pagelens/internal/citation"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// Message types on the sidebar wire protocol.
const (
	TypeSearch            = "SEARCH"
	TypeStreamingStart    = "STREAMING_START"
	TypeStreamingChunk    = "STREAMING_CHUNK"
	TypeStreamingComplete = "STREAMING_COMPLETE"
	TypeToolCall          = "TOOL_CALL"
	TypeResult            = "RESULT"
)

// historyEntry is one prior turn sent along with a search request. The
// sidebar bounds this to at most a summary plus ten turns.
type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// searchRequest is the sidebar's search call.
type searchRequest struct {
	Type                string         `json:"type"`
	Query               string         `json:"query"`
	ConversationHistory []historyEntry `json:"conversationHistory,omitempty"`
	Options             *searchOptions `json:"options,omitempty"`
}

type searchOptions struct {
	Limit int `json:"limit,omitempty"`
}

// searchResponse is the reply to a search call. On failure only Success and
// Error are set; the sidebar renders Error as an inline assistant message.
type searchResponse struct {
	Success   bool           `json:"success"`
	Answer    string         `json:"answer,omitempty"`
	Results   []wireResult   `json:"results,omitempty"`
	Citations *wireCitations `json:"citations,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type wireResult struct {
	Chunk wireChunk `json:"chunk"`
	Score float64   `json:"score"`
}

type wireChunk struct {
	ID       string        `json:"id"`
	Text     string        `json:"text"`
	Metadata wireChunkMeta `json:"metadata"`
}

type wireChunkMeta struct {
	HeadingPath []string `json:"headingPath,omitempty"`
	RawText     string   `json:"raw_text,omitempty"`
}

type wireCitations struct {
	Citations []citation.Span `json:"citations"`
}

// streamEvent is a one-way, best-effort event pushed over the WebSocket
// while a search turn runs.
type streamEvent struct {
	Type        string `json:"type"`
	Chunk       string `json:"chunk,omitempty"`
	Accumulated string `json:"accumulated,omitempty"`
	Tool        string `json:"tool,omitempty"`
	Status      string `json:"status,omitempty"`
}

func toWireResults(results []retrieval.ScoredResult) []wireResult {
	out := make([]wireResult, len(results))
	for i, r := range results {
		out[i] = wireResult{
			Chunk: wireChunk{
				ID:   r.Chunk.ID,
				Text: r.Chunk.Text,
				Metadata: wireChunkMeta{
					HeadingPath: r.Chunk.Metadata.HeadingPath,
					RawText:     r.Chunk.Metadata.RawText,
				},
			},
			Score: r.Score,
		}
	}
	return out
}
