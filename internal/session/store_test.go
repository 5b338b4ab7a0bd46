package session

import (
	"testing"

	"github.com/pagelens/pagelens/internal/chunkstore"
	"github.com/pagelens/pagelens/internal/citation"
	"github.com/pagelens/pagelens/internal/db"
	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/retrieval"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	user := history.NewUserMessage("what does the page say about tokens?")
	assistant := history.NewAssistantMessage("Tokens go in the request header[1].")
	assistant.Sources = []retrieval.ScoredResult{
		{
			Chunk: &chunkstore.Chunk{
				ID:   "page.md#0",
				Text: "Authentication requires an API token",
				Metadata: chunkstore.ChunkMetadata{
					HeadingPath: []string{"API", "Authentication"},
				},
			},
			Score: 0.91,
		},
	}
	assistant.Citations = []citation.Span{
		{Start: 33, End: 36, SourceIndices: []int{0}, Confidence: 1},
	}

	if err := store.AppendMessages("sess-1", "https://example.com/docs", []history.Message{user, assistant}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}

	msgs, err := store.LoadMessages("sess-1")
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	if msgs[0].Role != history.RoleUser || msgs[0].Content != user.Content {
		t.Errorf("user message mismatch: %+v", msgs[0])
	}

	got := msgs[1]
	if got.Content != assistant.Content {
		t.Errorf("assistant content mismatch: %q", got.Content)
	}
	if len(got.Sources) != 1 || got.Sources[0].Chunk.ID != "page.md#0" {
		t.Errorf("sources did not round-trip: %+v", got.Sources)
	}
	if got.Sources[0].Score != 0.91 {
		t.Errorf("score did not round-trip: %f", got.Sources[0].Score)
	}
	if len(got.Citations) != 1 || got.Citations[0].SourceIndices[0] != 0 {
		t.Errorf("citations did not round-trip: %+v", got.Citations)
	}
}

func TestStoreListSessions(t *testing.T) {
	store := newTestStore(t)

	if err := store.AppendMessages("a", "https://one.example", []history.Message{history.NewUserMessage("hi")}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}
	if err := store.AppendMessages("b", "https://two.example", []history.Message{history.NewUserMessage("hi")}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}

	sessions, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
}

func TestStoreDeleteSessionRemovesMessages(t *testing.T) {
	store := newTestStore(t)

	if err := store.AppendMessages("gone", "", []history.Message{
		history.NewUserMessage("q"),
		history.NewAssistantMessage("a"),
	}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}

	if err := store.DeleteSession("gone"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	msgs, err := store.LoadMessages("gone")
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("expected delete to remove messages, got %d", len(msgs))
	}

	sessions, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}
}

func TestStoreAppendUpsertsSession(t *testing.T) {
	store := newTestStore(t)

	if err := store.AppendMessages("s", "https://example.com", []history.Message{history.NewUserMessage("one")}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}
	if err := store.AppendMessages("s", "https://example.com", []history.Message{history.NewAssistantMessage("two")}); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}

	sessions, err := store.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected a single session row, got %d", len(sessions))
	}

	msgs, err := store.LoadMessages("s")
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	if len(msgs) != 2 {
		t.Errorf("expected 2 messages, got %d", len(msgs))
	}
}
