package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagelens/pagelens/internal/answer"
	"github.com/pagelens/pagelens/internal/citation"
	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/retrieval"
)

// ErrBusy is returned when Ask is called while another turn is in flight.
// Turns are strictly sequential; the caller should retry after the pending
// turn resolves.
var ErrBusy = errors.New("a turn is already in flight")

// ErrEmptyQuery is returned when the query is empty after trimming.
var ErrEmptyQuery = retrieval.ErrEmptyQuery

// TurnEvents receives progress notifications during a turn. All fields are
// optional; events for one turn are strictly ordered and end with either
// OnStreamComplete or an error turn.
type TurnEvents struct {
	OnStreamStart    func()
	OnStreamChunk    func(chunk, accumulated string)
	OnStreamComplete func()
}

// Turn is the outcome of one Ask call: the appended user message and the
// resulting assistant message (answer or inline error).
type Turn struct {
	User      history.Message
	Assistant history.Message
}

// Session owns one conversation: its history, the single-flight guard, and
// the per-turn pipeline (compact, retrieve, generate, cite). All history
// mutation happens from the single active turn; concurrent Ask calls are
// rejected with ErrBusy rather than interleaved.
type Session struct {
	ID      string
	PageURL string

	retriever *retrieval.Retriever
	generator *answer.Generator
	compactor *history.Compactor
	store     *Store // optional persistence

	searchLimit int
	timeout     time.Duration

	mu       sync.Mutex
	busy     bool
	messages []history.Message
}

// Options configures a new Session.
type Options struct {
	PageURL     string
	SearchLimit int
	Timeout     time.Duration
	Store       *Store
}

// New creates a session. SearchLimit defaults to 5 and Timeout to two
// minutes when unset.
func New(retriever *retrieval.Retriever, generator *answer.Generator, opts Options) *Session {
	limit := opts.SearchLimit
	if limit < 1 {
		limit = 5
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Session{
		ID:          uuid.NewString(),
		PageURL:     opts.PageURL,
		retriever:   retriever,
		generator:   generator,
		compactor:   history.NewCompactor(generator),
		store:       opts.Store,
		searchLimit: limit,
		timeout:     timeout,
	}
}

// Messages returns a copy of the conversation history.
func (s *Session) Messages() []history.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]history.Message(nil), s.messages...)
}

// Clear discards the conversation history.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Ask runs one full turn: compaction, retrieval, generation (streaming when
// events are wired), and citation mapping. It returns ErrBusy while another
// turn is pending and ErrEmptyQuery for blank input; every other failure is
// turned into an inline assistant message prefixed "Error:" so the caller
// can always render the turn and re-enable input.
func (s *Session) Ask(ctx context.Context, query string, ev TurnEvents) (*Turn, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	msgs := append([]history.Message(nil), s.messages...)
	s.mu.Unlock()

	// Compact before the new turn is appended, then again after: a single
	// append may push past the bound even when the first pass ran. Compaction
	// may call the provider, so it runs outside the lock; the busy flag keeps
	// this the only writer.
	msgs = s.compactor.Compact(ctx, msgs)

	userMsg := history.NewUserMessage(query)
	prior := append([]history.Message(nil), msgs...)
	msgs = append(msgs, userMsg)
	msgs = s.compactor.Enforce(ctx, msgs)

	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()

	assistantMsg := s.runTurn(ctx, query, prior, ev)
	msgs = s.compactor.Enforce(ctx, append(msgs, assistantMsg))

	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()

	s.persist(userMsg, assistantMsg)

	return &Turn{User: userMsg, Assistant: assistantMsg}, nil
}

// runTurn produces the assistant message for the query. Failures become
// inline error messages, never returned errors.
func (s *Session) runTurn(ctx context.Context, query string, prior []history.Message, ev TurnEvents) history.Message {
	results, err := s.retriever.Search(ctx, query, s.searchLimit)
	if err != nil {
		log.Printf("session %s: retrieval failed: %v", s.ID, err)
		return errorMessage(err)
	}

	if ev.OnStreamStart != nil {
		ev.OnStreamStart()
	}

	var onChunk answer.StreamFunc
	if ev.OnStreamChunk != nil {
		onChunk = ev.OnStreamChunk
	}

	text, err := s.generator.GenerateStream(ctx, query, results, prior, onChunk)
	if err != nil {
		// Partial streamed content is discarded; the error message
		// replaces it entirely.
		log.Printf("session %s: generation failed: %v", s.ID, err)
		return errorMessage(err)
	}

	if ev.OnStreamComplete != nil {
		ev.OnStreamComplete()
	}

	return Annotate(text, results)
}

// Annotate attaches sources and citation spans to the answer. Answers that
// already carry inline markers (the generator is instructed to emit them)
// are taken as-is; otherwise spans are derived by lexical alignment and the
// markers inserted. Either way the stored citations are re-parsed from the
// final text, so offsets always describe the text being persisted.
func Annotate(text string, results []retrieval.ScoredResult) history.Message {
	if len(results) > 0 && len(citation.ParseMarkers(text)) == 0 {
		spans := citation.MapCitations(text, retrieval.SourceTexts(results))
		text = citation.InsertMarkers(text, spans)
	}

	msg := history.NewAssistantMessage(text)
	msg.Sources = results
	msg.Citations = citation.FilterValid(citation.Spans(citation.ParseMarkers(text)), len(results))
	return msg
}

func (s *Session) persist(msgs ...history.Message) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendMessages(s.ID, s.PageURL, msgs); err != nil {
		log.Printf("session %s: persisting messages: %v", s.ID, err)
	}
}

func errorMessage(err error) history.Message {
	return history.NewAssistantMessage(fmt.Sprintf("Error: %v", err))
}
