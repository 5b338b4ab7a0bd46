package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pagelens/pagelens/internal/history"
	"github.com/pagelens/pagelens/internal/session"
)

// maxHistoryEntries bounds the conversation history accepted per request:
// one summary plus the retained window. Longer histories are truncated to
// their most recent entries rather than rejected; the sidebar compacts on
// its side, and the generator must never see unbounded context.
const maxHistoryEntries = history.RetainedWindow + 1

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, searchResponse{Success: false, Error: "invalid request body"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeJSON(w, http.StatusBadRequest, searchResponse{Success: false, Error: "query is required"})
		return
	}

	limit := s.cfg.SearchLimit
	if req.Options != nil && req.Options.Limit > 0 {
		limit = req.Options.Limit
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.TurnTimeout)
	defer cancel()

	resp := s.runSearch(ctx, query, limit, req.ConversationHistory, nil)
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// runSearch executes retrieve -> generate -> cite and shapes the wire
// response. onChunk is nil for the synchronous HTTP path.
func (s *Server) runSearch(ctx context.Context, query string, limit int, hist []historyEntry, onChunk func(chunk, accumulated string)) searchResponse {
	results, err := s.retriever.Search(ctx, query, limit)
	if err != nil {
		log.Printf("server: retrieval failed: %v", err)
		return searchResponse{Success: false, Error: err.Error()}
	}

	prior := toHistory(hist)
	text, err := s.generator.GenerateStream(ctx, query, results, prior, onChunk)
	if err != nil {
		log.Printf("server: generation failed: %v", err)
		return searchResponse{Success: false, Error: err.Error()}
	}

	msg := session.Annotate(text, results)

	return searchResponse{
		Success:   true,
		Answer:    msg.Content,
		Results:   toWireResults(results),
		Citations: &wireCitations{Citations: msg.Citations},
	}
}

// toHistory converts wire entries into messages, keeping only the most
// recent maxHistoryEntries.
func toHistory(entries []historyEntry) []history.Message {
	if len(entries) > maxHistoryEntries {
		entries = entries[len(entries)-maxHistoryEntries:]
	}

	msgs := make([]history.Message, 0, len(entries))
	for _, e := range entries {
		role := history.RoleUser
		if e.Role == string(history.RoleAssistant) {
			role = history.RoleAssistant
		}
		msgs = append(msgs, history.Message{Role: role, Content: e.Content})
	}
	return msgs
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.sessions.ListSessions()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleSessionMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	msgs, err := s.sessions.LoadMessages(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type wireMessage struct {
		ID        string          `json:"id"`
		Role      string          `json:"role"`
		Content   string          `json:"content"`
		Citations json.RawMessage `json:"citations,omitempty"`
	}

	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		wm := wireMessage{ID: m.ID, Role: string(m.Role), Content: m.Content}
		if len(m.Citations) > 0 {
			data, err := json.Marshal(m.Citations)
			if err == nil {
				wm.Citations = data
			}
		}
		out = append(out, wm)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.DeleteSession(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}
