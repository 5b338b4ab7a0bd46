package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket serves the streaming variant of the search call. The
// client sends SEARCH requests; the server pushes STREAMING_* events while
// the answer is generated, then a final RESULT frame carrying the same
// payload as the HTTP response. Requests on one connection are processed
// strictly one at a time; a request arriving mid-turn waits until the
// current turn resolves, so concurrent generations never interleave.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req searchRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendResult(conn, searchResponse{Success: false, Error: "invalid message format"})
			continue
		}

		if req.Type != TypeSearch {
			s.sendResult(conn, searchResponse{Success: false, Error: "unknown message type: " + req.Type})
			continue
		}
		if req.Query == "" {
			s.sendResult(conn, searchResponse{Success: false, Error: "query is required"})
			continue
		}

		s.runStreamingSearch(conn, r, req)
	}
}

func (s *Server) runStreamingSearch(conn *websocket.Conn, r *http.Request, req searchRequest) {
	limit := s.cfg.SearchLimit
	if req.Options != nil && req.Options.Limit > 0 {
		limit = req.Options.Limit
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.TurnTimeout)
	defer cancel()

	s.sendEvent(conn, streamEvent{Type: TypeStreamingStart})

	resp := s.runSearch(ctx, req.Query, limit, req.ConversationHistory, func(chunk, accumulated string) {
		s.sendEvent(conn, streamEvent{
			Type:        TypeStreamingChunk,
			Chunk:       chunk,
			Accumulated: accumulated,
		})
	})

	if resp.Success {
		s.sendEvent(conn, streamEvent{Type: TypeStreamingComplete})
	}
	s.sendResult(conn, resp)
}

// sendEvent pushes a one-way stream event. Events are best-effort: a write
// failure is logged and the turn continues.
func (s *Server) sendEvent(conn *websocket.Conn, ev streamEvent) {
	if err := conn.WriteJSON(ev); err != nil {
		log.Printf("server: websocket event write: %v", err)
	}
}

func (s *Server) sendResult(conn *websocket.Conn, resp searchResponse) {
	frame := struct {
		Type string `json:"type"`
		searchResponse
	}{Type: TypeResult, searchResponse: resp}

	if err := conn.WriteJSON(frame); err != nil {
		log.Printf("server: websocket result write: %v", err)
	}
}
