package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pagelens/pagelens/internal/answer"
	"github.com/pagelens/pagelens/internal/retrieval"
	"github.com/pagelens/pagelens/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port        int
	SearchLimit int
	TurnTimeout time.Duration
	AllowAll    bool // allow all CORS origins (dev mode)
}

// Server exposes the retrieval/answer pipeline to the sidebar over HTTP and
// WebSocket.
type Server struct {
	cfg        Config
	retriever  *retrieval.Retriever
	generator  *answer.Generator
	sessions   *session.Store // optional
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. sessions may be nil to disable persistence routes.
func New(cfg Config, retriever *retrieval.Retriever, generator *answer.Generator, sessions *session.Store) *Server {
	if cfg.SearchLimit < 1 {
		cfg.SearchLimit = 5
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 2 * time.Minute
	}

	s := &Server{
		cfg:       cfg,
		retriever: retriever,
		generator: generator,
		sessions:  sessions,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/search", s.handleSearch)
	r.Get("/ws", s.handleWebSocket)

	if s.sessions != nil {
		r.Get("/api/sessions", s.handleListSessions)
		r.Get("/api/sessions/{id}/messages", s.handleSessionMessages)
		r.Delete("/api/sessions/{id}", s.handleDeleteSession)
	}

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.router,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
