// Package server hosts the PageView, bridges browser events into
// per-connection recorders and exposes flushed snapshots.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/SmitUplenchwar2687/Trailmark/internal/behavior"
	"github.com/SmitUplenchwar2687/Trailmark/internal/clock"
	"github.com/SmitUplenchwar2687/Trailmark/internal/eventlog"
	"github.com/SmitUplenchwar2687/Trailmark/internal/sink"
)

// PageSelectors are the PageView elements every session page registers.
var PageSelectors = []string{"#show-results", "#contact-form"}

// Options wires the server's collaborators. Every field is optional.
type Options struct {
	Hub      *Hub
	Sink     sink.Sink
	EventLog *eventlog.Log
	// Recorder is the template for each session's recorder. Clock, Logger
	// and OnFlush are replaced per session.
	Recorder        behavior.Options
	ActionSelectors []string
	Logger          *slog.Logger
}

// Server is the trailmark HTTP server.
type Server struct {
	httpServer *http.Server
	clock      clock.Clock
	mux        *http.ServeMux
	opts       Options
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closing  bool
	wg       sync.WaitGroup
}

// New creates a new trailmark server.
func New(addr string, clk clock.Clock, opts Options) *Server {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		clock:    clk,
		mux:      http.NewServeMux(),
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*session),
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: LoggingMiddleware(s.mux, s.logger),
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ws/behavior", s.handleBehavior)
	s.mux.HandleFunc("/api/sessions", s.handleSessions)
	s.mux.HandleFunc("/api/sessions/", s.handleSession)
	if s.opts.Hub != nil {
		s.mux.HandleFunc("/dashboard/", s.handleDashboard)
		s.mux.HandleFunc("/ws", s.opts.Hub.HandleWebSocket)
	}
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// handleRoot serves the PageView.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(PageHTML))
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.LiveSessions(),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(DashboardHTML))
}

// handleSessions lists the latest stored snapshot of every session.
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.opts.Sink == nil {
		writeJSON(w, http.StatusOK, []sink.Snapshot{})
		return
	}
	snaps, err := s.opts.Sink.List(r.Context())
	if err != nil {
		s.logger.Error("listing snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if snaps == nil {
		snaps = []sink.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// handleSession returns the latest snapshot of one session.
// Path: /api/sessions/{id}
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	if s.opts.Sink == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	snap, err := s.opts.Sink.Latest(r.Context(), id)
	if err != nil {
		s.logger.Error("reading snapshot", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// LiveSessions returns the number of connected page sessions.
func (s *Server) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.logger.Info("trailmark server listening", "addr", ln.Addr().String())
	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, closes every page session (stopping
// its recorder) and waits for them to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	s.closing = true
	for _, sess := range s.sessions {
		sess.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.opts.Hub != nil {
		s.opts.Hub.Close()
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
