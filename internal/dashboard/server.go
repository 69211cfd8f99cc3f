package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server exposes the store over HTTP as JSON. Presentation only: every
// handler reads the latest cycle, none of them mutate pipeline state except
// the explicit refresh trigger.
type Server struct {
	store   *Store
	service *Service
}

func NewServer(store *Store, service *Service) *Server {
	return &Server{store: store, service: service}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/games", s.handleGames)
	mux.HandleFunc("/props", s.handleProps)
	mux.HandleFunc("/edges", s.handleEdges)
	mux.HandleFunc("/player-summary", s.handlePlayerSummary)
	mux.HandleFunc("/refresh", s.handleRefresh)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int, readHeaderTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Dashboard server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Status())
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Games())
}

func (s *Server) handleProps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Props())
}

func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.Edges())
}

func (s *Server) handlePlayerSummary(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		http.Error(w, "player query parameter is required", http.StatusBadRequest)
		return
	}
	summary, ok := s.store.Player(player)
	if !ok {
		http.Error(w, "player not in current slate", http.StatusNotFound)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	s.service.RefreshNow(r.Context())
	writeJSON(w, s.store.Status())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}
