package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/noctua-games/duskfall/internal/ai"
	"github.com/noctua-games/duskfall/internal/config"
	"github.com/noctua-games/duskfall/internal/sim"
	"github.com/noctua-games/duskfall/internal/worldstate"
)

// Server is the debug panel HTTP surface. State-mutating requests are
// enqueued onto the simulation loop so they land at a frame boundary.
type Server struct {
	addr     string
	hub      *Hub
	loop     *sim.Loop
	world    *worldstate.Broadcaster
	tunables *config.Tunables

	// applyTunables re-reads tunables into live agent configs. Runs on
	// the loop goroutine.
	applyTunables func()
}

// NewServer wires the debug endpoints. applyTunables may be nil.
func NewServer(addr string, hub *Hub, loop *sim.Loop, world *worldstate.Broadcaster, tun *config.Tunables, applyTunables func()) *Server {
	return &Server{
		addr:          addr,
		hub:           hub,
		loop:          loop,
		world:         world,
		tunables:      tun,
		applyTunables: applyTunables,
	}
}

// Handler returns the panel route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.hub.HandleWS)
	mux.HandleFunc("/abnormal", s.handleAbnormal)
	mux.HandleFunc("/restart", s.handleRestart)
	mux.HandleFunc("/tunables", s.handleTunables)
	mux.HandleFunc("/ailog", s.handleAILog)
	return mux
}

// Run serves the panel until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("debug panel listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.hub.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("debug server shutdown: %w", err)
		}
		return ctx.Err()

	case err := <-errCh:
		return fmt.Errorf("debug server: %w", err)
	}
}

func (s *Server) handleAbnormal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]bool{"abnormal": s.world.Abnormal()})

	case http.MethodPost:
		var req struct {
			Value bool `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		s.loop.Enqueue(func() { s.world.Set(req.Value) })
		w.WriteHeader(http.StatusAccepted)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.loop.RequestRestart()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleTunables(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.tunables.All())

	case http.MethodPut:
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}
		for k, v := range req {
			s.tunables.Set(k, v)
		}
		if err := s.tunables.Save(); err != nil {
			slog.Warn("tunables save failed", "error", err)
		}
		if s.applyTunables != nil {
			s.loop.Enqueue(s.applyTunables)
		}
		w.WriteHeader(http.StatusAccepted)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAILog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	ai.EnableDebugLogging(req.Enabled)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("debug response encode failed", "error", err)
	}
}
