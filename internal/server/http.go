package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zeusync/arkanoid/internal/core/observability/log"
)

// Handler routes the spectator endpoints:
//
//	/ws        snapshot stream over WebSocket
//	/events    snapshot stream as server-sent events
//	/snapshot  latest snapshot
//	/healthz   server statistics
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.requireToken(s.handleWebSocket))
	mux.HandleFunc("GET /events", s.requireToken(s.handleEvents))
	mux.HandleFunc("GET /snapshot", s.requireToken(s.handleSnapshot))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	c, err := s.register("sse", r.RemoteAddr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.unregister(c)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case data := <-c.send:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				s.logger.Debug("Spectator write failed", log.Stringer("client_id", c.id), log.Error(err))
				return
			}
			flusher.Flush()
		case <-c.done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	data := s.latest
	s.mu.Unlock()

	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats()); err != nil {
		s.logger.Warn("Failed to encode stats", log.Error(err))
	}
}
