// Package server streams session snapshots to spectators over WebSocket and
// server-sent events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/arkanoid/internal/config"
	"github.com/zeusync/arkanoid/internal/core/events/bus"
	"github.com/zeusync/arkanoid/internal/core/observability/log"
)

const (
	defaultMaxClients = 64
	defaultSendBuffer = 16
)

// Server fans every broadcast frame out to the connected spectators. Slow
// spectators drop frames instead of stalling the game loop.
type Server struct {
	config config.ServerConfig
	logger log.Log

	http     *http.Server
	listener net.Listener

	// mu guards clients and latest so a new spectator sees every frame once.
	mu       sync.Mutex
	clients  map[uuid.UUID]*spectator
	latest   []byte
	draining bool

	frames  atomic.Uint64
	dropped atomic.Uint64
	events  MetricsSource

	running atomic.Bool
	closed  atomic.Bool
	workers sync.WaitGroup
}

// MetricsSource reports event bus metrics; bus.EventBus satisfies it.
type MetricsSource interface {
	GetMetrics() bus.EventBusMetrics
}

type Option func(*Server)

// WithEventMetrics adds the metrics of src to Stats.
func WithEventMetrics(src MetricsSource) Option {
	return func(s *Server) { s.events = src }
}

// spectator is one connected viewer, either WebSocket or SSE.
type spectator struct {
	id     uuid.UUID
	kind   string
	remote string
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *spectator) close() { c.once.Do(func() { close(c.done) }) }

// Stats contains server statistics
type Stats struct {
	Running bool                 `json:"running"`
	Clients int                  `json:"clients"`
	Frames  uint64               `json:"frames"`
	Dropped uint64               `json:"dropped"`
	Events  *bus.EventBusMetrics `json:"events,omitempty"`
}

func New(cfg config.ServerConfig, logger log.Log, opts ...Option) *Server {
	if cfg.MaxClients < 1 {
		cfg.MaxClients = defaultMaxClients
	}
	if cfg.SendBuffer < 1 {
		cfg.SendBuffer = defaultSendBuffer
	}
	s := &Server{
		config:  cfg,
		logger:  logger.Named("server"),
		clients: make(map[uuid.UUID]*spectator),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Addr())
	if err != nil {
		s.running.Store(false)
		s.logger.Error("Failed to listen", log.String("addr", s.config.Addr()), log.Error(err))
		return err
	}
	s.listener = ln
	s.mu.Lock()
	s.draining = false
	s.mu.Unlock()
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop disconnects every spectator and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")
	s.disconnectAll()
	err := s.http.Shutdown(ctx)
	s.workers.Wait()
	s.logger.Info("Server stopped", log.Uint64("frames", s.frames.Load()))
	return err
}

// Close stops the server if it runs. A closed server cannot be restarted.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.running.Load() {
		return s.Stop(context.Background())
	}
	return nil
}

// Broadcast encodes v as JSON and queues it for every spectator. It also
// becomes the frame new spectators start from.
func (s *Server) Broadcast(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = data
	s.frames.Add(1)
	for _, c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.dropped.Add(1)
			s.logger.Debug("Spectator lagging, frame dropped", log.Stringer("client_id", c.id))
		}
	}
	return nil
}

func (s *Server) register(kind, remote string) (*spectator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draining {
		return nil, ErrServerNotRunning
	}
	if len(s.clients) >= s.config.MaxClients {
		return nil, ErrMaxClientsReached
	}
	c := &spectator{
		id:     uuid.New(),
		kind:   kind,
		remote: remote,
		send:   make(chan []byte, s.config.SendBuffer),
		done:   make(chan struct{}),
	}
	if s.latest != nil {
		c.send <- s.latest
	}
	s.clients[c.id] = c

	s.logger.Info("Spectator connected",
		log.Stringer("client_id", c.id),
		log.String("kind", kind),
		log.String("remote_addr", remote),
		log.Int("total_clients", len(s.clients)))
	return c, nil
}

func (s *Server) unregister(c *spectator) {
	c.close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	delete(s.clients, c.id)
	s.logger.Info("Spectator disconnected",
		log.Stringer("client_id", c.id),
		log.Int("total_clients", len(s.clients)))
}

// disconnectAll closes every spectator and refuses new ones until the next
// Start.
func (s *Server) disconnectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draining = true
	for _, c := range s.clients {
		c.close()
	}
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) Stats() Stats {
	stats := Stats{
		Running: s.running.Load(),
		Clients: s.ClientCount(),
		Frames:  s.frames.Load(),
		Dropped: s.dropped.Load(),
	}
	if s.events != nil {
		m := s.events.GetMetrics()
		stats.Events = &m
	}
	return stats
}
