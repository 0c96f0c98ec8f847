// Package tracking feeds gesture samples into the kiosk stage: from a hand
// tracker over a websocket, from a recorded script, or through a dwell
// classifier when the tracker does not classify clicks itself.
package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/phanxgames/kiosk"
)

const (
	defaultBuffer  = 256
	maxMessageSize = 1024
	shutdownWait   = 5 * time.Second
)

// Option configures a WebSocketSource.
type Option func(*WebSocketSource)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *WebSocketSource) { s.logger = l }
}

// WithBuffer sets how many samples may wait between two polls. Samples that
// arrive while the buffer is full are dropped.
func WithBuffer(n int) Option {
	return func(s *WebSocketSource) {
		if n > 0 {
			s.samples = make(chan kiosk.GestureSample, n)
		}
	}
}

// WithDwellClicks classifies clicks by dwell on every connection.
func WithDwellClicks(radius float64, frames uint64) Option {
	return func(s *WebSocketSource) {
		s.dwellRadius, s.dwellFrames = radius, frames
	}
}

// WebSocketSource accepts tracker connections on /ws. Each text message is
// one JSON GestureSample. Samples whose frame does not increase within a
// connection are dropped. The game loop drains received samples with Poll.
type WebSocketSource struct {
	logger   *log.Logger
	samples  chan kiosk.GestureSample
	upgrader websocket.Upgrader
	router   chi.Router

	dwellRadius float64
	dwellFrames uint64

	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn

	received atomic.Uint64
	dropped  atomic.Uint64
}

// NewWebSocketSource creates a source and its router.
func NewWebSocketSource(opts ...Option) *WebSocketSource {
	s := &WebSocketSource{
		logger:  log.Default(),
		samples: make(chan kiosk.GestureSample, defaultBuffer),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(*http.Request) bool { return true },
			ReadBufferSize:  maxMessageSize,
			WriteBufferSize: maxMessageSize,
		},
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	s.router = r
	return s
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *WebSocketSource) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then closes every tracker
// connection and shuts the server down.
func (s *WebSocketSource) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("tracking server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.Close()
	sctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close closes every tracker connection.
func (s *WebSocketSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.conns {
		_ = c.Close()
		delete(s.conns, id)
	}
}

// Connections returns the number of connected trackers.
func (s *WebSocketSource) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Stats returns how many samples were accepted and how many were dropped
// for being out of order or arriving on a full buffer.
func (s *WebSocketSource) Stats() (received, dropped uint64) {
	return s.received.Load(), s.dropped.Load()
}

// Poll drains every buffered sample without blocking.
func (s *WebSocketSource) Poll(dst []kiosk.GestureSample) []kiosk.GestureSample {
	for {
		select {
		case sample := <-s.samples:
			dst = append(dst, sample)
		default:
			return dst
		}
	}
}

func (s *WebSocketSource) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("tracker upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	id := uuid.New()
	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()
	s.logger.Info("tracker connected", "conn", id, "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		_ = conn.Close()
		s.logger.Info("tracker disconnected", "conn", id)
	}()
	s.readLoop(id, conn)
}

func (s *WebSocketSource) readLoop(id uuid.UUID, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	var (
		last    uint64
		started bool
		dwell   *Dwell
	)
	if s.dwellFrames > 0 {
		dwell = NewDwell(s.dwellRadius, s.dwellFrames)
	}
	for {
		var sample kiosk.GestureSample
		if err := conn.ReadJSON(&sample); err != nil {
			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			switch {
			case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
				s.logger.Warn("bad tracker message", "conn", id, "err", err)
				continue
			case websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
				s.logger.Error("tracker read failed", "conn", id, "err", err)
			}
			return
		}
		if started && sample.Frame <= last {
			s.dropped.Add(1)
			continue
		}
		started, last = true, sample.Frame
		sample.X, sample.Y = clamp01(sample.X), clamp01(sample.Y)
		if dwell != nil {
			sample = dwell.Classify(sample)
		}
		select {
		case s.samples <- sample:
			s.received.Add(1)
		default:
			s.dropped.Add(1)
		}
	}
}

type healthResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
}

func (s *WebSocketSource) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok", Connections: s.Connections()}); err != nil {
		s.logger.Error("write health response", "err", err)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
