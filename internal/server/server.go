package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/internal/protocol"
)

// DefaultMaxIterations caps Monte Carlo samples per request unless
// WithMaxIterations says otherwise.
const DefaultMaxIterations = 10_000_000

// DefaultMaxRequests is how many calculations one connection may have
// running at once.
const DefaultMaxRequests = 4

// Server answers equity requests over WebSocket connections.
type Server struct {
	upgrader      websocket.Upgrader
	connections   map[*Connection]bool
	register      chan *Connection
	unregister    chan *Connection
	logger        *log.Logger
	clock         quartz.Clock
	calcOpts      []equity.Option
	method        equity.Method
	maxIterations uint64
	maxRequests   int
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	httpServer    *http.Server

	requests atomic.Uint64
	trials   atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used to stamp messages.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithCalculatorOptions sets the options every request's calculator starts from.
func WithCalculatorOptions(opts ...equity.Option) Option {
	return func(s *Server) {
		s.calcOpts = append(s.calcOpts, opts...)
	}
}

// WithMethod sets the method used when a request names none.
func WithMethod(m equity.Method) Option {
	return func(s *Server) {
		s.method = m
	}
}

// WithMaxIterations caps the iterations a request may ask for.
func WithMaxIterations(n uint64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// WithMaxRequests caps the calculations a connection may run at once.
func WithMaxRequests(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRequests = n
		}
	}
}

// NewServer creates a new WebSocket server
func NewServer(logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections:   make(map[*Connection]bool),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		logger:        logger.WithPrefix("server"),
		clock:         quartz.NewReal(),
		maxIterations: DefaultMaxIterations,
		maxRequests:   DefaultMaxRequests,
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start listens on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every connection, cancelling their calculations, and shuts
// the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "conn", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(s.ctx, conn, s)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// handleStats reports connection and workload counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintf(w, "Connections: %d\nRequests completed: %d\nShowdowns evaluated: %d\n",
		s.ConnectionCount(), s.requests.Load(), s.trials.Load())
}

// calculator builds the calculator for one request.
func (s *Server) calculator(req protocol.EquityRequest, logger *log.Logger, progress equity.ProgressFunc) *equity.Calculator {
	opts := append([]equity.Option{}, s.calcOpts...)
	opts = append(opts, equity.WithLogger(logger))
	if req.Iterations > 0 {
		opts = append(opts, equity.WithIterations(req.Iterations))
	}
	if req.Seed != nil {
		opts = append(opts, equity.WithSeed(*req.Seed))
	}
	if progress != nil {
		opts = append(opts, equity.WithProgress(progress))
	}
	return equity.NewCalculator(opts...)
}

func (s *Server) recordReport(r *equity.Report) {
	s.requests.Add(1)
	s.trials.Add(r.Trials)
}
