package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Progress messages are sent at most this many times per request.
	progressSteps = 100
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Connection represents a WebSocket connection to a client. Each equity
// request runs in its own goroutine and can be cancelled by request id.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *protocol.Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewConnection wraps conn. The connection closes when parent is cancelled.
func NewConnection(parent context.Context, conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *protocol.Message, 256),
		server:  server,
		logger:  server.logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:     ctx,
		cancel:  cancel,
		running: make(map[string]context.CancelFunc),
	}
}

// ID returns the connection's unique id.
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close cancels running calculations and closes the socket.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrSendBufferFull
	}
}

func (c *Connection) sendData(t protocol.MessageType, requestID string, data any) {
	msg, err := protocol.NewMessage(t, requestID, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to encode message", "type", t, "error", err)
		return
	}
	if err := c.SendMessage(msg); err != nil {
		c.logger.Debug("Dropped message", "type", t, "error", err)
	}
}

func (c *Connection) sendError(requestID, code, message string) {
	c.sendData(protocol.TypeError, requestID, protocol.ErrorData{Code: code, Message: message})
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg protocol.Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case protocol.TypeEquity:
		var req protocol.EquityRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(msg.RequestID, protocol.CodeInvalidMessage, "Failed to parse equity request")
			return
		}
		c.handleEquity(msg.RequestID, req)

	case protocol.TypeCancel:
		var req protocol.CancelRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(msg.RequestID, protocol.CodeInvalidMessage, "Failed to parse cancel request")
			return
		}
		c.mu.Lock()
		cancel, ok := c.running[req.RequestID]
		c.mu.Unlock()
		if !ok {
			c.sendError(req.RequestID, protocol.CodeUnknownRequest, fmt.Sprintf("no running request %q", req.RequestID))
			return
		}
		cancel()

	default:
		c.sendError(msg.RequestID, protocol.CodeUnknownMessageType, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// handleEquity validates a request and starts its calculation.
func (c *Connection) handleEquity(requestID string, req protocol.EquityRequest) {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	scenario, err := req.Scenario()
	if err != nil {
		c.sendError(requestID, protocol.CodeInvalidRequest, err.Error())
		return
	}

	method := c.server.method
	if req.Method != "" {
		if method, err = equity.ParseMethod(req.Method); err != nil {
			c.sendError(requestID, protocol.CodeInvalidRequest, err.Error())
			return
		}
	}
	if req.Iterations > c.server.maxIterations {
		c.sendError(requestID, protocol.CodeTooManyIterations,
			fmt.Sprintf("%d iterations exceeds limit of %d", req.Iterations, c.server.maxIterations))
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	c.mu.Lock()
	if _, dup := c.running[requestID]; dup {
		c.mu.Unlock()
		cancel()
		c.sendError(requestID, protocol.CodeDuplicateRequest, fmt.Sprintf("request %q is already running", requestID))
		return
	}
	if len(c.running) >= c.server.maxRequests {
		c.mu.Unlock()
		cancel()
		c.sendError(requestID, protocol.CodeTooManyRequests,
			fmt.Sprintf("%d requests already running", c.server.maxRequests))
		return
	}
	c.running[requestID] = cancel
	c.mu.Unlock()

	logger := c.logger.With("request", requestID)
	var progress equity.ProgressFunc
	if req.Progress {
		last := uint64(0)
		progress = func(done, total uint64) {
			if total == 0 {
				return
			}
			step := min(done, total) * progressSteps / total
			if step == last {
				return
			}
			last = step
			c.sendData(protocol.TypeProgress, requestID, protocol.ProgressData{Done: done, Total: total})
		}
	}
	calc := c.server.calculator(req, logger, progress)

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.running, requestID)
			c.mu.Unlock()
			cancel()
		}()

		report, err := calc.Calculate(ctx, scenario, method)
		switch {
		case err == nil:
			c.server.recordReport(report)
			c.sendData(protocol.TypeResult, requestID, protocol.NewEquityResult(report, scenario))
		case errors.Is(err, context.Canceled):
			c.sendError(requestID, protocol.CodeCancelled, "calculation cancelled")
		case errors.Is(err, equity.ErrTooManyTrials):
			c.sendError(requestID, protocol.CodeTooManyTrials, err.Error())
		default:
			logger.Error("Calculation failed", "error", err)
			c.sendError(requestID, protocol.CodeCalculationFailed, err.Error())
		}
	}()
}
