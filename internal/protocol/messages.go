// Package protocol defines the JSON messages exchanged with the odds server.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/poker"
)

// MessageType identifies the payload carried by a Message.
type MessageType string

const (
	// Client → Server
	TypeEquity MessageType = "equity"
	TypeCancel MessageType = "cancel"

	// Server → Client
	TypeResult   MessageType = "result"
	TypeProgress MessageType = "progress"
	TypeError    MessageType = "error"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with now.
func NewMessage(messageType MessageType, requestID string, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
		RequestID: requestID,
	}, nil
}

// EquityRequest asks for one calculation. Cards use two-character notation
// ("AsKh"); an opponent of "??" or "random" is dealt at random.
type EquityRequest struct {
	Hero       string   `json:"hero"`
	Opponents  []string `json:"opponents"`
	Board      string   `json:"board,omitempty"`
	Dead       string   `json:"dead,omitempty"`
	Method     string   `json:"method,omitempty"`
	Iterations uint64   `json:"iterations,omitempty"`
	Seed       *uint64  `json:"seed,omitempty"`
	Progress   bool     `json:"progress,omitempty"`
}

// Scenario parses the request's cards.
func (r EquityRequest) Scenario() (equity.Scenario, error) {
	var s equity.Scenario
	hero, err := poker.ParseHole(r.Hero)
	if err != nil {
		return s, fmt.Errorf("hero: %w", err)
	}
	s.Hero = hero

	for i, o := range r.Opponents {
		seat, err := equity.ParseSeat(o)
		if err != nil {
			return s, fmt.Errorf("opponent %d: %w", i+1, err)
		}
		s.Opponents = append(s.Opponents, seat)
	}

	if s.Board, err = poker.ParseBoard(r.Board); err != nil {
		return s, fmt.Errorf("board: %w", err)
	}
	if s.Dead, err = poker.ParseCards(r.Dead); err != nil {
		return s, fmt.Errorf("dead: %w", err)
	}
	return s, s.Validate()
}

// CancelRequest stops a running calculation.
type CancelRequest struct {
	RequestID string `json:"requestId"`
}

// PlayerEquity is one participant's share of a result.
type PlayerEquity struct {
	Hand    string  `json:"hand"`
	Win     uint64  `json:"win"`
	Tie     uint64  `json:"tie"`
	Loss    uint64  `json:"loss"`
	WinRate float64 `json:"winRate"`
	TieRate float64 `json:"tieRate"`
	Equity  float64 `json:"equity"`
}

// EquityResult answers an EquityRequest. Players[0] is the hero.
type EquityResult struct {
	Players    []PlayerEquity `json:"players"`
	Trials     uint64         `json:"trials"`
	Method     string         `json:"method"`
	Stage      string         `json:"stage"`
	Workers    int            `json:"workers"`
	DurationMs int64          `json:"durationMs"`
}

// NewEquityResult converts a calculator report for the wire.
func NewEquityResult(r *equity.Report, s equity.Scenario) EquityResult {
	out := EquityResult{
		Players:    make([]PlayerEquity, len(r.Players)),
		Trials:     r.Trials,
		Method:     r.Method.String(),
		Stage:      r.Stage.String(),
		Workers:    r.Workers,
		DurationMs: r.Duration.Milliseconds(),
	}
	for i, p := range r.Players {
		hand := equity.Known(s.Hero[0], s.Hero[1])
		if i > 0 {
			hand = s.Opponents[i-1]
		}
		out.Players[i] = PlayerEquity{
			Hand:    hand.String(),
			Win:     p.Win,
			Tie:     p.Tie,
			Loss:    p.Loss,
			WinRate: p.WinRate(),
			TieRate: p.TieRate(),
			Equity:  p.Equity(),
		}
	}
	return out
}

// Error codes carried by ErrorData.
const (
	CodeInvalidMessage     = "invalid_message"
	CodeInvalidRequest     = "invalid_request"
	CodeUnknownMessageType = "unknown_message_type"
	CodeUnknownRequest     = "unknown_request"
	CodeDuplicateRequest   = "duplicate_request"
	CodeTooManyIterations  = "too_many_iterations"
	CodeTooManyTrials      = "too_many_trials"
	CodeTooManyRequests    = "too_many_requests"
	CodeCancelled          = "cancelled"
	CodeCalculationFailed  = "calculation_failed"
)

// ProgressData reports a running calculation's showdown count.
type ProgressData struct {
	Done  uint64 `json:"done"`
	Total uint64 `json:"total"`
}

// ErrorData describes a rejected or failed request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
