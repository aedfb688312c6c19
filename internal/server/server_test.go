package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/internal/protocol"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	srv := NewServer(testLogger(), opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Stop(context.Background())
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func sendRequest(t *testing.T, ws *websocket.Conn, typ protocol.MessageType, requestID string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(protocol.Message{Type: typ, RequestID: requestID, Data: raw}))
}

// readUntil reads messages until one of the given type arrives.
func readUntil(t *testing.T, ws *websocket.Conn, typ protocol.MessageType) (*protocol.Message, []protocol.Message) {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(10*time.Second)))
	var skipped []protocol.Message
	for {
		var msg protocol.Message
		require.NoError(t, ws.ReadJSON(&msg))
		if msg.Type == typ {
			return &msg, skipped
		}
		skipped = append(skipped, msg)
	}
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(testLogger())
	defer func() { _ = srv.Stop(context.Background()) }()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestExactRequest(t *testing.T) {
	t.Parallel()
	mock := quartz.NewMock(t)
	srv, url := newTestServer(t,
		WithClock(mock),
		WithCalculatorOptions(equity.WithWorkers(2)))
	ws := dial(t, url)

	sendRequest(t, ws, protocol.TypeEquity, "turn-1", protocol.EquityRequest{
		Hero:      "AhKh",
		Opponents: []string{"QsQd"},
		Board:     "2h7hTc3s",
		Method:    "exact",
	})

	msg, _ := readUntil(t, ws, protocol.TypeResult)
	assert.Equal(t, "turn-1", msg.RequestID)
	assert.True(t, msg.Timestamp.Equal(mock.Now()))

	var res protocol.EquityResult
	require.NoError(t, json.Unmarshal(msg.Data, &res))
	assert.EqualValues(t, 44, res.Trials)
	assert.Equal(t, "exact", res.Method)
	assert.Equal(t, "turn", res.Stage)
	require.Len(t, res.Players, 2)
	assert.Equal(t, "AhKh", res.Players[0].Hand)
	assert.EqualValues(t, 15, res.Players[0].Win)
	assert.EqualValues(t, 29, res.Players[0].Loss)
	assert.EqualValues(t, 29, res.Players[1].Win)
	assert.InDelta(t, 1.0, res.Players[0].Equity+res.Players[1].Equity, 1e-9)

	require.Eventually(t, func() bool { return srv.requests.Load() == 1 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 44, srv.trials.Load())

	w := httptest.NewRecorder()
	srv.handleStats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Contains(t, w.Body.String(), "Requests completed: 1")
	assert.Contains(t, w.Body.String(), "Showdowns evaluated: 44")
}

func TestMonteCarloRequestIsReproducible(t *testing.T) {
	t.Parallel()
	_, url := newTestServer(t, WithCalculatorOptions(equity.WithWorkers(2)))
	ws := dial(t, url)

	seed := uint64(99)
	req := protocol.EquityRequest{
		Hero:       "AsAd",
		Opponents:  []string{"??", "random"},
		Method:     "mc",
		Iterations: 5000,
		Seed:       &seed,
		Progress:   true,
	}

	var results [2]protocol.EquityResult
	for i := range results {
		sendRequest(t, ws, protocol.TypeEquity, "mc", req)
		msg, skipped := readUntil(t, ws, protocol.TypeResult)
		require.NoError(t, json.Unmarshal(msg.Data, &results[i]))
		for _, m := range skipped {
			assert.Equal(t, protocol.TypeProgress, m.Type)
		}
	}

	assert.Equal(t, results[0].Players, results[1].Players)
	assert.EqualValues(t, 5000, results[0].Trials)
	assert.Equal(t, "monte-carlo", results[0].Method)
	require.Len(t, results[0].Players, 3)
	assert.Equal(t, "??", results[0].Players[1].Hand)
	assert.Greater(t, results[0].Players[0].Equity, 0.6)
}

func TestRequestErrors(t *testing.T) {
	t.Parallel()
	_, url := newTestServer(t, WithMaxIterations(1000))
	ws := dial(t, url)

	tests := []struct {
		name string
		typ  protocol.MessageType
		data any
		code string
	}{
		{"bad hero", protocol.TypeEquity, protocol.EquityRequest{Hero: "AsXx", Opponents: []string{"??"}}, protocol.CodeInvalidRequest},
		{"duplicate card", protocol.TypeEquity, protocol.EquityRequest{Hero: "AsKs", Opponents: []string{"AsQd"}}, protocol.CodeInvalidRequest},
		{"no opponents", protocol.TypeEquity, protocol.EquityRequest{Hero: "AsKs"}, protocol.CodeInvalidRequest},
		{"bad method", protocol.TypeEquity, protocol.EquityRequest{Hero: "AsKs", Opponents: []string{"??"}, Method: "guess"}, protocol.CodeInvalidRequest},
		{"too many iterations", protocol.TypeEquity, protocol.EquityRequest{Hero: "AsKs", Opponents: []string{"??"}, Iterations: 5000}, protocol.CodeTooManyIterations},
		{"unknown cancel", protocol.TypeCancel, protocol.CancelRequest{RequestID: "nope"}, protocol.CodeUnknownRequest},
		{"unknown type", protocol.MessageType("deal"), struct{}{}, protocol.CodeUnknownMessageType},
	}
	for _, tt := range tests {
		sendRequest(t, ws, tt.typ, tt.name, tt.data)
		msg, _ := readUntil(t, ws, protocol.TypeError)
		var data protocol.ErrorData
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, tt.code, data.Code, tt.name)
		assert.NotEmpty(t, data.Message, tt.name)
	}
}

func TestExactLimit(t *testing.T) {
	t.Parallel()
	_, url := newTestServer(t, WithCalculatorOptions(equity.WithMaxTrials(100)))
	ws := dial(t, url)

	sendRequest(t, ws, protocol.TypeEquity, "big", protocol.EquityRequest{
		Hero: "AsKs", Opponents: []string{"QdQc"}, Method: "exact",
	})
	msg, _ := readUntil(t, ws, protocol.TypeError)
	var data protocol.ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, protocol.CodeTooManyTrials, data.Code)
}

func TestCancelRequest(t *testing.T) {
	t.Parallel()
	_, url := newTestServer(t, WithCalculatorOptions(equity.WithWorkers(1)))
	ws := dial(t, url)

	sendRequest(t, ws, protocol.TypeEquity, "slow", protocol.EquityRequest{
		Hero:       "AsKs",
		Opponents:  []string{"??", "??", "??", "??", "??", "??", "??", "??"},
		Method:     "mc",
		Iterations: DefaultMaxIterations,
	})
	sendRequest(t, ws, protocol.TypeCancel, "", protocol.CancelRequest{RequestID: "slow"})

	msg, _ := readUntil(t, ws, protocol.TypeError)
	assert.Equal(t, "slow", msg.RequestID)
	var data protocol.ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, protocol.CodeCancelled, data.Code)
}

func TestRequestLimitPerConnection(t *testing.T) {
	t.Parallel()
	_, url := newTestServer(t, WithMaxRequests(1), WithCalculatorOptions(equity.WithWorkers(1)))
	ws := dial(t, url)

	slow := protocol.EquityRequest{
		Hero:       "AsKs",
		Opponents:  []string{"??", "??", "??", "??", "??", "??", "??", "??"},
		Method:     "mc",
		Iterations: DefaultMaxIterations,
	}
	sendRequest(t, ws, protocol.TypeEquity, "first", slow)
	sendRequest(t, ws, protocol.TypeEquity, "second", slow)

	msg, _ := readUntil(t, ws, protocol.TypeError)
	assert.Equal(t, "second", msg.RequestID)
	var data protocol.ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, protocol.CodeTooManyRequests, data.Code)

	sendRequest(t, ws, protocol.TypeCancel, "", protocol.CancelRequest{RequestID: "first"})
	msg, _ = readUntil(t, ws, protocol.TypeError)
	assert.Equal(t, "first", msg.RequestID)
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, protocol.CodeCancelled, data.Code)
}

func TestConnectionLifecycle(t *testing.T) {
	t.Parallel()
	srv, url := newTestServer(t)
	ws := dial(t, url)

	require.Eventually(t, func() bool { return srv.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, ws.Close())
	require.Eventually(t, func() bool { return srv.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
