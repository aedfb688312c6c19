package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerodds/equity"
	"github.com/lox/pokerodds/poker"
)

func TestEquityRequestScenario(t *testing.T) {
	req := EquityRequest{
		Hero:      "As Ks",
		Opponents: []string{"QdQc", "??"},
		Board:     "2c7d9h",
		Dead:      "Jh",
	}
	s, err := req.Scenario()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Players())
	assert.Equal(t, 1, s.RandomSeats())
	assert.Equal(t, equity.Flop, s.Stage())
	assert.Equal(t, poker.MustParseCards("Jh"), s.Dead)

	tests := []struct {
		name string
		req  EquityRequest
		want error
	}{
		{"bad hero", EquityRequest{Hero: "As", Opponents: []string{"??"}}, poker.ErrParse},
		{"bad opponent", EquityRequest{Hero: "AsKs", Opponents: []string{"Qd"}}, poker.ErrParse},
		{"short board", EquityRequest{Hero: "AsKs", Opponents: []string{"??"}, Board: "2c7d"}, equity.ErrInvalidBoardSize},
		{"duplicate dead", EquityRequest{Hero: "AsKs", Opponents: []string{"??"}, Dead: "As"}, poker.ErrDuplicateCard},
		{"no opponents", EquityRequest{Hero: "AsKs"}, equity.ErrInvalidPlayerCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.Scenario()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEquityRequestJSON(t *testing.T) {
	var req EquityRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"hero": "AhKh",
		"opponents": ["QsQd", "??"],
		"board": "2h7hTc",
		"method": "mc",
		"iterations": 1000,
		"seed": 7
	}`), &req))
	assert.Equal(t, "AhKh", req.Hero)
	assert.Equal(t, []string{"QsQd", "??"}, req.Opponents)
	require.NotNil(t, req.Seed)
	assert.EqualValues(t, 7, *req.Seed)
	assert.False(t, req.Progress)
}

func TestNewMessage(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	msg, err := NewMessage(TypeProgress, "r1", ProgressData{Done: 5, Total: 10}, now)
	require.NoError(t, err)
	assert.Equal(t, TypeProgress, msg.Type)
	assert.Equal(t, "r1", msg.RequestID)
	assert.Equal(t, now, msg.Timestamp)
	assert.JSONEq(t, `{"done":5,"total":10}`, string(msg.Data))

	_, err = NewMessage(TypeResult, "", func() {}, now)
	assert.Error(t, err)
}

func TestNewEquityResult(t *testing.T) {
	hero, err := poker.ParseHole("AsAh")
	require.NoError(t, err)
	s := equity.Scenario{
		Hero:      hero,
		Opponents: []equity.Seat{equity.Random()},
		Board:     poker.MustParseCards("2c7d9hJcQd"),
	}
	report, err := equity.NewCalculator(equity.WithWorkers(1)).Exact(t.Context(), s)
	require.NoError(t, err)

	res := NewEquityResult(report, s)
	assert.Equal(t, "exact", res.Method)
	assert.Equal(t, "river", res.Stage)
	assert.EqualValues(t, 990, res.Trials)
	require.Len(t, res.Players, 2)
	assert.Equal(t, "AsAh", res.Players[0].Hand)
	assert.Equal(t, "??", res.Players[1].Hand)
	assert.EqualValues(t, res.Players[0].Win, res.Players[1].Loss)
	assert.InDelta(t, 1.0, res.Players[0].Equity+res.Players[1].Equity, 1e-9)
}
