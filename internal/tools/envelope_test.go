package tools

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) Call {
	t.Helper()
	var payload any
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return ParseEnvelope(payload)
}

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		tool     string
		input    map[string]any
		clientID string
	}{
		{
			name:     "flat with input",
			raw:      `{"tool":"search_movies","input":{"query":"Inception"},"client_id":"abc"}`,
			tool:     "search_movies",
			input:    map[string]any{"query": "Inception"},
			clientID: "abc",
		},
		{
			name:     "flat with inputs and camel client id",
			raw:      `{"tool":"movie_details","inputs":{"id":550},"clientId":"c2"}`,
			tool:     "movie_details",
			input:    map[string]any{"id": float64(550)},
			clientID: "c2",
		},
		{
			name:     "client field",
			raw:      `{"tool":"search_movies","client":"c3"}`,
			tool:     "search_movies",
			input:    map[string]any{},
			clientID: "c3",
		},
		{
			name:     "typed tool_call",
			raw:      `{"type":"tool_call","tool":"search_movies","input":{"query":"x"}}`,
			tool:     "search_movies",
			input:    map[string]any{"query": "x"},
			clientID: DefaultClientID,
		},
		{
			name:     "nested tool_call",
			raw:      `{"tool_call":{"name":"movie_details","input":{"id":27205}},"client_id":"n1"}`,
			tool:     "movie_details",
			input:    map[string]any{"id": float64(27205)},
			clientID: "n1",
		},
		{
			name:     "top-level input wins over nested input",
			raw:      `{"tool_call":{"name":"search_movies","input":{"query":"nested"}},"input":{"query":"top"}}`,
			tool:     "search_movies",
			input:    map[string]any{"query": "top"},
			clientID: DefaultClientID,
		},
		{
			name:     "flat tool wins over nested name",
			raw:      `{"tool":"search_movies","tool_call":{"name":"movie_details"}}`,
			tool:     "search_movies",
			input:    map[string]any{},
			clientID: DefaultClientID,
		},
		{
			name:     "empty object",
			raw:      `{}`,
			input:    map[string]any{},
			clientID: DefaultClientID,
		},
		{
			name:     "empty client id falls back",
			raw:      `{"tool":"search_movies","client_id":"","clientId":"second"}`,
			tool:     "search_movies",
			input:    map[string]any{},
			clientID: "second",
		},
		{
			name:     "not an object",
			raw:      `[1,2,3]`,
			input:    map[string]any{},
			clientID: DefaultClientID,
		},
		{
			name:     "non-object input ignored",
			raw:      `{"tool":"search_movies","input":"Inception"}`,
			tool:     "search_movies",
			input:    map[string]any{},
			clientID: DefaultClientID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := parse(t, tt.raw)
			assert.Equal(t, tt.tool, call.Tool)
			assert.Equal(t, tt.input, call.Input)
			assert.Equal(t, tt.clientID, call.ClientID)
		})
	}
}

func TestNumberArg(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{nil, 0, true},
		{float64(550), 550, true},
		{"27205", 27205, true},
		{" 12 ", 12, true},
		{"", 0, true},
		{"abc", 0, false},
		{true, 1, true},
		{false, 0, true},
		{map[string]any{}, 0, false},
		{"1.5e2", 150, true},
		{"-.5", -0.5, true},
		{"7.", 7, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"0x10", 16, true},
		{"0B101", 5, true},
		{"0o17", 15, true},
		{"1e999", math.Inf(1), true},
		{"inf", 0, false},
		{"-inf", 0, false},
		{"NaN", 0, false},
		{"infinity", 0, false},
		{"0x1p3", 0, false},
		{"-0x10", 0, false},
		{"1_000", 0, false},
		{"12px", 0, false},
	}
	for _, c := range cases {
		got, ok := numberArg(c.in)
		assert.Equal(t, c.ok, ok, "%v", c.in)
		assert.Equal(t, c.want, got, "%v", c.in)
	}
}

func TestTextArg(t *testing.T) {
	assert.Equal(t, "", textArg(nil))
	assert.Equal(t, "Heat", textArg("Heat"))
	assert.Equal(t, "1917", textArg(float64(1917)))
	assert.Equal(t, "", textArg(false))
}
