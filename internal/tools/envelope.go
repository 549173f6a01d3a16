package tools

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultClientID receives notifications for calls that name no client.
const DefaultClientID = "dev-client"

// Call is a normalized tool invocation. Tool is empty when none was found.
type Call struct {
	Tool     string
	Input    map[string]any
	ClientID string
}

// ParseEnvelope normalizes the accepted inbound shapes, first match wins:
//
//	{tool, input|inputs, client_id|clientId|client}
//	{type: "tool_call", tool, input}
//	{tool_call: {name, input}}
//
// Anything that is not a JSON object is treated as an empty one.
func ParseEnvelope(payload any) Call {
	m, _ := payload.(map[string]any)

	call := Call{
		ClientID: firstString(m, "client_id", "clientId", "client"),
		Input:    map[string]any{},
	}
	if call.ClientID == "" {
		call.ClientID = DefaultClientID
	}

	var nested map[string]any
	if tc, ok := m["tool_call"].(map[string]any); ok {
		nested = tc
	}

	switch {
	case stringValue(m["tool"]) != "":
		// Covers {type:"tool_call", tool, input} as well.
		call.Tool = stringValue(m["tool"])
	case nested != nil && stringValue(nested["name"]) != "":
		call.Tool = stringValue(nested["name"])
	default:
		return call
	}

	for _, in := range []any{m["input"], m["inputs"], nested["input"]} {
		if obj, ok := in.(map[string]any); ok {
			call.Input = obj
			break
		}
	}
	return call
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringValue(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// textArg renders an input value as text. Non-string scalars are formatted
// rather than rejected.
func textArg(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}

// numberArg coerces an input value to a number. ok is false for values that
// have no numeric reading (NaN cases).
func numberArg(v any) (n float64, ok bool) {
	switch t := v.(type) {
	case nil:
		return 0, true
	case float64:
		return t, !math.IsNaN(t)
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		return parseNumber(t)
	default:
		return 0, false
	}
}

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixLiteral   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// parseNumber reads the numeric string forms a JSON client may send: blank
// is 0, decimals with an optional sign and exponent, signed "Infinity", and
// unsigned 0x/0o/0b integers. Go-only spellings such as "inf", "NaN", hex
// floats and digit separators are rejected.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimFunc(raw, func(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' })
	switch s {
	case "":
		return 0, true
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if radixLiteral.MatchString(s) {
		base := map[byte]int{'x': 16, 'o': 8, 'b': 2}[s[1]|0x20]
		i, ok := new(big.Int).SetString(s[2:], base)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(i).Float64()
		return f, true
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range still has a reading: ±Inf or 0.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}
