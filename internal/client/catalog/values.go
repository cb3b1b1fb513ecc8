package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// text renders a loosely typed JSON value as a string. Integral numbers are
// printed without a fraction so numeric ids survive.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// number reads a JSON number or a numeric string; anything else is 0.
func number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

// firstText returns the first key whose value renders non-empty.
func firstText(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := text(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// firstNumber returns the first key holding a non-zero number.
func firstNumber(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if n := number(raw[k]); n != 0 {
			return n
		}
	}
	return 0
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// flexInt decodes a counter that may arrive as a number or a numeric string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexInt(number(v))
	return nil
}
