package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// rawFields holds a JSON object keyed by field name so that aliased fields
// can be resolved in priority order.
type rawFields map[string]json.RawMessage

// first returns the first alias that is present and not null.
func (f rawFields) first(names ...string) (json.RawMessage, bool) {
	for _, name := range names {
		raw, ok := f[name]
		if !ok {
			continue
		}
		if isNull(raw) {
			continue
		}
		return raw, true
	}
	return nil, false
}

// str resolves the aliases into a string. Numbers and booleans are rendered
// in their JSON form.
func (f rawFields) str(names ...string) (string, bool) {
	raw, ok := f.first(names...)
	if !ok {
		return "", false
	}
	return rawString(raw), true
}

// num resolves the aliases into a float. Numeric strings are accepted; any
// other value yields NaN so callers can apply their own fallback.
func (f rawFields) num(names ...string) (float64, bool) {
	raw, ok := f.first(names...)
	if !ok {
		return 0, false
	}
	return rawNumber(raw), true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return ""
	}
	return string(trimmed)
}

func rawNumber(raw json.RawMessage) float64 {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return parsed
		}
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 1
		}
		return 0
	}
	return math.NaN()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
