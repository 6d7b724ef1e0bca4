package widget

import (
	"math"
	"strconv"
	"strings"
)

// Lookup resolves a dotted path like "tasks.openTasks" or "0.rxSec" against
// decoded JSON data. Numeric segments index into arrays. The second return is
// false when any segment is missing.
func Lookup(data interface{}, path string) (interface{}, bool) {
	if data == nil || path == "" {
		return nil, false
	}
	current := data
	for _, seg := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]interface{}:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			current = v[i]
		default:
			return nil, false
		}
	}
	return current, true
}

// LookupNumber resolves a dotted path and coerces the value to a float64.
// Missing paths and non-numeric values yield 0.
func LookupNumber(data interface{}, path string) float64 {
	v, ok := Lookup(data, path)
	if !ok {
		return 0
	}
	return toNumber(v)
}

// LookupString resolves a dotted path and renders the value as a string.
// Missing paths yield the empty string.
func LookupString(data interface{}, path string) string {
	v, ok := Lookup(data, path)
	if !ok || v == nil {
		return ""
	}
	return stringify(v)
}

func toNumber(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return ""
	}
}

// round1 rounds to one decimal place, matching how the telemetry endpoints
// report their samples
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
