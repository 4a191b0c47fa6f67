package flatten

import (
	"strconv"
	"strings"
)

// Typed lookups over flattened rows. JSON numbers decode as float64, but
// provider payloads occasionally carry numeric strings; these helpers accept
// both and degrade to the zero value instead of failing, per the
// missing-field-defaults policy.

func Int64(rec Record, key string) int64 {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return 0
	}
	switch v := raw.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case string:
		out, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0
		}
		return out
	default:
		return 0
	}
}

func Int(rec Record, key string) int {
	return int(Int64(rec, key))
}

func Float(rec Record, key string) float64 {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return 0
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		out, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return out
	default:
		return 0
	}
}

func String(rec Record, key string) string {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return ""
	}
	v, ok := raw.(string)
	if !ok {
		return ""
	}
	return v
}

// StringPtr distinguishes absent-in-source from present: absence maps to nil
// so nullable columns such as venue and referee stay null rather than "".
func StringPtr(rec Record, key string) *string {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	v, ok := raw.(string)
	if !ok {
		return nil
	}
	return &v
}

// Bool coerces with false as the default: absent or null flags normalize to
// false, never to an error.
func Bool(rec Record, key string) bool {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return false
	}
	v, ok := raw.(bool)
	if !ok {
		return false
	}
	return v
}

// Floats reads a numeric array (e.g. a pitch location). A missing or
// malformed value yields nil.
func Floats(rec Record, key string) []float64 {
	raw, ok := rec[key]
	if !ok || raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		v, ok := item.(float64)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// Strings reads a string array, normalizing absence to an empty slice so
// list-typed columns such as related_events are never nil.
func Strings(rec Record, key string) []string {
	out := []string{}
	raw, ok := rec[key]
	if !ok || raw == nil {
		return out
	}
	items, ok := raw.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		v, ok := item.(string)
		if ok {
			out = append(out, v)
		}
	}
	return out
}

// Extra returns the nested side payload for key, or nil when the event type
// did not carry one.
func Extra(rec Record, key string) Record {
	container, ok := rec[ExtraKey].(map[string]any)
	if !ok {
		return nil
	}
	sub, ok := container[key].(map[string]any)
	if !ok {
		return nil
	}
	return sub
}
