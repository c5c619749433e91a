package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is the current field values of the entity under edit. Values are
// scalars (string, float64, int, bool) or []string for multi-image fields.
type Record map[string]any

// Clone returns a copy that shares no slices with r
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	c := make(Record, len(r))
	for k, v := range r {
		if ss, ok := v.([]string); ok {
			v = append([]string(nil), ss...)
		}
		c[k] = v
	}
	return c
}

// String returns the string form of a field; absent and nil values are ""
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Float parses a field as a number. Empty, non-numeric and non-finite values
// (NaN, Inf) report false.
func (r Record) Float(field string) (float64, bool) {
	f, ok := r.rawFloat(field)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (r Record) rawFloat(field string) (float64, bool) {
	switch v := r[field].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Strings returns a field holding one or many URLs as a slice
func (r Record) Strings(field string) []string {
	switch v := r[field].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// ID returns the backend identifier stored under key
func (r Record) ID(key string) string {
	return r.String(key)
}
