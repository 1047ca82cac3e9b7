package tool

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Args wraps the loosely typed arguments a model produced. Lookups never
// fail; absent or unconvertible values report ok=false.
type Args map[string]any

// ParseArgs accepts arguments as an object or as a JSON encoded string.
func ParseArgs(raw any) Args {
	switch v := raw.(type) {
	case nil:
		return Args{}
	case map[string]any:
		return Args(v)
	case Args:
		return v
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil || m == nil {
			return Args{}
		}
		return Args(m)
	case json.RawMessage:
		return ParseArgs(string(v))
	default:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return Args{}
		}
		return Args(m)
	}
}

func (a Args) String(key string) string {
	v, ok := a[key]
	if !ok || v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Given reports whether key holds a non-blank value.
func (a Args) Given(key string) bool {
	v, ok := a[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func (a Args) StringPtr(key string) *string {
	if _, ok := a[key]; !ok {
		return nil
	}
	s := a.String(key)
	return &s
}

// Int rejects values with a fractional part instead of truncating them.
func (a Args) Int(key string) (int, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, false
		}
	}
	if f, err := cast.ToFloat64E(v); err == nil && f != math.Trunc(f) {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (a Args) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0, false
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Strings accepts a list or a single comma separated string.
func (a Args) Strings(key string) []string {
	v, ok := a[key]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString {
		return splitList(s)
	}
	items, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
