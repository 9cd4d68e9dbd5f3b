package domain

import (
	"fmt"
	"strconv"
)

// Record is one alias, mailbox, domain or contact as decoded from the backend's JSON.
// Missing fields read as zero values; no accessor fails.
type Record map[string]any

// Has reports whether field is present, even if its value is null.
func (r Record) Has(field string) bool {
	if r == nil {
		return false
	}
	_, ok := r[field]
	return ok
}

// Lookup walks nested objects along path and returns the value found, if any.
func (r Record) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, p := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// String returns the value at path formatted as text, or "" when absent or null.
func (r Record) String(path ...string) string {
	v, ok := r.Lookup(path...)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// Bool returns the value at path as a boolean. Non-boolean values read as false.
func (r Record) Bool(path ...string) bool {
	v, ok := r.Lookup(path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	}
	return nil, false
}
