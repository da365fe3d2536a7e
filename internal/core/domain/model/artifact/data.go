package artifact

import (
	"encoding/json"
	"strings"
	"time"
)

// Data is an open bag of state-specific attributes. Values are the JSON kinds
// (string, float64/int, bool, []any, map[string]any) plus time.Time and []string.
// Nested objects are addressed with dotted paths such as "budget.total".
type Data map[string]any

// Clone returns a deep copy.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	cp := make(Data, len(d))
	for k, v := range d {
		cp[k] = cloneValue(v)
	}
	return cp
}

// Merge returns a new bag with other layered over d. Nested objects are merged
// key by key; any other value in other replaces the one in d.
func (d Data) Merge(other Data) Data {
	out := d.Clone()
	if out == nil {
		out = Data{}
	}
	for k, v := range other {
		existing, ok := asMap(out[k])
		incoming, incomingOK := asMap(v)
		if ok && incomingOK {
			out[k] = map[string]any(Data(existing).Merge(incoming))
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// Lookup resolves a dotted path.
func (d Data) Lookup(path string) (any, bool) {
	var current any = map[string]any(d)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the string at path, or "".
func (d Data) String(path string) string {
	v, _ := d.Lookup(path)
	s, _ := v.(string)
	return s
}

// Number returns the numeric value at path.
func (d Data) Number(path string) (float64, bool) {
	v, _ := d.Lookup(path)
	return asNumber(v)
}

// Has reports whether path holds a present value, see IsPresent.
func (d Data) Has(path string) bool {
	v, ok := d.Lookup(path)
	return ok && IsPresent(v)
}

// IsPresent reports whether v counts as supplied: non-blank strings, non-zero
// numbers, true booleans, non-empty collections and non-zero times.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case time.Time:
		return !t.IsZero()
	case *time.Time:
		return t != nil && !t.IsZero()
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case Data:
		return len(t) > 0
	}
	if n, ok := asNumber(v); ok {
		return n != 0
	}
	return true
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Data:
		return t, true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Data(t).Clone())
	case Data:
		return map[string]any(t.Clone())
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = cloneValue(item)
		}
		return cp
	case []string:
		return append([]string(nil), t...)
	}
	return v
}
