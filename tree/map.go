// Package tree provides an insertion-ordered string-keyed mapping used for
// schema and configuration trees whose declaration order is meaningful.
package tree

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// Map is a string-keyed mapping that remembers insertion order.
// The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns an empty Map with room for n entries.
func New(n int) *Map {
	return &Map{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores v under k. It reports whether k was already present; an
// existing key keeps its original position.
func (m *Map) Set(k string, v any) (replaced bool) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[k]; ok {
		m.values[k] = v
		return true
	}
	m.keys = append(m.keys, k)
	m.values[k] = v
	return false
}

// Get returns the value stored under k.
func (m *Map) Get(k string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each entry in order until fn returns false.
func (m *Map) Range(fn func(k string, v any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// ToMap converts the Map, and every nested Map, into plain maps.
func (m *Map) ToMap() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = toValue(m.values[k])
	}
	return out
}

func toValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.ToMap()
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = toValue(t[i])
		}
		return arr
	default:
		return v
	}
}

// MarshalJSON renders the entries as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := j.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := j.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
