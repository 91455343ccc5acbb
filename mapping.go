package confskema

import (
	"reflect"
	"sort"

	"github.com/reoring/confskema/tree"
)

// mapping is the read-only view the walker needs over a keyed node.
type mapping interface {
	get(k string) (any, bool)
	keys() []string
}

type orderedMapping struct{ m *tree.Map }

func (o orderedMapping) get(k string) (any, bool) { return o.m.Get(k) }
func (o orderedMapping) keys() []string           { return o.m.Keys() }

// plainMapping adapts map[string]any. Plain maps carry no order, so keys
// are reported sorted to keep traversal deterministic.
type plainMapping map[string]any

func (p plainMapping) get(k string) (any, bool) {
	v, ok := p[k]
	return v, ok
}

func (p plainMapping) keys() []string {
	ks := make([]string, 0, len(p))
	for k := range p {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func asMapping(v any) (mapping, bool) {
	switch t := v.(type) {
	case *tree.Map:
		if t == nil {
			return nil, false
		}
		return orderedMapping{t}, true
	case map[string]any:
		return plainMapping(t), true
	}
	return nil, false
}

// asSequence returns the elements of a slice or array value.
func asSequence(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
