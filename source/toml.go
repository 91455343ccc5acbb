package source

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/reoring/confskema/tree"
)

// tomlOrder records, per table path, the order in which keys were defined.
// Tables inside arrays share the path of their array.
type tomlOrder map[string][]string

func decodeTOML(data []byte) (any, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	order := tomlOrder{}
	seen := map[string]bool{}
	for _, k := range md.Keys() {
		if len(k) == 0 {
			continue
		}
		parent := strings.Join(k[:len(k)-1], "\x00")
		leaf := k[len(k)-1]
		id := parent + "\x01" + leaf
		if seen[id] {
			continue
		}
		seen[id] = true
		order[parent] = append(order[parent], leaf)
	}
	if raw == nil {
		return nil, nil
	}
	return order.table(nil, raw), nil
}

func (o tomlOrder) table(path []string, m map[string]any) *tree.Map {
	out := tree.New(len(m))
	for _, k := range o.keys(path, m) {
		out.Set(k, o.value(append(path[:len(path):len(path)], k), m[k]))
	}
	return out
}

// keys lists the keys of m in definition order. Keys the metadata does not
// mention are appended sorted.
func (o tomlOrder) keys(path []string, m map[string]any) []string {
	ks := make([]string, 0, len(m))
	used := make(map[string]bool, len(m))
	for _, k := range o[strings.Join(path, "\x00")] {
		if _, ok := m[k]; ok && !used[k] {
			ks = append(ks, k)
			used[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ks, rest...)
}

func (o tomlOrder) value(path []string, v any) any {
	switch t := v.(type) {
	case map[string]any:
		return o.table(path, t)
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = o.table(path, t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = o.value(path, t[i])
		}
		return out
	}
	return v
}
