package confskema

import (
	"github.com/mitchellh/copystructure"

	"github.com/reoring/confskema/tree"
)

// cloneValue returns a copy of v that shares no mutable state with the
// schema it came from. Ordered maps are flattened into plain maps so the
// result has the same shape as the rest of a validated tree.
func cloneValue(v any) any {
	p := plain(v)
	switch p.(type) {
	case map[string]any, []any:
		if c, err := copystructure.Copy(p); err == nil {
			return c
		}
		return deepCopy(p)
	}
	return p
}

// deepCopy copies the map and slice spine of v. Leaves other than maps and
// slices are shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = deepCopy(t[i])
		}
		return out
	default:
		return v
	}
}

func plain(v any) any {
	switch t := v.(type) {
	case *tree.Map:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plain(t[i])
		}
		return out
	default:
		return v
	}
}
