package tree_test

import (
	"reflect"
	"testing"

	"github.com/reoring/confskema/tree"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := tree.New(0)
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	if replaced := m.Set("zeta", 4); !replaced {
		t.Fatalf("expected replace to be reported")
	}
	want := []string{"zeta", "alpha", "mid"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("keys: got %v want %v", got, want)
	}
	if v, _ := m.Get("zeta"); v != 4 {
		t.Fatalf("zeta: got %v", v)
	}
}

func TestMap_MarshalJSONKeepsOrder(t *testing.T) {
	inner := tree.New(0)
	inner.Set("b", true)
	inner.Set("a", "x")
	m := tree.New(0)
	m.Set("z", []any{int64(1), 2.5})
	m.Set("y", inner)

	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"z":[1,2.5],"y":{"b":true,"a":"x"}}`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestMap_ToMapFlattensNested(t *testing.T) {
	leaf := tree.New(1)
	leaf.Set("e", "f")
	inner := tree.New(2)
	inner.Set("d", 1)
	inner.Set("c", []any{leaf})
	m := tree.New(2)
	m.Set("b", inner)
	m.Set("a", "x")

	if _, ok := mustGet(t, m, "b").(*tree.Map); !ok {
		t.Fatalf("nested map should stay ordered")
	}
	want := map[string]any{
		"b": map[string]any{"d": 1, "c": []any{map[string]any{"e": "f"}}},
		"a": "x",
	}
	if out := m.ToMap(); !reflect.DeepEqual(out, want) {
		t.Fatalf("flatten mismatch: %#v", out)
	}
}

func TestMap_NilReceiver(t *testing.T) {
	var m *tree.Map
	if m.Len() != 0 || m.Keys() != nil || m.ToMap() != nil {
		t.Fatalf("nil map should behave as empty")
	}
	if _, ok := m.Get("x"); ok {
		t.Fatalf("nil map has no entries")
	}
}

func mustGet(t *testing.T, m *tree.Map, k string) any {
	t.Helper()
	v, ok := m.Get(k)
	if !ok {
		t.Fatalf("missing key %q", k)
	}
	return v
}
