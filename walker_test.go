package confskema_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/reoring/confskema"
	"github.com/reoring/confskema/tree"
)

func sampleSchema() map[string]any {
	return map[string]any{
		"a": map[string]any{"type": "int8", "min": 0, "max": 10},
		"b": map[string]any{
			"c": map[string]any{"type": "string"},
		},
	}
}

func TestValidateTree(t *testing.T) {
	config := map[string]any{"a": 5, "b": map[string]any{"c": "ok"}}
	got, err := confskema.ValidateTree(config, sampleSchema())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, config) {
		t.Fatalf("got %#v, want %#v", got, config)
	}
}

func TestValidateTree_MissingNestedLeaf(t *testing.T) {
	for _, config := range []map[string]any{
		{"a": 5, "b": map[string]any{}},
		{"a": 5},
		{"a": 5, "b": nil},
	} {
		_, err := confskema.ValidateTree(config, sampleSchema())
		mustValidationError(t, err, "b.c", confskema.CodeRequired)
	}
}

func TestValidateTree_GroupMustBeMapping(t *testing.T) {
	_, err := confskema.ValidateTree(map[string]any{"a": 5, "b": "flat"}, sampleSchema())
	mustValidationError(t, err, "b", confskema.CodeInvalidType)

	_, err = confskema.ValidateTree([]any{1}, sampleSchema())
	mustValidationError(t, err, "", confskema.CodeInvalidType)
}

func TestValidateTree_UnknownTypeFailsBeforeValues(t *testing.T) {
	schema := map[string]any{
		"a": map[string]any{"type": "int8"},
		"z": map[string]any{"type": "decimal"},
	}
	// The config would fail at a, but the schema is rejected first.
	_, err := confskema.ValidateTree(map[string]any{"a": "not a number"}, schema)
	se := mustSchemaError(t, err, confskema.CodeUnknownType)
	if se.Field != "z" {
		t.Fatalf("got field %q", se.Field)
	}
}

func TestValidateTree_ExtraKeysIgnoredAndDefaultsApplied(t *testing.T) {
	schema := map[string]any{
		"port":    map[string]any{"type": "uint16", "default": 8080},
		"verbose": map[string]any{"type": "bool", "default": false},
	}
	got, err := confskema.ValidateTree(map[string]any{"port": 9090, "unknown": true}, schema)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"port": 9090, "verbose": false}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestCheck_DeclarationOrderDecidesFirstError(t *testing.T) {
	schema := tree.New(2)
	schema.Set("zeta", "int8")
	schema.Set("alpha", "int8")

	g, err := confskema.ParseSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	s, err := confskema.Compile(g)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Check(map[string]any{})
	mustValidationError(t, err, "zeta", confskema.CodeRequired)

	// Plain maps carry no order and are walked by sorted key.
	_, err = confskema.ValidateTree(map[string]any{}, schema.ToMap())
	mustValidationError(t, err, "alpha", confskema.CodeRequired)
}

func TestCheck_OrderedConfig(t *testing.T) {
	cfg := tree.New(2)
	cfg.Set("a", int64(3))
	b := tree.New(1)
	b.Set("c", "ok")
	cfg.Set("b", b)

	got, err := confskema.ValidateTree(cfg, sampleSchema())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"a": int64(3), "b": map[string]any{"c": "ok"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestCheck_Idempotent(t *testing.T) {
	schema := map[string]any{
		"name": map[string]any{"type": "str", "default": "svc"},
		"net": map[string]any{
			"ports": map[string]any{"type": "array", "subtype": "uint16", "default": []any{80, 443}},
			"host":  "string",
		},
	}
	s, err := confskema.Compile(mustParse(t, schema))
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.Check(map[string]any{"net": map[string]any{"host": "h"}})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Check(first)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass differs:\n%#v\n%#v", first, second)
	}

	// Mutating a result does not leak into later runs.
	first["net"].(map[string]any)["ports"].([]any)[0] = 1
	third, err := s.Check(map[string]any{"net": map[string]any{"host": "h"}})
	if err != nil {
		t.Fatal(err)
	}
	if third["net"].(map[string]any)["ports"].([]any)[0] != 80 {
		t.Fatal("default was shared between runs")
	}
}

func TestCheck_Concurrent(t *testing.T) {
	s, err := confskema.Compile(mustParse(t, sampleSchema()))
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := i % 20
			_, err := s.Check(map[string]any{"a": a, "b": map[string]any{"c": fmt.Sprint(i)}})
			switch {
			case a <= 10 && err != nil:
				errs <- err
			case a > 10 && err == nil:
				errs <- fmt.Errorf("a=%d accepted", a)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestValidateKey(t *testing.T) {
	schema := sampleSchema()

	got, err := confskema.ValidateKey("b.c", "ok", schema)
	if err != nil || got != "ok" {
		t.Fatalf("got %v, %v", got, err)
	}

	_, err = confskema.ValidateKey("a", 11, schema)
	mustValidationError(t, err, "a", confskema.CodeTooBig)

	_, err = confskema.ValidateKey("b.c", nil, schema)
	mustValidationError(t, err, "b.c", confskema.CodeRequired)

	group, err := confskema.ValidateKey("b", map[string]any{"c": "x"}, schema)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(group, map[string]any{"c": "x"}) {
		t.Fatalf("got %#v", group)
	}
	_, err = confskema.ValidateKey("b", map[string]any{}, schema)
	mustValidationError(t, err, "b.c", confskema.CodeRequired)

	for _, key := range []string{"x", "b.x", "a.x", "b.c.d", ""} {
		_, err := confskema.ValidateKey(key, 1, schema)
		se := mustSchemaError(t, err, confskema.CodeMissingKey)
		if se.Field != key {
			t.Fatalf("got field %q for key %q", se.Field, key)
		}
	}
}

func TestArrange(t *testing.T) {
	schema := tree.New(3)
	schema.Set("server", func() *tree.Map {
		m := tree.New(2)
		m.Set("port", "uint16")
		m.Set("host", map[string]any{"type": "str", "default": "localhost"})
		return m
	}())
	schema.Set("name", "str")

	s, err := confskema.Compile(mustParse(t, schema))
	if err != nil {
		t.Fatal(err)
	}
	out, err := s.Check(map[string]any{"name": "api", "server": map[string]any{"port": 1}})
	if err != nil {
		t.Fatal(err)
	}
	arranged := s.Arrange(out)
	b, err := arranged.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"server":{"port":1,"host":"localhost"},"name":"api"}` {
		t.Fatalf("got %s", b)
	}
}

func TestParseSchema_TreeShape(t *testing.T) {
	g := mustParse(t, sampleSchema())
	if len(g.Entries) != 2 || g.Entries[0].Key != "a" {
		t.Fatalf("unexpected entries: %#v", g.Entries)
	}
	leaf, ok := g.Entries[0].Node.(*confskema.Leaf)
	if !ok || leaf.Type != "int8" || leaf.Constraints["max"] != 10 {
		t.Fatalf("unexpected leaf: %#v", g.Entries[0].Node)
	}
	if _, ok := leaf.Constraints["type"]; ok {
		t.Fatal("discriminator kept among constraints")
	}
	sub, ok := g.Entries[1].Node.(*confskema.Group)
	if !ok {
		t.Fatalf("expected group, got %#v", g.Entries[1].Node)
	}
	if _, ok := sub.Lookup("c"); !ok {
		t.Fatal("missing c")
	}

	// A mapping whose type is not a string is a group with a field named type.
	g = mustParse(t, map[string]any{"meta": map[string]any{"type": map[string]any{"type": "str"}}})
	meta := g.Entries[0].Node.(*confskema.Group)
	if _, ok := meta.Lookup("type"); !ok {
		t.Fatal("expected nested type field")
	}

	if _, err := confskema.ParseSchema("int8"); err == nil {
		t.Fatal("expected root to be rejected")
	}
}

func mustParse(t *testing.T, schema any) *confskema.Group {
	t.Helper()
	g, err := confskema.ParseSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	return g
}
