package confskema

import (
	"fmt"
	"strings"

	"github.com/reoring/confskema/i18n"
	"github.com/reoring/confskema/tree"
)

// Schema is a compiled schema tree: every leaf validator has been built
// once, up front. A Schema is immutable and may be shared by concurrent
// Check calls.
type Schema struct {
	root    *Group
	prefix  string
	entries []compiled
}

// compiled is one schema entry. Exactly one of v and group is set.
type compiled struct {
	key   string
	path  string
	v     Validator
	c     Constraints
	group []compiled
}

// Compile builds the validators of every leaf in g. Malformed leaves fail
// here with a *SchemaError, before any configuration value is examined.
func Compile(g *Group) (*Schema, error) {
	return compileAt("", g)
}

func compileAt(prefix string, g *Group) (*Schema, error) {
	if g == nil {
		g = &Group{}
	}
	entries, err := compileGroup(prefix, g)
	if err != nil {
		return nil, err
	}
	return &Schema{root: g, prefix: prefix, entries: entries}, nil
}

func compileGroup(prefix string, g *Group) ([]compiled, error) {
	out := make([]compiled, 0, len(g.Entries))
	for _, e := range g.Entries {
		path := joinPath(prefix, e.Key)
		switch n := e.Node.(type) {
		case *Leaf:
			v, err := Build(path, n)
			if err != nil {
				return nil, err
			}
			out = append(out, compiled{key: e.Key, path: path, v: v, c: n.Constraints})
		case *Group:
			sub, err := compileGroup(path, n)
			if err != nil {
				return nil, err
			}
			out = append(out, compiled{key: e.Key, path: path, group: sub})
		default:
			return nil, invalidNode(path, e.Node)
		}
	}
	return out, nil
}

// Root returns the parsed schema tree the Schema was compiled from.
func (s *Schema) Root() *Group { return s.root }

// Check validates config against the schema and returns a new tree mirroring
// the schema's shape, with defaults substituted for absent leaves. Keys the
// schema does not declare are ignored. The walk stops at the first failure.
func (s *Schema) Check(config any) (map[string]any, error) {
	return walk(s.prefix, s.entries, config)
}

func walk(path string, entries []compiled, v any) (map[string]any, error) {
	var m mapping = plainMapping(nil)
	if v != nil {
		var ok bool
		if m, ok = asMapping(v); !ok {
			return nil, invalidType(path, "a mapping", v)
		}
	}
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		raw, _ := m.get(e.key)
		if e.v == nil {
			sub, err := walk(e.path, e.group, raw)
			if err != nil {
				return nil, err
			}
			out[e.key] = sub
			continue
		}
		val, err := e.v.Validate(raw, e.c)
		if err != nil {
			return nil, err
		}
		out[e.key] = val
	}
	return out, nil
}

// Arrange returns validated in schema declaration order. Keys the schema
// does not declare are dropped.
func (s *Schema) Arrange(validated map[string]any) *tree.Map {
	return arrange(s.entries, validated)
}

func arrange(entries []compiled, m map[string]any) *tree.Map {
	out := tree.New(len(entries))
	for _, e := range entries {
		v, ok := m[e.key]
		if !ok {
			continue
		}
		if sub, isMap := v.(map[string]any); isMap && e.v == nil {
			out.Set(e.key, arrange(e.group, sub))
			continue
		}
		out.Set(e.key, v)
	}
	return out
}

// ValidateTree parses and compiles schema, then checks config against it.
// schema may be a *Schema, a *Group or a raw schema tree.
func ValidateTree(config, schema any) (map[string]any, error) {
	s, err := compileAny(schema)
	if err != nil {
		return nil, err
	}
	return s.Check(config)
}

// ValidateValue validates a single value against a schema node. Errors are
// attributed to the field name "value".
func ValidateValue(value, node any) (any, error) {
	const field = "value"
	leaf, err := parseLeafNode(field, node)
	if err != nil {
		return nil, err
	}
	v, err := Build(field, leaf)
	if err != nil {
		return nil, err
	}
	return v.Validate(value, leaf.Constraints)
}

// ValidateKey validates value against the node reached by descending schema
// along the dotted key. A key that resolves to a group validates value as
// that section. A segment the schema does not declare fails with a
// *SchemaError coded CodeMissingKey.
func ValidateKey(key string, value, schema any) (any, error) {
	g, err := parseAny(schema)
	if err != nil {
		return nil, err
	}
	var node Node = g
	for _, seg := range strings.Split(key, ".") {
		grp, ok := node.(*Group)
		if !ok {
			return nil, missingKey(key)
		}
		if node, ok = grp.Lookup(seg); !ok {
			return nil, missingKey(key)
		}
	}
	switch n := node.(type) {
	case *Leaf:
		v, err := Build(key, n)
		if err != nil {
			return nil, err
		}
		return v.Validate(value, n.Constraints)
	case *Group:
		s, err := compileAt(key, n)
		if err != nil {
			return nil, err
		}
		return s.Check(value)
	}
	return nil, invalidNode(key, node)
}

func compileAny(schema any) (*Schema, error) {
	if s, ok := schema.(*Schema); ok {
		return s, nil
	}
	g, err := parseAny(schema)
	if err != nil {
		return nil, err
	}
	return Compile(g)
}

func parseAny(schema any) (*Group, error) {
	switch t := schema.(type) {
	case *Schema:
		return t.root, nil
	case *Group:
		return t, nil
	}
	return ParseSchema(schema)
}

func missingKey(key string) *SchemaError {
	return &SchemaError{
		Field:   key,
		Code:    CodeMissingKey,
		Message: i18n.T(CodeMissingKey, map[string]string{"key": fmt.Sprintf("%q", key)}),
	}
}
