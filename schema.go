package confskema

import (
	"fmt"

	"github.com/reoring/confskema/i18n"
)

// Constraint keys recognized in schema leaves.
const (
	KeyType    = "type"
	KeyDefault = "default"
	KeyMin     = "min"
	KeyMax     = "max"
	KeyRegex   = "regex"
	KeyMinLen  = "minlen"
	KeyMaxLen  = "maxlen"
	KeyExists  = "exists"
	KeyIsFile  = "isfile"
	KeyIsDir   = "isdir"
	KeySubtype = "subtype"

	// legacyKeyType is the discriminator spelling used by older schema files.
	legacyKeyType = "_type"
)

// Node is a parsed schema node: either a *Group or a *Leaf.
type Node interface{ schemaNode() }

// Group is a nested configuration section. Entries keep the order in which
// the schema declared them.
type Group struct {
	Entries []Entry
}

// Entry is a named child of a Group.
type Entry struct {
	Key  string
	Node Node
}

// Leaf is a typed schema node. Subtype is set for composite types that
// declare an element node.
type Leaf struct {
	Type        string
	Constraints Constraints
	Subtype     *Leaf
}

func (*Group) schemaNode() {}
func (*Leaf) schemaNode()  {}

// Lookup returns the child declared under key.
func (g *Group) Lookup(key string) (Node, bool) {
	for _, e := range g.Entries {
		if e.Key == key {
			return e.Node, true
		}
	}
	return nil, false
}

// ParseSchema converts a materialized schema tree (a *tree.Map or a
// map[string]any) into its tagged form. Ordered maps keep their declaration
// order; plain maps are traversed in sorted key order.
func ParseSchema(v any) (*Group, error) {
	m, ok := asMapping(v)
	if !ok {
		return nil, invalidNode("", v)
	}
	return parseGroup("", m)
}

func parseGroup(prefix string, m mapping) (*Group, error) {
	keys := m.keys()
	g := &Group{Entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		raw, _ := m.get(k)
		n, err := parseNode(joinPath(prefix, k), raw)
		if err != nil {
			return nil, err
		}
		g.Entries = append(g.Entries, Entry{Key: k, Node: n})
	}
	return g, nil
}

func parseNode(field string, raw any) (Node, error) {
	switch t := raw.(type) {
	case string:
		return &Leaf{Type: t, Constraints: Constraints{}}, nil
	case *Leaf:
		return t, nil
	case *Group:
		return t, nil
	}
	m, ok := asMapping(raw)
	if !ok {
		return nil, invalidNode(field, raw)
	}
	if typ, ok := discriminator(m); ok {
		return parseLeaf(field, typ, m)
	}
	return parseGroup(field, m)
}

// parseLeafNode parses raw as a typed node. A mapping without a
// discriminator is rejected as an unknown type.
func parseLeafNode(field string, raw any) (*Leaf, error) {
	if m, ok := asMapping(raw); ok {
		if _, typed := discriminator(m); !typed {
			return nil, unknownType(field, "")
		}
	}
	n, err := parseNode(field, raw)
	if err != nil {
		return nil, err
	}
	leaf, ok := n.(*Leaf)
	if !ok {
		return nil, unknownType(field, "")
	}
	return leaf, nil
}

func discriminator(m mapping) (string, bool) {
	for _, k := range []string{KeyType, legacyKeyType} {
		if v, ok := m.get(k); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func parseLeaf(field, typ string, m mapping) (*Leaf, error) {
	leaf := &Leaf{Type: typ, Constraints: Constraints{}}
	for _, k := range m.keys() {
		if k == KeyType || k == legacyKeyType {
			continue
		}
		v, _ := m.get(k)
		leaf.Constraints[k] = v
	}
	if raw, ok := leaf.Constraints[KeySubtype]; ok {
		sub, err := parseLeafNode(field+"[]", raw)
		if err != nil {
			return nil, err
		}
		leaf.Subtype = sub
	}
	return leaf, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func invalidNode(field string, v any) *SchemaError {
	return &SchemaError{
		Field:   field,
		Code:    CodeInvalidNode,
		Message: i18n.T(CodeInvalidNode, map[string]string{"node": fmt.Sprintf("%T", v)}),
	}
}

func unknownType(field, typ string) *SchemaError {
	return &SchemaError{
		Field:   field,
		Code:    CodeUnknownType,
		Message: i18n.T(CodeUnknownType, map[string]string{"type": fmt.Sprintf("%q", typ)}),
	}
}
