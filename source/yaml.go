package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/reoring/confskema/tree"
)

const mergeTag = "!!merge"

type yamlDecoder struct {
	path []string
}

func decodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}
	d := &yamlDecoder{}
	return d.node(doc.Content[0])
}

func (d *yamlDecoder) node(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		return d.node(n.Alias)
	case yaml.MappingNode:
		return d.mapping(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			d.path = append(d.path, fmt.Sprintf("[%d]", i))
			v, err := d.node(c)
			d.path = d.path[:len(d.path)-1]
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if i, ok := v.(int); ok {
			return int64(i), nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
}

// mapping decodes a mapping node. Merge keys (<<) contribute entries that
// the mapping does not declare itself.
func (d *yamlDecoder) mapping(n *yaml.Node) (*tree.Map, error) {
	m := tree.New(len(n.Content) / 2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == mergeTag {
			merges = append(merges, v)
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: non-scalar key at %s", k.Line, render(d.path))
		}
		key := k.Value
		if _, dup := m.Get(key); dup {
			return nil, fmt.Errorf("line %d: %w", k.Line, duplicate(d.path, key))
		}
		d.path = append(d.path, key)
		val, err := d.node(v)
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	for _, src := range merges {
		if err := d.merge(m, src); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *yamlDecoder) merge(dst *tree.Map, src *yaml.Node) error {
	if src.Kind == yaml.SequenceNode {
		for _, c := range src.Content {
			if err := d.merge(dst, c); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := d.node(src)
	if err != nil {
		return err
	}
	sm, ok := v.(*tree.Map)
	if !ok {
		return fmt.Errorf("line %d: merge value is not a mapping", src.Line)
	}
	sm.Range(func(k string, v any) bool {
		if _, exists := dst.Get(k); !exists {
			dst.Set(k, v)
		}
		return true
	})
	return nil
}
