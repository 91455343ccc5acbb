package confskema

import (
	"encoding/json"
	"strings"

	js "github.com/reoring/confskema/jsonschema"
)

// JSONSchema projects the compiled schema onto JSON Schema. Numeric leaves
// carry their effective bounds. Leaves without a default are required, and
// so is every group that contains a required leaf. Undeclared keys are
// allowed, mirroring Check.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	out, _, err := groupSchema(s.entries)
	if err != nil {
		return nil, err
	}
	out.Dialect = js.Draft
	return out, nil
}

func groupSchema(entries []compiled) (*js.Schema, bool, error) {
	out := &js.Schema{
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(entries)),
		AdditionalProperties: true,
	}
	for _, e := range entries {
		var (
			ps       *js.Schema
			required bool
			err      error
		)
		if e.v == nil {
			ps, required, err = groupSchema(e.group)
		} else {
			ps, err = leafSchema(e.v, e.c)
			_, hasDefault := e.c.Default()
			required = !hasDefault
		}
		if err != nil {
			return nil, false, err
		}
		out.Properties[e.key] = ps
		if required {
			out.Required = append(out.Required, e.key)
		}
	}
	return out, len(out.Required) > 0, nil
}

func leafSchema(v Validator, c Constraints) (*js.Schema, error) {
	out := &js.Schema{}
	if d, ok := c.Default(); ok {
		out.Default = cloneValue(d)
	}
	switch t := v.(type) {
	case *booleanValidator:
		out.Type = "boolean"
	case *numberValidator:
		out.Type = "number"
		lo, hi, err := t.bounds(c)
		if err != nil {
			return nil, err
		}
		if lo != nil {
			n := json.Number(formatNumber(lo))
			out.Minimum = &n
		}
		if hi != nil {
			n := json.Number(formatNumber(hi))
			out.Maximum = &n
		}
	case *stringValidator:
		if err := stringBounds(out, t.name, c); err != nil {
			return nil, err
		}
	case *regexValidator:
		if err := stringBounds(out, t.name, c); err != nil {
			return nil, err
		}
		_, src, err := t.pattern(c)
		if err != nil {
			return nil, err
		}
		out.Pattern = ecmaPattern(src)
		if t.kind == KindURI {
			out.Format = "uri-reference"
		}
	case *emailValidator:
		out.Type = "string"
		out.Format = "email"
	case *pathValidator:
		out.Type = "string"
	case *arrayValidator:
		out.Type = "array"
		items, err := leafSchema(t.sub, t.subC)
		if err != nil {
			return nil, err
		}
		out.Items = items
		if n, ok, err := c.length(t.name, KeyMinLen); err != nil {
			return nil, err
		} else if ok {
			out.MinItems = &n
		}
		if n, ok, err := c.length(t.name, KeyMaxLen); err != nil {
			return nil, err
		} else if ok {
			out.MaxItems = &n
		}
	}
	return out, nil
}

func stringBounds(out *js.Schema, field string, c Constraints) error {
	out.Type = "string"
	if n, ok, err := c.length(field, KeyMin); err != nil {
		return err
	} else if ok {
		out.MinLength = &n
	}
	if n, ok, err := c.length(field, KeyMax); err != nil {
		return err
	} else if ok {
		out.MaxLength = &n
	}
	return nil
}

// ecmaPattern rewrites a declared pattern for JSON Schema consumers. Patterns
// match from the start of the value, so an unanchored source gets a leading
// anchor, and Go's (?P<name> groups become the ECMA-262 (?<name> form.
func ecmaPattern(src string) string {
	if !strings.HasPrefix(src, "^") {
		src = "^(?:" + src + ")"
	}
	return strings.ReplaceAll(src, "(?P<", "(?<")
}
