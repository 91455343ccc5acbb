package confskema

import (
	"strconv"
	"strings"
)

// arrayValidator validates a sequence and each of its elements against the
// subtype validator and the subtype constraints captured at build time.
type arrayValidator struct {
	base
	sub  Validator
	subC Constraints
}

// NewArray returns an array validator. sub should be named after the
// array with a "[]" suffix so element errors can be attributed to their
// index; subC are the constraints every element is checked against.
func NewArray(name string, sub Validator, subC Constraints) Validator {
	if subC == nil {
		subC = Constraints{}
	}
	return &arrayValidator{base: base{name: name, kind: KindArray}, sub: sub, subC: subC}
}

func (a *arrayValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(a.name, v, c); settled {
		return out, err
	}
	items, ok := asSequence(v)
	if !ok {
		return nil, invalidType(a.name, "an array", v)
	}
	lo, ok, err := c.length(a.name, KeyMinLen)
	if err != nil {
		return nil, err
	}
	if ok && len(items) < lo {
		return nil, violation(a.name, CodeTooFewItems, map[string]any{"min": lo, "got": len(items)})
	}
	hi, ok, err := c.length(a.name, KeyMaxLen)
	if err != nil {
		return nil, err
	}
	if ok && len(items) > hi {
		return nil, violation(a.name, CodeTooManyItems, map[string]any{"max": hi, "got": len(items)})
	}
	out := make([]any, len(items))
	for i, it := range items {
		ev, err := a.sub.Validate(it, a.subC)
		if err != nil {
			return nil, a.attribute(i, err)
		}
		out[i] = ev
	}
	return out, nil
}

// attribute rewrites an element error so its field names the element index,
// e.g. ports[] becomes ports[2].
func (a *arrayValidator) attribute(i int, err error) error {
	ve, ok := err.(*ValidationError)
	if !ok {
		return err
	}
	rest := strings.TrimPrefix(ve.Field, a.sub.Name())
	return ve.at(a.name + "[" + strconv.Itoa(i) + "]" + rest)
}
