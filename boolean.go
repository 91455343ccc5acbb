package confskema

type booleanValidator struct{ base }

// NewBoolean returns a validator that accepts only boolean values; numbers
// and strings such as 1 or "true" are rejected.
func NewBoolean(name string) Validator {
	return &booleanValidator{base{name: name, kind: KindBoolean}}
}

func (b *booleanValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(b.name, v, c); settled {
		return out, err
	}
	if _, ok := v.(bool); !ok {
		return nil, invalidType(b.name, "a boolean", v)
	}
	return v, nil
}
