package confskema

import (
	"fmt"
	"math/big"

	"github.com/reoring/confskema/i18n"
)

// Constraints holds the constraint fields of a schema leaf, keyed by name
// (min, max, default, regex, ...). The discriminator is not included.
type Constraints map[string]any

// Default returns the declared default value.
func (c Constraints) Default() (any, bool) {
	v, ok := c[KeyDefault]
	return v, ok
}

// number reads a numeric constraint.
func (c Constraints) number(field, key string) (*big.Float, bool, error) {
	raw, ok := c[key]
	if !ok {
		return nil, false, nil
	}
	f, isNum := toNumber(raw)
	if !isNum || f == nil {
		return nil, false, invalidConstraint(field, key, "must be a number", nil)
	}
	return f, true, nil
}

// length reads a non-negative integer constraint.
func (c Constraints) length(field, key string) (int, bool, error) {
	raw, ok := c[key]
	if !ok {
		return 0, false, nil
	}
	f, isNum := toNumber(raw)
	if !isNum || f == nil || !f.IsInt() || f.Sign() < 0 {
		return 0, false, invalidConstraint(field, key, "must be a non-negative integer", nil)
	}
	n, acc := f.Int64()
	if acc != big.Exact || n > int64(^uint(0)>>1) {
		return 0, false, invalidConstraint(field, key, "out of range", nil)
	}
	return int(n), true, nil
}

// flag reads a boolean constraint, returning def when absent.
func (c Constraints) flag(field, key string, def bool) (bool, error) {
	raw, ok := c[key]
	if !ok {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, invalidConstraint(field, key, "must be a boolean", nil)
	}
	return b, nil
}

// text reads a string constraint.
func (c Constraints) text(field, key string) (string, bool, error) {
	raw, ok := c[key]
	if !ok {
		return "", false, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", false, invalidConstraint(field, key, "must be a string", nil)
	}
	return s, true, nil
}

func invalidConstraint(field, key, reason string, cause error) *SchemaError {
	if cause != nil {
		reason = fmt.Sprintf("%s: %v", reason, cause)
	}
	return &SchemaError{
		Field:   field,
		Code:    CodeInvalidConstraint,
		Message: i18n.T(CodeInvalidConstraint, map[string]string{"constraint": key, "reason": reason}),
		Cause:   cause,
	}
}

func missingConstraint(field, key string) *SchemaError {
	return &SchemaError{
		Field:   field,
		Code:    CodeMissingConstraint,
		Message: i18n.T(CodeMissingConstraint, map[string]string{"constraint": key}),
	}
}
