package confskema

import (
	"fmt"

	"github.com/reoring/confskema/i18n"
)

// Validator checks one configuration value against a schema leaf.
//
// Implementations are bound to a field name at construction and hold no
// per-call state, so a single instance may be shared across goroutines.
type Validator interface {
	// Name returns the dotted field path used in error messages.
	Name() string
	// Kind reports which validator family this is.
	Kind() Kind
	// Validate returns the validated value (or the declared default when v
	// is absent). A nil v is the absent sentinel.
	Validate(v any, c Constraints) (any, error)
}

type base struct {
	name string
	kind Kind
}

func (b base) Name() string { return b.name }
func (b base) Kind() Kind    { return b.kind }

// resolve applies the default-resolution step shared by every validator.
// When settled is true the caller must return (out, err) without further
// checks: either the declared default was substituted or the field is
// missing. Defaults are trusted and not re-validated.
func resolve(field string, v any, c Constraints) (out any, settled bool, err error) {
	if v != nil {
		return v, false, nil
	}
	if d, ok := c.Default(); ok {
		return cloneValue(d), true, nil
	}
	return nil, true, missingField(field)
}

func missingField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    CodeRequired,
		Message: i18n.T(CodeRequired, map[string]string{"field": field}),
	}
}

// violation builds a ValidationError whose message is rendered from params.
func violation(field, code string, params map[string]any) *ValidationError {
	data := make(map[string]string, len(params))
	for k, v := range params {
		data[k] = fmt.Sprint(v)
	}
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: i18n.T(code, data),
		Params:  params,
	}
}

func invalidType(field, expected string, got any) *ValidationError {
	return violation(field, CodeInvalidType, map[string]any{"expected": expected, "got": fmt.Sprintf("%T", got)})
}
