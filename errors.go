package confskema

import (
	"errors"
	"fmt"
)

// Validation error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooFewItems   = "too_few_items"
	CodeTooManyItems  = "too_many_items"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	// Filesystem checks
	CodeNotExist = "not_exist"
	CodeNotFile  = "not_file"
	CodeNotDir   = "not_dir"
)

// Schema error codes
const (
	CodeUnknownType       = "unknown_type"
	CodeMissingConstraint = "missing_constraint"
	CodeInvalidConstraint = "invalid_constraint"
	CodeMissingKey        = "missing_key"
	CodeInvalidNode       = "invalid_node"
)

// ValidationError reports a configuration value that violates a declared or
// intrinsic constraint.
type ValidationError struct {
	Field   string // Dotted field path (for example: server.tls.cert or ports[2]).
	Code    string // One of the validation codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// at returns a copy of e attributed to field.
func (e *ValidationError) at(field string) *ValidationError {
	cp := *e
	cp.Field = field
	return &cp
}

// SchemaError reports a malformed schema. It is raised while building
// validators, before any configuration value is examined, whenever the
// problem is detectable from the schema alone.
type SchemaError struct {
	Field   string
	Code    string // One of the schema codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema: " + e.Message
	}
	return fmt.Sprintf("schema: %s: %s", e.Field, e.Message)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsSchemaError extracts a *SchemaError using errors.As internally.
func AsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if err != nil && errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
