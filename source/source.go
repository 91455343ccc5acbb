// Package source loads configuration and schema files into ordered value
// trees. Mappings become *tree.Map so the declaration order survives
// decoding; sequences become []any. Duplicate keys are rejected in every
// format.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reoring/confskema/tree"
)

// Format identifies a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

var (
	// ErrUnsupportedFormat is returned for unknown formats and extensions.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrDuplicateKey is returned when a mapping declares a key twice.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNotMapping is returned when the document root is not a mapping.
	ErrNotMapping = errors.New("document root is not a mapping")
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("source: %s: %w", path, ErrUnsupportedFormat)
}

// LoadFile reads and decodes path, choosing the format by extension.
func LoadFile(path string) (*tree.Map, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	m, err := Load(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Load decodes data in the given format. The document root must be a
// mapping; an empty document yields an empty map.
func Load(data []byte, f Format) (*tree.Map, error) {
	var (
		v   any
		err error
	)
	switch f {
	case JSON:
		v, err = decodeJSON(data)
	case YAML:
		v, err = decodeYAML(data)
	case TOML:
		v, err = decodeTOML(data)
	default:
		return nil, fmt.Errorf("source: %q: %w", f, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("source: %s: %w", f, err)
	}
	switch t := v.(type) {
	case nil:
		return tree.New(0), nil
	case *tree.Map:
		return t, nil
	}
	return nil, fmt.Errorf("source: %s: %w", f, ErrNotMapping)
}

func duplicate(path []string, key string) error {
	return fmt.Errorf("%w %q at %s", ErrDuplicateKey, key, render(path))
}

func render(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	return strings.Join(path, ".")
}

// number converts a decimal literal into int64, uint64 or float64, in that
// order of preference, so integers keep their exact value.
func number(lit string) (any, error) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return i, nil
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return u, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return f, nil
}
