package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	"github.com/reoring/confskema/tree"
)

// jsonDecoder builds a value tree from the go-json token stream.
type jsonDecoder struct {
	dec  *j.Decoder
	path []string
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &jsonDecoder{dec: dec}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func (d *jsonDecoder) value() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	return d.from(tok)
}

// from decodes the value that starts with tok.
func (d *jsonDecoder) from(tok any) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
		return nil, fmt.Errorf("unexpected %q at %s", rune(v), render(d.path))
	case j.Number:
		return number(string(v))
	case string, bool, nil:
		return v, nil
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("unexpected token %T at %s", tok, render(d.path))
}

func (d *jsonDecoder) object() (any, error) {
	m := tree.New(0)
	for {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		if tok == j.Delim('}') {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key at %s", render(d.path))
		}
		if _, dup := m.Get(key); dup {
			return nil, duplicate(d.path, key)
		}
		d.path = append(d.path, key)
		v, err := d.value()
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
}

func (d *jsonDecoder) array() (any, error) {
	out := []any{}
	for i := 0; ; i++ {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		if tok == j.Delim(']') {
			return out, nil
		}
		d.path = append(d.path, fmt.Sprintf("[%d]", i))
		v, err := d.from(tok)
		d.path = d.path[:len(d.path)-1]
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
