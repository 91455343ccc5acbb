package confskema

import "os"

// pathValidator checks filesystem paths. Lookups happen on every call; no
// result is cached.
type pathValidator struct {
	base
	kindKey string // isfile or isdir
}

// NewFile returns a validator for paths that must name an existing regular
// file. The node may disable the checks with exists=false or isfile=false.
func NewFile(name string) Validator {
	return &pathValidator{base: base{name: name, kind: KindFile}, kindKey: KeyIsFile}
}

// NewDirectory returns a validator for paths that must name an existing
// directory. The node may disable the checks with exists=false or
// isdir=false.
func NewDirectory(name string) Validator {
	return &pathValidator{base: base{name: name, kind: KindDirectory}, kindKey: KeyIsDir}
}

func (p *pathValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(p.name, v, c); settled {
		return out, err
	}
	path, ok := v.(string)
	if !ok {
		return nil, invalidType(p.name, "a path string", v)
	}
	exists, err := c.flag(p.name, KeyExists, true)
	if err != nil {
		return nil, err
	}
	checkKind, err := c.flag(p.name, p.kindKey, true)
	if err != nil {
		return nil, err
	}
	if exists {
		if _, err := os.Stat(path); err != nil {
			return nil, violation(p.name, CodeNotExist, map[string]any{"path": path})
		}
	}
	if checkKind {
		st, err := os.Stat(path)
		switch {
		case p.kind == KindDirectory && (err != nil || !st.IsDir()):
			return nil, violation(p.name, CodeNotDir, map[string]any{"path": path})
		case p.kind == KindFile && (err != nil || !st.Mode().IsRegular()):
			return nil, violation(p.name, CodeNotFile, map[string]any{"path": path})
		}
	}
	return v, nil
}
