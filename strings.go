package confskema

import (
	"regexp"
	"unicode/utf8"
)

// Built-in patterns.
const (
	// PatternVersion matches major.minor.patch.
	PatternVersion = `^(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)$`
	// PatternURI is the generic URI decomposition of RFC 2396 appendix B.
	// Groups: scheme=2, authority=4, path=5, query=7, fragment=9.
	PatternURI = `^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?$`
	// PatternEmail matches local@domain.tld without any DNS lookup.
	PatternEmail = `^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`
)

var emailRe = regexp.MustCompile(PatternEmail)

// checkString enforces the string type and the inclusive min/max length
// constraints, counted in characters.
func checkString(field string, v any, c Constraints) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalidType(field, "a string", v)
	}
	n := utf8.RuneCountInString(s)
	lo, ok, err := c.length(field, KeyMin)
	if err != nil {
		return "", err
	}
	if ok && n < lo {
		return "", violation(field, CodeTooShort, map[string]any{"min": lo, "got": n})
	}
	hi, ok, err := c.length(field, KeyMax)
	if err != nil {
		return "", err
	}
	if ok && n > hi {
		return "", violation(field, CodeTooLong, map[string]any{"max": hi, "got": n})
	}
	return s, nil
}

type stringValidator struct{ base }

// NewString returns a validator for strings with optional length bounds.
func NewString(name string) Validator {
	return &stringValidator{base{name: name, kind: KindString}}
}

func (s *stringValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(s.name, v, c); settled {
		return out, err
	}
	if _, err := checkString(s.name, v, c); err != nil {
		return nil, err
	}
	return v, nil
}

// regexValidator matches strings from their start: a pattern without a
// trailing $ only has to match a prefix.
type regexValidator struct {
	base
	builtin    *regexp.Regexp
	builtinSrc string
	// declared caches the compiled form of the schema's regex constraint,
	// captured when the validator was built.
	declared    *regexp.Regexp
	declaredSrc string
}

// NewRegex returns a validator that applies string checks and then requires
// a match against the node's regex constraint, falling back to pattern. An
// empty pattern means there is no built-in; validating against a node
// without a regex then fails.
func NewRegex(name, pattern string) (Validator, error) {
	r, err := newRegex(name, KindRegex, pattern, nil)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewVersion returns a validator for major.minor.patch version strings.
func NewVersion(name string) Validator {
	v, _ := newRegex(name, KindVersion, PatternVersion, nil)
	return v
}

// NewURI returns a validator that checks the generic URI structure.
func NewURI(name string) Validator {
	v, _ := newRegex(name, KindURI, PatternURI, nil)
	return v
}

func newRegex(name string, k Kind, pattern string, c Constraints) (*regexValidator, error) {
	r := &regexValidator{base: base{name: name, kind: k}}
	if pattern != "" {
		re, err := compileAnchored(pattern)
		if err != nil {
			return nil, invalidConstraint(name, KeyRegex, "does not compile", err)
		}
		r.builtin, r.builtinSrc = re, pattern
	}
	src, ok, err := c.text(name, KeyRegex)
	if err != nil {
		return nil, err
	}
	if ok {
		re, err := compileAnchored(src)
		if err != nil {
			return nil, invalidConstraint(name, KeyRegex, "does not compile", err)
		}
		r.declared, r.declaredSrc = re, src
	}
	return r, nil
}

func compileAnchored(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + p + `)`)
}

func (r *regexValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(r.name, v, c); settled {
		return out, err
	}
	s, err := checkString(r.name, v, c)
	if err != nil {
		return nil, err
	}
	re, src, err := r.pattern(c)
	if err != nil {
		return nil, err
	}
	if !re.MatchString(s) {
		return nil, violation(r.name, CodePattern, map[string]any{"pattern": src, "got": s})
	}
	return v, nil
}

// pattern resolves the node's regex, then the built-in one.
func (r *regexValidator) pattern(c Constraints) (*regexp.Regexp, string, error) {
	src, ok, err := c.text(r.name, KeyRegex)
	if err != nil {
		return nil, "", err
	}
	switch {
	case ok && r.declared != nil && src == r.declaredSrc:
		return r.declared, src, nil
	case ok:
		re, err := compileAnchored(src)
		if err != nil {
			return nil, "", invalidConstraint(r.name, KeyRegex, "does not compile", err)
		}
		return re, src, nil
	case r.builtin != nil:
		return r.builtin, r.builtinSrc, nil
	}
	return nil, "", missingConstraint(r.name, KeyRegex)
}

type emailValidator struct{ base }

// NewEmail returns a validator for e-mail addresses (syntax only).
func NewEmail(name string) Validator {
	return &emailValidator{base{name: name, kind: KindEmail}}
}

func (e *emailValidator) Validate(v any, c Constraints) (any, error) {
	if out, settled, err := resolve(e.name, v, c); settled {
		return out, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, invalidType(e.name, "a string", v)
	}
	if !emailRe.MatchString(s) {
		return nil, violation(e.name, CodeInvalidFormat, map[string]any{"format": "email address", "got": s})
	}
	return v, nil
}
