package confskema

// Kind identifies a validator family.
type Kind int

const (
	KindInvalid Kind = iota
	KindBoolean
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat
	KindDouble
	KindString
	KindRegex
	KindEmail
	KindVersion
	KindURI
	KindFile
	KindDirectory
	KindArray
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindBoolean:   "bool",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint8:     "uint8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat:     "float",
	KindDouble:    "double",
	KindString:    "string",
	KindRegex:     "regex",
	KindEmail:     "email",
	KindVersion:   "version",
	KindURI:       "uri",
	KindFile:      "file",
	KindDirectory: "directory",
	KindArray:     "array",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// aliases maps every recognized type name to its Kind.
var aliases = map[string]Kind{
	"float": KindFloat, "float32": KindFloat,
	"double": KindDouble, "float64": KindDouble,
	"str": KindString, "string": KindString,
	"int8": KindInt8, "char": KindInt8,
	"int16": KindInt16, "short": KindInt16,
	"int32": KindInt32, "int": KindInt32, "long": KindInt32,
	"int64": KindInt64, "long long": KindInt64,
	"uint8": KindUint8, "unsigned char": KindUint8, "byte": KindUint8,
	"uint16": KindUint16, "unsigned short": KindUint16,
	"uint32": KindUint32, "unsigned int": KindUint32, "unsigned long": KindUint32,
	"uint64": KindUint64, "unsigned long long": KindUint64,
	"bool": KindBoolean, "boolean": KindBoolean,
	"email":   KindEmail,
	"regex":   KindRegex,
	"version": KindVersion,
	"uri":     KindURI,
	"file":    KindFile,
	"directory": KindDirectory, "dir": KindDirectory,
	"array": KindArray, "arr": KindArray,
}

// LookupKind resolves a schema type name (or one of its aliases).
func LookupKind(typ string) (Kind, bool) {
	k, ok := aliases[typ]
	return k, ok
}

type constructor func(name string, leaf *Leaf) (Validator, error)

func simple(fn func(string) Validator) constructor {
	return func(name string, _ *Leaf) (Validator, error) { return fn(name), nil }
}

// constructors builds the leaf kinds. KindArray is handled by Build because
// it recurses into the subtype.
var constructors = map[Kind]constructor{
	KindBoolean:   simple(NewBoolean),
	KindInt8:      simple(NewInt8),
	KindInt16:     simple(NewInt16),
	KindInt32:     simple(NewInt32),
	KindInt64:     simple(NewInt64),
	KindUint8:     simple(NewUint8),
	KindUint16:    simple(NewUint16),
	KindUint32:    simple(NewUint32),
	KindUint64:    simple(NewUint64),
	KindFloat:     simple(NewFloat),
	KindDouble:    simple(NewDouble),
	KindString:    simple(NewString),
	KindEmail:     simple(NewEmail),
	KindFile:      simple(NewFile),
	KindDirectory: simple(NewDirectory),
	KindRegex:     regexConstructor(KindRegex, ""),
	KindVersion:   regexConstructor(KindVersion, PatternVersion),
	KindURI:       regexConstructor(KindURI, PatternURI),
}

func regexConstructor(k Kind, builtin string) constructor {
	return func(name string, leaf *Leaf) (Validator, error) {
		r, err := newRegex(name, k, builtin, leaf.Constraints)
		if err != nil {
			return nil, err
		}
		if r.builtin == nil && r.declared == nil {
			return nil, missingConstraint(name, KeyRegex)
		}
		return r, nil
	}
}

// Build instantiates the validator for a parsed leaf. Unknown types and
// malformed constraints fail here, before any value is validated.
func Build(name string, leaf *Leaf) (Validator, error) {
	if leaf == nil {
		return nil, unknownType(name, "")
	}
	k, ok := LookupKind(leaf.Type)
	if !ok {
		return nil, unknownType(name, leaf.Type)
	}
	if err := checkConstraints(name, k, leaf.Constraints); err != nil {
		return nil, err
	}
	if k == KindArray {
		if leaf.Subtype == nil {
			return nil, missingConstraint(name, KeySubtype)
		}
		sub, err := Build(name+"[]", leaf.Subtype)
		if err != nil {
			return nil, err
		}
		return NewArray(name, sub, leaf.Subtype.Constraints), nil
	}
	return constructors[k](name, leaf)
}

// BuildValidator instantiates the validator for a raw schema node: a bare
// type name or a mapping with a type discriminator.
func BuildValidator(name string, node any) (Validator, error) {
	leaf, err := parseLeafNode(name, node)
	if err != nil {
		return nil, err
	}
	return Build(name, leaf)
}

// checkConstraints verifies that the constraints a kind reads have usable
// types, so that malformed schemas are rejected at build time.
func checkConstraints(name string, k Kind, c Constraints) error {
	var err error
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat, KindDouble:
		b := intrinsic[k]
		_, _, err = effectiveBounds(name, b[0], b[1], c)
	case KindString, KindRegex, KindVersion, KindURI:
		if _, _, err = c.length(name, KeyMin); err == nil {
			_, _, err = c.length(name, KeyMax)
		}
	case KindArray:
		if _, _, err = c.length(name, KeyMinLen); err == nil {
			_, _, err = c.length(name, KeyMaxLen)
		}
	case KindFile:
		if _, err = c.flag(name, KeyExists, true); err == nil {
			_, err = c.flag(name, KeyIsFile, true)
		}
	case KindDirectory:
		if _, err = c.flag(name, KeyExists, true); err == nil {
			_, err = c.flag(name, KeyIsDir, true)
		}
	}
	return err
}
