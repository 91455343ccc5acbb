// Package confskema validates configuration trees against declarative schemas.
//
// A schema is a nested mapping. Entries carrying a "type" discriminator (or a
// bare type name such as "int32") are leaves; entries without one are groups
// that nest further entries:
//
//	[server]
//	port = { type = "uint16", min = 1024, default = 8080 }
//	host = "string"
//	tags = { type = "array", subtype = "str", maxlen = 8 }
//
// Design policy:
// - Keep only public APIs in the root package; loaders live under source/,
//   message catalogs under i18n/, and the CLI under cmd/confskema.
// - Schemas are compiled once; a compiled *Schema holds no per-call state and
//   may be shared by concurrent Check calls.
// - Validation is fail-fast: the first violation aborts the walk and is
//   returned as a *ValidationError carrying the dotted field path.
// - Malformed schemas surface as *SchemaError at build time.
//
// Typical usage:
//
//	root, err := confskema.ParseSchema(schemaTree)
//	s, err := confskema.Compile(root)
//	cfg, err := s.Check(configTree)
//
// One-shot helpers ValidateTree, ValidateValue, ValidateKey and BuildValidator
// wrap the same machinery.
package confskema
