package schema

// A FieldType is one kind from the closed set of field kinds. The set is
// sealed: the generator matches exhaustively over these variants and every
// variant resolves to exactly one type-annotation string.
type FieldType interface {
	fieldType()
}

// ScalarKind enumerates the primitive scalar kinds.
type ScalarKind string

// Primitive scalar kinds.
const (
	String ScalarKind = "str"
	Int    ScalarKind = "int"
	Float  ScalarKind = "float"
	Bool   ScalarKind = "bool"
)

// DeletePolicy controls what happens to a reference when its target is
// deleted. The zero value, Dangling, is the default and is omitted from the
// emitted annotation entirely.
type DeletePolicy string

// Delete policies for reference fields.
const (
	Dangling DeletePolicy = ""
	Cascade  DeletePolicy = "CASCADE"
	Restrict DeletePolicy = "RESTRICT"
	Nullify  DeletePolicy = "NULLIFY"
)

type (
	// Scalar is a primitive scalar field kind.
	Scalar struct {
		Kind ScalarKind
	}

	// DateTime is a timestamp field kind.
	DateTime struct{}

	// Binary is a binary-content field kind. Binary content is never
	// required; the resolver always wraps it in Optional regardless of the
	// field's own optional flag.
	Binary struct{}

	// Ref is a reference to another model, optionally carrying a delete
	// policy. A Dangling policy omits the policy token from the annotation.
	Ref struct {
		Target   string
		OnDelete DeletePolicy
	}

	// RevisionRef is a reference to a specific revision of another model.
	// Optionality is expressed inside the annotation rather than through
	// the generic Optional wrapper.
	RevisionRef struct {
		Target string
	}

	// Mapping is a key/value mapping kind. When either type name is empty
	// the resolver emits the bare mapping type.
	Mapping struct {
		Key   string
		Value string
	}

	// Struct refers to a declared sub-structure by name. An undeclared name
	// falls back to a generic string type (non-fatal).
	Struct struct {
		Name string
	}

	// Union is a union of declared member type names. An empty member list
	// falls back to a generic string type.
	Union struct {
		Members []string
	}

	// Enum is resolved to the capitalized field name as a stand-in type
	// reference. No cross-check confirms a matching enum declaration exists.
	Enum struct{}
)

func (Scalar) fieldType()      {}
func (DateTime) fieldType()    {}
func (Binary) fieldType()      {}
func (Ref) fieldType()         {}
func (RevisionRef) fieldType() {}
func (Mapping) fieldType()     {}
func (Struct) fieldType()      {}
func (Union) fieldType()       {}
func (Enum) fieldType()        {}

// Field describes one field of a model or sub-structure.
type Field struct {
	// Name of the field as entered in the wizard.
	Name string
	// Type is the field kind. A nil Type resolves to a generic string.
	Type FieldType
	// Optional marks the field optional on create.
	Optional bool
	// List marks the field list-valued.
	List bool
	// Default holds a verbatim default-value expression, empty if none.
	Default string
	// DisplayName marks the field as the human-facing name of its model.
	// Only plain string fields receive the display-name annotation.
	DisplayName bool
	// Indexed marks the field searchable; it is carried into the model's
	// registration call with its resolved type.
	Indexed bool
}

// HasDefault reports whether the field declaration carries a trailing
// default, either an explicit expression or the implicit None of an
// optional field.
func (f *Field) HasDefault() bool {
	return f.Default != "" || f.Optional
}
