package schema

// InputMode states how a model's fields were described in the wizard.
type InputMode string

// Input modes.
const (
	// Form mode carries a structured field list.
	Form InputMode = "form"
	// Code mode carries a raw free-text body pasted by the user.
	Code InputMode = "code"
)

type (
	// Model describes one model of the generated project.
	Model struct {
		// Name of the model (PascalCase in the emitted source).
		Name string
		// Version is the schema version tag carried into registration.
		Version string
		// Mode selects between the structured field list and the raw body.
		Mode InputMode
		// Fields holds the structured field list (form mode).
		Fields []*Field
		// Raw holds the free-text declaration body (code mode). It is
		// emitted verbatim; import detection falls back to a token scan.
		Raw string
		// Enums declared alongside the model.
		Enums []*EnumDef
		// SubStructs declared alongside the model.
		SubStructs []*SubStruct
		// Validator configuration, nil when disabled.
		Validator *Validator
	}

	// EnumDef is a named enum with ordered (key, label) pairs.
	EnumDef struct {
		Name   string
		Values []EnumValue
	}

	// EnumValue is one (key, label) pair of an enum.
	EnumValue struct {
		Key   string
		Label string
	}

	// SubStruct is a nested structure declaration with the same field shape
	// as a model.
	SubStruct struct {
		Name string
		// Tag is an optional discriminator token emitted as a dunder class
		// attribute so it never participates in constructor ordering.
		Tag    string
		Fields []*Field
	}

	// Validator toggles validation for a model. An empty Body emits the
	// default stub implementation.
	Validator struct {
		Body string
	}
)

// SubStruct returns the declared sub-structure with the given name, or nil.
func (m *Model) SubStruct(name string) *SubStruct {
	for _, s := range m.SubStructs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Indexed returns the fields flagged searchable, in declaration order.
func (m *Model) Indexed() []*Field {
	var fields []*Field
	for _, f := range m.Fields {
		if f.Indexed {
			fields = append(fields, f)
		}
	}
	return fields
}
