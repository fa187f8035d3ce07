package gen

import (
	"github.com/kilnproject/kiln/compiler/load"
	"github.com/kilnproject/kiln/schema"
)

type (
	// Generator compiles one wizard state into project artifacts. It is
	// constructed per invocation and holds no shared mutable state, so
	// concurrent generations with different states are fully independent.
	Generator struct {
		state  *load.State
		models []*Model

		// Header is an optional comment placed at the top of main.py.
		header string
		// Version of the generated project, defaults to "0.1.0".
		version string
	}

	// Model wraps one resolved model definition with the generator context
	// it was loaded into.
	Model struct {
		*schema.Model
		gen *Generator
	}
)

// New creates a generator for the given state. The state is defaulted and
// treated as an immutable snapshot from here on.
func New(state *load.State, opts ...Option) (*Generator, error) {
	if state == nil {
		return nil, NewConfigError("State", nil, "nil wizard state")
	}
	g := &Generator{
		state:   state.Defaulted(),
		version: "0.1.0",
	}
	for _, m := range g.state.Models {
		g.models = append(g.models, &Model{Model: m.Definition(), gen: g})
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Models returns the resolved models in declaration order.
func (g *Generator) Models() []*Model { return g.models }

// alternateEncoding reports whether the non-default payload encoding is
// selected.
func (g *Generator) alternateEncoding() bool {
	return g.state.Encoding == "msgpack"
}

// zonedClock reports whether a non-UTC default-clock policy is configured.
func (g *Generator) zonedClock() bool {
	return g.state.Timezone != "" && g.state.Timezone != "UTC"
}

// dataclassStyle reports whether models are declared in the decorator style
// rather than the base-class style.
func (g *Generator) dataclassStyle() bool {
	return g.state.ModelStyle == "dataclass"
}

// ClassName returns the emitted class name of the model.
func (m *Model) ClassName() string { return pascal(m.Name) }

// ValidatorName returns the emitted validator class name.
func (m *Model) ValidatorName() string { return m.ClassName() + "Validator" }

// Route returns the pluralized route segment of the model.
func (m *Model) Route() string { return plural(m.Name) }

// FieldName returns the emitted name of the field under the configured
// naming convention.
func (m *Model) FieldName(f *schema.Field) string {
	if m.gen.state.Naming == "camel" {
		return camel(f.Name)
	}
	return snake(f.Name)
}

// OrderedFields returns the model's fields in emission order: every field
// without a default or optional marker precedes every field with one, and
// relative order is preserved within each partition. The target struct
// syntax requires this ordering.
func (m *Model) OrderedFields() []*schema.Field {
	ordered := make([]*schema.Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if !f.HasDefault() {
			ordered = append(ordered, f)
		}
	}
	for _, f := range m.Fields {
		if f.HasDefault() {
			ordered = append(ordered, f)
		}
	}
	return ordered
}

// orderedSubFields applies the same partition to a sub-structure.
func orderedSubFields(s *schema.SubStruct) []*schema.Field {
	ordered := make([]*schema.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.HasDefault() {
			ordered = append(ordered, f)
		}
	}
	for _, f := range s.Fields {
		if f.HasDefault() {
			ordered = append(ordered, f)
		}
	}
	return ordered
}
