package gen

import (
	"strconv"
	"strings"

	"github.com/kilnproject/kiln/schema"
)

// emitMain assembles main.py from ordered text chunks: imports, enums,
// sub-structures, models, validators, and the app-setup block. A chunk
// whose generator returns nothing is omitted entirely; chunks are separated
// by two blank lines.
func (g *Generator) emitMain(storage *storagePlan) string {
	var chunks []string
	if g.header != "" {
		chunks = append(chunks, "# "+g.header)
	}
	chunks = append(chunks, strings.Join(g.imports(storage), "\n"))
	for _, m := range g.models {
		for _, e := range m.Enums {
			chunks = append(chunks, enumChunk(e))
		}
	}
	for _, m := range g.models {
		for _, s := range m.SubStructs {
			chunks = append(chunks, g.subStructChunk(m, s))
		}
	}
	for _, m := range g.models {
		chunks = append(chunks, g.modelChunk(m))
	}
	for _, m := range g.models {
		if m.Validator != nil {
			chunks = append(chunks, validatorChunk(m))
		}
	}
	if len(storage.factory) > 0 {
		chunks = append(chunks, strings.Join(storage.factory, "\n"))
	}
	chunks = append(chunks, g.appChunk(storage))
	return strings.Join(chunks, "\n\n\n") + "\n"
}

func enumChunk(e *schema.EnumDef) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(pascal(e.Name))
	b.WriteString("(Enum):")
	if len(e.Values) == 0 {
		b.WriteString("\n    pass")
		return b.String()
	}
	for _, v := range e.Values {
		b.WriteString("\n    ")
		b.WriteString(v.Key)
		b.WriteString(" = ")
		b.WriteString(pyStr(v.Label))
	}
	return b.String()
}

func (g *Generator) subStructChunk(m *Model, s *schema.SubStruct) string {
	var b strings.Builder
	b.WriteString(g.classHeader(pascal(s.Name)))
	body := 0
	if s.Tag != "" {
		// A dunder assignment never participates in constructor ordering.
		b.WriteString("\n    __tag__ = ")
		b.WriteString(pyStr(s.Tag))
		body++
	}
	for _, f := range orderedSubFields(s) {
		b.WriteString("\n    ")
		b.WriteString(m.declaration(f))
		body++
	}
	if body == 0 {
		b.WriteString("\n    pass")
	}
	return b.String()
}

func (g *Generator) modelChunk(m *Model) string {
	if m.Mode == schema.Code {
		return strings.TrimRight(m.Raw, "\n")
	}
	var b strings.Builder
	b.WriteString(g.classHeader(m.ClassName()))
	if len(m.Fields) == 0 {
		b.WriteString("\n    pass")
		return b.String()
	}
	for _, f := range m.OrderedFields() {
		b.WriteString("\n    ")
		b.WriteString(m.declaration(f))
	}
	return b.String()
}

// classHeader renders the declaration opening in the configured style:
// a decorated bare class or a base-class subclass.
func (g *Generator) classHeader(name string) string {
	if g.dataclassStyle() {
		return "@datamodel\nclass " + name + ":"
	}
	return "class " + name + "(Model):"
}

func validatorChunk(m *Model) string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(m.ValidatorName())
	b.WriteString("(Validator):")
	if body := strings.TrimRight(m.Validator.Body, "\n"); body != "" {
		for _, line := range strings.Split(body, "\n") {
			b.WriteString("\n")
			if line != "" {
				b.WriteString("    ")
				b.WriteString(line)
			}
		}
		return b.String()
	}
	b.WriteString("\n    def validate(self, item):")
	b.WriteString("\n        return []")
	return b.String()
}

// appChunk renders the app-setup block in fixed order: storage
// configuration, per-model registration, the commented-out migration
// scaffold, app instantiation, CORS wiring, route registration, and the
// entry-point guard.
func (g *Generator) appChunk(storage *storagePlan) string {
	var segs []string
	segs = append(segs, configCall(storage.expr))

	if len(g.models) > 0 {
		regs := make([]string, 0, len(g.models))
		for _, m := range g.models {
			regs = append(regs, g.registration(m))
		}
		segs = append(segs, strings.Join(regs, "\n"))
	}

	segs = append(segs, strings.Join([]string{
		"# Uncomment after editing models to generate a schema migration:",
		"# from storekit.migrations import run_migrations",
		"# run_migrations()",
	}, "\n"))

	appArgs := []kwarg{{"title", pyStr(g.title())}}
	if g.zonedClock() {
		appArgs = append(appArgs, kwarg{"timezone", "ZoneInfo(" + pyStr(g.state.Timezone) + ")"})
	}
	segs = append(segs, "app = "+renderCall("create_app", appArgs, ""))

	if g.state.CORS {
		segs = append(segs, "enable_cors(app)")
	}

	routes := []string{"mount_routes(app)"}
	if g.state.APISchema {
		routes = append(routes, "mount_schema(app)")
	}
	segs = append(segs, strings.Join(routes, "\n"))

	segs = append(segs, strings.Join([]string{
		`if __name__ == "__main__":`,
		`    uvicorn.run(app, host="0.0.0.0", port=` + strconv.Itoa(g.state.Port) + `)`,
	}, "\n"))

	return strings.Join(segs, "\n\n")
}

// configCall renders the storage configuration call: single-line for zero
// or one short argument, multi-line with trailing commas otherwise.
func configCall(expr string) string {
	switch {
	case expr == "":
		return "configure_storage()"
	case !strings.Contains(expr, "\n") && len(expr) <= 40:
		return "configure_storage(" + expr + ")"
	default:
		return "configure_storage(\n    " + expr + ",\n)"
	}
}

// registration renders one per-model registration call, carrying the schema
// version tag, a validator reference if enabled, and the (name, resolved
// type) pairs of every indexed field.
func (g *Generator) registration(m *Model) string {
	var b strings.Builder
	b.WriteString("register(")
	b.WriteString(m.ClassName())
	if m.Version != "" {
		b.WriteString(", version=")
		b.WriteString(pyStr(m.Version))
	}
	if m.Validator != nil {
		b.WriteString(", validator=")
		b.WriteString(m.ValidatorName())
	}
	if indexed := m.Indexed(); len(indexed) > 0 {
		b.WriteString(", indexes=[")
		for i, f := range indexed {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			b.WriteString(pyStr(m.FieldName(f)))
			b.WriteString(", ")
			b.WriteString(pyStr(m.PyType(f)))
			b.WriteString(")")
		}
		b.WriteString("]")
	}
	b.WriteString(")")
	return b.String()
}
