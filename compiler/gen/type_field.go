package gen

import (
	"github.com/kilnproject/kiln/compiler/gen/pytype"
	"github.com/kilnproject/kiln/schema"
)

// PyType resolves a field to exactly one type-annotation string. No branch
// fails: undeclared sub-structures, empty unions, and unknown kinds all
// degrade to a generic string type.
//
// Wrapping composition is fixed: base kind, then the display-name annotation
// for plain strings, then list, then Optional outermost. Kinds whose
// annotation is self-contained (binary, reference, revision reference) never
// receive the external Optional wrap; list wrapping still applies to them.
func (m *Model) PyType(f *schema.Field) string {
	return m.pyExpr(f).String()
}

func (m *Model) pyExpr(f *schema.Field) pytype.Expr {
	base, contained := m.baseExpr(f)
	if f.List {
		base = pytype.ListOf(base)
	}
	if f.Optional && !contained {
		base = pytype.OptionalOf(base)
	}
	return base
}

// baseExpr resolves the field kind to its base annotation and reports
// whether that annotation already internalizes optionality.
func (m *Model) baseExpr(f *schema.Field) (pytype.Expr, bool) {
	switch t := f.Type.(type) {
	case schema.Scalar:
		expr := pytype.Expr(pytype.Name(t.Kind))
		if t.Kind == schema.String && f.DisplayName {
			expr = pytype.AnnotatedWith(expr, pytype.Name("DisplayName"))
		}
		return expr, false
	case schema.DateTime:
		return pytype.Name("datetime"), false
	case schema.Binary:
		// Binary content is never required, regardless of the field's own
		// optional flag.
		return pytype.OptionalOf(pytype.Name("Binary")), true
	case schema.Ref:
		if t.Target == "" {
			return pytype.Name("str"), false
		}
		args := []pytype.Expr{pytype.Str(t.Target)}
		if t.OnDelete != schema.Dangling {
			args = append(args, pytype.Attr{Base: pytype.Name("OnDelete"), Name: string(t.OnDelete)})
		}
		return pytype.Subscript{Base: pytype.Name("Ref"), Args: args}, true
	case schema.RevisionRef:
		if t.Target == "" {
			return pytype.Name("str"), false
		}
		inner := pytype.Expr(pytype.Str(t.Target))
		if f.Optional {
			inner = pytype.OptionalOf(inner)
		}
		return pytype.Subscript{Base: pytype.Name("RevisionRef"), Args: []pytype.Expr{inner}}, true
	case schema.Mapping:
		if t.Key != "" && t.Value != "" {
			return pytype.Subscript{
				Base: pytype.Name("dict"),
				Args: []pytype.Expr{pytype.Name(t.Key), pytype.Name(t.Value)},
			}, false
		}
		return pytype.Name("dict"), false
	case schema.Struct:
		if t.Name != "" && m.SubStruct(t.Name) != nil {
			return pytype.Name(pascal(t.Name)), false
		}
		return pytype.Name("str"), false
	case schema.Union:
		if len(t.Members) == 0 {
			return pytype.Name("str"), false
		}
		members := make([]pytype.Expr, 0, len(t.Members))
		for _, name := range t.Members {
			members = append(members, pytype.Str(name))
		}
		return pytype.UnionOf(members...), false
	case schema.Enum:
		// Stand-in type reference; no cross-check confirms a matching enum
		// declaration exists.
		return pytype.Name(pascal(f.Name)), false
	default:
		return pytype.Name("str"), false
	}
}

// declaration renders one field declaration line, without indentation.
// Optional fields without an explicit default are defaulted to None.
func (m *Model) declaration(f *schema.Field) string {
	line := m.FieldName(f) + ": " + m.PyType(f)
	switch {
	case f.Default != "":
		line += " = " + f.Default
	case f.Optional:
		line += " = None"
	}
	return line
}
