// Package pytype models Python type annotations as a small expression tree
// with one canonical printer.
//
// The generator builds every field annotation from these nodes instead of
// concatenating strings, so Optional/list/annotated-metadata composition is
// fixed and deterministic for every field-kind combination.
package pytype

import (
	"strconv"
	"strings"
)

// An Expr is one node of a Python type-annotation expression.
type Expr interface {
	// String renders the node as Python source.
	String() string
}

type (
	// Name is a bare identifier, e.g. `str` or `datetime`.
	Name string

	// Str is a quoted string literal, used for forward references to model
	// names, e.g. `"User"`.
	Str string

	// Attr is an attribute access, e.g. `OnDelete.CASCADE`.
	Attr struct {
		Base Expr
		Name string
	}

	// Subscript is a subscription, e.g. `Optional[str]` or
	// `Ref["User", OnDelete.CASCADE]`.
	Subscript struct {
		Base Expr
		Args []Expr
	}
)

func (n Name) String() string { return string(n) }

func (s Str) String() string { return strconv.Quote(string(s)) }

func (a Attr) String() string { return a.Base.String() + "." + a.Name }

func (s Subscript) String() string {
	var b strings.Builder
	b.WriteString(s.Base.String())
	b.WriteByte('[')
	for i, arg := range s.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(']')
	return b.String()
}

// OptionalOf wraps x in Optional[...].
func OptionalOf(x Expr) Expr { return Subscript{Base: Name("Optional"), Args: []Expr{x}} }

// ListOf wraps x in list[...].
func ListOf(x Expr) Expr { return Subscript{Base: Name("list"), Args: []Expr{x}} }

// AnnotatedWith builds Annotated[base, meta...].
func AnnotatedWith(base Expr, meta ...Expr) Expr {
	return Subscript{Base: Name("Annotated"), Args: append([]Expr{base}, meta...)}
}

// UnionOf builds Union[members...] with forward-reference members.
func UnionOf(members ...Expr) Expr {
	return Subscript{Base: Name("Union"), Args: members}
}
