package sema

import (
	"strings"

	"github.com/gnolang/ternlint/internal/syntax"
)

// Type is a static type.
type Type interface {
	String() string
	typ()
}

type (
	// Named is a predefined or user type, optionally generic:
	// `int`, `Point`, `IEnumerable<int>`.
	Named struct {
		Name string
		Args []Type
	}

	// Nullable is `T?`.
	Nullable struct {
		Elem Type
	}

	// Array is `T[]`.
	Array struct {
		Elem Type
	}

	special struct {
		name string
	}
)

var (
	// Invalid marks an expression whose type could not be resolved.
	Invalid Type = &special{"invalid"}
	// Bottom is the type of a throw expression; it converts to every type.
	Bottom Type = &special{"bottom"}
	// Null is the type of the null literal.
	Null Type = &special{"null"}
	// Void is the result type of a function without a value.
	Void Type = &Named{Name: "void"}
)

// Predefined types.
var (
	Bool    = &Named{Name: "bool"}
	Byte    = &Named{Name: "byte"}
	Short   = &Named{Name: "short"}
	Int     = &Named{Name: "int"}
	Long    = &Named{Name: "long"}
	Char    = &Named{Name: "char"}
	Float   = &Named{Name: "float"}
	Double  = &Named{Name: "double"}
	Decimal = &Named{Name: "decimal"}
	String  = &Named{Name: "string"}
	Object  = &Named{Name: "object"}
)

func (t *Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *Nullable) String() string { return t.Elem.String() + "?" }
func (t *Array) String() string    { return t.Elem.String() + "[]" }
func (t *special) String() string  { return t.name }

func (*Named) typ()    {}
func (*Nullable) typ() {}
func (*Array) typ()    {}
func (*special) typ()  {}

// Identical reports whether a and b denote the same type.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

var valueTypes = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "short": true, "ushort": true,
	"int": true, "uint": true, "long": true, "ulong": true, "char": true,
	"float": true, "double": true, "decimal": true,
}

// IsValueType reports whether t is a non-nullable value type. User types are
// treated as reference types.
func IsValueType(t Type) bool {
	n, ok := t.(*Named)
	return ok && len(n.Args) == 0 && valueTypes[n.Name]
}

// IsNumeric reports whether t is one of the predefined numeric types.
func IsNumeric(t Type) bool {
	n, ok := t.(*Named)
	return ok && n.Name != "bool" && IsValueType(n)
}

// FromSyntax converts a type expression. The `ref` marker is not part of the
// type and is ignored.
func FromSyntax(t *syntax.TypeExpr) Type {
	if t == nil {
		return Invalid
	}
	var typ Type
	switch {
	case len(t.Args) > 0:
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = FromSyntax(a)
		}
		typ = &Named{Name: t.Name, Args: args}
	default:
		typ = named(t.Name)
	}
	if t.Nullable {
		typ = &Nullable{Elem: typ}
	}
	if t.Array {
		typ = &Array{Elem: typ}
	}
	return typ
}

// ToSyntax builds a type expression spelling t, for use in generated casts.
func ToSyntax(t Type) *syntax.TypeExpr {
	switch t := t.(type) {
	case *Named:
		te := &syntax.TypeExpr{Name: t.Name}
		for _, a := range t.Args {
			te.Args = append(te.Args, ToSyntax(a))
		}
		return te
	case *Nullable:
		te := ToSyntax(t.Elem)
		te.Nullable = true
		return te
	case *Array:
		te := ToSyntax(t.Elem)
		te.Array = true
		return te
	}
	return &syntax.TypeExpr{Name: t.String()}
}

var predefined = map[string]*Named{
	"bool": Bool, "byte": Byte, "short": Short, "int": Int, "long": Long,
	"char": Char, "float": Float, "double": Double, "decimal": Decimal,
	"string": String, "object": Object, "void": Void.(*Named),
}

func named(name string) Type {
	if t, ok := predefined[name]; ok {
		return t
	}
	return &Named{Name: name}
}

// iteratorNames are the generic result types that make a function an
// iterator.
var iteratorNames = map[string]bool{
	"IEnumerable": true,
	"IEnumerator": true,
}

// ElementType returns T for IEnumerable<T> / IEnumerator<T>.
func ElementType(t Type) (Type, bool) {
	n, ok := t.(*Named)
	if !ok || !iteratorNames[n.Name] || len(n.Args) != 1 {
		return nil, false
	}
	return n.Args[0], true
}
