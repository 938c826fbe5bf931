package sema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned when an expression has no resolvable type.
	ErrUnknownType = errors.New("unknown type")
	// ErrNoCommonType is returned when two types have no best common type.
	ErrNoCommonType = errors.New("no best common type")
)

// Conversions decides which implicit conversions exist. Implementations
// define the target type system; the engine never hard-codes one.
type Conversions interface {
	Implicit(from, to Type) bool
}

// numericWidening lists the implicit numeric conversions of each predefined
// numeric type.
var numericWidening = map[string][]string{
	"sbyte":  {"short", "int", "long", "float", "double", "decimal"},
	"byte":   {"short", "ushort", "int", "uint", "long", "ulong", "float", "double", "decimal"},
	"short":  {"int", "long", "float", "double", "decimal"},
	"ushort": {"int", "uint", "long", "ulong", "float", "double", "decimal"},
	"int":    {"long", "float", "double", "decimal"},
	"uint":   {"long", "ulong", "float", "double", "decimal"},
	"long":   {"float", "double", "decimal"},
	"ulong":  {"float", "double", "decimal"},
	"char":   {"ushort", "int", "uint", "long", "ulong", "float", "double", "decimal"},
	"float":  {"double"},
}

// ConversionTable is the default Conversions implementation: identity,
// numeric widening, boxing to object, null to reference and nullable types,
// lifting to nullable, bottom to anything, plus any extra pairs.
type ConversionTable struct {
	extra map[string]map[string]bool
}

// NewConversionTable returns the default table.
func NewConversionTable() *ConversionTable {
	return &ConversionTable{extra: make(map[string]map[string]bool)}
}

// Allow registers an additional implicit conversion, e.g. from a user type
// to one of its base types.
func (c *ConversionTable) Allow(from, to string) {
	if c.extra[from] == nil {
		c.extra[from] = make(map[string]bool)
	}
	c.extra[from][to] = true
}

// Implicit implements Conversions.
func (c *ConversionTable) Implicit(from, to Type) bool {
	if from == nil || to == nil || from == Invalid || to == Invalid {
		return false
	}
	if Identical(from, to) || from == Bottom {
		return true
	}
	if c.extra[from.String()][to.String()] {
		return true
	}
	if from == Null {
		return !IsValueType(to) && to != Bottom
	}
	if Identical(to, Object) {
		return true
	}

	switch t := to.(type) {
	case *Nullable:
		if f, ok := from.(*Nullable); ok {
			return c.Implicit(f.Elem, t.Elem)
		}
		return c.Implicit(from, t.Elem)
	case *Named:
		f, ok := from.(*Named)
		if !ok || len(f.Args) > 0 || len(t.Args) > 0 {
			return false
		}
		for _, w := range numericWidening[f.Name] {
			if w == t.Name {
				return true
			}
		}
	}
	return false
}

// CommonType returns the best common type of a and b: the one the other
// converts to when the conversion exists in exactly one direction.
func CommonType(conv Conversions, a, b Type) (Type, error) {
	switch {
	case a == Invalid || b == Invalid:
		return nil, ErrUnknownType
	case Identical(a, b):
		return a, nil
	case a == Bottom:
		return b, nil
	case b == Bottom:
		return a, nil
	}

	ab, ba := conv.Implicit(a, b), conv.Implicit(b, a)
	switch {
	case ab && !ba:
		return b, nil
	case ba && !ab:
		return a, nil
	}
	return nil, fmt.Errorf("%w between %s and %s", ErrNoCommonType, a, b)
}
