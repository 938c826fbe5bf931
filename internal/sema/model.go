package sema

import (
	"context"
	"fmt"

	"github.com/gnolang/ternlint/internal/syntax"
)

// Model answers type queries for one file.
type Model struct {
	file  *syntax.File
	conv  Conversions
	funcs map[string]*syntax.FuncDecl
}

// NewModel builds a model for file. A nil conv selects the default table.
func NewModel(file *syntax.File, conv Conversions) *Model {
	if conv == nil {
		conv = NewConversionTable()
	}
	m := &Model{
		file:  file,
		conv:  conv,
		funcs: make(map[string]*syntax.FuncDecl, len(file.Funcs)),
	}
	for _, fn := range file.Funcs {
		m.funcs[fn.Name.Name] = fn
	}
	return m
}

// Conversions returns the conversion rules in effect.
func (m *Model) Conversions() Conversions { return m.conv }

// Func returns the scope of fn.
func (m *Model) Func(fn *syntax.FuncDecl) *Scope {
	s := &Scope{
		model:  m,
		fn:     fn,
		params: make(map[string]Type, len(fn.Params)),
		result: FromSyntax(fn.Result),
	}
	if elem, ok := ElementType(s.result); ok {
		s.iterator, s.elem = true, elem
	}
	for _, p := range fn.Params {
		s.params[p.Name.Name] = FromSyntax(p.Type)
	}
	return s
}

// Scope resolves names and types inside a single function body. A Scope is
// not safe for concurrent use.
type Scope struct {
	model    *Model
	fn       *syntax.FuncDecl
	params   map[string]Type
	locals   []local
	result   Type
	iterator bool
	elem     Type
	declared bool
}

// Decl returns the function this scope belongs to.
func (s *Scope) Decl() *syntax.FuncDecl { return s.fn }

// Conversions returns the conversion rules of the model.
func (s *Scope) Conversions() Conversions { return s.model.conv }

// ResultType is the type a `return` or `yield return` value converts to:
// the element type for iterators, the declared result type otherwise.
func (s *Scope) ResultType() (Type, error) {
	if s.iterator {
		return s.elem, nil
	}
	if s.result == Invalid || Identical(s.result, Void) {
		return nil, fmt.Errorf("%w: %s has no result value", ErrUnknownType, s.fn.Name.Name)
	}
	return s.result, nil
}

// ReturnsRef reports whether the function is declared `ref T`.
func (s *Scope) ReturnsRef() bool { return s.fn.Result.Ref }

// IsIterator reports whether the function yields values.
func (s *Scope) IsIterator() bool { return s.iterator }

// local is a declaration, visible from its end to the end of the block
// that holds it.
type local struct {
	name       string
	start, end int
	typ        Type
}

// declare collects local declarations in source order. `var` locals take the
// type of their initializer.
func (s *Scope) declare(ctx context.Context) error {
	if s.declared {
		return nil
	}

	var (
		blocks []*syntax.BlockStmt
		decls  []*syntax.DeclStmt
	)
	syntax.Inspect(s.fn.Body, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.BlockStmt:
			blocks = append(blocks, n)
		case *syntax.DeclStmt:
			decls = append(decls, n)
		}
		return true
	})

	for _, d := range decls {
		l := local{name: d.Name.Name, start: d.End(), end: s.fn.Body.End()}
		if b := enclosingBlock(blocks, d); b != nil {
			l.end = b.End()
		}
		switch {
		case d.Type.Name != "var":
			l.typ = FromSyntax(d.Type)
		case d.Value == nil:
			l.typ = Invalid
		default:
			t, err := s.typeOf(ctx, d.Value)
			if err != nil {
				if ctx.Err() != nil {
					s.locals = nil
					return err
				}
				t = Invalid
			}
			l.typ = t
		}
		s.locals = append(s.locals, l)
	}
	s.declared = true
	return nil
}

// enclosingBlock returns the innermost of blocks around d.
func enclosingBlock(blocks []*syntax.BlockStmt, d *syntax.DeclStmt) *syntax.BlockStmt {
	var inner *syntax.BlockStmt
	for _, b := range blocks {
		if b.Pos() <= d.Pos() && d.End() <= b.End() && (inner == nil || b.Pos() >= inner.Pos()) {
			inner = b
		}
	}
	return inner
}

// lookup resolves name at offset pos to the nearest preceding local still
// in scope, then to the parameters.
func (s *Scope) lookup(name string, pos int) (Type, bool) {
	found := -1
	for i, l := range s.locals {
		if l.name == name && l.start <= pos && pos < l.end {
			found = i
		}
	}
	if found >= 0 {
		return s.locals[found].typ, true
	}
	t, ok := s.params[name]
	return t, ok
}

// TypeOf returns the static type of e. Unresolvable expressions yield
// ErrUnknownType; a canceled context yields ctx.Err().
func (s *Scope) TypeOf(ctx context.Context, e syntax.Expr) (Type, error) {
	if err := s.declare(ctx); err != nil {
		return nil, err
	}
	return s.typeOf(ctx, e)
}

func (s *Scope) typeOf(ctx context.Context, e syntax.Expr) (Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch e := e.(type) {
	case *syntax.Ident:
		t, ok := s.lookup(e.Name, e.Pos())
		if !ok || t == Invalid {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, e.Name)
		}
		return t, nil

	case *syntax.BasicLit:
		return literalType(e), nil

	case *syntax.ParenExpr:
		return s.typeOf(ctx, e.X)

	case *syntax.RefExpr:
		return s.typeOf(ctx, e.X)

	case *syntax.ThrowExpr:
		return Bottom, nil

	case *syntax.CastExpr:
		return FromSyntax(e.Type), nil

	case *syntax.NewExpr:
		return FromSyntax(e.Type), nil

	case *syntax.AssignExpr:
		return s.typeOf(ctx, e.Lhs)

	case *syntax.UnaryExpr:
		if e.Op == syntax.NOT {
			return Bool, nil
		}
		t, err := s.typeOf(ctx, e.X)
		if err != nil {
			return nil, err
		}
		if !IsNumeric(t) {
			return nil, fmt.Errorf("%w: operator %s on %s", ErrUnknownType, e.Op, t)
		}
		return promote(t, Int), nil

	case *syntax.BinaryExpr:
		return s.binaryType(ctx, e)

	case *syntax.CondExpr:
		a, err := s.typeOf(ctx, e.Then)
		if err != nil {
			return nil, err
		}
		b, err := s.typeOf(ctx, e.Else)
		if err != nil {
			return nil, err
		}
		return CommonType(s.model.conv, a, b)

	case *syntax.CallExpr:
		id, ok := e.Fun.(*syntax.Ident)
		if !ok {
			break
		}
		fn, ok := s.model.funcs[id.Name]
		if !ok {
			break
		}
		return FromSyntax(fn.Result), nil

	case *syntax.IndexExpr:
		t, err := s.typeOf(ctx, e.X)
		if err != nil {
			return nil, err
		}
		if arr, ok := t.(*Array); ok {
			return arr.Elem, nil
		}
		if Identical(t, String) {
			return Char, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownType, syntax.ExprString(e))
}

func (s *Scope) binaryType(ctx context.Context, e *syntax.BinaryExpr) (Type, error) {
	switch e.Op {
	case syntax.LAND, syntax.LOR, syntax.EQL, syntax.NEQ,
		syntax.LSS, syntax.LEQ, syntax.GTR, syntax.GEQ:
		return Bool, nil
	}

	x, err := s.typeOf(ctx, e.X)
	if err != nil {
		return nil, err
	}
	y, err := s.typeOf(ctx, e.Y)
	if err != nil {
		return nil, err
	}
	if e.Op == syntax.ADD && (Identical(x, String) || Identical(y, String)) {
		return String, nil
	}
	if !IsNumeric(x) || !IsNumeric(y) {
		return nil, fmt.Errorf("%w: %s %s %s", ErrUnknownType, x, e.Op, y)
	}
	return promote(x, y), nil
}

// numericRank orders the types binary numeric promotion picks from.
var numericRank = map[string]int{
	"int": 1, "uint": 2, "long": 3, "ulong": 4, "float": 5, "double": 6, "decimal": 7,
}

// promote applies binary numeric promotion: operands narrower than int widen
// to int, otherwise the wider operand wins.
func promote(x, y Type) Type {
	rx, ry := numericRank[x.String()], numericRank[y.String()]
	if rx == 0 {
		x, rx = Int, 1
	}
	if ry == 0 {
		y, ry = Int, 1
	}
	if rx >= ry {
		return x
	}
	return y
}

func literalType(lit *syntax.BasicLit) Type {
	switch lit.Kind {
	case syntax.TRUE, syntax.FALSE:
		return Bool
	case syntax.NULL:
		return Null
	case syntax.STRING:
		return String
	case syntax.INT:
		if n := len(lit.Value); n > 0 && (lit.Value[n-1] == 'L' || lit.Value[n-1] == 'l') {
			return Long
		}
		return Int
	case syntax.FLOAT:
		switch lit.Value[len(lit.Value)-1] {
		case 'f', 'F':
			return Float
		case 'm', 'M':
			return Decimal
		}
		return Double
	}
	return Invalid
}
