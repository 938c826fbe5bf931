package condexpr

import (
	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
)

// Fix describes a rewrite: Replace is swapped for With and every statement
// in Delete is dropped from its block.
type Fix struct {
	Replace *syntax.IfStmt
	With    syntax.Stmt
	Delete  []syntax.Stmt
}

// RewriteAssignment builds `target = c ? a : b;` from m.
func RewriteAssignment(m *AssignmentMatch) *Fix {
	c := m.Construct
	var rhs syntax.Expr = conditional(c.If.Cond, m.WhenTrue, m.WhenFalse, m.Ref, m.Typing.Cast)
	if m.Ref {
		rhs = &syntax.RefExpr{X: rhs}
	}
	stmt := &syntax.ExprStmt{
		X: &syntax.AssignExpr{Lhs: m.Assignment().Target, Rhs: rhs},
	}
	return newFix(c, stmt)
}

// RewriteReturn builds `return c ? a : b;` or `yield return c ? a : b;`
// from m. A borrowed following statement is scheduled for deletion.
func RewriteReturn(m *ReturnMatch) *Fix {
	c := m.Construct
	var value syntax.Expr = conditional(c.If.Cond, m.WhenTrue, m.WhenFalse, m.Ref, m.Typing.Cast)

	var stmt syntax.Stmt
	switch m.Kind {
	case YieldReturn:
		stmt = &syntax.YieldStmt{Result: value}
	default:
		if m.Ref {
			value = &syntax.RefExpr{X: value}
		}
		stmt = &syntax.ReturnStmt{Result: value}
	}

	fix := newFix(c, stmt)
	if c.Borrowed() {
		fix.Delete = append(fix.Delete, c.Next)
	}
	return fix
}

// conditional assembles `cond ? t : f` from two classified arms.
func conditional(cond syntax.Expr, t, f Branch, ref bool, cast sema.Type) *syntax.CondExpr {
	then, els := arm(t, ref), arm(f, ref)
	if cast != nil {
		if t.Kind != Throw {
			then = &syntax.CastExpr{Type: sema.ToSyntax(cast), X: then}
		} else {
			els = &syntax.CastExpr{Type: sema.ToSyntax(cast), X: els}
		}
	}
	return &syntax.CondExpr{Cond: cond, Then: then, Else: els}
}

func arm(b Branch, ref bool) syntax.Expr {
	switch {
	case b.Kind == Throw:
		return &syntax.ThrowExpr{X: b.Value}
	case ref:
		return &syntax.RefExpr{X: b.Value}
	}
	return b.Value
}

// newFix wraps stmt so it can stand where c.If stood. The leading trivia of
// the if moves to the new statement, and so does a trailing comment after
// its last arm. An else-if clause needs a block around the replacement.
func newFix(c *Construct, stmt syntax.Stmt) *Fix {
	d := stmt.Decor()
	d.LeadStart = c.If.LeadStart
	d.Comments = c.If.Comments
	d.Directives = c.If.Directives

	last := c.If.Then
	if c.If.Else != nil {
		last = c.If.Else
	}
	d.Trailing = last.Decor().Trailing

	if c.ElseIf {
		stmt = &syntax.BlockStmt{List: []syntax.Stmt{stmt}}
	}
	return &Fix{Replace: c.If, With: stmt}
}

// Apply returns body with the fix applied. Nodes on the path to an edited
// statement are copied; body itself is never modified. The boolean reports
// whether anything changed.
func (f *Fix) Apply(body *syntax.BlockStmt) (*syntax.BlockStmt, bool) {
	out, changed := f.stmt(body)
	if !changed {
		return body, false
	}
	return out.(*syntax.BlockStmt), true
}

func (f *Fix) deleted(s syntax.Stmt) bool {
	for _, d := range f.Delete {
		if d == s {
			return true
		}
	}
	return false
}

func (f *Fix) stmt(s syntax.Stmt) (syntax.Stmt, bool) {
	if s == syntax.Stmt(f.Replace) {
		return f.With, true
	}

	switch s := s.(type) {
	case *syntax.BlockStmt:
		var list []syntax.Stmt
		changed := false
		for _, x := range s.List {
			if f.deleted(x) {
				changed = true
				continue
			}
			nx, ok := f.stmt(x)
			changed = changed || ok
			list = append(list, nx)
		}
		if !changed {
			return s, false
		}
		cp := *s
		cp.List = list
		return &cp, true

	case *syntax.IfStmt:
		then, okThen := f.stmt(s.Then)
		els, okElse := s.Else, false
		if s.Else != nil {
			els, okElse = f.stmt(s.Else)
		}
		if !okThen && !okElse {
			return s, false
		}
		cp := *s
		cp.Then, cp.Else = then, els
		return &cp, true

	case *syntax.LabeledStmt:
		inner, ok := f.stmt(s.Stmt)
		if !ok {
			return s, false
		}
		cp := *s
		cp.Stmt = inner
		return &cp, true
	}
	return s, false
}
