package syntax

import (
	"strings"
)

// Printer renders trees as source text. Parentheses are inserted wherever
// operator precedence requires them.
type Printer struct {
	// Indent is one level of indentation. Defaults to four spaces.
	Indent string
	// Decorations prints leading and trailing comments and directives.
	Decorations bool
}

const defaultIndent = "    "

// ExprString renders e with the default printer.
func ExprString(e Expr) string {
	var p Printer
	return p.Expr(e)
}

// StmtString renders s with the default printer at column zero.
func StmtString(s Stmt) string {
	var p Printer
	return p.Stmt(s, "")
}

// TypeString renders a type expression.
func TypeString(t *TypeExpr) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func (p *Printer) unit() string {
	if p.Indent == "" {
		return defaultIndent
	}
	return p.Indent
}

// Expr renders an expression.
func (p *Printer) Expr(e Expr) string {
	var b strings.Builder
	p.expr(&b, e, LowestPrec)
	return b.String()
}

// Stmt renders a statement. The first line is not indented; continuation
// lines start with indent.
func (p *Printer) Stmt(s Stmt, indent string) string {
	var b strings.Builder
	p.stmt(&b, s, indent)
	return b.String()
}

// File renders all function declarations of f.
func (p *Printer) File(f *File) string {
	var b strings.Builder
	for i, fn := range f.Funcs {
		if i > 0 {
			b.WriteString("\n")
		}
		if p.Decorations {
			p.leading(&b, &fn.Decorations, "")
		}
		writeType(&b, fn.Result)
		b.WriteString(" ")
		b.WriteString(fn.Name.Name)
		b.WriteString("(")
		for j, param := range fn.Params {
			if j > 0 {
				b.WriteString(", ")
			}
			writeType(&b, param.Type)
			b.WriteString(" ")
			b.WriteString(param.Name.Name)
		}
		b.WriteString(") ")
		p.stmt(&b, fn.Body, "")
		b.WriteString("\n")
	}
	return b.String()
}

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *AssignExpr, *ThrowExpr, *RefExpr:
		return AssignPrec
	case *CondExpr:
		return CondPrec
	case *BinaryExpr:
		return e.Op.Precedence()
	case *UnaryExpr, *CastExpr:
		return UnaryPrec
	}
	return PostPrec
}

func (p *Printer) expr(b *strings.Builder, e Expr, minPrec int) {
	if exprPrec(e) < minPrec {
		b.WriteString("(")
		p.expr(b, e, LowestPrec)
		b.WriteString(")")
		return
	}

	switch e := e.(type) {
	case *Ident:
		b.WriteString(e.Name)
	case *BasicLit:
		b.WriteString(e.Value)
	case *ParenExpr:
		b.WriteString("(")
		p.expr(b, e.X, LowestPrec)
		b.WriteString(")")
	case *UnaryExpr:
		b.WriteString(e.Op.String())
		p.expr(b, e.X, UnaryPrec)
	case *BinaryExpr:
		prec := e.Op.Precedence()
		p.expr(b, e.X, prec)
		b.WriteString(" ")
		b.WriteString(e.Op.String())
		b.WriteString(" ")
		p.expr(b, e.Y, prec+1)
	case *CallExpr:
		p.expr(b, e.Fun, PostPrec)
		b.WriteString("(")
		p.exprList(b, e.Args)
		b.WriteString(")")
	case *SelectorExpr:
		p.expr(b, e.X, PostPrec)
		b.WriteString(".")
		b.WriteString(e.Sel.Name)
	case *IndexExpr:
		p.expr(b, e.X, PostPrec)
		b.WriteString("[")
		p.expr(b, e.Index, LowestPrec)
		b.WriteString("]")
	case *NewExpr:
		b.WriteString("new ")
		writeType(b, e.Type)
		b.WriteString("(")
		p.exprList(b, e.Args)
		b.WriteString(")")
	case *CastExpr:
		b.WriteString("(")
		writeType(b, e.Type)
		b.WriteString(")")
		p.expr(b, e.X, UnaryPrec)
	case *RefExpr:
		b.WriteString("ref ")
		p.expr(b, e.X, CondPrec)
	case *ThrowExpr:
		b.WriteString("throw ")
		p.expr(b, e.X, CondPrec)
	case *CondExpr:
		p.expr(b, e.Cond, OrPrec)
		b.WriteString(" ? ")
		p.branch(b, e.Then)
		b.WriteString(" : ")
		p.branch(b, e.Else)
	case *AssignExpr:
		p.expr(b, e.Lhs, OrPrec)
		b.WriteString(" = ")
		p.expr(b, e.Rhs, AssignPrec)
	}
}

// branch prints an arm of a conditional; throw and ref arms need no
// parentheses there.
func (p *Printer) branch(b *strings.Builder, e Expr) {
	switch e.(type) {
	case *ThrowExpr, *RefExpr:
		p.expr(b, e, AssignPrec)
	default:
		p.expr(b, e, CondPrec)
	}
}

func (p *Printer) exprList(b *strings.Builder, list []Expr) {
	for i, x := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		p.expr(b, x, AssignPrec)
	}
}

func writeType(b *strings.Builder, t *TypeExpr) {
	if t == nil {
		return
	}
	if t.Ref {
		b.WriteString("ref ")
	}
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteString("<")
		for i, arg := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeType(b, arg)
		}
		b.WriteString(">")
	}
	if t.Nullable {
		b.WriteString("?")
	}
	if t.Array {
		b.WriteString("[]")
	}
}

func (p *Printer) leading(b *strings.Builder, d *Decorations, indent string) {
	for _, dir := range d.Directives {
		b.WriteString(dir.Text)
		b.WriteString("\n")
		b.WriteString(indent)
	}
	for _, c := range d.Comments {
		b.WriteString(c.Text)
		b.WriteString("\n")
		b.WriteString(indent)
	}
}

func (p *Printer) trailing(b *strings.Builder, d *Decorations) {
	if p.Decorations && d.Trailing != nil {
		b.WriteString(" ")
		b.WriteString(d.Trailing.Text)
	}
}

func (p *Printer) stmt(b *strings.Builder, s Stmt, indent string) {
	inner := indent + p.unit()

	switch s := s.(type) {
	case *BlockStmt:
		b.WriteString("{")
		for _, x := range s.List {
			b.WriteString("\n")
			b.WriteString(inner)
			if p.Decorations {
				p.leading(b, x.Decor(), inner)
			}
			p.stmt(b, x, inner)
		}
		b.WriteString("\n")
		b.WriteString(indent)
		b.WriteString("}")
	case *IfStmt:
		b.WriteString("if (")
		p.expr(b, s.Cond, LowestPrec)
		b.WriteString(")")
		p.embedded(b, s.Then, indent)
		if s.Else != nil {
			if _, ok := s.Then.(*BlockStmt); ok && !(p.Decorations && s.Then.Decor().Trailing != nil) {
				b.WriteString(" ")
			} else {
				b.WriteString("\n")
				b.WriteString(indent)
			}
			b.WriteString("else")
			if elseIf, ok := s.Else.(*IfStmt); ok {
				b.WriteString(" ")
				p.stmt(b, elseIf, indent)
			} else {
				p.embedded(b, s.Else, indent)
			}
		}
	case *ExprStmt:
		p.expr(b, s.X, LowestPrec)
		b.WriteString(";")
	case *ReturnStmt:
		b.WriteString("return")
		if s.Result != nil {
			b.WriteString(" ")
			p.expr(b, s.Result, LowestPrec)
		}
		b.WriteString(";")
	case *YieldStmt:
		b.WriteString("yield return ")
		p.expr(b, s.Result, LowestPrec)
		b.WriteString(";")
	case *ThrowStmt:
		b.WriteString("throw")
		if s.X != nil {
			b.WriteString(" ")
			p.expr(b, s.X, LowestPrec)
		}
		b.WriteString(";")
	case *DeclStmt:
		writeType(b, s.Type)
		b.WriteString(" ")
		b.WriteString(s.Name.Name)
		if s.Value != nil {
			b.WriteString(" = ")
			p.expr(b, s.Value, AssignPrec)
		}
		b.WriteString(";")
	case *LabeledStmt:
		b.WriteString(s.Label.Name)
		b.WriteString(": ")
		p.stmt(b, s.Stmt, indent)
		return
	case *EmptyStmt:
		b.WriteString(";")
	}
	p.trailing(b, s.Decor())
}

// embedded prints the body of an if or else clause.
func (p *Printer) embedded(b *strings.Builder, s Stmt, indent string) {
	if block, ok := s.(*BlockStmt); ok {
		b.WriteString(" ")
		p.stmt(b, block, indent)
		return
	}
	inner := indent + p.unit()
	b.WriteString("\n")
	b.WriteString(inner)
	if p.Decorations {
		p.leading(b, s.Decor(), inner)
	}
	p.stmt(b, s, inner)
}
