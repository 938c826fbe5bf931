package syntax

// Node is any node of the syntax tree. Positions are byte offsets; nodes
// created by rewrites have zero positions.
type Node interface {
	Pos() int
	End() int
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
	Decor() *Decorations
}

// Decorations are the comments and directives attached to a statement.
type Decorations struct {
	// LeadStart is the offset of the first leading comment or directive.
	LeadStart  int
	Comments   []Comment
	Directives []Directive
	Trailing   *Comment
}

func (d *Decorations) Decor() *Decorations { return d }

// HasComments reports whether any leading or trailing comment is attached.
func (d *Decorations) HasComments() bool {
	return len(d.Comments) > 0 || d.Trailing != nil
}

// ----------------------------------------------------------------------------
// Types

// TypeExpr names a type: `int`, `string?`, `int[]`, `IEnumerable<int>`,
// optionally prefixed with `ref` in result position.
type TypeExpr struct {
	NamePos  int
	Name     string
	Args     []*TypeExpr
	Nullable bool
	Array    bool
	Ref      bool
	RefPos   int
	EndPos   int
}

func (t *TypeExpr) Pos() int {
	if t.Ref {
		return t.RefPos
	}
	return t.NamePos
}
func (t *TypeExpr) End() int { return t.EndPos }

// ----------------------------------------------------------------------------
// Expressions

type (
	Ident struct {
		NamePos int
		Name    string
	}

	BasicLit struct {
		ValuePos int
		Kind     Kind // INT, FLOAT, STRING, TRUE, FALSE or NULL
		Value    string
	}

	ParenExpr struct {
		Lparen int
		X      Expr
		Rparen int
	}

	UnaryExpr struct {
		OpPos int
		Op    Kind
		X     Expr
	}

	BinaryExpr struct {
		X     Expr
		OpPos int
		Op    Kind
		Y     Expr
	}

	CallExpr struct {
		Fun    Expr
		Args   []Expr
		Rparen int
	}

	SelectorExpr struct {
		X   Expr
		Sel *Ident
	}

	IndexExpr struct {
		X      Expr
		Index  Expr
		Rbrack int
	}

	NewExpr struct {
		New    int
		Type   *TypeExpr
		Args   []Expr
		Rparen int
	}

	CastExpr struct {
		Lparen int
		Type   *TypeExpr
		X      Expr
	}

	// RefExpr is `ref x`, used by ref returns, ref assignments and ref
	// conditionals.
	RefExpr struct {
		Ref int
		X   Expr
	}

	// ThrowExpr is `throw x` in expression position.
	ThrowExpr struct {
		Throw int
		X     Expr
	}

	CondExpr struct {
		Cond     Expr
		Question int
		Then     Expr
		Colon    int
		Else     Expr
	}

	AssignExpr struct {
		Lhs    Expr
		TokPos int
		Rhs    Expr
	}
)

func (x *Ident) Pos() int        { return x.NamePos }
func (x *BasicLit) Pos() int     { return x.ValuePos }
func (x *ParenExpr) Pos() int    { return x.Lparen }
func (x *UnaryExpr) Pos() int    { return x.OpPos }
func (x *BinaryExpr) Pos() int   { return x.X.Pos() }
func (x *CallExpr) Pos() int     { return x.Fun.Pos() }
func (x *SelectorExpr) Pos() int { return x.X.Pos() }
func (x *IndexExpr) Pos() int    { return x.X.Pos() }
func (x *NewExpr) Pos() int      { return x.New }
func (x *CastExpr) Pos() int     { return x.Lparen }
func (x *RefExpr) Pos() int      { return x.Ref }
func (x *ThrowExpr) Pos() int    { return x.Throw }
func (x *CondExpr) Pos() int     { return x.Cond.Pos() }
func (x *AssignExpr) Pos() int   { return x.Lhs.Pos() }

func (x *Ident) End() int        { return x.NamePos + len(x.Name) }
func (x *BasicLit) End() int     { return x.ValuePos + len(x.Value) }
func (x *ParenExpr) End() int    { return x.Rparen + 1 }
func (x *UnaryExpr) End() int    { return x.X.End() }
func (x *BinaryExpr) End() int   { return x.Y.End() }
func (x *CallExpr) End() int     { return x.Rparen + 1 }
func (x *SelectorExpr) End() int { return x.Sel.End() }
func (x *IndexExpr) End() int    { return x.Rbrack + 1 }
func (x *NewExpr) End() int      { return x.Rparen + 1 }
func (x *CastExpr) End() int     { return x.X.End() }
func (x *RefExpr) End() int      { return x.X.End() }
func (x *ThrowExpr) End() int    { return x.X.End() }
func (x *CondExpr) End() int     { return x.Else.End() }
func (x *AssignExpr) End() int   { return x.Rhs.End() }

func (*Ident) exprNode()        {}
func (*BasicLit) exprNode()     {}
func (*ParenExpr) exprNode()    {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*SelectorExpr) exprNode() {}
func (*IndexExpr) exprNode()    {}
func (*NewExpr) exprNode()      {}
func (*CastExpr) exprNode()     {}
func (*RefExpr) exprNode()      {}
func (*ThrowExpr) exprNode()    {}
func (*CondExpr) exprNode()     {}
func (*AssignExpr) exprNode()   {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// ----------------------------------------------------------------------------
// Statements

type (
	BlockStmt struct {
		Decorations
		Lbrace int
		List   []Stmt
		Rbrace int
	}

	IfStmt struct {
		Decorations
		If   int
		Cond Expr
		Then Stmt
		Else Stmt // nil when there is no else clause
	}

	ExprStmt struct {
		Decorations
		X    Expr
		Semi int
	}

	// ReturnStmt is `return;`, `return x;` or `return ref x;`.
	ReturnStmt struct {
		Decorations
		Return int
		Result Expr
		Semi   int
	}

	// YieldStmt is `yield return x;`.
	YieldStmt struct {
		Decorations
		Yield  int
		Result Expr
		Semi   int
	}

	// ThrowStmt is `throw x;` or the bare rethrow `throw;`.
	ThrowStmt struct {
		Decorations
		Throw int
		X     Expr
		Semi  int
	}

	// DeclStmt declares a local: `int x = 1;` or `var x = f();`.
	DeclStmt struct {
		Decorations
		Type  *TypeExpr
		Name  *Ident
		Value Expr
		Semi  int
	}

	LabeledStmt struct {
		Decorations
		Label *Ident
		Colon int
		Stmt  Stmt
	}

	EmptyStmt struct {
		Decorations
		Semi int
	}
)

func (s *BlockStmt) Pos() int   { return s.Lbrace }
func (s *IfStmt) Pos() int      { return s.If }
func (s *ExprStmt) Pos() int    { return s.X.Pos() }
func (s *ReturnStmt) Pos() int  { return s.Return }
func (s *YieldStmt) Pos() int   { return s.Yield }
func (s *ThrowStmt) Pos() int   { return s.Throw }
func (s *DeclStmt) Pos() int    { return s.Type.Pos() }
func (s *LabeledStmt) Pos() int { return s.Label.Pos() }
func (s *EmptyStmt) Pos() int   { return s.Semi }

func (s *BlockStmt) End() int  { return s.Rbrace + 1 }
func (s *ExprStmt) End() int   { return s.Semi + 1 }
func (s *ReturnStmt) End() int { return s.Semi + 1 }
func (s *YieldStmt) End() int  { return s.Semi + 1 }
func (s *ThrowStmt) End() int  { return s.Semi + 1 }
func (s *DeclStmt) End() int   { return s.Semi + 1 }
func (s *EmptyStmt) End() int  { return s.Semi + 1 }

func (s *IfStmt) End() int {
	if s.Else != nil {
		return s.Else.End()
	}
	return s.Then.End()
}

func (s *LabeledStmt) End() int { return s.Stmt.End() }

func (*BlockStmt) stmtNode()   {}
func (*IfStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()  {}
func (*YieldStmt) stmtNode()   {}
func (*ThrowStmt) stmtNode()   {}
func (*DeclStmt) stmtNode()    {}
func (*LabeledStmt) stmtNode() {}
func (*EmptyStmt) stmtNode()   {}

// ----------------------------------------------------------------------------
// Declarations

// Param is a function parameter.
type Param struct {
	Type *TypeExpr
	Name *Ident
}

// FuncDecl is `Result Name(params) { body }`.
type FuncDecl struct {
	Decorations
	Result *TypeExpr
	Name   *Ident
	Params []*Param
	Body   *BlockStmt
}

func (d *FuncDecl) Pos() int { return d.Result.Pos() }

func (d *FuncDecl) End() int { return d.Body.End() }
