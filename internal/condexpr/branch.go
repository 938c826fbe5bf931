package condexpr

import "github.com/gnolang/ternlint/internal/syntax"

// BranchKind is the terminal action a branch performs.
type BranchKind uint8

const (
	Assignment BranchKind = iota + 1
	Throw
	Return
	YieldReturn
)

func (k BranchKind) String() string {
	switch k {
	case Assignment:
		return "assignment"
	case Throw:
		return "throw"
	case Return:
		return "return"
	case YieldReturn:
		return "yield return"
	default:
		return "invalid"
	}
}

// Branch is one classified arm of an if statement.
type Branch struct {
	Kind BranchKind
	// Stmt is the arm after single-statement blocks were unwrapped.
	Stmt syntax.Stmt
	// Value is the assigned, returned, yielded or thrown expression with any
	// `ref` marker removed.
	Value syntax.Expr
	// Target is the left-hand side of an Assignment.
	Target syntax.Expr
	// Ref is set for ref assignments and ref returns.
	Ref bool
}

// Construct is an if statement being analysed.
type Construct struct {
	If *syntax.IfStmt
	// Next is the statement following If in its block. When If has no else
	// clause, a return matcher may borrow it as the false branch.
	Next syntax.Stmt
	// ElseIf is set when If is itself the else clause of another if.
	ElseIf bool
}

// NewConstruct builds a construct from a located if statement.
func NewConstruct(site syntax.IfSite) *Construct {
	return &Construct{If: site.If, Next: site.Next, ElseIf: site.ElseIf}
}

// Condition is the tested expression.
func (c *Construct) Condition() syntax.Expr { return c.If.Cond }

// WhenTrue is the statement run when the condition holds.
func (c *Construct) WhenTrue() syntax.Stmt { return c.If.Then }

// WhenFalse is the explicit else clause, or the borrowed following statement
// when there is none. It is nil when neither exists.
func (c *Construct) WhenFalse() syntax.Stmt {
	if c.If.Else != nil {
		return c.If.Else
	}
	return c.Next
}

// Borrowed reports whether the false branch is the following statement.
func (c *Construct) Borrowed() bool {
	return c.If.Else == nil && c.Next != nil
}

// unwrapBlock returns the only statement of a single-statement block, or s.
func unwrapBlock(s syntax.Stmt) syntax.Stmt {
	if b, ok := s.(*syntax.BlockStmt); ok && len(b.List) == 1 {
		return b.List[0]
	}
	return s
}

// unwrapLabel looks through a label so that a labeled statement is
// classified by what it does. The gate decides whether it may be removed.
func unwrapLabel(s syntax.Stmt) syntax.Stmt {
	if l, ok := s.(*syntax.LabeledStmt); ok {
		return l.Stmt
	}
	return s
}

func stripRef(e syntax.Expr) syntax.Expr {
	if r, ok := e.(*syntax.RefExpr); ok {
		return r.X
	}
	return e
}

// classifyThrow handles the throw arm shared by both matchers.
func classifyThrow(s *syntax.ThrowStmt) (Branch, Reason) {
	if s.X == nil {
		return Branch{}, BareThrow
	}
	return Branch{Kind: Throw, Stmt: s, Value: s.X}, Matched
}

// classifyAssignment accepts `throw e;` and `target = value;`.
func classifyAssignment(s syntax.Stmt, refs RefPolicy) (Branch, Reason) {
	switch s := s.(type) {
	case *syntax.ThrowStmt:
		return classifyThrow(s)
	case *syntax.ExprStmt:
		assign, ok := s.X.(*syntax.AssignExpr)
		if !ok || assign.Lhs == nil {
			break
		}
		return Branch{
			Kind:   Assignment,
			Stmt:   s,
			Value:  stripRef(assign.Rhs),
			Target: assign.Lhs,
			Ref:    refs.AssignmentIsRef(assign),
		}, Matched
	}
	return Branch{}, NotApplicable
}

// classifyReturn accepts `throw e;`, `return e;` and `yield return e;`.
func classifyReturn(s syntax.Stmt, refs RefPolicy) (Branch, Reason) {
	switch s := s.(type) {
	case *syntax.ThrowStmt:
		return classifyThrow(s)
	case *syntax.ReturnStmt:
		if s.Result == nil {
			break
		}
		return Branch{
			Kind:  Return,
			Stmt:  s,
			Value: stripRef(s.Result),
			Ref:   refs.ReturnIsRef(s),
		}, Matched
	case *syntax.YieldStmt:
		if s.Result == nil {
			break
		}
		return Branch{Kind: YieldReturn, Stmt: s, Value: s.Result}, Matched
	}
	return Branch{}, NotApplicable
}

// pair returns the non-throw branch of two, preferring the true one.
func pair(t, f Branch) (value Branch, hasThrow bool) {
	switch {
	case t.Kind == Throw:
		return f, true
	case f.Kind == Throw:
		return t, true
	}
	return t, false
}
