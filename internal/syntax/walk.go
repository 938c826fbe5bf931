package syntax

// Inspect traverses the statements and expressions of n in depth-first
// order. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	switch n := n.(type) {
	case *FuncDecl:
		Inspect(n.Body, f)
	case *BlockStmt:
		for _, s := range n.List {
			Inspect(s, f)
		}
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *ReturnStmt:
		if n.Result != nil {
			Inspect(n.Result, f)
		}
	case *YieldStmt:
		Inspect(n.Result, f)
	case *ThrowStmt:
		if n.X != nil {
			Inspect(n.X, f)
		}
	case *DeclStmt:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *LabeledStmt:
		Inspect(n.Stmt, f)

	case *ParenExpr:
		Inspect(n.X, f)
	case *UnaryExpr:
		Inspect(n.X, f)
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *CallExpr:
		Inspect(n.Fun, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *SelectorExpr:
		Inspect(n.X, f)
	case *IndexExpr:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *NewExpr:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *CastExpr:
		Inspect(n.X, f)
	case *RefExpr:
		Inspect(n.X, f)
	case *ThrowExpr:
		Inspect(n.X, f)
	case *CondExpr:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *AssignExpr:
		Inspect(n.Lhs, f)
		Inspect(n.Rhs, f)
	}
}

// IfSite is an if statement together with where it sits in the tree.
type IfSite struct {
	If *IfStmt
	// Next is the statement following If in its enclosing block, or nil when
	// If is the last statement or not directly inside a block.
	Next Stmt
	// ElseIf is set when If is the else clause of another if.
	ElseIf bool
}

// IfSites lists every if statement of fn in source order.
func IfSites(fn *FuncDecl) []IfSite {
	var sites []IfSite
	var visit func(s Stmt, next Stmt, elseIf bool)
	visit = func(s Stmt, next Stmt, elseIf bool) {
		switch s := s.(type) {
		case *BlockStmt:
			for i, x := range s.List {
				var nx Stmt
				if i+1 < len(s.List) {
					nx = s.List[i+1]
				}
				visit(x, nx, false)
			}
		case *IfStmt:
			sites = append(sites, IfSite{If: s, Next: next, ElseIf: elseIf})
			visit(s.Then, nil, false)
			if s.Else != nil {
				_, chained := s.Else.(*IfStmt)
				visit(s.Else, nil, chained)
			}
		case *LabeledStmt:
			visit(s.Stmt, next, false)
		}
	}
	visit(fn.Body, nil, false)
	return sites
}
