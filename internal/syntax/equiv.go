package syntax

// Equivalent reports whether two expressions are syntactically identical,
// ignoring positions, whitespace and comments.
func Equivalent(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Ident:
		y, ok := b.(*Ident)
		return ok && x.Name == y.Name
	case *BasicLit:
		y, ok := b.(*BasicLit)
		return ok && x.Kind == y.Kind && x.Value == y.Value
	case *ParenExpr:
		y, ok := b.(*ParenExpr)
		return ok && Equivalent(x.X, y.X)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && Equivalent(x.X, y.X)
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op && Equivalent(x.X, y.X) && Equivalent(x.Y, y.Y)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		return ok && Equivalent(x.Fun, y.Fun) && equivalentList(x.Args, y.Args)
	case *SelectorExpr:
		y, ok := b.(*SelectorExpr)
		return ok && x.Sel.Name == y.Sel.Name && Equivalent(x.X, y.X)
	case *IndexExpr:
		y, ok := b.(*IndexExpr)
		return ok && Equivalent(x.X, y.X) && Equivalent(x.Index, y.Index)
	case *NewExpr:
		y, ok := b.(*NewExpr)
		return ok && EquivalentTypes(x.Type, y.Type) && equivalentList(x.Args, y.Args)
	case *CastExpr:
		y, ok := b.(*CastExpr)
		return ok && EquivalentTypes(x.Type, y.Type) && Equivalent(x.X, y.X)
	case *RefExpr:
		y, ok := b.(*RefExpr)
		return ok && Equivalent(x.X, y.X)
	case *ThrowExpr:
		y, ok := b.(*ThrowExpr)
		return ok && Equivalent(x.X, y.X)
	case *CondExpr:
		y, ok := b.(*CondExpr)
		return ok && Equivalent(x.Cond, y.Cond) && Equivalent(x.Then, y.Then) && Equivalent(x.Else, y.Else)
	case *AssignExpr:
		y, ok := b.(*AssignExpr)
		return ok && Equivalent(x.Lhs, y.Lhs) && Equivalent(x.Rhs, y.Rhs)
	}
	return false
}

func equivalentList(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equivalent(a[i], b[i]) {
			return false
		}
	}
	return true
}

// EquivalentTypes reports whether two type expressions spell the same type.
func EquivalentTypes(a, b *TypeExpr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name != b.Name || a.Nullable != b.Nullable || a.Array != b.Array || a.Ref != b.Ref || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !EquivalentTypes(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}
