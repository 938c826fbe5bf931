package condexpr

import (
	"context"

	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
)

// Features answers which language capabilities the tree being analysed may
// use. syntax.Options implements it.
type Features interface {
	SupportsConditional() bool
	SupportsThrowExpression() bool
	SupportsRefConditional() bool
}

// RefPolicy decides whether a return or an assignment binds by reference.
// The notion is language specific, so it is injected rather than computed.
type RefPolicy interface {
	ReturnIsRef(ret *syntax.ReturnStmt) bool
	AssignmentIsRef(assign *syntax.AssignExpr) bool
}

// Semantics is the semantic model the matchers query. *sema.Scope
// implements it.
type Semantics interface {
	TypeOf(ctx context.Context, e syntax.Expr) (sema.Type, error)
	// ResultType is the type returned or yielded values convert to.
	ResultType() (sema.Type, error)
	Conversions() sema.Conversions
}

// Source answers questions about the text around nodes. *syntax.File
// implements it.
type Source interface {
	CommentsIn(start, end int) bool
	DirectivesIn(start, end int) bool
}

// RefMarkers is the RefPolicy of languages that spell ref bindings with a
// `ref` prefix on the value: `return ref x;` and `x = ref y;`.
type RefMarkers struct{}

func (RefMarkers) ReturnIsRef(ret *syntax.ReturnStmt) bool {
	if ret == nil {
		return false
	}
	_, ok := ret.Result.(*syntax.RefExpr)
	return ok
}

func (RefMarkers) AssignmentIsRef(assign *syntax.AssignExpr) bool {
	if assign == nil {
		return false
	}
	_, ok := assign.Rhs.(*syntax.RefExpr)
	return ok
}

var (
	_ Features  = syntax.Options{}
	_ Semantics = (*sema.Scope)(nil)
	_ Source    = (*syntax.File)(nil)
	_ RefPolicy = RefMarkers{}
)
