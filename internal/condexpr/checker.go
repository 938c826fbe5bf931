package condexpr

import (
	"context"
	"errors"

	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
)

// Checker decides whether a matched construct can be collapsed without
// losing source text or changing how the values are typed.
type Checker struct {
	src Source
	sem Semantics
}

func NewChecker(src Source, sem Semantics) *Checker {
	return &Checker{src: src, sem: sem}
}

// CanConvert is the structural gate. It rejects constructs whose comments or
// directives would not survive the rewrite, and borrowed statements that
// cannot be removed on their own.
//
// A trailing comment after the last arm lies outside the replaced span and
// is kept, so it does not block the rewrite.
func (k *Checker) CanConvert(c *Construct) Reason {
	ifs := c.If
	if k.src.DirectivesIn(ifs.Pos(), ifs.End()) {
		return SpansDirective
	}
	if k.src.CommentsIn(ifs.Pos(), ifs.End()) {
		return HasComments
	}
	if !c.Borrowed() {
		return Matched
	}

	next := c.Next
	if _, ok := next.(*syntax.LabeledStmt); ok {
		return NextNotRemovable
	}
	d := next.Decor()
	if d.HasComments() || len(d.Directives) > 0 {
		return NextNotRemovable
	}
	if k.src.CommentsIn(next.Pos(), next.End()) || k.src.DirectivesIn(next.Pos(), next.End()) {
		return NextNotRemovable
	}
	return Matched
}

// Typing is the outcome of the best-common-type query.
type Typing struct {
	// Type is the type of the resulting conditional expression.
	Type sema.Type
	// Cast, when set, is applied to the true value so that both arms agree,
	// or to the false value when the true arm throws.
	Cast sema.Type
}

// CommonType resolves the type of `cond ? t : f` for values flowing into
// dest. A nil dest means the destination could not be resolved; only
// identically typed values are accepted then. A throw arm has the bottom
// type and adopts the other arm's type. When the arms meet only in null, the
// null is cast to a reference or nullable dest.
//
// When the arms have no common type but both convert to dest, the true value
// is cast to dest. Ref conditionals never get a cast: both arms must have the
// same type.
func (k *Checker) CommonType(ctx context.Context, t, f Branch, dest sema.Type, ref bool) (Typing, Reason) {
	tt, r := k.valueType(ctx, t)
	if r != Matched {
		return Typing{}, r
	}
	ft, r := k.valueType(ctx, f)
	if r != Matched {
		return Typing{}, r
	}

	if ref {
		if !sema.Identical(tt, ft) {
			return Typing{}, NoCommonType
		}
		return Typing{Type: tt}, Matched
	}

	conv := k.sem.Conversions()
	common, err := sema.CommonType(conv, tt, ft)
	if err == nil && sema.Identical(common, sema.Null) {
		// null has no type of its own; the conditional takes dest's type.
		if dest == nil || sema.IsValueType(dest) || !conv.Implicit(sema.Null, dest) {
			return Typing{}, NoCommonType
		}
		return Typing{Type: dest, Cast: dest}, Matched
	}
	if err == nil && (dest == nil || conv.Implicit(common, dest)) {
		switch {
		case sema.Identical(tt, ft), tt == sema.Bottom, ft == sema.Bottom:
			return Typing{Type: common}, Matched
		case dest == nil:
			return Typing{}, NoCommonType
		case sema.Identical(common, dest):
			return Typing{Type: common}, Matched
		case sema.IsNumeric(common) && sema.IsNumeric(dest):
			return Typing{Type: common}, Matched
		}
	}

	if dest == nil || tt == sema.Bottom || ft == sema.Bottom {
		return Typing{}, NoCommonType
	}
	if !conv.Implicit(tt, dest) || !conv.Implicit(ft, dest) {
		return Typing{}, NoCommonType
	}
	return Typing{Type: dest, Cast: dest}, Matched
}

func (k *Checker) valueType(ctx context.Context, b Branch) (sema.Type, Reason) {
	if b.Kind == Throw {
		return sema.Bottom, Matched
	}
	t, err := k.sem.TypeOf(ctx, b.Value)
	switch {
	case err == nil:
		return t, Matched
	case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, Canceled
	}
	return nil, NoCommonType
}
