package condexpr

import (
	"context"

	"github.com/gnolang/ternlint/internal/sema"
)

// ReturnMatch is an if statement whose arms both return, both yield, or
// where one arm throws.
type ReturnMatch struct {
	Construct *Construct
	WhenTrue  Branch
	WhenFalse Branch
	// Kind is Return or YieldReturn.
	Kind BranchKind
	// Ref is set for `return ref` pairs.
	Ref    bool
	Typing Typing
}

// MatchReturn recognises
//
//	if (c) return a; else return b;
//	if (c) yield return a; else yield return b;
//	if (c) return a; else throw e;
//	if (c) return a;
//	return b;
//
// and the ref and throw-first variants. Without an else clause the
// following statement is borrowed as the false arm, provided the true arm
// leaves the block.
func (m *Matcher) MatchReturn(ctx context.Context, c *Construct) (*ReturnMatch, Reason) {
	if r := m.begin(ctx, c); r != Matched {
		return nil, r
	}
	whenFalse := c.WhenFalse()
	if whenFalse == nil {
		return nil, MissingFalseBranch
	}

	t, r := classifyReturn(unwrapBlock(c.If.Then), m.refs)
	if r != Matched {
		return nil, r
	}
	f, r := classifyReturn(unwrapLabel(unwrapBlock(whenFalse)), m.refs)
	if r != Matched {
		return nil, r
	}
	if t.Kind == Throw && f.Kind == Throw {
		return nil, DoubleThrow
	}
	if c.Borrowed() && t.Kind == YieldReturn {
		return nil, FallsThrough
	}

	value, hasThrow := pair(t, f)
	if hasThrow {
		if r := m.throwRules(value); r != Matched {
			return nil, r
		}
	} else {
		if t.Kind != f.Kind {
			return nil, KindMismatch
		}
		if r := m.refRules(t, f); r != Matched {
			return nil, r
		}
	}

	if r := m.checker.CanConvert(c); r != Matched {
		return nil, r
	}

	var dest sema.Type
	if rt, err := m.sem.ResultType(); err == nil {
		dest = rt
	}
	typing, r := m.checker.CommonType(ctx, t, f, dest, value.Ref)
	if r != Matched {
		return nil, r
	}

	return &ReturnMatch{
		Construct: c,
		WhenTrue:  t,
		WhenFalse: f,
		Kind:      value.Kind,
		Ref:       value.Ref,
		Typing:    typing,
	}, Matched
}
