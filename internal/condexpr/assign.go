package condexpr

import "context"

// AssignmentMatch is an if/else whose arms assign the same target, or where
// one arm assigns and the other throws.
type AssignmentMatch struct {
	Construct *Construct
	WhenTrue  Branch
	WhenFalse Branch
	// Ref is set when both arms are ref assignments.
	Ref    bool
	Typing Typing
}

// Assignment is the arm that carries the target.
func (a *AssignmentMatch) Assignment() Branch {
	b, _ := pair(a.WhenTrue, a.WhenFalse)
	return b
}

// MatchAssignment recognises
//
//	if (c) target = a; else target = b;
//	if (c) target = a; else throw e;
//	if (c) throw e; else target = b;
//
// The else clause is required: an assignment does not leave the block, so
// the following statement is never borrowed.
func (m *Matcher) MatchAssignment(ctx context.Context, c *Construct) (*AssignmentMatch, Reason) {
	if r := m.begin(ctx, c); r != Matched {
		return nil, r
	}
	if c.If.Else == nil {
		return nil, MissingFalseBranch
	}

	t, r := classifyAssignment(unwrapBlock(c.If.Then), m.refs)
	if r != Matched {
		return nil, r
	}
	f, r := classifyAssignment(unwrapBlock(c.If.Else), m.refs)
	if r != Matched {
		return nil, r
	}
	if t.Kind == Throw && f.Kind == Throw {
		return nil, DoubleThrow
	}

	value, hasThrow := pair(t, f)
	if hasThrow {
		if r := m.throwRules(value); r != Matched {
			return nil, r
		}
	} else {
		if !m.equivalent(t.Target, f.Target) {
			return nil, TargetMismatch
		}
		if r := m.refRules(t, f); r != Matched {
			return nil, r
		}
	}

	if r := m.checker.CanConvert(c); r != Matched {
		return nil, r
	}

	dest, err := m.sem.TypeOf(ctx, value.Target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, Canceled
		}
		dest = nil
	}
	typing, r := m.checker.CommonType(ctx, t, f, dest, value.Ref)
	if r != Matched {
		return nil, r
	}

	return &AssignmentMatch{
		Construct: c,
		WhenTrue:  t,
		WhenFalse: f,
		Ref:       value.Ref,
		Typing:    typing,
	}, Matched
}
