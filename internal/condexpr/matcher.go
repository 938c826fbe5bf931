package condexpr

import (
	"context"

	"github.com/gnolang/ternlint/internal/syntax"
)

// Matcher recognises if statements that can become conditional
// expressions. A Matcher is bound to one function's semantics and shares its
// concurrency rules: it is not safe for concurrent use when the Semantics is
// not.
type Matcher struct {
	features   Features
	refs       RefPolicy
	checker    *Checker
	sem        Semantics
	equivalent func(a, b syntax.Expr) bool
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithRefPolicy replaces the default RefMarkers policy.
func WithRefPolicy(p RefPolicy) Option {
	return func(m *Matcher) {
		if p != nil {
			m.refs = p
		}
	}
}

// WithEquivalence replaces the structural comparison used for assignment
// targets.
func WithEquivalence(fn func(a, b syntax.Expr) bool) Option {
	return func(m *Matcher) {
		if fn != nil {
			m.equivalent = fn
		}
	}
}

func NewMatcher(src Source, features Features, sem Semantics, opts ...Option) *Matcher {
	m := &Matcher{
		features:   features,
		refs:       RefMarkers{},
		checker:    NewChecker(src, sem),
		sem:        sem,
		equivalent: syntax.Equivalent,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Checker returns the compatibility checker the matcher runs.
func (m *Matcher) Checker() *Checker { return m.checker }

// begin holds the checks both matchers start with.
func (m *Matcher) begin(ctx context.Context, c *Construct) Reason {
	if ctx.Err() != nil {
		return Canceled
	}
	if c == nil || c.If == nil {
		return NotApplicable
	}
	if !m.features.SupportsConditional() {
		return ConditionalUnsupported
	}
	return Matched
}

// throwRules checks a pair where one arm throws. value is the other arm.
func (m *Matcher) throwRules(value Branch) Reason {
	if !m.features.SupportsThrowExpression() {
		return ThrowUnsupported
	}
	if value.Ref {
		return RefWithThrow
	}
	return Matched
}

// refRules checks a pair where neither arm throws.
func (m *Matcher) refRules(t, f Branch) Reason {
	if t.Ref != f.Ref {
		return RefMismatch
	}
	if t.Ref && !m.features.SupportsRefConditional() {
		return RefConditionalUnsupported
	}
	return Matched
}
