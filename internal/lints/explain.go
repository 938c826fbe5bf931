package lints

import (
	"context"

	"github.com/gnolang/ternlint/internal/condexpr"
	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
)

// Verdict is the outcome of one rule on one if statement.
type Verdict struct {
	Rule   string
	Line   int
	Reason condexpr.Reason
}

// Explain runs both rules over every if statement of the function named
// funcName and reports each outcome, in source order. ok is false when file
// has no such function.
func Explain(ctx context.Context, file *syntax.File, conv sema.Conversions, funcName string) (verdicts []Verdict, ok bool) {
	var fn *syntax.FuncDecl
	for _, f := range file.Funcs {
		if f.Name != nil && f.Name.Name == funcName {
			fn = f
			break
		}
	}
	if fn == nil {
		return nil, false
	}

	model := sema.NewModel(file, conv)
	m := condexpr.NewMatcher(file, file.Options, model.Func(fn))

	rules := []struct {
		name string
		run  match
	}{
		{ConditionalAssignmentRule, matchAssignment},
		{ConditionalReturnRule, matchReturn},
	}
	for _, site := range syntax.IfSites(fn) {
		line := file.Position(site.If.Pos()).Line
		for _, rule := range rules {
			_, reason := rule.run(ctx, m, condexpr.NewConstruct(site))
			verdicts = append(verdicts, Verdict{Rule: rule.name, Line: line, Reason: reason})
		}
	}
	return verdicts, true
}
