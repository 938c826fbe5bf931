package lints

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gnolang/ternlint/internal/condexpr"
	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

const (
	ConditionalAssignmentRule = "use-conditional-assignment"
	ConditionalReturnRule     = "use-conditional-return"

	category = "simplification"
)

// confidence of an automatic fix. Fixes that add a cast change how the
// source reads more than plain ones, so they rank lower.
const (
	fixConfidence     = 0.9
	castFixConfidence = 0.8
)

// match runs one matcher over a construct and rewrites it on success.
type match func(ctx context.Context, m *condexpr.Matcher, c *condexpr.Construct) (*rewrite, condexpr.Reason)

type rewrite struct {
	fix     *condexpr.Fix
	message string
	cast    sema.Type
	throws  bool
}

// DetectConditionalAssignment reports if/else statements whose branches
// assign the same target, and which can be written as a single assignment
// of a conditional expression.
func DetectConditionalAssignment(
	ctx context.Context,
	filename string,
	file *syntax.File,
	conv sema.Conversions,
	severity tt.Severity,
) ([]tt.Issue, error) {
	return detect(ctx, filename, file, conv, ConditionalAssignmentRule, severity, matchAssignment)
}

// DetectConditionalReturn reports if statements whose branches return,
// yield or throw, and which can be written as a single return of a
// conditional expression. An if without else borrows the statement that
// follows it.
func DetectConditionalReturn(
	ctx context.Context,
	filename string,
	file *syntax.File,
	conv sema.Conversions,
	severity tt.Severity,
) ([]tt.Issue, error) {
	return detect(ctx, filename, file, conv, ConditionalReturnRule, severity, matchReturn)
}

func matchAssignment(ctx context.Context, m *condexpr.Matcher, c *condexpr.Construct) (*rewrite, condexpr.Reason) {
	am, reason := m.MatchAssignment(ctx, c)
	if reason != condexpr.Matched {
		return nil, reason
	}
	_, throws := pairThrow(am.WhenTrue, am.WhenFalse)
	return &rewrite{
		fix:     condexpr.RewriteAssignment(am),
		message: "if statement can be simplified to a conditional assignment",
		cast:    am.Typing.Cast,
		throws:  throws,
	}, condexpr.Matched
}

func matchReturn(ctx context.Context, m *condexpr.Matcher, c *condexpr.Construct) (*rewrite, condexpr.Reason) {
	rm, reason := m.MatchReturn(ctx, c)
	if reason != condexpr.Matched {
		return nil, reason
	}
	msg := "if statement can be simplified to a conditional return"
	if rm.Kind == condexpr.YieldReturn {
		msg = "if statement can be simplified to a conditional yield return"
	}
	_, throws := pairThrow(rm.WhenTrue, rm.WhenFalse)
	return &rewrite{
		fix:     condexpr.RewriteReturn(rm),
		message: msg,
		cast:    rm.Typing.Cast,
		throws:  throws,
	}, condexpr.Matched
}

func pairThrow(t, f condexpr.Branch) (condexpr.Branch, bool) {
	if t.Kind == condexpr.Throw {
		return t, true
	}
	return f, f.Kind == condexpr.Throw
}

// detect analyses the functions of file concurrently. Each function gets its
// own semantic scope, so workers share nothing but the read-only tree.
func detect(
	ctx context.Context,
	filename string,
	file *syntax.File,
	conv sema.Conversions,
	rule string,
	severity tt.Severity,
	run match,
) ([]tt.Issue, error) {
	model := sema.NewModel(file, conv)
	results := make([][]tt.Issue, len(file.Funcs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, fn := range file.Funcs {
		g.Go(func() error {
			m := condexpr.NewMatcher(file, file.Options, model.Func(fn))
			for _, site := range syntax.IfSites(fn) {
				if err := gctx.Err(); err != nil {
					return err
				}
				rw, reason := run(gctx, m, condexpr.NewConstruct(site))
				switch reason {
				case condexpr.Matched:
					results[i] = append(results[i], newIssue(filename, file, rule, severity, rw))
				case condexpr.Canceled:
					return gctx.Err()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", rule, err)
	}

	var issues []tt.Issue
	for _, r := range results {
		issues = append(issues, r...)
	}
	return issues, nil
}

func newIssue(filename string, file *syntax.File, rule string, severity tt.Severity, rw *rewrite) tt.Issue {
	fix := rw.fix
	end := fix.Replace.End()
	for _, d := range fix.Delete {
		if d.End() > end {
			end = d.End()
		}
	}

	edits := TextEdits(file, fix)
	confidence := fixConfidence
	var note string
	switch {
	case rw.cast != nil:
		confidence = castFixConfidence
		note = fmt.Sprintf("the true value is cast to %s so that both branches have the same type", rw.cast)
	case rw.throws:
		note = "the throw statement becomes a throw expression"
	}

	start := file.Position(fix.Replace.Pos())
	stop := file.Position(end)
	start.Filename, stop.Filename = filename, filename

	return tt.Issue{
		Rule:       rule,
		Category:   category,
		Filename:   filename,
		Message:    rw.message,
		Suggestion: edits[0].NewText,
		Note:       note,
		Start:      start,
		End:        stop,
		Severity:   severity,
		Confidence: confidence,
		Edits:      edits,
	}
}
