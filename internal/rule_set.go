package internal

import (
	"context"

	"github.com/gnolang/ternlint/internal/lints"
	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(ctx context.Context, filename string, file *syntax.File, conv sema.Conversions) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Severity returns the severity of the lint rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the lint rule.
	SetSeverity(tt.Severity)
}

type ConditionalAssignmentRule struct {
	severity tt.Severity
}

func NewConditionalAssignmentRule() LintRule {
	return &ConditionalAssignmentRule{severity: tt.SeverityWarning}
}

func (r *ConditionalAssignmentRule) Check(ctx context.Context, filename string, file *syntax.File, conv sema.Conversions) ([]tt.Issue, error) {
	return lints.DetectConditionalAssignment(ctx, filename, file, conv, r.severity)
}

func (r *ConditionalAssignmentRule) Name() string {
	return lints.ConditionalAssignmentRule
}

func (r *ConditionalAssignmentRule) Severity() tt.Severity {
	return r.severity
}

func (r *ConditionalAssignmentRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}

type ConditionalReturnRule struct {
	severity tt.Severity
}

func NewConditionalReturnRule() LintRule {
	return &ConditionalReturnRule{severity: tt.SeverityWarning}
}

func (r *ConditionalReturnRule) Check(ctx context.Context, filename string, file *syntax.File, conv sema.Conversions) ([]tt.Issue, error) {
	return lints.DetectConditionalReturn(ctx, filename, file, conv, r.severity)
}

func (r *ConditionalReturnRule) Name() string {
	return lints.ConditionalReturnRule
}

func (r *ConditionalReturnRule) Severity() tt.Severity {
	return r.severity
}

func (r *ConditionalReturnRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}
