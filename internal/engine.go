package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gnolang/ternlint/internal/lints"
	"github.com/gnolang/ternlint/internal/nolint"
	"github.com/gnolang/ternlint/internal/sema"
	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	rootDir      string
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
	options      syntax.Options
	conversions  *sema.ConversionTable
	extraConv    []string
	cache        *Cache
	logger       *zap.Logger

	// watch state
	watcherMu sync.Mutex
	watching  bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithLanguageVersion sets the language version files are parsed with,
// unless a file overrides it with a `#lang` directive.
func WithLanguageVersion(version string) EngineOption {
	return func(e *Engine) error {
		v, err := syntax.ParseLangVersion(version)
		if err != nil {
			return err
		}
		e.options.Version = v
		return nil
	}
}

// WithConversion registers an extra implicit conversion from one type name
// to another.
func WithConversion(from, to string) EngineOption {
	return func(e *Engine) error {
		if from == "" || to == "" {
			return fmt.Errorf("invalid conversion %q -> %q", from, to)
		}
		e.conversions.Allow(from, to)
		e.extraConv = append(e.extraConv, from+"->"+to)
		return nil
	}
}

// WithCache makes the engine reuse results for unchanged sources.
func WithCache(cache *Cache) EngineOption {
	return func(e *Engine) error {
		e.cache = cache
		return nil
	}
}

func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewEngine creates a new lint engine.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule, opts ...EngineOption) (*Engine, error) {
	engine := &Engine{
		rootDir:     rootDir,
		options:     syntax.DefaultOptions(),
		conversions: sema.NewConversionTable(),
		logger:      zap.NewNop(),
	}
	engine.applyRules(rules)

	for _, opt := range opts {
		if err := opt(engine); err != nil {
			return nil, fmt.Errorf("error configuring engine: %w", err)
		}
	}
	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	lints.ConditionalAssignmentRule: NewConditionalAssignmentRule,
	lints.ConditionalReturnRule:     NewConditionalReturnRule,
}

// RuleNames lists every known rule, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRules returns every rule with its default severity.
func DefaultRules() map[string]tt.ConfigRule {
	rules := make(map[string]tt.ConfigRule, len(allRuleConstructors))
	for name, newRule := range allRuleConstructors {
		rules[name] = tt.ConfigRule{Severity: newRule().Severity()}
	}
	return rules
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	// Iterate over the rules and apply severity
	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			r = newRuleCstr()
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
	}
}

func (e *Engine) registerDefaultRules() {
	// iterate over allRuleConstructors and add them to the rules map if severity is not off
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes files matching pattern. Patterns are matched with
// filepath.Match against the path relative to the root directory and
// against the base name.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
}

func (e *Engine) isIgnoredPath(filename string) bool {
	rel := filename
	if e.rootDir != "" {
		if r, err := filepath.Rel(e.rootDir, filename); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(filename)); ok {
			return true
		}
		if strings.HasPrefix(rel, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}
	return false
}

// settings fingerprints everything besides the source that changes results.
func (e *Engine) settings() string {
	var b strings.Builder
	b.WriteString(e.options.Version.String())
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, ";%s=%s", name, e.rules[name].Severity())
		if e.ignoredRules[name] {
			b.WriteString("!")
		}
	}
	for _, c := range e.extraConv {
		b.WriteString(";" + c)
	}
	return b.String()
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	return e.RunContext(context.Background(), filename)
}

// RunContext is Run with cancellation.
func (e *Engine) RunContext(ctx context.Context, filename string) ([]tt.Issue, error) {
	if e.isIgnoredPath(filename) {
		e.logger.Debug("skipping ignored file", zap.String("file", filename))
		return nil, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.RunSourceContext(ctx, filename, source)
}

// RunSource applies all lint rules to the given source and returns a slice of Issues.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.RunSourceContext(context.Background(), "", source)
}

// RunSourceContext lints source as if it were read from filename.
func (e *Engine) RunSourceContext(ctx context.Context, filename string, source []byte) ([]tt.Issue, error) {
	var key string
	if e.cache != nil {
		key = CacheKey(source, e.settings())
		if issues, ok := e.cache.Get(key); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return withFilename(issues, filename), nil
		}
	}

	file, err := syntax.ParseFileWithOptions(filename, source, e.options)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}

	issues, err := e.runRules(ctx, filename, file)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(key, filename, issues); err != nil {
			e.logger.Warn("failed to write cache", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

// Explain reports, for every if statement of the function funcName in
// filename, whether each rule converts it and why not.
func (e *Engine) Explain(ctx context.Context, filename, funcName string) ([]lints.Verdict, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	file, err := syntax.ParseFileWithOptions(filename, source, e.options)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %w", err)
	}
	verdicts, ok := lints.Explain(ctx, file, e.conversions, funcName)
	if !ok {
		return nil, fmt.Errorf("function not found: %s", funcName)
	}
	return verdicts, nil
}

func (e *Engine) runRules(ctx context.Context, filename string, file *syntax.File) ([]tt.Issue, error) {
	nolintMgr := nolint.ParseComments(file)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		allIssues []tt.Issue
		firstErr  error
	)
	for _, rule := range e.rules {
		if e.ignoredRules[rule.Name()] {
			continue
		}
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			issues, err := r.Check(ctx, filename, file, e.conversions)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			allIssues = append(allIssues, filterNolintIssues(nolintMgr, issues)...)
		}(rule)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	sortIssues(allIssues)
	return allIssues, nil
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !mgr.IsNolint(issue.Start, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Start.Offset != issues[j].Start.Offset {
			return issues[i].Start.Offset < issues[j].Start.Offset
		}
		return issues[i].Rule < issues[j].Rule
	})
}

func withFilename(issues []tt.Issue, filename string) []tt.Issue {
	out := make([]tt.Issue, len(issues))
	for i, issue := range issues {
		issue.Filename = filename
		issue.Start.Filename = filename
		issue.End.Filename = filename
		out[i] = issue
	}
	return out
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
