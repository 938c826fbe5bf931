package nolint

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/gnolang/ternlint/internal/syntax"
)

const nolintPrefix = "//nolint"

// Manager manages nolint scopes and checks if a position is nolinted.
type Manager struct {
	// scopes maps filename to a slice of nolint scopes.
	scopes map[string][]nolintScope
}

// nolintScope represents a range in the code where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start token.Position
	end   token.Position
}

// ParseComments parses nolint comments in the given file and returns a Manager.
func ParseComments(f *syntax.File) *Manager {
	manager := Manager{
		scopes: make(map[string][]nolintScope),
	}
	stmtMap := indexStatementsByLine(f)
	firstFuncLine := 0
	if len(f.Funcs) > 0 {
		firstFuncLine = f.Position(f.Funcs[0].Pos()).Line
	}

	for _, comment := range f.Comments {
		ns, err := parseComment(comment, f, stmtMap, firstFuncLine)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		filename := ns.start.Filename
		manager.scopes[filename] = append(manager.scopes[filename], ns)
	}
	return &manager
}

// normalize accepts both `//nolint` and `// nolint`.
func normalize(text string) (string, bool) {
	if !strings.HasPrefix(text, "//") {
		return "", false
	}
	text = "//" + strings.TrimLeft(text[2:], " \t")
	return strings.TrimRight(text, " \t\r"), strings.HasPrefix(text, nolintPrefix)
}

// parseComment parses a single nolint comment and determines its scope.
func parseComment(
	comment syntax.Comment,
	f *syntax.File,
	stmtMap map[int]syntax.Stmt,
	firstFuncLine int,
) (nolintScope, error) {
	var ns nolintScope

	text, ok := normalize(comment.Text)
	if !ok {
		return ns, fmt.Errorf("invalid nolint comment")
	}

	rest := text[len(nolintPrefix):]

	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}

	if len(rest) > 0 && rest[0] == ':' {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)
	pos := f.Position(comment.Pos)

	// If the comment appears before the first function, apply it to the entire file
	if firstFuncLine > 0 && pos.Line < firstFuncLine-1 {
		ns.start = f.Position(0)
		ns.end = f.Position(len(f.Src))
		return ns, nil
	}

	// Inline comments apply to the statement they follow
	if stmt, exists := stmtMap[pos.Line]; exists && comment.Pos > stmt.Pos() {
		ns.start = f.Position(stmt.Pos())
		ns.end = f.Position(stmt.End())
		return ns, nil
	}

	// For standalone comments: if there's a statement on the next line,
	// apply to that statement's scope while including the comment line itself
	if stmt, exists := stmtMap[pos.Line+1]; exists {
		ns.start = pos
		ns.end = f.Position(stmt.End())
		return ns, nil
	}

	// A comment right above a function covers the whole function
	if fn := findFunctionAfterLine(f, pos.Line); fn != nil {
		if f.Position(fn.Pos()).Line == pos.Line+1 {
			ns.start = pos
			ns.end = f.Position(fn.End())
			return ns, nil
		}
	}

	ns.start = pos
	ns.end = pos
	return ns, nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// indexStatementsByLine maps each line to the first statement starting on it.
func indexStatementsByLine(f *syntax.File) map[int]syntax.Stmt {
	stmtMap := make(map[int]syntax.Stmt)
	for _, fn := range f.Funcs {
		syntax.Inspect(fn.Body, func(n syntax.Node) bool {
			stmt, ok := n.(syntax.Stmt)
			if !ok {
				return true
			}
			if _, isBlock := stmt.(*syntax.BlockStmt); isBlock {
				return true
			}
			line := f.Position(stmt.Pos()).Line
			if _, exists := stmtMap[line]; !exists {
				stmtMap[line] = stmt
			}
			return true
		})
	}
	return stmtMap
}

// findFunctionAfterLine finds the first function declaration at or after a given line.
func findFunctionAfterLine(f *syntax.File, line int) *syntax.FuncDecl {
	for _, fn := range f.Funcs {
		if f.Position(fn.Pos()).Line >= line {
			return fn
		}
	}
	return nil
}

// IsNolint checks if a given position and rule are nolinted.
func (m *Manager) IsNolint(pos token.Position, ruleName string) bool {
	scopes, exists := m.scopes[pos.Filename]
	if !exists {
		return false
	}
	for _, ns := range scopes {
		if pos.Line < ns.start.Line || pos.Line > ns.end.Line {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, exists := ns.rules[ruleName]; exists {
			return true
		}
	}
	return false
}
