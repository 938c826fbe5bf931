package lints

import (
	"strings"

	"github.com/gnolang/ternlint/internal/condexpr"
	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

// TextEdits converts fix into byte edits on file.Src. The first edit always
// replaces the if statement. Leading trivia of the if lies before its first
// byte, so it survives untouched.
//
// A deleted statement takes the whitespace before it along, back to the end
// of the previous token or comment, so no blank line is left behind.
func TextEdits(file *syntax.File, fix *condexpr.Fix) []tt.TextEdit {
	indent := file.Indent(fix.Replace.Pos())
	p := syntax.Printer{Indent: indentUnit(file.Src)}

	edits := []tt.TextEdit{{
		Start:   fix.Replace.Pos(),
		End:     fix.Replace.End(),
		NewText: p.Stmt(fix.With, indent),
	}}
	for _, d := range fix.Delete {
		start := d.Pos()
		for start > 0 && isSpace(file.Src[start-1]) {
			start--
		}
		edits = append(edits, tt.TextEdit{Start: start, End: d.End()})
	}
	return edits
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// indentUnit guesses one level of indentation from the first indented line.
func indentUnit(src []byte) string {
	for _, line := range strings.Split(string(src), "\n") {
		switch {
		case strings.HasPrefix(line, "\t"):
			return "\t"
		case strings.HasPrefix(line, " "):
			n := len(line) - len(strings.TrimLeft(line, " "))
			return strings.Repeat(" ", n)
		}
	}
	return ""
}
