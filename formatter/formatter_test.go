package formatter

import (
	"go/token"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/gnolang/ternlint/internal"
	"github.com/gnolang/ternlint/internal/lints"
	tt "github.com/gnolang/ternlint/internal/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestFormatIssuesWithArrows(t *testing.T) {
	t.Parallel()
	code := &internal.SourceCode{
		Lines: []string{
			"void Main() {",
			"    int x = 1;",
			"    if (x > 0) {}",
			"}",
		},
	}

	issues := []tt.Issue{
		{
			Rule:     "unused-variable",
			Filename: "test.cs",
			Start:    token.Position{Line: 2, Column: 9},
			End:      token.Position{Line: 2, Column: 10},
			Message:  "x declared but not used",
		},
		{
			Rule:     "empty-if",
			Filename: "test.cs",
			Start:    token.Position{Line: 3, Column: 5},
			End:      token.Position{Line: 3, Column: 18},
			Message:  "empty branch",
			Severity: tt.SeverityInfo,
		},
	}

	expected := `error: unused-variable
 --> test.cs:2:9
  |
2 | int x = 1;
  |     ~
  = x declared but not used

info: empty-if
 --> test.cs:3:5
  |
3 | if (x > 0) {}
  | ~~~~~~~~~~~~~
  = empty branch

`

	result := GenerateFormattedIssue(issues, code)
	assert.Equal(t, expected, result, "Formatted output does not match expected")

	// Test with tab characters
	sourceCodeWithTabs := &internal.SourceCode{
		Lines: []string{
			"void Main() {",
			"\tint x = 1;",
			"\tif (x > 0) {}",
			"}",
		},
	}
	issues[0].Start.Column, issues[0].End.Column = 6, 7
	issues[1].Start.Column, issues[1].End.Column = 2, 15

	result = GenerateFormattedIssue(issues, sourceCodeWithTabs)
	positions := strings.NewReplacer("test.cs:2:6", "test.cs:2:9", "test.cs:3:2", "test.cs:3:5")
	assert.Equal(t, expected, positions.Replace(result))
}

func TestFormatIssuesWithArrows_MultipleDigitsLineNumbers(t *testing.T) {
	t.Parallel()

	lines := make([]string, 12)
	for i := range lines {
		lines[i] = "    Step();"
	}
	lines[10] = "    if (b) return 1;"
	lines[11] = "    return 2;"
	code := &internal.SourceCode{Lines: lines}

	issue := tt.Issue{
		Rule:       lints.ConditionalReturnRule,
		Filename:   "test.cs",
		Start:      token.Position{Line: 11, Column: 5},
		End:        token.Position{Line: 12, Column: 14},
		Message:    "if statement can be simplified to a conditional return",
		Suggestion: "return b ? 1 : 2;",
		Severity:   tt.SeverityWarning,
	}

	expected := `warning: use-conditional-return
  --> test.cs:11:5
   |
11 | if (b) return 1;
12 | return 2;
   | ~~~~~~~~~~~~~~~~
   = if statement can be simplified to a conditional return

Suggestion:
   |
11 | return b ? 1 : 2;
   |
Help: lines 11-12 become a single statement

`

	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.Equal(t, expected, result)
}

func TestConditionalFormatterWithNote(t *testing.T) {
	t.Parallel()

	code := &internal.SourceCode{
		Lines: []string{
			"void Set(bool b) {",
			"    int? x;",
			"    if (b) x = 1; else x = null;",
			"}",
		},
	}
	issue := tt.Issue{
		Rule:       lints.ConditionalAssignmentRule,
		Filename:   "test.cs",
		Start:      token.Position{Line: 3, Column: 5},
		End:        token.Position{Line: 3, Column: 33},
		Message:    "if statement can be simplified to a conditional assignment",
		Suggestion: "x = b ? (int?)1 : null;",
		Note:       "the true value is cast to int? so that both branches have the same type",
		Severity:   tt.SeverityError,
	}

	expected := `error: use-conditional-assignment
 --> test.cs:3:5
  |
3 | if (b) x = 1; else x = null;
  | ~~~~~~~~~~~~~~~~~~~~~~~~~~~~
  = if statement can be simplified to a conditional assignment

Suggestion:
  |
3 | x = b ? (int?)1 : null;
  |
Note: the true value is cast to int? so that both branches have the same type

`
	assert.Equal(t, expected, GenerateFormattedIssue([]tt.Issue{issue}, code))
}

func TestGeneralFormatterWithNote(t *testing.T) {
	t.Parallel()

	code := &internal.SourceCode{Lines: []string{"void F() {", "    x = 1;", "}"}}
	issue := tt.Issue{
		Rule:       "empty-if",
		Filename:   "test.cs",
		Start:      token.Position{Line: 2, Column: 5},
		End:        token.Position{Line: 2, Column: 11},
		Message:    "constant assignment",
		Suggestion: "x = 2;",
		Note:       "x is never read",
		Severity:   tt.SeverityWarning,
	}

	expected := `warning: empty-if
 --> test.cs:2:5
  |
2 | x = 1;
  | ~~~~~~
  = constant assignment

Suggestion:
  |
2 | x = 2;
  |
Note: x is never read

`
	assert.Equal(t, expected, GenerateFormattedIssue([]tt.Issue{issue}, code))
}

func TestOutOfRangeIssue(t *testing.T) {
	t.Parallel()

	code := &internal.SourceCode{Lines: []string{"int F() {", "}"}}
	issue := tt.Issue{
		Rule:     "r",
		Filename: "test.cs",
		Start:    token.Position{Line: 5, Column: 1},
		End:      token.Position{Line: 6, Column: 1},
		Message:  "gone",
	}
	result := GenerateFormattedIssue([]tt.Issue{issue}, code)
	assert.Contains(t, result, "  | gone\n")
}

func TestCalculateVisualColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		column int
		want   int
	}{
		{"abc", 1, 0},
		{"abc", 3, 2},
		{"\tx", 2, 8},
		{"ab\tx", 4, 8},
		{"한글x", 7, 4},
		{"abc", 10, 3},
		{"abc", -1, 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, calculateVisualColumn(tc.line, tc.column), "%q:%d", tc.line, tc.column)
	}
}

func TestLongLinesAreTruncated(t *testing.T) {
	t.Parallel()

	long := "    return " + strings.Repeat("a", 200) + ";"
	out := codeSnippet([]string{long}, 1, 1, 1, "    ", "  ")
	assert.Contains(t, out, "...")
	assert.Less(t, len(out), 160)
}

func TestFindCommonIndent(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		lines    []string
	}{
		{
			name: "whitespace indent",
			lines: []string{
				"    if (foo) {",
				"        Step();",
				"    }",
			},
			expected: "    ",
		},
		{
			name: "tab indent",
			lines: []string{
				"	if (foo) {",
				"		Step();",
				"	}",
			},
			expected: "\t",
		},
		{
			name: "mixed indent (space and tab)",
			lines: []string{
				"\t    if (foo) {",
				"\t    \tStep();",
				"\t    }",
			},
			expected: "\t    ",
		},
		{
			name: "no indent",
			lines: []string{
				"if (foo) {",
				"Step();",
				"}",
			},
			expected: "",
		},
		{
			name: "empty line",
			lines: []string{
				"    if (foo) {",
				"",
				"        Step();",
				"    }",
			},
			expected: "    ",
		},
		{
			name: "various indent levels",
			lines: []string{
				"    if (foo) {",
				"      Bar();",
				"        Baz();",
				"    }",
			},
			expected: "    ",
		},
		{
			name:     "empty input",
			lines:    []string{},
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, findCommonIndent(tc.lines))
		})
	}
}
