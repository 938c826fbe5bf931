package fixer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ternlint/internal/lints"
	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

const confidenceThreshold = 0.8

func detect(t *testing.T, filename string, src []byte) []tt.Issue {
	t.Helper()
	file, err := syntax.ParseFile(filename, src)
	require.NoError(t, err)

	ret, err := lints.DetectConditionalReturn(context.Background(), filename, file, nil, tt.SeverityWarning)
	require.NoError(t, err)
	assign, err := lints.DetectConditionalAssignment(context.Background(), filename, file, nil, tt.SeverityWarning)
	require.NoError(t, err)
	return append(ret, assign...)
}

func TestAutoFixer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
		dryRun   bool
	}{
		{
			name: "Fix - Simple case",
			input: `int Pick(bool b) {
    if (b) return 1;
    return 2;
}
`,
			expected: `int Pick(bool b) {
    return b ? 1 : 2;
}
`,
		},
		{
			name: "Fix - Multiple issues",
			input: `int A(bool b) {
	if (b) {
		return 1;
	} else {
		return 2;
	}
}

void B(bool b) {
	string s;
	if (b) s = "x"; else s = "y";
	Use(s);
}
`,
			expected: `int A(bool b) {
	return b ? 1 : 2;
}

void B(bool b) {
	string s;
	s = b ? "x" : "y";
	Use(s);
}
`,
		},
		{
			name: "Fix - Preserve indentation",
			input: `int Pick(bool a, bool b) {
    if (a) {
        if (b) return 1;
        return 2;
    }
    return 3;
}
`,
			expected: `int Pick(bool a, bool b) {
    if (a) {
        return b ? 1 : 2;
    }
    return 3;
}
`,
		},
		{
			name: "DryRun",
			input: `int Pick(bool b) {
    if (b) return 1;
    return 2;
}
`,
			expected: `int Pick(bool b) {
    if (b) return 1;
    return 2;
}
`,
			dryRun: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmpfile := filepath.Join(t.TempDir(), "test.cs")
			require.NoError(t, os.WriteFile(tmpfile, []byte(tc.input), 0o644))

			issues := detect(t, tmpfile, []byte(tc.input))
			require.NotEmpty(t, issues)

			var out bytes.Buffer
			fixer := New(tc.dryRun, confidenceThreshold)
			fixer.Out = &out

			n, err := fixer.Fix(tmpfile, issues)
			require.NoError(t, err)
			assert.Positive(t, n)

			content, err := os.ReadFile(tmpfile)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, string(content))

			if tc.dryRun {
				assert.Contains(t, out.String(), "Would fix issue in")
				assert.Contains(t, out.String(), "return b ? 1 : 2;")
			} else {
				assert.Contains(t, out.String(), "Fixed issues in")
			}
		})
	}
}

func TestFixOverlapsNeedAnotherPass(t *testing.T) {
	t.Parallel()

	// the outer if becomes convertible only after the inner one is rewritten
	input := `int Sign(int i) {
    if (i < 0) return -1;
    if (i > 0) return 1;
    return 0;
}
`
	tmpfile := filepath.Join(t.TempDir(), "sign.cs")
	require.NoError(t, os.WriteFile(tmpfile, []byte(input), 0o644))

	fixer := New(false, confidenceThreshold)
	fixer.Out = &bytes.Buffer{}

	for pass := 0; pass < 4; pass++ {
		content, err := os.ReadFile(tmpfile)
		require.NoError(t, err)
		issues := detect(t, tmpfile, content)
		if len(issues) == 0 {
			break
		}
		n, err := fixer.Fix(tmpfile, issues)
		require.NoError(t, err)
		require.Positive(t, n)
	}

	content, err := os.ReadFile(tmpfile)
	require.NoError(t, err)
	assert.Equal(t, `int Sign(int i) {
    return i < 0 ? -1 : i > 0 ? 1 : 0;
}
`, string(content))
}

func TestSelectIssues(t *testing.T) {
	t.Parallel()

	issues := []tt.Issue{
		{Rule: "a", Confidence: 0.9, Edits: []tt.TextEdit{{Start: 0, End: 10}}},
		{Rule: "b", Confidence: 0.9, Edits: []tt.TextEdit{{Start: 5, End: 8}}},
		{Rule: "c", Confidence: 0.9, Edits: []tt.TextEdit{{Start: 20, End: 30}, {Start: 12, End: 15}}},
		{Rule: "low", Confidence: 0.5, Edits: []tt.TextEdit{{Start: 40, End: 45}}},
		{Rule: "no-edits", Confidence: 1},
	}

	f := New(false, confidenceThreshold)
	selected := f.selectIssues(issues)

	var rules []string
	for _, s := range selected {
		rules = append(rules, s.Rule)
	}
	// "c" spans [12, 30); "a" ends at 10 and fits, "b" then overlaps "a"
	assert.Equal(t, []string{"c", "a"}, rules)
}

func TestApply(t *testing.T) {
	t.Parallel()

	src := []byte("0123456789")
	out, err := Apply(src, []tt.Issue{
		{Edits: []tt.TextEdit{{Start: 1, End: 3, NewText: "ab"}, {Start: 6, End: 9}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "0ab3459", string(out))
	assert.Equal(t, "0123456789", string(src))

	_, err = Apply(src, []tt.Issue{
		{Edits: []tt.TextEdit{{Start: 1, End: 5}}},
		{Edits: []tt.TextEdit{{Start: 3, End: 7}}},
	})
	assert.Error(t, err)
}

func TestFixRejectsBrokenResult(t *testing.T) {
	t.Parallel()

	input := "int F() {\n    return 1;\n}\n"
	tmpfile := filepath.Join(t.TempDir(), "f.cs")
	require.NoError(t, os.WriteFile(tmpfile, []byte(input), 0o644))

	fixer := New(false, 0)
	fixer.Out = &bytes.Buffer{}
	_, err := fixer.Fix(tmpfile, []tt.Issue{
		{Confidence: 1, Edits: []tt.TextEdit{{Start: 0, End: 3, NewText: "int F( {"}}},
	})
	assert.Error(t, err)

	content, err := os.ReadFile(tmpfile)
	require.NoError(t, err)
	assert.Equal(t, input, string(content))
}

func TestFixAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := "int Pick(bool b) {\n    if (b) return 1;\n    return 2;\n}\n"
	var issues []tt.Issue
	for _, name := range []string{"a.cs", "b.cs"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		issues = append(issues, detect(t, path, []byte(src))...)
	}

	fixer := New(false, confidenceThreshold)
	fixer.Out = &bytes.Buffer{}
	n, err := fixer.FixAll(issues)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, name := range []string{"a.cs", "b.cs"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "int Pick(bool b) {\n    return b ? 1 : 2;\n}\n", string(content))
	}
}
