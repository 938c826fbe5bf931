package nolint

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/ternlint/internal/syntax"
)

func TestParseNolintRules(t *testing.T) {
	t.Parallel()
	result := parseIgnoreRuleNames("rule1, rule2,rule3,")
	assert.Len(t, result, 3)
	for _, rule := range []string{"rule1", "rule2", "rule3"} {
		assert.Contains(t, result, rule)
	}
	assert.Empty(t, parseIgnoreRuleNames(""))
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"//nolint", "//nolint", true},
		{"// nolint:rule1", "//nolint:rule1", true},
		{"//nolint  ", "//nolint", true},
		{"// keep", "//keep", false},
		{"/* nolint */", "", false},
	}
	for _, tc := range tests {
		got, ok := normalize(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		if tc.ok {
			assert.Equal(t, tc.want, got, tc.text)
		}
	}
}

func TestFunctionScope(t *testing.T) {
	t.Parallel()
	src := `int First(bool b) {
    return 1;
}

//nolint:rule1,rule2
int Pick(bool b) {
    if (b) return 1;
    return 2;
}

int Other(bool b) {
    if (b) return 1;
    return 2;
}
`
	f, err := syntax.ParseFile("test.cs", []byte(src))
	require.NoError(t, err)

	manager := ParseComments(f)
	require.NotNil(t, manager)

	assert.True(t, manager.IsNolint(positionAtLine(7), "rule1"))
	assert.True(t, manager.IsNolint(positionAtLine(8), "rule2"))
	assert.False(t, manager.IsNolint(positionAtLine(7), "rule3"))
	assert.False(t, manager.IsNolint(positionAtLine(12), "rule1"))
}

func TestFileScope(t *testing.T) {
	t.Parallel()
	src := `// nolint:rule1

int Pick(bool b) {
    if (b) return 1;
    return 2;
}
`
	f, err := syntax.ParseFile("test.cs", []byte(src))
	require.NoError(t, err)

	manager := ParseComments(f)
	assert.True(t, manager.IsNolint(positionAtLine(4), "rule1"))
	assert.True(t, manager.IsNolint(positionAtLine(5), "rule1"))
	assert.False(t, manager.IsNolint(positionAtLine(4), "rule2"))
}

func TestIsNolint(t *testing.T) {
	t.Parallel()
	source := `void Main(bool b) {
    Init();
    //nolint
    Step("Line 4");
    Step("Line 5");
    Step("Line 6"); //nolint:rule1
    //nolint:rule2
    Step("Line 8");
    // nolint: rule3
    if (b)
        Done();
}
`
	f, err := syntax.ParseFile("test.cs", []byte(source))
	require.NoError(t, err)

	manager := ParseComments(f)

	tests := []struct {
		rule     string
		line     int
		expected bool
	}{
		{"anyrule", 4, true},  // covered by nolint without rules
		{"anyrule", 5, false}, // not covered
		{"rule1", 6, true},    // covered by the inline nolint:rule1
		{"rule2", 8, true},    // covered by nolint:rule2
		{"rule3", 8, false},   // not covered for rule3
		{"rule3", 10, true},   // the whole if statement
		{"rule3", 11, true},
		{"rule3", 12, false},
	}

	for _, test := range tests {
		result := manager.IsNolint(positionAtLine(test.line), test.rule)
		assert.Equal(t, test.expected, result, "line %d rule %s", test.line, test.rule)
	}
}

func TestInvalidComments(t *testing.T) {
	t.Parallel()
	source := `void Main() {
    //nolintfoo
    Step();
    //nolint:
    Step();
}
`
	f, err := syntax.ParseFile("test.cs", []byte(source))
	require.NoError(t, err)

	manager := ParseComments(f)
	assert.False(t, manager.IsNolint(positionAtLine(3), "rule1"))
	assert.False(t, manager.IsNolint(positionAtLine(5), "rule1"))
	assert.False(t, manager.IsNolint(token.Position{Filename: "other.cs", Line: 3}, "rule1"))
}

func positionAtLine(line int) token.Position {
	return token.Position{
		Filename: "test.cs",
		Line:     line,
		Column:   1,
	}
}
