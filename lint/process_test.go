package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/gnolang/ternlint/internal/types"
)

// TestProcessPathContextCancellation tests that context cancellation is handled properly
func TestProcessPathContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 10; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("test%d.cs", i))
		content := fmt.Sprintf(`int Test%d(bool b) {
    if (b) return 1;
    return 2;
}
`, i)
		require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	}

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	issues, err := ProcessPath(ctx, nil, engine, tempDir, ProcessFile)

	// Should return context cancelled error
	assert.ErrorIs(t, err, context.Canceled)
	// Should still return partial results
	assert.NotNil(t, issues)
}

// TestFileResultOrdering tests that results are collected in file order
func TestFileResultOrdering(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	// each file has i+1 convertible if statements
	for i := 0; i < 5; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("test%d.cs", i))
		var content strings.Builder
		for j := 0; j <= i; j++ {
			fmt.Fprintf(&content, `int F%d(bool b) {
    if (b) return %d;
    return 0;
}
`, j, j+1)
		}
		require.NoError(t, os.WriteFile(filename, []byte(content.String()), 0o644))
	}

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)
	require.NoError(t, err)
	require.Len(t, issues, 15)

	perFile := make(map[string]int)
	var order []string
	for _, issue := range issues {
		if perFile[issue.Filename] == 0 {
			order = append(order, filepath.Base(issue.Filename))
		}
		perFile[issue.Filename]++
	}
	assert.Equal(t, []string{"test0.cs", "test1.cs", "test2.cs", "test3.cs", "test4.cs"}, order)
	for i := 0; i < 5; i++ {
		assert.Equal(t, i+1, perFile[filepath.Join(tempDir, fmt.Sprintf("test%d.cs", i))])
	}
}

// TestConcurrentProcessingWithErrors tests error handling in concurrent processing
func TestConcurrentProcessingWithErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	for i := 0; i < 3; i++ {
		filename := filepath.Join(tempDir, fmt.Sprintf("valid%d.cs", i))
		content := `int F(bool b) {
    if (b) return 1;
    return 2;
}
`
		require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	}

	invalidFile := filepath.Join(tempDir, "invalid.cs")
	require.NoError(t, os.WriteFile(invalidFile, []byte("int F( {"), 0o644))

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, tempDir, ProcessFile)

	// the broken file is reported, the others are still linted
	assert.ErrorContains(t, err, "invalid.cs")
	assert.Len(t, issues, 3)
}

// TestErrorPropagationSingleFile tests that errors are properly propagated for single files
func TestErrorPropagationSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	invalidFile := filepath.Join(tempDir, "invalid.cs")
	require.NoError(t, os.WriteFile(invalidFile, []byte("int F( {"), 0o644))

	engine, err := New(tempDir, "")
	require.NoError(t, err)

	issues, err := ProcessPath(context.Background(), nil, engine, invalidFile, ProcessFile)

	assert.Error(t, err, "Should return parsing error")
	// Issues should be empty slice, not nil
	assert.Equal(t, []tt.Issue{}, issues)
}
