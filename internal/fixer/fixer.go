package fixer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gnolang/ternlint/internal/syntax"
	tt "github.com/gnolang/ternlint/internal/types"
)

type Fixer struct {
	DryRun        bool
	MinConfidence float64 // threshold for fixing issues
	Out           io.Writer
}

func New(dryRun bool, threshold float64) *Fixer {
	return &Fixer{
		DryRun:        dryRun,
		MinConfidence: threshold,
		Out:           os.Stdout,
	}
}

// Fix applies the edits of issues to filename and returns how many issues
// were fixed. Issues whose edits overlap an issue already taken are left
// for a later pass.
func (f *Fixer) Fix(filename string, issues []tt.Issue) (int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read file: %w", err)
	}

	selected := f.selectIssues(issues)
	if len(selected) == 0 {
		return 0, nil
	}

	if f.DryRun {
		for _, issue := range selected {
			fmt.Fprintf(f.Out, "Would fix issue in %s at line %d: %s\n", filename, issue.Start.Line, issue.Message)
			fmt.Fprintf(f.Out, "Suggestion:\n%s\n", issue.Suggestion)
		}
		return len(selected), nil
	}

	newContent, err := Apply(content, selected)
	if err != nil {
		return 0, err
	}

	// never write a file we cannot read back
	if _, err := syntax.ParseFile(filename, newContent); err != nil {
		return 0, fmt.Errorf("failed to parse fixed file: %w", err)
	}

	if err := writeFile(filename, newContent); err != nil {
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Fprintf(f.Out, "Fixed issues in %s\n", filename)
	return len(selected), nil
}

// FixAll groups issues by file and fixes each file.
func (f *Fixer) FixAll(issues []tt.Issue) (int, error) {
	byFile := make(map[string][]tt.Issue)
	var files []string
	for _, issue := range issues {
		if _, ok := byFile[issue.Filename]; !ok {
			files = append(files, issue.Filename)
		}
		byFile[issue.Filename] = append(byFile[issue.Filename], issue)
	}
	sort.Strings(files)

	total := 0
	for _, file := range files {
		n, err := f.Fix(file, byFile[file])
		total += n
		if err != nil {
			return total, fmt.Errorf("%s: %w", file, err)
		}
	}
	return total, nil
}

type span struct{ start, end int }

func spanOf(issue tt.Issue) span {
	s := span{start: issue.Edits[0].Start, end: issue.Edits[0].End}
	for _, e := range issue.Edits[1:] {
		s.start = min(s.start, e.Start)
		s.end = max(s.end, e.End)
	}
	return s
}

// selectIssues keeps the fixable issues above the confidence threshold that
// do not overlap each other, ordered from the end of the file.
func (f *Fixer) selectIssues(issues []tt.Issue) []tt.Issue {
	candidates := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Confidence < f.MinConfidence || len(issue.Edits) == 0 {
			continue
		}
		candidates = append(candidates, issue)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return spanOf(candidates[i]).end > spanOf(candidates[j]).end
	})

	var selected []tt.Issue
	limit := -1
	for _, issue := range candidates {
		s := spanOf(issue)
		if limit >= 0 && s.end > limit {
			continue
		}
		selected = append(selected, issue)
		limit = s.start
	}
	return selected
}

// Apply applies the edits of non-overlapping issues to src.
func Apply(src []byte, issues []tt.Issue) ([]byte, error) {
	var edits []tt.TextEdit
	for _, issue := range issues {
		edits = append(edits, issue.Edits...)
	}
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start > edits[j].Start
	})

	out := append([]byte(nil), src...)
	prev := len(src)
	for _, e := range edits {
		if e.Start < 0 || e.Start > e.End || e.End > prev {
			return nil, fmt.Errorf("invalid edit [%d, %d)", e.Start, e.End)
		}
		out = append(out[:e.Start], append([]byte(e.NewText), out[e.End:]...)...)
		prev = e.Start
	}
	return out, nil
}

// writeFile replaces filename atomically, keeping its permissions.
func writeFile(filename string, content []byte) error {
	info, err := os.Stat(filename)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".ternlint-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filename)
}
