package syntax

import (
	"fmt"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// LangVersion is a language version such as 7.3.
type LangVersion struct {
	Major int
	Minor int
}

// Latest is the newest language version the tools know about.
var Latest = LangVersion{Major: 12, Minor: 0}

// ParseLangVersion parses "7", "7.3" or "latest".
func ParseLangVersion(s string) (LangVersion, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "latest") {
		return Latest, nil
	}
	major, minor, _ := strings.Cut(s, ".")
	var v LangVersion
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return LangVersion{}, fmt.Errorf("invalid language version %q", s)
	}
	if minor != "" {
		if v.Minor, err = strconv.Atoi(minor); err != nil {
			return LangVersion{}, fmt.Errorf("invalid language version %q", s)
		}
	}
	return v, nil
}

// AtLeast reports whether v is the same as or newer than major.minor.
func (v LangVersion) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v LangVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Options are per-file parse options. They answer which language features a
// tree may use.
type Options struct {
	Version LangVersion
}

// DefaultOptions targets the latest language version.
func DefaultOptions() Options {
	return Options{Version: Latest}
}

// SupportsThrowExpression reports whether `throw` may appear as an expression.
func (o Options) SupportsThrowExpression() bool { return o.Version.AtLeast(7, 0) }

// SupportsRefConditional reports whether `c ? ref a : ref b` is available.
func (o Options) SupportsRefConditional() bool { return o.Version.AtLeast(7, 2) }

// SupportsConditional reports whether `c ? a : b` is available at all.
func (o Options) SupportsConditional() bool { return o.Version.AtLeast(1, 0) }

// File is a parsed source file.
type File struct {
	Name       string
	Src        []byte
	Funcs      []*FuncDecl
	Comments   []Comment
	Directives []Directive
	Options    Options

	lines []int
}

// Position converts a byte offset into a file position.
func (f *File) Position(offset int) token.Position {
	if offset < 0 {
		return token.Position{}
	}
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return token.Position{
		Filename: f.Name,
		Offset:   offset,
		Line:     i + 1,
		Column:   offset - f.lines[i] + 1,
	}
}

// LineStart returns the offset of the first byte of line (1-based).
func (f *File) LineStart(line int) int {
	if line < 1 || line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}

// CommentsIn reports whether any comment overlaps [start, end).
func (f *File) CommentsIn(start, end int) bool {
	i := sort.Search(len(f.Comments), func(i int) bool { return f.Comments[i].End > start })
	return i < len(f.Comments) && f.Comments[i].Pos < end
}

// DirectivesIn reports whether any directive overlaps [start, end).
func (f *File) DirectivesIn(start, end int) bool {
	i := sort.Search(len(f.Directives), func(i int) bool { return f.Directives[i].End > start })
	return i < len(f.Directives) && f.Directives[i].Pos < end
}

// Indent returns the whitespace that starts the line containing offset.
func (f *File) Indent(offset int) string {
	line := f.Position(offset).Line
	start := f.LineStart(line)
	if start < 0 {
		return ""
	}
	end := start
	for end < len(f.Src) && (f.Src[end] == ' ' || f.Src[end] == '\t') {
		end++
	}
	return string(f.Src[start:end])
}

const langDirective = "#lang"

// applyDirectives reads file-level settings from directives.
func (f *File) applyDirectives() error {
	for _, d := range f.Directives {
		if !strings.HasPrefix(d.Text, langDirective) {
			continue
		}
		v, err := ParseLangVersion(strings.TrimPrefix(d.Text, langDirective))
		if err != nil {
			return &Error{Offset: d.Pos, Pos: f.Position(d.Pos), Msg: err.Error()}
		}
		f.Options.Version = v
	}
	return nil
}
