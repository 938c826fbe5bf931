package syntax

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Error is a syntax error at a source position.
type Error struct {
	Offset int
	Pos    token.Position
	Msg    string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

// ErrorList is a list of syntax errors.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, 0, len(l))
	for _, e := range l {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%s (and %d more errors)", msgs[0], len(l)-1) + "\n" + strings.Join(msgs[1:], "\n")
}

// Err returns nil for an empty list, the list otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	sort.SliceStable(l, func(i, j int) bool { return l[i].Offset < l[j].Offset })
	return l
}
