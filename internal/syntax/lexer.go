package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans the input and produces tokens. Whitespace, comments and
// directives are attached to the following token as trivia.
type Lexer struct {
	src      []byte
	position int
	tokens   []Token
	errs     ErrorList
	lines    []int
}

// NewLexer returns a new Lexer over src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{
		src:    src,
		tokens: make([]Token, 0, len(src)/4),
		lines:  []int{0},
	}
}

// Tokenize processes the entire input. The returned slice always ends with an
// EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return l.tokens, l.errs.Err()
}

// Lines returns the offsets of every line start seen so far.
func (l *Lexer) Lines() []int { return l.lines }

func (l *Lexer) next() Token {
	var (
		comments   []Comment
		directives []Directive
		leadStart  = -1
		lineStart  = l.atLineStart()
	)

	for l.position < len(l.src) {
		c := l.src[l.position]
		switch {
		case c == '\n':
			l.position++
			l.lines = append(l.lines, l.position)
			lineStart = true
			continue
		case c == ' ' || c == '\t' || c == '\r':
			l.position++
			continue
		case c == '/' && l.peek(1) == '/':
			start := l.position
			for l.position < len(l.src) && l.src[l.position] != '\n' {
				l.position++
			}
			comments = append(comments, Comment{Pos: start, End: l.position, Text: string(l.src[start:l.position])})
			if leadStart < 0 {
				leadStart = start
			}
			continue
		case c == '/' && l.peek(1) == '*':
			start := l.position
			end := strings.Index(string(l.src[start+2:]), "*/")
			if end < 0 {
				l.errorf(start, "comment not terminated")
				l.position = len(l.src)
			} else {
				l.position = start + 2 + end + 2
			}
			for i := start; i < l.position; i++ {
				if l.src[i] == '\n' {
					l.lines = append(l.lines, i+1)
				}
			}
			comments = append(comments, Comment{Pos: start, End: l.position, Text: string(l.src[start:l.position])})
			if leadStart < 0 {
				leadStart = start
			}
			continue
		case c == '#' && lineStart:
			start := l.position
			for l.position < len(l.src) && l.src[l.position] != '\n' {
				l.position++
			}
			text := strings.TrimRight(string(l.src[start:l.position]), " \t\r")
			directives = append(directives, Directive{Pos: start, End: start + len(text), Text: text})
			if leadStart < 0 {
				leadStart = start
			}
			continue
		}
		break
	}

	tok := l.scanToken()
	tok.Comments = comments
	tok.Directives = directives
	tok.LeadStart = tok.Pos
	if leadStart >= 0 {
		tok.LeadStart = leadStart
	}
	return tok
}

func (l *Lexer) scanToken() Token {
	start := l.position
	if l.position >= len(l.src) {
		return Token{Kind: EOF, Pos: start, End: start}
	}

	c := l.src[l.position]
	switch {
	case isLetter(rune(c)) || c >= utf8.RuneSelf:
		return l.scanIdent()
	case isDigit(c):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	}

	kind := ILLEGAL
	width := 1
	switch c {
	case '(':
		kind = LPAREN
	case ')':
		kind = RPAREN
	case '{':
		kind = LBRACE
	case '}':
		kind = RBRACE
	case '[':
		kind = LBRACK
	case ']':
		kind = RBRACK
	case ';':
		kind = SEMI
	case ',':
		kind = COMMA
	case '.':
		kind = DOT
	case ':':
		kind = COLON
	case '?':
		kind = QUESTION
	case '+':
		kind = ADD
	case '-':
		kind = SUB
	case '*':
		kind = MUL
	case '/':
		kind = QUO
	case '%':
		kind = REM
	case '=':
		kind, width = l.switch2(ASSIGN, '=', EQL)
	case '!':
		kind, width = l.switch2(NOT, '=', NEQ)
	case '<':
		kind, width = l.switch2(LSS, '=', LEQ)
	case '>':
		kind, width = l.switch2(GTR, '=', GEQ)
	case '&':
		if l.peek(1) == '&' {
			kind, width = LAND, 2
		}
	case '|':
		if l.peek(1) == '|' {
			kind, width = LOR, 2
		}
	}

	l.position += width
	if kind == ILLEGAL {
		l.errorf(start, "unexpected character %q", c)
	}
	return Token{Kind: kind, Lit: string(l.src[start:l.position]), Pos: start, End: l.position}
}

func (l *Lexer) switch2(single Kind, next byte, double Kind) (Kind, int) {
	if l.peek(1) == next {
		return double, 2
	}
	return single, 1
}

func (l *Lexer) scanIdent() Token {
	start := l.position
	for l.position < len(l.src) {
		r, size := utf8.DecodeRune(l.src[l.position:])
		if !isLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.position += size
	}
	if l.position == start {
		// invalid UTF-8 or a symbol outside the identifier alphabet
		_, size := utf8.DecodeRune(l.src[l.position:])
		l.position += size
		l.errorf(start, "unexpected character %q", l.src[start:l.position])
		return Token{Kind: ILLEGAL, Lit: string(l.src[start:l.position]), Pos: start, End: l.position}
	}
	lit := string(l.src[start:l.position])
	return Token{Kind: Lookup(lit), Lit: lit, Pos: start, End: l.position}
}

func (l *Lexer) scanNumber() Token {
	start := l.position
	kind := INT
	for l.position < len(l.src) && isDigit(l.src[l.position]) {
		l.position++
	}
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		kind = FLOAT
		l.position++
		for l.position < len(l.src) && isDigit(l.src[l.position]) {
			l.position++
		}
	}
	switch l.peek(0) {
	case 'L', 'l':
		if kind == INT {
			l.position++
		}
	case 'f', 'F', 'd', 'D', 'm', 'M':
		kind = FLOAT
		l.position++
	}
	return Token{Kind: kind, Lit: string(l.src[start:l.position]), Pos: start, End: l.position}
}

func (l *Lexer) scanString() Token {
	start := l.position
	l.position++ // opening quote
	for {
		if l.position >= len(l.src) || l.src[l.position] == '\n' {
			l.errorf(start, "string literal not terminated")
			break
		}
		c := l.src[l.position]
		l.position++
		if c == '\\' && l.position < len(l.src) {
			l.position++
			continue
		}
		if c == '"' {
			break
		}
	}
	return Token{Kind: STRING, Lit: string(l.src[start:l.position]), Pos: start, End: l.position}
}

func (l *Lexer) peek(n int) byte {
	if l.position+n < len(l.src) {
		return l.src[l.position+n]
	}
	return 0
}

func (l *Lexer) atLineStart() bool {
	for i := l.position - 1; i >= 0; i-- {
		switch l.src[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (l *Lexer) errorf(pos int, format string, args ...any) {
	l.errs = append(l.errs, &Error{Offset: pos, Msg: fmt.Sprintf(format, args...)})
}

func isLetter(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
