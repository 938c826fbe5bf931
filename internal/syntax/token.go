package syntax

// Kind defines the lexical class of a token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT  // x
	INT    // 12, 12L
	FLOAT  // 1.5, 1.5f
	STRING // "abc"

	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LBRACK   // [
	RBRACK   // ]
	SEMI     // ;
	COMMA    // ,
	DOT      // .
	COLON    // :
	QUESTION // ?

	ASSIGN // =
	EQL    // ==
	NEQ    // !=
	LSS    // <
	LEQ    // <=
	GTR    // >
	GEQ    // >=
	ADD    // +
	SUB    // -
	MUL    // *
	QUO    // /
	REM    // %
	NOT    // !
	LAND   // &&
	LOR    // ||

	keywordBeg
	IF
	ELSE
	RETURN
	YIELD
	THROW
	REF
	NEW
	TRUE
	FALSE
	NULL
	keywordEnd
)

var kindNames = [...]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	IDENT:    "IDENT",
	INT:      "INT",
	FLOAT:    "FLOAT",
	STRING:   "STRING",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACE:   "{",
	RBRACE:   "}",
	LBRACK:   "[",
	RBRACK:   "]",
	SEMI:     ";",
	COMMA:    ",",
	DOT:      ".",
	COLON:    ":",
	QUESTION: "?",
	ASSIGN:   "=",
	EQL:      "==",
	NEQ:      "!=",
	LSS:      "<",
	LEQ:      "<=",
	GTR:      ">",
	GEQ:      ">=",
	ADD:      "+",
	SUB:      "-",
	MUL:      "*",
	QUO:      "/",
	REM:      "%",
	NOT:      "!",
	LAND:     "&&",
	LOR:      "||",
	IF:       "if",
	ELSE:     "else",
	RETURN:   "return",
	YIELD:    "yield",
	THROW:    "throw",
	REF:      "ref",
	NEW:      "new",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsLiteral reports whether k starts a literal expression.
func (k Kind) IsLiteral() bool {
	switch k {
	case INT, FLOAT, STRING, TRUE, FALSE, NULL:
		return true
	}
	return false
}

var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind, keywordEnd-keywordBeg)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[kindNames[k]] = k
	}
}

// Lookup maps an identifier to its keyword kind, or IDENT.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Operator precedence, lowest to highest.
const (
	LowestPrec = 0
	AssignPrec = 1
	CondPrec   = 2
	OrPrec     = 3
	AndPrec    = 4
	EqualPrec  = 5
	RelPrec    = 6
	AddPrec    = 7
	MulPrec    = 8
	UnaryPrec  = 9
	PostPrec   = 10
)

// Precedence returns the binary precedence of k, or LowestPrec when k is not
// a binary operator.
func (k Kind) Precedence() int {
	switch k {
	case LOR:
		return OrPrec
	case LAND:
		return AndPrec
	case EQL, NEQ:
		return EqualPrec
	case LSS, LEQ, GTR, GEQ:
		return RelPrec
	case ADD, SUB:
		return AddPrec
	case MUL, QUO, REM:
		return MulPrec
	}
	return LowestPrec
}

// Comment is a `//` or `/* */` comment.
type Comment struct {
	Pos  int
	End  int
	Text string
}

// Directive is a `#` preprocessor line such as `#if DEBUG` or `#lang 7.3`.
type Directive struct {
	Pos  int
	End  int
	Text string
}

// Token is a lexical token together with the trivia that precedes it.
type Token struct {
	Kind Kind
	Lit  string
	Pos  int
	End  int

	Comments   []Comment
	Directives []Directive
	// LeadStart is the offset of the first comment or directive before the
	// token, or Pos when there is none.
	LeadStart int
}
