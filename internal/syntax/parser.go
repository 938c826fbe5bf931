package syntax

import (
	"fmt"
	"os"
)

// ParseFile parses the named file. When src is nil the file is read from disk.
// A partially built tree is returned together with any syntax errors.
func ParseFile(filename string, src []byte) (*File, error) {
	if src == nil {
		var err error
		src, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}
	return ParseFileWithOptions(filename, src, DefaultOptions())
}

// ParseFileWithOptions is ParseFile with explicit options. A `#lang`
// directive inside the file overrides opts.Version.
func ParseFileWithOptions(filename string, src []byte, opts Options) (*File, error) {
	lx := NewLexer(src)
	toks, lexErr := lx.Tokenize()

	f := &File{
		Name:    filename,
		Src:     src,
		Options: opts,
		lines:   lx.Lines(),
	}
	for _, t := range toks {
		f.Comments = append(f.Comments, t.Comments...)
		f.Directives = append(f.Directives, t.Directives...)
	}

	p := &parser{file: f, toks: toks}
	if lexErr != nil {
		for _, e := range lexErr.(ErrorList) {
			p.errs = append(p.errs, e)
		}
	}
	if err := f.applyDirectives(); err != nil {
		p.errs = append(p.errs, err.(*Error))
	}
	p.parseFile()

	for _, e := range p.errs {
		e.Pos = f.Position(e.Offset)
	}
	return f, p.errs.Err()
}

type parser struct {
	file *File
	toks []Token
	p    int
	errs ErrorList
}

func (p *parser) tok() *Token { return &p.toks[p.p] }

func (p *parser) peek(n int) Kind {
	if p.p+n < len(p.toks) {
		return p.toks[p.p+n].Kind
	}
	return EOF
}

func (p *parser) next() {
	if p.p < len(p.toks)-1 {
		p.p++
	}
}

func (p *parser) got(k Kind) bool {
	if p.tok().Kind == k {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(k Kind) int {
	pos := p.tok().Pos
	if !p.got(k) {
		p.errorExpected(k.String())
	}
	return pos
}

func (p *parser) errorExpected(what string) {
	t := p.tok()
	found := t.Lit
	if t.Kind == EOF {
		found = "EOF"
	}
	p.errorf(t.Pos, "expected %s, found %q", what, found)
}

func (p *parser) errorf(pos int, format string, args ...any) {
	// one error per position keeps cascades readable
	if n := len(p.errs); n > 0 && p.errs[n-1].Offset == pos {
		return
	}
	p.errs = append(p.errs, &Error{Offset: pos, Msg: fmt.Sprintf(format, args...)})
}

// takeDecor moves the leading trivia of the current token into a statement.
func (p *parser) takeDecor() Decorations {
	t := p.tok()
	d := Decorations{
		LeadStart:  t.LeadStart,
		Comments:   t.Comments,
		Directives: t.Directives,
	}
	t.Comments, t.Directives, t.LeadStart = nil, nil, t.Pos
	return d
}

// takeTrailing claims a comment that follows end on the same line.
func (p *parser) takeTrailing(d *Decorations, end int) {
	t := p.tok()
	if len(t.Comments) == 0 {
		return
	}
	c := t.Comments[0]
	for i := end; i < c.Pos; i++ {
		if p.file.Src[i] == '\n' {
			return
		}
	}
	d.Trailing = &c
	t.Comments = t.Comments[1:]
	t.LeadStart = t.Pos
	if len(t.Comments) > 0 {
		t.LeadStart = t.Comments[0].Pos
	}
	if len(t.Directives) > 0 && t.Directives[0].Pos < t.LeadStart {
		t.LeadStart = t.Directives[0].Pos
	}
}

// ----------------------------------------------------------------------------
// Declarations

func (p *parser) parseFile() {
	for p.tok().Kind != EOF {
		start := p.p
		if fn := p.parseFuncDecl(); fn != nil {
			p.file.Funcs = append(p.file.Funcs, fn)
		}
		if p.p == start {
			p.next()
		}
	}
}

func (p *parser) parseFuncDecl() *FuncDecl {
	decor := p.takeDecor()
	result := p.parseType()
	if result == nil {
		p.errorExpected("function declaration")
		return nil
	}
	fn := &FuncDecl{Decorations: decor, Result: result}
	fn.Name = p.parseIdent()
	p.expect(LPAREN)
	for p.tok().Kind != RPAREN && p.tok().Kind != EOF {
		typ := p.parseType()
		if typ == nil {
			p.errorExpected("parameter type")
			break
		}
		fn.Params = append(fn.Params, &Param{Type: typ, Name: p.parseIdent()})
		if !p.got(COMMA) {
			break
		}
	}
	p.expect(RPAREN)
	if p.tok().Kind != LBRACE {
		p.errorExpected("{")
		return nil
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *parser) parseIdent() *Ident {
	t := p.tok()
	if t.Kind != IDENT {
		p.errorExpected("identifier")
		return &Ident{NamePos: t.Pos, Name: "_"}
	}
	p.next()
	return &Ident{NamePos: t.Pos, Name: t.Lit}
}

// scanType reports where a type starting at token i would end, without
// consuming anything.
func (p *parser) scanType(i int) (int, bool) {
	if i < len(p.toks) && p.toks[i].Kind == REF {
		i++
	}
	if i >= len(p.toks) || p.toks[i].Kind != IDENT {
		return i, false
	}
	i++
	if i < len(p.toks) && p.toks[i].Kind == LSS {
		depth := 0
	args:
		for ; i < len(p.toks); i++ {
			switch p.toks[i].Kind {
			case LSS:
				depth++
			case GTR:
				depth--
				if depth == 0 {
					i++
					break args
				}
			case IDENT, COMMA, QUESTION, LBRACK, RBRACK:
			default:
				return i, false
			}
		}
	}
	if i < len(p.toks) && p.toks[i].Kind == QUESTION {
		i++
	}
	if i+1 < len(p.toks) && p.toks[i].Kind == LBRACK && p.toks[i+1].Kind == RBRACK {
		i += 2
	}
	return i, true
}

func (p *parser) parseType() *TypeExpr {
	typ := &TypeExpr{}
	if t := p.tok(); t.Kind == REF {
		typ.Ref, typ.RefPos = true, t.Pos
		p.next()
	}
	t := p.tok()
	if t.Kind != IDENT {
		return nil
	}
	typ.NamePos, typ.Name, typ.EndPos = t.Pos, t.Lit, t.End
	p.next()
	if p.tok().Kind == LSS {
		p.next()
		for {
			arg := p.parseType()
			if arg == nil {
				p.errorExpected("type argument")
				break
			}
			typ.Args = append(typ.Args, arg)
			if !p.got(COMMA) {
				break
			}
		}
		typ.EndPos = p.tok().End
		p.expect(GTR)
	}
	if t := p.tok(); t.Kind == QUESTION {
		typ.Nullable, typ.EndPos = true, t.End
		p.next()
	}
	if p.tok().Kind == LBRACK && p.peek(1) == RBRACK {
		p.next()
		typ.Array, typ.EndPos = true, p.tok().End
		p.next()
	}
	return typ
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) parseBlock() *BlockStmt {
	b := &BlockStmt{Decorations: p.takeDecor()}
	b.Lbrace = p.expect(LBRACE)
	for p.tok().Kind != RBRACE && p.tok().Kind != EOF {
		start := p.p
		if s := p.parseStmt(); s != nil {
			b.List = append(b.List, s)
		}
		if p.p == start {
			p.next()
		}
	}
	b.Rbrace = p.expect(RBRACE)
	p.takeTrailing(&b.Decorations, b.Rbrace+1)
	return b
}

func (p *parser) parseStmt() Stmt {
	switch p.tok().Kind {
	case LBRACE:
		return p.parseBlock()
	case SEMI:
		s := &EmptyStmt{Decorations: p.takeDecor(), Semi: p.tok().Pos}
		p.next()
		p.takeTrailing(&s.Decorations, s.End())
		return s
	case IF:
		return p.parseIfStmt()
	case RETURN:
		return p.parseReturnStmt()
	case YIELD:
		return p.parseYieldStmt()
	case THROW:
		return p.parseThrowStmt()
	case REF:
		if p.isDeclStart() {
			return p.parseDeclStmt()
		}
	case IDENT:
		if p.peek(1) == COLON {
			return p.parseLabeledStmt()
		}
		if p.isDeclStart() {
			return p.parseDeclStmt()
		}
	case RBRACE, EOF:
		p.errorExpected("statement")
		return nil
	}

	s := &ExprStmt{Decorations: p.takeDecor()}
	s.X = p.parseExpr()
	s.Semi = p.expectSemi()
	p.takeTrailing(&s.Decorations, s.End())
	return s
}

func (p *parser) expectSemi() int {
	pos := p.tok().Pos
	if !p.got(SEMI) {
		p.errorExpected(";")
		p.skipTo(SEMI)
		pos = p.tok().Pos
		p.got(SEMI)
	}
	return pos
}

func (p *parser) skipTo(k Kind) {
	for t := p.tok().Kind; t != k && t != RBRACE && t != EOF; t = p.tok().Kind {
		p.next()
	}
}

func (p *parser) isDeclStart() bool {
	i, ok := p.scanType(p.p)
	if !ok || i+1 >= len(p.toks) || p.toks[i].Kind != IDENT {
		return false
	}
	next := p.toks[i+1].Kind
	return next == ASSIGN || next == SEMI
}

func (p *parser) parseDeclStmt() Stmt {
	s := &DeclStmt{Decorations: p.takeDecor()}
	s.Type = p.parseType()
	s.Name = p.parseIdent()
	if p.got(ASSIGN) {
		s.Value = p.parseExpr()
	}
	s.Semi = p.expectSemi()
	p.takeTrailing(&s.Decorations, s.End())
	return s
}

func (p *parser) parseLabeledStmt() Stmt {
	s := &LabeledStmt{Decorations: p.takeDecor()}
	s.Label = p.parseIdent()
	s.Colon = p.expect(COLON)
	if k := p.tok().Kind; k == RBRACE || k == EOF {
		p.errorExpected("statement after label")
		s.Stmt = &EmptyStmt{Semi: s.Colon}
		return s
	}
	s.Stmt = p.parseStmt()
	if s.Stmt == nil {
		s.Stmt = &EmptyStmt{Semi: s.Colon}
	}
	return s
}

func (p *parser) parseIfStmt() Stmt {
	s := &IfStmt{Decorations: p.takeDecor()}
	s.If = p.expect(IF)
	p.expect(LPAREN)
	s.Cond = p.parseExpr()
	p.expect(RPAREN)
	s.Then = p.parseEmbedded()
	if p.tok().Kind == ELSE {
		p.next()
		s.Else = p.parseEmbedded()
	}
	return s
}

func (p *parser) parseEmbedded() Stmt {
	if k := p.tok().Kind; k == RBRACE || k == EOF {
		p.errorExpected("statement")
		return &EmptyStmt{Semi: p.tok().Pos}
	}
	if s := p.parseStmt(); s != nil {
		return s
	}
	return &EmptyStmt{Semi: p.tok().Pos}
}

func (p *parser) parseReturnStmt() Stmt {
	s := &ReturnStmt{Decorations: p.takeDecor()}
	s.Return = p.expect(RETURN)
	if p.tok().Kind != SEMI {
		s.Result = p.parseExpr()
	}
	s.Semi = p.expectSemi()
	p.takeTrailing(&s.Decorations, s.End())
	return s
}

func (p *parser) parseYieldStmt() Stmt {
	s := &YieldStmt{Decorations: p.takeDecor()}
	s.Yield = p.expect(YIELD)
	p.expect(RETURN)
	s.Result = p.parseExpr()
	s.Semi = p.expectSemi()
	p.takeTrailing(&s.Decorations, s.End())
	return s
}

func (p *parser) parseThrowStmt() Stmt {
	s := &ThrowStmt{Decorations: p.takeDecor()}
	s.Throw = p.expect(THROW)
	if p.tok().Kind != SEMI {
		s.X = p.parseExpr()
	}
	s.Semi = p.expectSemi()
	p.takeTrailing(&s.Decorations, s.End())
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpr() Expr {
	switch t := p.tok(); t.Kind {
	case REF:
		p.next()
		return &RefExpr{Ref: t.Pos, X: p.parseCond()}
	case THROW:
		p.next()
		return &ThrowExpr{Throw: t.Pos, X: p.parseCond()}
	}

	x := p.parseCond()
	if t := p.tok(); t.Kind == ASSIGN {
		p.next()
		return &AssignExpr{Lhs: x, TokPos: t.Pos, Rhs: p.parseExpr()}
	}
	return x
}

func (p *parser) parseCond() Expr {
	x := p.parseBinary(OrPrec)
	if t := p.tok(); t.Kind == QUESTION {
		p.next()
		c := &CondExpr{Cond: x, Question: t.Pos}
		c.Then = p.parseExpr()
		c.Colon = p.expect(COLON)
		c.Else = p.parseExpr()
		return c
	}
	return x
}

func (p *parser) parseBinary(prec1 int) Expr {
	x := p.parseUnary()
	for {
		t := p.tok()
		prec := t.Kind.Precedence()
		if prec < prec1 || prec == LowestPrec {
			return x
		}
		p.next()
		y := p.parseBinary(prec + 1)
		x = &BinaryExpr{X: x, OpPos: t.Pos, Op: t.Kind, Y: y}
	}
}

func (p *parser) parseUnary() Expr {
	switch t := p.tok(); t.Kind {
	case NOT, SUB, ADD:
		p.next()
		return &UnaryExpr{OpPos: t.Pos, Op: t.Kind, X: p.parseUnary()}
	case LPAREN:
		if p.isCast() {
			lparen := t.Pos
			p.next()
			typ := p.parseType()
			p.expect(RPAREN)
			return &CastExpr{Lparen: lparen, Type: typ, X: p.parseUnary()}
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

var predefinedTypes = map[string]bool{
	"bool": true, "byte": true, "sbyte": true, "short": true, "ushort": true,
	"int": true, "uint": true, "long": true, "ulong": true, "char": true,
	"float": true, "double": true, "decimal": true, "string": true, "object": true,
}

// isCast reports whether the parenthesis at the current token opens a cast.
func (p *parser) isCast() bool {
	end, ok := p.scanType(p.p + 1)
	if !ok || end >= len(p.toks)-1 || p.toks[end].Kind != RPAREN {
		return false
	}
	if p.toks[p.p+1].Kind == REF {
		return false
	}
	switch p.toks[end+1].Kind {
	case IDENT, INT, FLOAT, STRING, TRUE, FALSE, NULL, LPAREN, NEW:
		return true
	case SUB, NOT:
		return predefinedTypes[p.toks[p.p+1].Lit]
	}
	return false
}

func (p *parser) parsePrimary() Expr {
	t := p.tok()
	switch t.Kind {
	case IDENT:
		p.next()
		return &Ident{NamePos: t.Pos, Name: t.Lit}
	case INT, FLOAT, STRING, TRUE, FALSE, NULL:
		p.next()
		return &BasicLit{ValuePos: t.Pos, Kind: t.Kind, Value: t.Lit}
	case LPAREN:
		p.next()
		x := p.parseExpr()
		rparen := p.expect(RPAREN)
		return &ParenExpr{Lparen: t.Pos, X: x, Rparen: rparen}
	case NEW:
		p.next()
		n := &NewExpr{New: t.Pos}
		n.Type = p.parseType()
		if n.Type == nil {
			p.errorExpected("type")
			n.Type = &TypeExpr{NamePos: p.tok().Pos, Name: "_", EndPos: p.tok().Pos}
		}
		p.expect(LPAREN)
		n.Args = p.parseArgs()
		n.Rparen = p.expect(RPAREN)
		return n
	}
	p.errorExpected("expression")
	return &Ident{NamePos: t.Pos, Name: "_"}
}

func (p *parser) parsePostfix(x Expr) Expr {
	for {
		switch p.tok().Kind {
		case DOT:
			p.next()
			x = &SelectorExpr{X: x, Sel: p.parseIdent()}
		case LPAREN:
			p.next()
			args := p.parseArgs()
			x = &CallExpr{Fun: x, Args: args, Rparen: p.expect(RPAREN)}
		case LBRACK:
			p.next()
			index := p.parseExpr()
			x = &IndexExpr{X: x, Index: index, Rbrack: p.expect(RBRACK)}
		default:
			return x
		}
	}
}

func (p *parser) parseArgs() []Expr {
	var args []Expr
	for p.tok().Kind != RPAREN && p.tok().Kind != EOF {
		args = append(args, p.parseExpr())
		if !p.got(COMMA) {
			break
		}
	}
	return args
}
