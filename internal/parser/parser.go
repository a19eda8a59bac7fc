// Package parser turns lexer tokens into an internal/ast tree. Lexing and
// parsing are themselves out of SPEC_FULL's direct scope (the pipeline
// proper starts at HIR lowering), but every other stage's tests need a real
// way to go from `.capy` source text to an *ast.File, so this package plays
// the same role the teacher's internal/parser plays for AILANG: a
// hand-written recursive-descent / Pratt parser, curToken/peekToken style,
// with one prefix or infix parse function registered per token kind.
package parser

import (
	"fmt"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Precedence levels, lowest to highest. Grouped the way the teacher's
// parser.go groups AILANG's, adapted to this grammar's operator set.
const (
	LOWEST int = iota
	LOGICAL_OR
	LOGICAL_AND
	EQUALS
	LESSGREATER
	SUM
	PRODUCT
	PREFIX
	CALL // f(x), a[i], a.b — postfix
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       LOGICAL_OR,
	lexer.AND:      LOGICAL_AND,
	lexer.EQ:       EQUALS,
	lexer.NEQ:      EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.LTE:      LESSGREATER,
	lexer.GTE:      LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: CALL,
	lexer.DOT:      CALL,
}

// Parser parses one `.capy` source file into an *ast.File. Unlike the
// teacher's streaming curToken/peekToken reader, the whole token stream is
// buffered up front: the grammar's parenthesized-form disambiguation (a
// function literal's parameter list vs. a grouped expression vs. the unit
// literal) needs more than one token of lookahead, which a buffer gives for
// free.
type Parser struct {
	toks []lexer.Token
	idx  int // index into toks of the token one past peekToken
	file string

	curToken  lexer.Token
	peekToken lexer.Token

	errors []error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over src, tagging every position with filename for
// diagnostics further down the pipeline.
func New(src, filename string) *Parser {
	l := lexer.New(src, filename)
	var toks []lexer.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == lexer.EOF {
			break
		}
	}

	p := &Parser{toks: toks, file: filename}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:       p.parseIdentifier,
		lexer.INT:         p.parseIntLiteral,
		lexer.FLOAT:       p.parseFloatLiteral,
		lexer.STRING:      p.parseStringLiteral,
		lexer.CHAR:        p.parseCharLiteral,
		lexer.KW_TRUE:     p.parseBoolLiteral,
		lexer.KW_FALSE:    p.parseBoolLiteral,
		lexer.MINUS:       p.parsePrefixExpr,
		lexer.NOT:         p.parsePrefixExpr,
		lexer.CARET:       p.parsePrefixExpr,
		lexer.LPAREN:      p.parseParenOrFuncLit,
		lexer.LBRACKET:    p.parseSliceOrArrayTypeAsExpr,
		lexer.KW_STRUCT:   p.parseStructTypeAsExpr,
		lexer.KW_ENUM:     p.parseEnumTypeAsExpr,
		lexer.KW_DISTINCT: p.parseDistinctTypeAsExpr,
		lexer.KW_IF:       p.parseIfExpr,
		lexer.LBRACE:      p.parseBlockExprAsExpr,
		lexer.KW_COMPTIME: p.parseComptimeExpr,
		lexer.KW_FOR:      p.parseForExpr,
		lexer.KW_SWITCH:   p.parseSwitchExpr,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseInfixExpr,
		lexer.MINUS:    p.parseInfixExpr,
		lexer.STAR:     p.parseInfixExpr,
		lexer.SLASH:    p.parseInfixExpr,
		lexer.PERCENT:  p.parseInfixExpr,
		lexer.EQ:       p.parseInfixExpr,
		lexer.NEQ:      p.parseInfixExpr,
		lexer.LT:       p.parseInfixExpr,
		lexer.GT:       p.parseInfixExpr,
		lexer.LTE:      p.parseInfixExpr,
		lexer.GTE:      p.parseInfixExpr,
		lexer.AND:      p.parseInfixExpr,
		lexer.OR:       p.parseInfixExpr,
		lexer.LPAREN:   p.parseCallExpr,
		lexer.LBRACKET: p.parseIndexExpr,
		lexer.DOT:      p.parseDotExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", p.curPos(), fmt.Sprintf(format, args...)))
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.idx < len(p.toks) {
		p.peekToken = p.toks[p.idx]
		p.idx++
	} else {
		p.peekToken = lexer.Token{Type: lexer.EOF, File: p.file}
	}
}

// peekAhead returns the token n positions past peekToken (peekAhead(0) ==
// peekToken), without consuming anything.
func (p *Parser) peekAhead(n int) lexer.Token {
	i := p.idx - 1 + n
	if i < 0 || i >= len(p.toks) {
		return lexer.Token{Type: lexer.EOF, File: p.file}
	}
	return p.toks[i]
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances past peekToken if it matches t, recording an error
// (and leaving the cursor where it was) otherwise — same contract as the
// teacher's expectPeek.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.peekToken.Type)
	return false
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func span(start ast.Pos, end ast.Pos) ast.Span { return ast.Span{Start: start, End: end} }

// ParseFile parses a complete `.capy` source file: leading `#mod`/`#import`
// directives, then a flat list of top-level bindings.
func (p *Parser) ParseFile() *ast.File {
	f := &ast.File{Path: p.file, Pos: p.curPos()}

	for p.curTokenIs(lexer.HASH) {
		if imp := p.parseImport(); imp != nil {
			f.Imports = append(f.Imports, imp)
		}
	}

	for !p.curTokenIs(lexer.EOF) {
		d := p.parseTopBinding()
		if d != nil {
			f.Decls = append(f.Decls, d)
		}
		if p.curTokenIs(lexer.EOF) {
			break
		}
	}

	return f
}

// parseImport parses `#mod("name")` or `#import("path")`.
func (p *Parser) parseImport() *ast.Import {
	start := p.curPos()
	// curToken == HASH
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	kw := p.curToken.Literal
	var kind ast.ImportKind
	switch kw {
	case "mod":
		kind = ast.ImportMod
	case "import":
		kind = ast.ImportFile
	default:
		p.errorf("expected 'mod' or 'import' after '#', got %q", kw)
		return nil
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.STRING) {
		return nil
	}
	path := p.curToken.Literal
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	end := p.curPos()
	p.nextToken() // move past ')' to the next directive/binding
	return &ast.Import{Kind: kind, Path: path, Span: span(start, end)}
}

// parseTopBinding and parseBindStmt (parser_stmt.go) share this grammar:
// `name :: expr`, `name := expr`, or `name : Type = expr`.
func (p *Parser) parseTopBinding() *ast.Binding {
	b := p.parseBindingCommon()
	p.nextToken() // move past the binding's last token to the next decl
	return b
}
