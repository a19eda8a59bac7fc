package parser

import (
	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/lexer"
)

// parseBindingCommon parses the three binding forms shared by top-level
// declarations and block-local BindStmts: `name :: expr`, `name := expr`,
// `name : Type = expr`. Precondition: curToken is the binding's name.
// Postcondition: curToken is the last token of Init (or of DeclaredType, on
// a parse error that leaves Init unset).
func (p *Parser) parseBindingCommon() *ast.Binding {
	start := p.curPos()
	if !p.curTokenIs(lexer.IDENT) {
		p.errorf("expected a binding name, got %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal

	switch p.peekToken.Type {
	case lexer.DCOLON:
		p.nextToken() // '::'
		p.nextToken() // first token of Init
		init := p.parseExpr(LOWEST)
		return &ast.Binding{Name: name, Kind: ast.Immutable, Init: init, Span: span(start, p.curPos())}
	case lexer.WALRUS:
		p.nextToken() // ':='
		p.nextToken()
		init := p.parseExpr(LOWEST)
		return &ast.Binding{Name: name, Kind: ast.Mutable, Init: init, Span: span(start, p.curPos())}
	case lexer.COLON:
		p.nextToken() // ':'
		p.nextToken() // first token of the declared type
		ty := p.parseTypeExpr()
		if !p.expectPeek(lexer.ASSIGN) {
			return &ast.Binding{Name: name, Kind: ast.Mutable, DeclaredType: ty, Span: span(start, p.curPos())}
		}
		p.nextToken()
		init := p.parseExpr(LOWEST)
		return &ast.Binding{Name: name, Kind: ast.Mutable, DeclaredType: ty, Init: init, Span: span(start, p.curPos())}
	default:
		p.errorf("expected '::', ':=' or ':' after %q", name)
		return &ast.Binding{Name: name, Span: span(start, start)}
	}
}

// parseStmt parses one block-local statement. Precondition/postcondition
// match the teacher's token-cursor convention: curToken starts on the
// statement's first token and ends on its last.
func (p *Parser) parseStmt() ast.Stmt {
	start := p.curPos()
	switch p.curToken.Type {
	case lexer.KW_DEFER:
		p.nextToken()
		x := p.parseExpr(LOWEST)
		return &ast.DeferStmt{X: x, Span: span(start, p.curPos())}
	case lexer.KW_RETURN:
		if p.peekTokenIs(lexer.RBRACE) {
			return &ast.ReturnStmt{Span: span(start, start)}
		}
		p.nextToken()
		v := p.parseExpr(LOWEST)
		return &ast.ReturnStmt{Value: v, Span: span(start, p.curPos())}
	case lexer.KW_BREAK:
		return &ast.BreakStmt{Span: span(start, start)}
	case lexer.KW_CONTINUE:
		return &ast.ContinueStmt{Span: span(start, start)}
	case lexer.IDENT:
		if p.peekToken.Type == lexer.DCOLON || p.peekToken.Type == lexer.WALRUS || p.peekToken.Type == lexer.COLON {
			b := p.parseBindingCommon()
			return &ast.BindStmt{Binding: b, Span: span(start, p.curPos())}
		}
		return p.parseExprOrAssignStmt(start)
	default:
		return p.parseExprOrAssignStmt(start)
	}
}

// parseExprOrAssignStmt parses a bare expression statement, or — if an
// assignment operator follows — an AssignStmt/AssignStmtOp with that
// expression as the target.
func (p *Parser) parseExprOrAssignStmt(start ast.Pos) ast.Stmt {
	target := p.parseExpr(LOWEST)
	switch p.peekToken.Type {
	case lexer.ASSIGN:
		p.nextToken()
		p.nextToken()
		v := p.parseExpr(LOWEST)
		return &ast.AssignStmt{Target: target, Value: v, Span: span(start, p.curPos())}
	case lexer.PLUSEQ, lexer.MINUSEQ, lexer.STAREQ, lexer.SLASHEQ:
		op := p.peekToken.Literal
		p.nextToken()
		p.nextToken()
		v := p.parseExpr(LOWEST)
		return &ast.AssignStmtOp{Op: op, Target: target, Value: v, Span: span(start, p.curPos())}
	default:
		return &ast.ExprStmt{X: target, Span: span(start, p.curPos())}
	}
}

// parseBlockExpr parses `{ stmt* }`. A trailing bare expression statement
// (one with no terminating break/continue/return/defer/assign form) becomes
// the block's Result, mirroring the Language's brace-delimited block value
// semantics (§3 "Block"). Precondition: curToken == '{'.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.curPos()
	blk := &ast.BlockExpr{}
	p.nextToken() // move past '{'

	var stmts []ast.Stmt
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmts = append(stmts, p.parseStmt())
		p.nextToken()
	}

	if n := len(stmts); n > 0 {
		if es, ok := stmts[n-1].(*ast.ExprStmt); ok {
			blk.Result = es.X
			stmts = stmts[:n-1]
		}
	}
	blk.Stmts = stmts
	blk.Span = span(start, p.curPos())
	return blk
}

func (p *Parser) parseBlockExprAsExpr() ast.Expr { return p.parseBlockExpr() }
