package parser

import (
	"strconv"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/lexer"
)

// parseExpr is the Pratt driver: curToken starts on the expression's first
// token, and on return sits on its last — the caller is responsible for
// calling nextToken() to move past it.
func (p *Parser) parseExpr(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("no expression can start with %s", p.curToken.Type)
		return &ast.Ident{Name: "<error>", Span: span(p.curPos(), p.curPos())}
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// ---- literal / identifier prefixes ----

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Ident{Name: p.curToken.Literal, Span: span(p.curPos(), p.curPos())}
}

func (p *Parser) parseIntLiteral() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf("invalid integer literal %q", p.curToken.Literal)
	}
	return &ast.IntLit{Value: v, Span: span(pos, pos)}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	pos := p.curPos()
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("invalid float literal %q", p.curToken.Literal)
	}
	return &ast.FloatLit{Value: v, Span: span(pos, pos)}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	pos := p.curPos()
	return &ast.StringLit{Value: p.curToken.Literal, Span: span(pos, pos)}
}

func (p *Parser) parseCharLiteral() ast.Expr {
	pos := p.curPos()
	r := []rune(p.curToken.Literal)
	var v rune
	if len(r) > 0 {
		v = r[0]
	}
	return &ast.CharLit{Value: v, Span: span(pos, pos)}
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	pos := p.curPos()
	return &ast.BoolLit{Value: p.curTokenIs(lexer.KW_TRUE), Span: span(pos, pos)}
}

// ---- operators ----

func (p *Parser) parsePrefixExpr() ast.Expr {
	start := p.curPos()
	op := p.curToken.Literal
	if p.curTokenIs(lexer.CARET) && p.peekTokenIs(lexer.KW_MUT) {
		p.nextToken()
		op = "^mut"
	}
	p.nextToken()
	operand := p.parseExpr(PREFIX)
	return &ast.UnaryExpr{Op: op, Operand: operand, Span: span(start, p.curPos())}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	start := left.Position()
	op := p.curToken.Literal
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(prec)
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: span(start, p.curPos())}
}

func (p *Parser) parseCallExpr(fn ast.Expr) ast.Expr {
	start := fn.Position()
	// curToken == '('
	var args []ast.Expr
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		args = append(args, p.parseExpr(LOWEST))
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			args = append(args, p.parseExpr(LOWEST))
		}
		p.expectPeek(lexer.RPAREN)
	}
	return &ast.CallExpr{Func: fn, Args: args, Span: span(start, p.curPos())}
}

func (p *Parser) parseIndexExpr(recv ast.Expr) ast.Expr {
	start := recv.Position()
	// curToken == '['
	p.nextToken()
	idx := p.parseExpr(LOWEST)
	p.expectPeek(lexer.RBRACKET)
	return &ast.IndexExpr{Recv: recv, Index: idx, Span: span(start, p.curPos())}
}

// parseDotExpr dispatches on what follows '.': a bare field name is field
// access, `*` is explicit deref, `[` is an array literal, `{` is a struct
// literal, and `(` is a cast — the four composite/cast forms all require
// the receiver to have been parsed as a type (§8 S2, S4).
func (p *Parser) parseDotExpr(left ast.Expr) ast.Expr {
	start := left.Position()
	switch p.peekToken.Type {
	case lexer.STAR:
		p.nextToken()
		return &ast.DerefExpr{Operand: left, Span: span(start, p.curPos())}
	case lexer.LBRACKET:
		p.nextToken()
		return p.parseArrayLitTail(left, start)
	case lexer.LBRACE:
		p.nextToken()
		return p.parseStructLitTail(left, start)
	case lexer.LPAREN:
		p.nextToken()
		return p.parseCastTail(left, start)
	case lexer.IDENT:
		p.nextToken()
		return &ast.FieldExpr{Recv: left, Field: p.curToken.Literal, Span: span(start, p.curPos())}
	default:
		p.errorf("expected a field name, '*', '[', '{' or '(' after '.', got %s", p.peekToken.Type)
		return left
	}
}

func (p *Parser) asTypeExpr(e ast.Expr) ast.TypeExpr {
	if te, ok := e.(ast.TypeExpr); ok {
		return te
	}
	p.errorf("expected a type expression, got %T", e)
	return nil
}

// parseArrayLitTail parses `[e0, e1, ...]` once '.[' has been consumed;
// curToken == '['.
func (p *Parser) parseArrayLitTail(elemType ast.Expr, start ast.Pos) ast.Expr {
	var elems []ast.Expr
	p.nextToken() // move past '[' to the first element or ']'
	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		elems = append(elems, p.parseExpr(LOWEST))
		if p.peekTokenIs(lexer.RBRACKET) {
			p.nextToken()
			break
		}
		if !p.expectPeek(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.curTokenIs(lexer.RBRACKET) {
		p.expectPeek(lexer.RBRACKET)
	}
	return &ast.ArrayLit{ElemType: p.asTypeExpr(elemType), Elems: elems, Span: span(start, p.curPos())}
}

// parseStructLitTail parses `{name = expr, ...}` once '.{' has been
// consumed; curToken == '{'.
func (p *Parser) parseStructLitTail(structType ast.Expr, start ast.Pos) ast.Expr {
	var fields []ast.StructLitField
	p.nextToken() // move past '{' to the first field or '}'
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorf("expected a field name, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		if !p.expectPeek(lexer.ASSIGN) {
			break
		}
		p.nextToken()
		val := p.parseExpr(LOWEST)
		fields = append(fields, ast.StructLitField{Name: name, Value: val})
		if p.peekTokenIs(lexer.RBRACE) {
			p.nextToken()
			break
		}
		if !p.expectPeek(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.curTokenIs(lexer.RBRACE) {
		p.expectPeek(lexer.RBRACE)
	}
	return &ast.StructLit{StructType: p.asTypeExpr(structType), Fields: fields, Span: span(start, p.curPos())}
}

// parseCastTail parses `(value)` once '.(' has been consumed; curToken ==
// '('.
func (p *Parser) parseCastTail(target ast.Expr, start ast.Pos) ast.Expr {
	p.nextToken() // move past '(' to the value expression
	val := p.parseExpr(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return &ast.CastExpr{Target: p.asTypeExpr(target), Value: val, Span: span(start, p.curPos())}
}

// ---- control flow ----

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.curPos()
	p.nextToken() // move past 'if'
	cond := p.parseExpr(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.IfExpr{Cond: cond, Then: &ast.BlockExpr{}, Span: span(start, p.curPos())}
	}
	then := p.parseBlockExpr()

	var elseExpr ast.Expr
	if p.peekTokenIs(lexer.KW_ELSE) {
		p.nextToken() // 'else'
		if p.peekTokenIs(lexer.KW_IF) {
			p.nextToken()
			elseExpr = p.parseIfExpr()
		} else if p.expectPeek(lexer.LBRACE) {
			elseExpr = p.parseBlockExpr()
		}
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseExpr, Span: span(start, p.curPos())}
}

func (p *Parser) parseComptimeExpr() ast.Expr {
	start := p.curPos()
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.ComptimeExpr{Body: &ast.BlockExpr{}, Span: span(start, p.curPos())}
	}
	body := p.parseBlockExpr()
	return &ast.ComptimeExpr{Body: body, Span: span(start, p.curPos())}
}

// parseForExpr handles both the while-style `for cond { }` and the for-in
// style `for binder in iterable { }` (§3 "For").
func (p *Parser) parseForExpr() ast.Expr {
	start := p.curPos()
	if p.peekTokenIs(lexer.IDENT) && p.peekAhead(1).Type == lexer.KW_IN {
		p.nextToken() // move to the IDENT
		binder := p.curToken.Literal
		p.nextToken() // 'in'
		p.nextToken() // first token of the iterable
		iterable := p.parseExpr(LOWEST)
		if !p.expectPeek(lexer.LBRACE) {
			return &ast.ForExpr{Binder: binder, Iterable: iterable, Body: &ast.BlockExpr{}, Span: span(start, p.curPos())}
		}
		body := p.parseBlockExpr()
		return &ast.ForExpr{Binder: binder, Iterable: iterable, Body: body, Span: span(start, p.curPos())}
	}

	p.nextToken() // first token of the condition
	cond := p.parseExpr(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.ForExpr{Cond: cond, Body: &ast.BlockExpr{}, Span: span(start, p.curPos())}
	}
	body := p.parseBlockExpr()
	return &ast.ForExpr{Cond: cond, Body: body, Span: span(start, p.curPos())}
}

func (p *Parser) parseSwitchExpr() ast.Expr {
	start := p.curPos()
	p.nextToken() // first token of the scrutinee
	scrutinee := p.parseExpr(LOWEST)
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.SwitchExpr{Scrutinee: scrutinee, Span: span(start, p.curPos())}
	}
	p.nextToken() // move past '{'

	var cases []ast.SwitchCase
	for p.curTokenIs(lexer.KW_CASE) {
		if !p.expectPeek(lexer.IDENT) {
			break
		}
		variant := p.curToken.Literal
		binder := ""
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			if p.expectPeek(lexer.IDENT) {
				binder = p.curToken.Literal
			}
			p.expectPeek(lexer.RPAREN)
		}
		if !p.expectPeek(lexer.LBRACE) {
			break
		}
		body := p.parseBlockExpr()
		cases = append(cases, ast.SwitchCase{VariantName: variant, BinderName: binder, Body: body})
		p.nextToken() // move past the case body's '}'
	}
	// curToken == '}' closing the switch
	return &ast.SwitchExpr{Scrutinee: scrutinee, Cases: cases, Span: span(start, p.curPos())}
}

// ---- parens: grouping, unit literal, or function literal ----

func (p *Parser) parseParenOrFuncLit() ast.Expr {
	start := p.curPos()
	// curToken == '('
	if p.peekTokenIs(lexer.IDENT) && p.peekIsParamList() {
		params := p.parseParamList()
		return p.finishFuncLit(params, start)
	}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken() // ')'
		return p.finishFuncLitOrUnit(nil, start)
	}
	p.nextToken()
	inner := p.parseExpr(LOWEST)
	p.expectPeek(lexer.RPAREN)
	return inner
}

// peekIsParamList reports whether the parenthesized list starting at
// peekToken (an IDENT) looks like `name: Type`, the unambiguous marker of a
// function literal's parameter list rather than a grouped expression: a
// grouped expression never places a bare ':' directly after its leading
// identifier.
func (p *Parser) peekIsParamList() bool {
	return p.peekAhead(1).Type == lexer.COLON
}

// parseParamList parses `name: Type, ...` up to and including the closing
// ')'; curToken == '(' on entry, ')' on return.
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	p.nextToken() // move to the first parameter name
	for {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorf("expected a parameter name, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		ty := p.parseTypeExpr()
		params = append(params, ast.Param{Name: name, Type: ty})
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN)
	return params
}

// finishFuncLit parses the optional result type and required body following
// a parameter list; curToken == ')' on entry.
func (p *Parser) finishFuncLit(params []ast.Param, start ast.Pos) ast.Expr {
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		body := p.parseBlockExpr()
		return &ast.FuncLit{Params: params, Body: body, Span: span(start, p.curPos())}
	}
	p.nextToken()
	result := p.parseTypeExpr()
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.FuncLit{Params: params, Result: result, Body: &ast.BlockExpr{}, Span: span(start, p.curPos())}
	}
	body := p.parseBlockExpr()
	return &ast.FuncLit{Params: params, Result: result, Body: body, Span: span(start, p.curPos())}
}

// finishFuncLitOrUnit handles `()` — either the unit literal, or a
// zero-parameter function literal if a body (with an optional result type)
// follows; curToken == ')' on entry.
func (p *Parser) finishFuncLitOrUnit(params []ast.Param, start ast.Pos) ast.Expr {
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		body := p.parseBlockExpr()
		return &ast.FuncLit{Params: params, Body: body, Span: span(start, p.curPos())}
	}
	if p.isTypeStartToken(p.peekToken.Type) {
		p.nextToken()
		result := p.parseTypeExpr()
		if p.expectPeek(lexer.LBRACE) {
			body := p.parseBlockExpr()
			return &ast.FuncLit{Params: params, Result: result, Body: body, Span: span(start, p.curPos())}
		}
	}
	return &ast.UnitLit{Span: span(start, p.curPos())}
}

func (p *Parser) isTypeStartToken(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.CARET, lexer.LBRACKET, lexer.KW_STRUCT, lexer.KW_ENUM, lexer.KW_DISTINCT, lexer.LPAREN:
		return true
	default:
		return false
	}
}
