package parser

import (
	"strconv"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/lexer"
)

// parseTypeExpr parses the syntactic forms that are always unambiguously
// types (NamedType, PointerType, SliceType, ArrayType, DistinctType,
// StructType, EnumType, FuncType), plus the first-class-type escape hatches
// (an Ident/FieldExpr naming a binding, or an if/block/comptime expression
// evaluated at comptime) — whatever appears after a `:` in a binding, param,
// struct member, or enum payload. Precondition/postcondition: curToken sits
// on the construct's first/last token, matching parseExpr's convention.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.curToken.Type {
	case lexer.IDENT:
		return p.parseNamedOrFieldType()
	case lexer.CARET:
		return p.parsePointerType()
	case lexer.LBRACKET:
		return p.parseSliceOrArrayType()
	case lexer.KW_DISTINCT:
		return p.parseDistinctType()
	case lexer.KW_STRUCT:
		return p.parseStructType()
	case lexer.KW_ENUM:
		return p.parseEnumType()
	case lexer.LPAREN:
		return p.parseFuncType()
	case lexer.KW_IF:
		return p.asTypeExpr(p.parseIfExpr())
	case lexer.LBRACE:
		return p.asTypeExpr(p.parseBlockExprAsExpr())
	case lexer.KW_COMPTIME:
		return p.asTypeExpr(p.parseComptimeExpr())
	default:
		p.errorf("expected a type, got %s", p.curToken.Type)
		pos := p.curPos()
		return &ast.NamedType{Name: "<error>", Span: span(pos, pos)}
	}
}

// parseNamedOrFieldType parses a bare type name, with an optional dotted
// chain (`Enum.Variant`) selecting a nested type.
func (p *Parser) parseNamedOrFieldType() ast.TypeExpr {
	start := p.curPos()
	var node ast.Expr = &ast.NamedType{Name: p.curToken.Literal, Span: span(start, start)}
	for p.peekTokenIs(lexer.DOT) && p.peekAhead(1).Type == lexer.IDENT {
		p.nextToken() // '.'
		p.nextToken() // field name
		node = &ast.FieldExpr{Recv: node, Field: p.curToken.Literal, Span: span(start, p.curPos())}
	}
	return p.asTypeExpr(node)
}

// parsePointerType parses `^T` or `^mut T`; curToken == '^'.
func (p *Parser) parsePointerType() ast.TypeExpr {
	start := p.curPos()
	mutable := false
	if p.peekTokenIs(lexer.KW_MUT) {
		p.nextToken()
		mutable = true
	}
	p.nextToken()
	pointee := p.parseTypeExpr()
	return &ast.PointerType{Pointee: pointee, Mutable: mutable, Span: span(start, p.curPos())}
}

// parseSliceOrArrayType parses `[]T` or `[N]T`; curToken == '['.
func (p *Parser) parseSliceOrArrayType() ast.TypeExpr {
	start := p.curPos()
	if p.peekTokenIs(lexer.RBRACKET) {
		p.nextToken() // ']'
		p.nextToken() // element type's first token
		elem := p.parseTypeExpr()
		return &ast.SliceType{Elem: elem, Span: span(start, p.curPos())}
	}
	p.nextToken() // first token of the length expression
	length := p.parseExpr(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return &ast.ArrayType{Length: length, Elem: &ast.NamedType{Name: "<error>"}, Span: span(start, p.curPos())}
	}
	p.nextToken()
	elem := p.parseTypeExpr()
	return &ast.ArrayType{Length: length, Elem: elem, Span: span(start, p.curPos())}
}

func (p *Parser) parseSliceOrArrayTypeAsExpr() ast.Expr { return p.parseSliceOrArrayType().(ast.Expr) }

// parseDistinctType parses `distinct T`; curToken == 'distinct'.
func (p *Parser) parseDistinctType() ast.TypeExpr {
	start := p.curPos()
	p.nextToken()
	underlying := p.parseTypeExpr()
	return &ast.DistinctType{Underlying: underlying, Span: span(start, p.curPos())}
}

func (p *Parser) parseDistinctTypeAsExpr() ast.Expr { return p.parseDistinctType().(ast.Expr) }

// parseStructType parses `struct { name: Type, ... }`; curToken == 'struct'.
func (p *Parser) parseStructType() ast.TypeExpr {
	start := p.curPos()
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.StructType{Span: span(start, p.curPos())}
	}
	p.nextToken() // move past '{' to the first member or '}'

	var members []ast.StructMember
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorf("expected a member name, got %s", p.curToken.Type)
			break
		}
		name := p.curToken.Literal
		if !p.expectPeek(lexer.COLON) {
			break
		}
		p.nextToken()
		ty := p.parseTypeExpr()
		members = append(members, ast.StructMember{Name: name, Type: ty})
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
	return &ast.StructType{Members: members, Span: span(start, p.curPos())}
}

func (p *Parser) parseStructTypeAsExpr() ast.Expr { return p.parseStructType().(ast.Expr) }

// parseEnumType parses `enum { Name[: Payload][|N], ... }`; curToken ==
// 'enum'.
func (p *Parser) parseEnumType() ast.TypeExpr {
	start := p.curPos()
	if !p.expectPeek(lexer.LBRACE) {
		return &ast.EnumType{Span: span(start, p.curPos())}
	}
	p.nextToken() // move past '{' to the first variant or '}'

	var variants []ast.EnumVariant
	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorf("expected a variant name, got %s", p.curToken.Type)
			break
		}
		v := ast.EnumVariant{Name: p.curToken.Literal}
		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			v.PayloadType = p.parseTypeExpr()
		}
		if p.peekTokenIs(lexer.PIPE) {
			p.nextToken()
			if p.expectPeek(lexer.INT) {
				n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
				if err != nil {
					p.errorf("invalid discriminant %q", p.curToken.Literal)
				}
				v.Discriminant = &n
			}
		}
		variants = append(variants, v)
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
	return &ast.EnumType{Variants: variants, Span: span(start, p.curPos())}
}

func (p *Parser) parseEnumTypeAsExpr() ast.Expr { return p.parseEnumType().(ast.Expr) }

// parseFuncType parses `(T1, T2) -> R`, the declared-type-only function
// pointer syntax; curToken == '('.
func (p *Parser) parseFuncType() ast.TypeExpr {
	start := p.curPos()
	var params []ast.TypeExpr
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		params = append(params, p.parseTypeExpr())
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			params = append(params, p.parseTypeExpr())
		}
		p.expectPeek(lexer.RPAREN)
	}
	if !p.expectPeek(lexer.ARROW) {
		return &ast.FuncType{Params: params, Result: &ast.NamedType{Name: "<error>"}, Span: span(start, p.curPos())}
	}
	p.nextToken()
	result := p.parseTypeExpr()
	return &ast.FuncType{Params: params, Result: result, Span: span(start, p.curPos())}
}
