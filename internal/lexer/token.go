// Package lexer tokenizes `.capy` source text for internal/parser. The
// production pipeline treats lexing/parsing as an external collaborator
// (§1 Non-goals); this package exists so cmd/capyc's `typecheck`/`repl`
// subcommands and this repo's own test fixtures have a real, in-tree way
// to turn source text into the internal/ast tree the rest of the pipeline
// consumes, the same way the teacher ships internal/lexer as its own
// first pipeline stage.
package lexer

import "fmt"

// TokenType enumerates every lexical category capyc's grammar needs,
// mirroring the teacher's internal/lexer/token.go TokenType enum shape
// (ILLEGAL/EOF first, then literals, keywords, operators, delimiters).
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	IDENT
	INT
	FLOAT
	STRING
	CHAR

	// Keywords
	KW_TRUE
	KW_FALSE
	KW_IF
	KW_ELSE
	KW_FOR
	KW_IN
	KW_SWITCH
	KW_CASE
	KW_RETURN
	KW_BREAK
	KW_CONTINUE
	KW_DEFER
	KW_COMPTIME
	KW_STRUCT
	KW_ENUM
	KW_DISTINCT
	KW_MUT

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR
	NOT
	ARROW    // ->
	CARET    // ^
	PIPE     // |
	ASSIGN   // =
	COLON    // :
	DCOLON   // ::
	WALRUS   // :=
	PLUSEQ   // +=
	MINUSEQ  // -=
	STAREQ   // *=
	SLASHEQ  // /=

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	HASH
)

var names = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", CHAR: "CHAR",
	KW_TRUE: "true", KW_FALSE: "false", KW_IF: "if", KW_ELSE: "else",
	KW_FOR: "for", KW_IN: "in", KW_SWITCH: "switch", KW_CASE: "case",
	KW_RETURN: "return", KW_BREAK: "break", KW_CONTINUE: "continue",
	KW_DEFER: "defer", KW_COMPTIME: "comptime", KW_STRUCT: "struct",
	KW_ENUM: "enum", KW_DISTINCT: "distinct", KW_MUT: "mut",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	EQ: "==", NEQ: "!=", LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	AND: "&&", OR: "||", NOT: "!", ARROW: "->", CARET: "^", PIPE: "|",
	ASSIGN: "=", COLON: ":", DCOLON: "::", WALRUS: ":=",
	PLUSEQ: "+=", MINUSEQ: "-=", STAREQ: "*=", SLASHEQ: "/=",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", DOT: ".", HASH: "#",
}

func (t TokenType) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"true": KW_TRUE, "false": KW_FALSE, "if": KW_IF, "else": KW_ELSE,
	"for": KW_FOR, "in": KW_IN, "switch": KW_SWITCH, "case": KW_CASE,
	"return": KW_RETURN, "break": KW_BREAK, "continue": KW_CONTINUE,
	"defer": KW_DEFER, "comptime": KW_COMPTIME, "struct": KW_STRUCT,
	"enum": KW_ENUM, "distinct": KW_DISTINCT, "mut": KW_MUT,
}

// LookupIdent classifies ident as a keyword token or a bare IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is one lexed unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	File    string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s:%d:%d", t.Type, t.Literal, t.File, t.Line, t.Column)
}
