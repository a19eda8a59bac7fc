package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	src := `x :: 5 + y.z`
	want := []TokenType{IDENT, DCOLON, INT, PLUS, IDENT, DOT, IDENT, EOF}

	l := New(src, "t.capy")
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, tt)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	src := `:= -> == != <= >= && || += -=`
	want := []TokenType{WALRUS, ARROW, EQ, NEQ, LTE, GTE, AND, OR, PLUSEQ, MINUSEQ, EOF}
	l := New(src, "t.capy")
	for i, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, tt)
		}
	}
}

func TestNextTokenStringAndChar(t *testing.T) {
	l := New(`"hi" 'a'`, "t.capy")
	str := l.NextToken()
	if str.Type != STRING || str.Literal != "hi" {
		t.Fatalf("got %+v", str)
	}
	ch := l.NextToken()
	if ch.Type != CHAR || ch.Literal != "a" {
		t.Fatalf("got %+v", ch)
	}
}

func TestNextTokenComment(t *testing.T) {
	l := New("x // a comment\ny", "t.capy")
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "x" || second.Literal != "y" {
		t.Fatalf("comment not skipped: %+v %+v", first, second)
	}
}

func TestNextTokenKeywords(t *testing.T) {
	l := New("if else for comptime struct", "t.capy")
	want := []TokenType{KW_IF, KW_ELSE, KW_FOR, KW_COMPTIME, KW_STRUCT}
	for _, tt := range want {
		tok := l.NextToken()
		if tok.Type != tt {
			t.Fatalf("got %s, want %s", tok.Type, tt)
		}
	}
}
