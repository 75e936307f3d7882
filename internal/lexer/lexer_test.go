package lexer

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/token"
)

func TestNextTokenBasic(t *testing.T) {
	input := `let x = 5 + 10 * "ab"; x.field == null && true || false != 1..=2;`

	tests := []struct {
		wantType    token.Type
		wantLiteral string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.PLUS, "+"},
		{token.INT, "10"},
		{token.ASTERISK, "*"},
		{token.STRING, "ab"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.DOT, "."},
		{token.IDENT, "field"},
		{token.EQ, "=="},
		{token.NULL, "null"},
		{token.AND, "&&"},
		{token.TRUE, "true"},
		{token.OR, "||"},
		{token.FALSE, "false"},
		{token.NOT_EQ, "!="},
		{token.INT, "1"},
		{token.DOTDOTEQ, "..="},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("tests[%d] - wrong type. want=%q got=%q (literal %q)", i, tt.wantType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("tests[%d] - wrong literal. want=%q got=%q", i, tt.wantLiteral, tok.Literal)
		}
	}
}

func TestNextTokenComments(t *testing.T) {
	input := "1 // trailing comment\n+ 2"
	want := []token.Type{token.INT, token.PLUS, token.INT, token.EOF}
	l := New(input)
	for i, wt := range want {
		tok := l.NextToken()
		if tok.Type != wt {
			t.Fatalf("token %d: want %q got %q", i, wt, tok.Type)
		}
	}
}
