// Package parser is a hand-written Pratt parser that turns a token
// stream (internal/lexer) into an internal/ast tree — the compiler's
// only input. Grounded on the teacher's internal/parser package (the
// prefix/infix parse-function-table Pratt structure, precedence
// climbing in parseExpression) generalized to SOFIA's much smaller
// grammar and to this repo's own ast package, which exposes
// constructors instead of public struct literals.
package parser

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/lexer"
	"github.com/sofia-lang/sofia/internal/token"
)

// Precedence levels, low to high.
const (
	LOWEST int = iota
	OR
	AND
	EQUALS      // == !=
	LESSGREATER // < >
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -x !x
	CALL        // f(x) o.p a[i]
)

var precedences = map[token.Type]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.POW:      POWER,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
}

// ParseError is a syntax error with the token position it occurred at.
type ParseError struct {
	Tok     token.Token
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Tok.Line, e.Tok.Column, e.Message)
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser consumes a lexer.Lexer's token stream and builds an ast.Program.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	nextID ast.NodeID
	Errors []*ParseError

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn
}

// New creates a Parser positioned before the first token of l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBoolean,
		token.FALSE:    p.parseBoolean,
		token.NULL:     p.parseNullLiteral,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.IF:       p.parseIfExpression,
		token.FUNCTION: p.parseFunctionLiteral,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseHashLiteral,
		token.THIS:     p.parseThisExpression,
		token.SUPER:    p.parseSuperExpression,
		token.NEW:      p.parseNewExpression,
		token.MATCH:    p.parseMatchExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.POW:      p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:      p.parsePropertyExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) id() ast.NodeID {
	id := p.nextID
	p.nextID++
	return id
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.Errors = append(p.Errors, &ParseError{
		Tok:     p.peekToken,
		Message: fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type),
	})
}

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.Errors = append(p.Errors, &ParseError{Tok: tok, Message: fmt.Sprintf(format, args...)})
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

// skipStatement discards tokens up to and including the next `;`, used
// to keep parsing after a syntax error instead of aborting the whole
// file on the first mistake. It stops before a `}` without consuming it,
// so an enclosing block or class body can still close; ParseProgram
// consumes a `}` left over at the top level.
func (p *Parser) skipStatement() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) && !p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
	if p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram consumes the entire token stream and returns the root
// Program node. Parse errors are accumulated in p.Errors; callers should
// check len(p.Errors) == 0 before handing the result to the compiler.
func (p *Parser) ParseProgram() *ast.Program {
	var statements []ast.Statement
	for !p.curTokenIs(token.EOF) {
		before := len(p.Errors)
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		if len(p.Errors) > before {
			p.skipStatement()
			if p.curTokenIs(token.RBRACE) {
				p.nextToken()
			}
			continue
		}
		p.nextToken()
	}
	return ast.NewProgram(p.id(), statements)
}
