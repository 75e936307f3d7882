package parser

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/token"
)

// parseMatchExpression parses `match value { pattern [if guard] => body, ... }`.
func (p *Parser) parseMatchExpression() ast.Expression {
	tok := p.curToken
	id := p.id()

	p.nextToken()
	value := p.parseExpression(LOWEST)

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var arms []ast.MatchArm
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		pattern := p.parsePattern()

		var guard ast.Expression
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			p.nextToken()
			guard = p.parseExpression(LOWEST)
		}

		if !p.expectPeek(token.FATARROW) {
			return nil
		}

		var body *ast.BlockStatement
		if p.peekTokenIs(token.LBRACE) {
			p.nextToken()
			body = p.parseBlockStatement()
		} else {
			p.nextToken()
			bodyTok := p.curToken
			expr := p.parseExpression(LOWEST)
			body = ast.NewBlockStatement(bodyTok, p.id(), []ast.Statement{
				ast.NewExpressionStatement(bodyTok, p.id(), expr),
			})
		}

		arms = append(arms, ast.MatchArm{Pattern: pattern, Guard: guard, Body: body})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}

	return ast.NewMatchExpression(tok, id, value, arms)
}

// parsePattern parses one match-arm pattern: wildcard `_`, a struct
// pattern `Name { field: pat, ... }`, a range `lo..hi` / `lo..=hi`, a
// bare identifier binding, or a literal.
func (p *Parser) parsePattern() ast.Pattern {
	if p.curTokenIs(token.UNDERSCOR) {
		return ast.WildcardPattern{}
	}

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.LBRACE) {
		return p.parseStructPattern()
	}

	if p.curTokenIs(token.IDENT) && !p.peekTokenIs(token.DOTDOT) && !p.peekTokenIs(token.DOTDOTEQ) {
		return ast.IdentifierPattern{Name: p.curToken.Literal}
	}

	start := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.DOTDOT) || p.peekTokenIs(token.DOTDOTEQ) {
		inclusive := p.peekTokenIs(token.DOTDOTEQ)
		p.nextToken()
		p.nextToken()
		end := p.parseExpression(LOWEST)
		return ast.RangePattern{Start: start, End: end, Inclusive: inclusive}
	}

	return ast.LiteralPattern{Value: start}
}

func (p *Parser) parseStructPattern() ast.Pattern {
	name := p.curToken.Literal
	p.nextToken() // consume identifier, land on LBRACE
	p.nextToken() // consume LBRACE, land on first field or RBRACE

	var fields []ast.StructPatternField
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		fieldName := p.curToken.Literal

		var fieldPattern ast.Pattern
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			fieldPattern = p.parsePattern()
		} else {
			fieldPattern = ast.IdentifierPattern{Name: fieldName}
		}

		fields = append(fields, ast.StructPatternField{Name: fieldName, Pattern: fieldPattern})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()
	}

	return ast.StructPattern{Name: name, Fields: fields}
}
