package parser

import (
	"strconv"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/token"
)

// parseExpression is the Pratt-parser core: it climbs precedence exactly
// like the teacher's parseExpression, generalized to this package's
// smaller token/precedence set and to ast's constructor-based nodes.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken, "no prefix parse function for %s found", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal)
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf(tok, "could not parse %q as integer", tok.Literal)
		return nil
	}
	return ast.NewIntegerLiteral(tok, p.id(), v)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return ast.NewStringLiteral(p.curToken, p.id(), p.curToken.Literal)
}

func (p *Parser) parseBoolean() ast.Expression {
	return ast.NewBooleanLiteral(p.curToken, p.id(), p.curTokenIs(token.TRUE))
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return ast.NewNullLiteral(p.curToken, p.id())
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	id := p.id()
	operator := tok.Literal
	p.nextToken()
	right := p.parseExpression(PREFIX)
	return ast.NewPrefixExpression(tok, id, operator, right)
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	id := p.id()
	operator := tok.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	// ** is right-associative; every other binary operator is left-associative.
	if tok.Type == token.POW {
		precedence--
	}
	right := p.parseExpression(precedence)
	return ast.NewInfixExpression(tok, id, left, operator, right)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseIfExpression() ast.Expression {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	condition := p.parseExpression(LOWEST)

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	consequence := p.parseBlockStatement()

	var alternative *ast.BlockStatement
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			elseIfTok := p.curToken
			elseIfExpr := p.parseIfExpression()
			alternative = ast.NewBlockStatement(elseIfTok, p.id(), []ast.Statement{
				ast.NewExpressionStatement(elseIfTok, p.id(), elseIfExpr),
			})
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			alternative = p.parseBlockStatement()
		}
	}

	return ast.NewIfExpression(tok, id, condition, consequence, alternative)
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	return p.parseFunctionLiteralNamed("")
}

// parseFunctionLiteralNamed parses `fn(params) { body }`; name is supplied
// by class-body parsing when the literal is a method.
func (p *Parser) parseFunctionLiteralNamed(name string) ast.Expression {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseFunctionParameters()

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()

	return ast.NewFunctionLiteral(tok, id, name, params, body)
}

func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	var params []*ast.Identifier

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params = append(params, ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal))
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	tok := p.curToken
	id := p.id()
	args := p.parseExpressionList(token.RPAREN)
	return ast.NewCallExpression(tok, id, fn, args)
}

func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	id := p.id()
	elements := p.parseExpressionList(token.RBRACKET)
	return ast.NewArrayLiteral(tok, id, elements)
}

func (p *Parser) parseHashLiteral() ast.Expression {
	tok := p.curToken
	id := p.id()
	var pairs []ast.HashPair

	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpression(LOWEST)

		if !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)

		pairs = append(pairs, ast.HashPair{Key: key, Value: value})

		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return ast.NewHashLiteral(tok, id, pairs)
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	id := p.id()
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return ast.NewIndexExpression(tok, id, left, index)
}

func (p *Parser) parsePropertyExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	id := p.id()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return ast.NewPropertyExpression(tok, id, left, p.curToken.Literal)
}

func (p *Parser) parseThisExpression() ast.Expression {
	return ast.NewThisExpression(p.curToken, p.id())
}

func (p *Parser) parseSuperExpression() ast.Expression {
	return ast.NewSuperExpression(p.curToken, p.id())
}

func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	className := ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal)

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseExpressionList(token.RPAREN)

	return ast.NewNewExpression(tok, id, className, args)
}
