package parser

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.CLASS:
		return p.parseClassStatement()
	case token.STRUCT:
		return p.parseStructStatement()
	case token.INTERFACE:
		return p.parseInterfaceStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal)

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewLetStatement(tok, id, name, value)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.curToken
	id := p.id()

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return ast.NewReturnStatement(tok, id, ast.NewNullLiteral(tok, p.id()))
	}

	p.nextToken()
	value := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewReturnStatement(tok, id, value)
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.curToken
	id := p.id()
	var statements []ast.Statement

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		before := len(p.Errors)
		stmt := p.parseStatement()
		if stmt != nil {
			statements = append(statements, stmt)
		}
		if len(p.Errors) > before {
			p.skipStatement()
			continue
		}
		p.nextToken()
	}

	return ast.NewBlockStatement(tok, id, statements)
}

// parseExpressionOrAssignStatement parses an expression, then checks
// whether it's the target of an assignment; otherwise it's an expression
// statement. The compiler's Set* opcodes make the assignment target's
// shape (identifier, property, index) matter, so it's classified here
// rather than left generic.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	tok := p.curToken
	id := p.id()
	expr := p.parseExpression(LOWEST)

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}

		switch target := expr.(type) {
		case *ast.Identifier:
			return ast.NewAssignIdentifierStatement(tok, id, target, value)
		case *ast.PropertyExpression:
			return ast.NewAssignPropertyStatement(tok, id, target, value)
		case *ast.IndexExpression:
			return ast.NewAssignIndexStatement(tok, id, target, value)
		default:
			p.errorf(tok, "invalid assignment target")
			return nil
		}
	}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return ast.NewExpressionStatement(tok, id, expr)
}

// parseClassStatement parses `class Name [extends Parent] { members }`
// where members is a sequence of [public|private] [static] field
// declarations (optionally `= default`) and `fn name(params) { body }`
// method declarations, each terminated with `;`.
func (p *Parser) parseClassStatement() ast.Statement {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	var parent *ast.Identifier
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		parent = ast.NewIdentifier(p.curToken, p.id(), p.curToken.Literal)
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var props []ast.PropertyDecl
	var methods []ast.ClassMethod

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		access := ast.AccessPublic
		if p.curTokenIs(token.PUBLIC) {
			p.nextToken()
		} else if p.curTokenIs(token.PRIVATE) {
			access = ast.AccessPrivate
			p.nextToken()
		}

		isStatic := false
		if p.curTokenIs(token.STATIC) {
			isStatic = true
			p.nextToken()
		}

		if p.curTokenIs(token.FUNCTION) {
			p.nextToken()
			if !p.curTokenIs(token.IDENT) {
				p.errorf(p.curToken, "expected method name, got %s", p.curToken.Type)
				p.skipStatement()
				continue
			}
			methodName := p.curToken.Literal
			fnExpr := p.parseFunctionLiteralNamed(methodName)
			fnLit, _ := fnExpr.(*ast.FunctionLiteral)
			methods = append(methods, ast.ClassMethod{Name: methodName, IsStatic: isStatic, Function: fnLit})
			if p.peekTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			p.nextToken()
			continue
		}

		if !p.curTokenIs(token.IDENT) {
			p.errorf(p.curToken, "expected field name, got %s", p.curToken.Type)
			p.skipStatement()
			continue
		}
		fieldName := p.curToken.Literal

		var def ast.Expression
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def = p.parseExpression(LOWEST)
		}
		props = append(props, ast.PropertyDecl{Name: fieldName, Access: access, IsStatic: isStatic, Default: def})

		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}

	return ast.NewClassStatement(tok, id, name, parent, props, methods)
}

func (p *Parser) parseStructStatement() ast.Statement {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	var fields []string
	if !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		fields = append(fields, p.curToken.Literal)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			fields = append(fields, p.curToken.Literal)
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return ast.NewStructStatement(tok, id, name, fields)
}

func (p *Parser) parseInterfaceStatement() ast.Statement {
	tok := p.curToken
	id := p.id()

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var methodNames []string
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.FUNCTION) {
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.errorf(p.curToken, "expected method name, got %s", p.curToken.Type)
			p.skipStatement()
			continue
		}
		methodNames = append(methodNames, p.curToken.Literal)

		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			for !p.curTokenIs(token.RPAREN) && !p.curTokenIs(token.EOF) {
				p.nextToken()
			}
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		p.nextToken()
	}

	return ast.NewInterfaceStatement(tok, id, name, methodNames)
}
