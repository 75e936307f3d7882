// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the compiler. It has no behavior of its own beyond position
// tracking: it exists purely as the interface between the (out-of-scope)
// parser and the compiler.
package ast

import "github.com/sofia-lang/sofia/internal/token"

// NodeID uniquely identifies an AST node within one parse, assigned in
// parse order. The compiler emits it as the operand of MapToAst so that
// step-trace output (spec.md §4.3) can name the source construct behind
// an instruction.
type NodeID int

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	Pos() token.Token
	ID() NodeID
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// base is embedded by every concrete node to provide Pos/ID/TokenLiteral.
type base struct {
	Token token.Token
	Nid   NodeID
}

func (b base) TokenLiteral() string { return b.Token.Literal }
func (b base) Pos() token.Token     { return b.Token }
func (b base) ID() NodeID           { return b.Nid }

// Program is the root of every parsed source file.
type Program struct {
	base
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// NewProgram constructs a Program node.
func NewProgram(id NodeID, stmts []Statement) *Program {
	return &Program{base: base{Nid: id}, Statements: stmts}
}
