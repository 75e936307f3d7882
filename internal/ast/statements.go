package ast

import "github.com/sofia-lang/sofia/internal/token"

// LetStatement is `let name = value;`.
type LetStatement struct {
	base
	Name  *Identifier
	Value Expression
}

func (*LetStatement) statementNode() {}

func NewLetStatement(tok token.Token, id NodeID, name *Identifier, value Expression) *LetStatement {
	return &LetStatement{base: newBase(tok, id), Name: name, Value: value}
}

// ReturnStatement is `return value;` (or bare `return;`, which the parser
// desugars to `return null;`).
type ReturnStatement struct {
	base
	ReturnValue Expression
}

func (*ReturnStatement) statementNode() {}

func NewReturnStatement(tok token.Token, id NodeID, value Expression) *ReturnStatement {
	return &ReturnStatement{base: newBase(tok, id), ReturnValue: value}
}

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	base
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}

func NewExpressionStatement(tok token.Token, id NodeID, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{base: newBase(tok, id), Expression: expr}
}

// BlockStatement is `{ stmt; stmt; ... }`.
type BlockStatement struct {
	base
	Statements []Statement
}

func (*BlockStatement) statementNode() {}

func NewBlockStatement(tok token.Token, id NodeID, stmts []Statement) *BlockStatement {
	return &BlockStatement{base: newBase(tok, id), Statements: stmts}
}

// AssignTarget classifies what an AssignStatement writes to.
type AssignTarget int

const (
	AssignIdentifier AssignTarget = iota
	AssignProperty
	AssignIndex
)

// AssignStatement is `target = value;` where target is a name, a property
// access, or an index expression (spec.md §4.2's "InvalidAssignmentTarget"
// error covers every other expression shape).
type AssignStatement struct {
	base
	Kind  AssignTarget
	Name  *Identifier         // set when Kind == AssignIdentifier
	Prop  *PropertyExpression // set when Kind == AssignProperty
	Index *IndexExpression    // set when Kind == AssignIndex
	Value Expression
}

func (*AssignStatement) statementNode() {}

// NewAssignIdentifierStatement builds `name = value;`.
func NewAssignIdentifierStatement(tok token.Token, id NodeID, name *Identifier, value Expression) *AssignStatement {
	return &AssignStatement{base: newBase(tok, id), Kind: AssignIdentifier, Name: name, Value: value}
}

// NewAssignPropertyStatement builds `object.property = value;`.
func NewAssignPropertyStatement(tok token.Token, id NodeID, prop *PropertyExpression, value Expression) *AssignStatement {
	return &AssignStatement{base: newBase(tok, id), Kind: AssignProperty, Prop: prop, Value: value}
}

// NewAssignIndexStatement builds `array[index] = value;`.
func NewAssignIndexStatement(tok token.Token, id NodeID, index *IndexExpression, value Expression) *AssignStatement {
	return &AssignStatement{base: newBase(tok, id), Kind: AssignIndex, Index: index, Value: value}
}

// PropertyAccess describes a declared class/struct property or a class's
// static slot.
type PropertyAccess int

const (
	AccessPublic PropertyAccess = iota
	AccessPrivate
)

// PropertyDecl is one `public|private [static] name [= default];` field
// declaration inside a class or struct body.
type PropertyDecl struct {
	Name     string
	Access   PropertyAccess
	IsStatic bool
	Default  Expression // nil means default to Null
}

// ClassMethod is one method body declared inside a class.
type ClassMethod struct {
	Name     string
	IsStatic bool
	Function *FunctionLiteral
}

// ClassStatement is `class Name [extends Parent] { ... }`.
type ClassStatement struct {
	base
	Name       string
	Parent     *Identifier // nil when there is no `extends` clause
	Properties []PropertyDecl
	Methods    []ClassMethod
}

func (*ClassStatement) statementNode() {}

func NewClassStatement(tok token.Token, id NodeID, name string, parent *Identifier, props []PropertyDecl, methods []ClassMethod) *ClassStatement {
	return &ClassStatement{base: newBase(tok, id), Name: name, Parent: parent, Properties: props, Methods: methods}
}

// StructStatement is `struct Name { field, field, ... }` — a struct has
// fields but no methods and no inheritance.
type StructStatement struct {
	base
	Name   string
	Fields []string
}

func (*StructStatement) statementNode() {}

func NewStructStatement(tok token.Token, id NodeID, name string, fields []string) *StructStatement {
	return &StructStatement{base: newBase(tok, id), Name: name, Fields: fields}
}

// InterfaceStatement is `interface Name { method_name(...); ... }` — a
// pure documentation/reflection descriptor (see SPEC_FULL.md §4.2:
// interfaces are never statically checked in SOFIA).
type InterfaceStatement struct {
	base
	Name        string
	MethodNames []string
}

func (*InterfaceStatement) statementNode() {}

func NewInterfaceStatement(tok token.Token, id NodeID, name string, methodNames []string) *InterfaceStatement {
	return &InterfaceStatement{base: newBase(tok, id), Name: name, MethodNames: methodNames}
}
