package ast

import "github.com/sofia-lang/sofia/internal/token"

func newBase(tok token.Token, id NodeID) base { return base{Token: tok, Nid: id} }

// Identifier is a bare name reference.
type Identifier struct {
	base
	Value string
}

func (*Identifier) expressionNode() {}

func NewIdentifier(tok token.Token, id NodeID, value string) *Identifier {
	return &Identifier{base: newBase(tok, id), Value: value}
}

// IntegerLiteral is a decimal integer constant.
type IntegerLiteral struct {
	base
	Value int64
}

func (*IntegerLiteral) expressionNode() {}

func NewIntegerLiteral(tok token.Token, id NodeID, value int64) *IntegerLiteral {
	return &IntegerLiteral{base: newBase(tok, id), Value: value}
}

// BooleanLiteral is `true`/`false`.
type BooleanLiteral struct {
	base
	Value bool
}

func (*BooleanLiteral) expressionNode() {}

func NewBooleanLiteral(tok token.Token, id NodeID, value bool) *BooleanLiteral {
	return &BooleanLiteral{base: newBase(tok, id), Value: value}
}

// StringLiteral is a double-quoted string constant.
type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) expressionNode() {}

func NewStringLiteral(tok token.Token, id NodeID, value string) *StringLiteral {
	return &StringLiteral{base: newBase(tok, id), Value: value}
}

// NullLiteral is the `null` literal.
type NullLiteral struct{ base }

func (*NullLiteral) expressionNode() {}

func NewNullLiteral(tok token.Token, id NodeID) *NullLiteral {
	return &NullLiteral{base: newBase(tok, id)}
}

// PrefixExpression is `!x` or `-x`.
type PrefixExpression struct {
	base
	Operator string
	Right    Expression
}

func (*PrefixExpression) expressionNode() {}

func NewPrefixExpression(tok token.Token, id NodeID, operator string, right Expression) *PrefixExpression {
	return &PrefixExpression{base: newBase(tok, id), Operator: operator, Right: right}
}

// InfixExpression is `left OP right`.
type InfixExpression struct {
	base
	Left     Expression
	Operator string
	Right    Expression
}

func (*InfixExpression) expressionNode() {}

func NewInfixExpression(tok token.Token, id NodeID, left Expression, operator string, right Expression) *InfixExpression {
	return &InfixExpression{base: newBase(tok, id), Left: left, Operator: operator, Right: right}
}

// IfExpression is `if (cond) { ... } else { ... }`, usable as either a
// statement or an expression (the compiler pushes Null when there is no
// else branch and the value is used).
type IfExpression struct {
	base
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else branch
}

func (*IfExpression) expressionNode() {}

func NewIfExpression(tok token.Token, id NodeID, cond Expression, cons, alt *BlockStatement) *IfExpression {
	return &IfExpression{base: newBase(tok, id), Condition: cond, Consequence: cons, Alternative: alt}
}

// FunctionLiteral is `fn(params) { body }`. Name is set when the literal
// is a method body inside a class/struct declaration; empty otherwise.
type FunctionLiteral struct {
	base
	Name       string
	Parameters []*Identifier
	Body       *BlockStatement
}

func (*FunctionLiteral) expressionNode() {}

func NewFunctionLiteral(tok token.Token, id NodeID, name string, params []*Identifier, body *BlockStatement) *FunctionLiteral {
	return &FunctionLiteral{base: newBase(tok, id), Name: name, Parameters: params, Body: body}
}

// CallExpression is `f(args...)`.
type CallExpression struct {
	base
	Function  Expression
	Arguments []Expression
}

func (*CallExpression) expressionNode() {}

func NewCallExpression(tok token.Token, id NodeID, fn Expression, args []Expression) *CallExpression {
	return &CallExpression{base: newBase(tok, id), Function: fn, Arguments: args}
}

// ArrayLiteral is `[a, b, c]`.
type ArrayLiteral struct {
	base
	Elements []Expression
}

func (*ArrayLiteral) expressionNode() {}

func NewArrayLiteral(tok token.Token, id NodeID, elements []Expression) *ArrayLiteral {
	return &ArrayLiteral{base: newBase(tok, id), Elements: elements}
}

// HashPair is one `key: value` entry of a HashLiteral, kept in written
// order (spec.md §3: Hash is insertion-ordered).
type HashPair struct {
	Key   Expression
	Value Expression
}

// HashLiteral is `{ k1: v1, k2: v2 }`.
type HashLiteral struct {
	base
	Pairs []HashPair
}

func (*HashLiteral) expressionNode() {}

func NewHashLiteral(tok token.Token, id NodeID, pairs []HashPair) *HashLiteral {
	return &HashLiteral{base: newBase(tok, id), Pairs: pairs}
}

// IndexExpression is `left[index]`.
type IndexExpression struct {
	base
	Left  Expression
	Index Expression
}

func (*IndexExpression) expressionNode() {}

func NewIndexExpression(tok token.Token, id NodeID, left, index Expression) *IndexExpression {
	return &IndexExpression{base: newBase(tok, id), Left: left, Index: index}
}

// NewExpression is `new ClassName(args...)`.
type NewExpression struct {
	base
	ClassName *Identifier
	Arguments []Expression
}

func (*NewExpression) expressionNode() {}

func NewNewExpression(tok token.Token, id NodeID, className *Identifier, args []Expression) *NewExpression {
	return &NewExpression{base: newBase(tok, id), ClassName: className, Arguments: args}
}

// PropertyExpression is `object.property`.
type PropertyExpression struct {
	base
	Object   Expression
	Property string
}

func (*PropertyExpression) expressionNode() {}

func NewPropertyExpression(tok token.Token, id NodeID, object Expression, property string) *PropertyExpression {
	return &PropertyExpression{base: newBase(tok, id), Object: object, Property: property}
}

// ThisExpression is `this`.
type ThisExpression struct{ base }

func (*ThisExpression) expressionNode() {}

func NewThisExpression(tok token.Token, id NodeID) *ThisExpression {
	return &ThisExpression{base: newBase(tok, id)}
}

// SuperExpression is `super`, valid only as the receiver of a property
// access or call inside a method body.
type SuperExpression struct{ base }

func (*SuperExpression) expressionNode() {}

func NewSuperExpression(tok token.Token, id NodeID) *SuperExpression {
	return &SuperExpression{base: newBase(tok, id)}
}

// MatchArm is one `pattern [if guard] => body` arm of a MatchExpression.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // nil when there is no guard
	Body    *BlockStatement
}

// MatchExpression is `match value { arm, arm, ... }`.
type MatchExpression struct {
	base
	Value Expression
	Arms  []MatchArm
}

func (*MatchExpression) expressionNode() {}

func NewMatchExpression(tok token.Token, id NodeID, value Expression, arms []MatchArm) *MatchExpression {
	return &MatchExpression{base: newBase(tok, id), Value: value, Arms: arms}
}
