package compiler

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// compileExpression compiles e so that it pushes exactly one value onto
// the operand stack (spec.md §4.2's expression-lowering rules).
func (c *Compiler) compileExpression(e ast.Expression) error {
	line := e.Pos().Line
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		idx := c.chunk.AddConstant(object.Integer(e.Value))
		c.emitU16(bytecode.Constant, int(idx), line)
		return nil
	case *ast.BooleanLiteral:
		if e.Value {
			c.emitOp(bytecode.True, line)
		} else {
			c.emitOp(bytecode.False, line)
		}
		return nil
	case *ast.StringLiteral:
		idx := c.chunk.AddConstant(object.Str(e.Value))
		c.emitU16(bytecode.Constant, int(idx), line)
		return nil
	case *ast.NullLiteral:
		c.emitOp(bytecode.NullOp, line)
		return nil
	case *ast.Identifier:
		return c.compileIdentifier(e)
	case *ast.PrefixExpression:
		return c.compilePrefix(e)
	case *ast.InfixExpression:
		return c.compileInfix(e)
	case *ast.IfExpression:
		return c.compileIf(e)
	case *ast.ArrayLiteral:
		return c.compileArray(e)
	case *ast.HashLiteral:
		return c.compileHash(e)
	case *ast.IndexExpression:
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		if err := c.compileExpression(e.Index); err != nil {
			return err
		}
		c.emitOp(bytecode.Index, line)
		return nil
	case *ast.CallExpression:
		return c.compileCall(e)
	case *ast.FunctionLiteral:
		_, err := c.compileFunctionLiteral(e, PlainFunction, nil)
		return err
	case *ast.NewExpression:
		return c.compileNew(e)
	case *ast.PropertyExpression:
		if err := c.compileExpression(e.Object); err != nil {
			return err
		}
		idx := c.chunk.AddConstant(object.Str(e.Property))
		c.emitU16(bytecode.GetProperty, int(idx), line)
		return nil
	case *ast.ThisExpression:
		if c.currentClass == nil {
			return newError(UnknownIdentifier, line, e.Pos().Column, "this outside method")
		}
		c.emitOp(bytecode.This, line)
		return nil
	case *ast.SuperExpression:
		if c.currentClass == nil {
			return newError(UnknownIdentifier, line, e.Pos().Column, "super outside method")
		}
		c.emitOp(bytecode.Super, line)
		return nil
	case *ast.MatchExpression:
		return c.compileMatch(e)
	default:
		return newError(UnknownOperator, line, e.Pos().Column, "unsupported expression %T", e)
	}
}

// compileFunctionLiteral compiles fn as a nested function body. It is
// used both for anonymous `fn(...) {...}` expressions and for class/
// struct method bodies, in which case owner names the enclosing class so
// `super` can be resolved (spec.md §9's design note) and the caller
// still supplies its own funcType (MethodFunction vs PlainFunction).
func (c *Compiler) compileFunctionLiteral(lit *ast.FunctionLiteral, funcType FunctionType, owner *object.Class) (*object.CompiledFunction, error) {
	line := lit.Pos().Line

	skip := c.emitJump(bytecode.Jump, line)
	codeOffset := c.chunk.Len()

	fn := &object.CompiledFunction{
		Name:       lit.Name,
		CodeOffset: codeOffset,
		NumParams:  len(lit.Parameters),
		OwnerClass: owner,
	}

	// currentClass is intentionally NOT inherited from the enclosing
	// compiler for plain (non-method) function literals: `this`/`super`
	// are valid only in the method body they lexically belong to, not
	// in closures nested inside it, so OwnerClass (used by the VM to
	// resolve Super) and this compile-time check always agree.
	nested := &Compiler{
		chunk:        c.chunk,
		fn:           fn,
		funcType:     funcType,
		codeOffset:   codeOffset,
		enclosing:    c,
		currentClass: owner,
		classReg:     c.classReg,
		nextSlot:     len(lit.Parameters),
	}
	fn.NumLocals = nested.nextSlot
	for i, p := range lit.Parameters {
		nested.locals = append(nested.locals, Local{Name: p.Value, Depth: 0, Slot: i})
	}

	if err := nested.compileFunctionBody(lit.Body); err != nil {
		return nil, err
	}

	fn.CodeLength = c.chunk.Len() - codeOffset
	fn.Upvalues = make([]object.UpvalueCapture, len(nested.upvalues))
	for i, up := range nested.upvalues {
		fn.Upvalues[i] = object.UpvalueCapture{Index: up.Index, IsLocal: up.IsLocal}
	}

	c.patchJump(skip)

	// The upvalue capture list already lives on fn.Upvalues (an
	// object.CompiledFunction field), so MakeClosure's operand is just
	// the function index — the VM reads capture info from there instead
	// of from extra bytes in the instruction stream.
	if lit.Name == "" {
		fnIdx := c.chunk.AddFunction(fn)
		c.emitU16(bytecode.MakeClosure, int(fnIdx), line)
	}

	return fn, nil
}

func (c *Compiler) compileIdentifier(id *ast.Identifier) error {
	line := id.Pos().Line
	if slot, ok := c.resolveLocal(id.Value); ok {
		c.emitU8(bytecode.GetLocal, slot, line)
		return nil
	}
	if idx, ok := c.resolveUpvalue(id.Value); ok {
		c.emitU8(bytecode.GetUpvalue, idx, line)
		return nil
	}
	nameIdx := c.chunk.AddConstant(object.Str(id.Value))
	c.emitU16(bytecode.GetGlobal, int(nameIdx), line)
	return nil
}

func (c *Compiler) compilePrefix(e *ast.PrefixExpression) error {
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	line := e.Pos().Line
	switch e.Operator {
	case "!":
		c.emitOp(bytecode.Not, line)
	case "-":
		c.emitOp(bytecode.Neg, line)
	default:
		return newError(UnknownOperator, line, e.Pos().Column, "unknown prefix operator %q", e.Operator)
	}
	return nil
}

var infixOpcodes = map[string]bytecode.Opcode{
	"+":  bytecode.Add,
	"-":  bytecode.Sub,
	"*":  bytecode.Mul,
	"/":  bytecode.Div,
	"%":  bytecode.Mod,
	"**": bytecode.Pow,
	"&&": bytecode.And,
	"||": bytecode.Or,
	"==": bytecode.Equal,
	"!=": bytecode.NotEqual,
	">":  bytecode.GreaterThan,
	"<":  bytecode.LessThan,
}

// compileInfix lowers a binary expression. `&&`/`||` are strict, not
// short-circuit — see DESIGN.md's Open Question decision citing
// original_source's compiler.rs and evaluator.rs — so both operands
// always compile unconditionally, mirroring every other infix operator.
func (c *Compiler) compileInfix(e *ast.InfixExpression) error {
	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	op, ok := infixOpcodes[e.Operator]
	if !ok {
		return newError(UnknownOperator, e.Pos().Line, e.Pos().Column, "unknown infix operator %q", e.Operator)
	}
	c.emitOp(op, e.Pos().Line)
	return nil
}

// compileIf lowers `if (c) a else b` both as an expression and — via the
// caller emitting a trailing Pop for the statement form — as a statement
// (spec.md §4.2).
func (c *Compiler) compileIf(e *ast.IfExpression) error {
	line := e.Pos().Line
	if err := c.compileExpression(e.Condition); err != nil {
		return err
	}
	elseJump := c.emitJump(bytecode.JumpIfFalse, line)
	if err := c.compileBlockAsExpr(e.Consequence); err != nil {
		return err
	}
	endJump := c.emitJump(bytecode.Jump, line)
	c.patchJump(elseJump)
	if e.Alternative != nil {
		if err := c.compileBlockAsExpr(e.Alternative); err != nil {
			return err
		}
	} else {
		c.emitOp(bytecode.NullOp, line)
	}
	c.patchJump(endJump)
	return nil
}

// compileFunctionBody compiles a function's statements so that the
// value of a trailing expression-statement becomes the function's
// implicit return value — Rust-style block semantics, matching the
// reference interpreter's eval_block_statement, which returns the last
// evaluated statement's value unless a `return`/error unwinds first.
// A body ending in an explicit `return` ends with that statement's own
// Return and gets no trailer. Any other body that does not end in an
// expression statement (empty body, or one ending in `let`/a class
// declaration) implicitly returns Null. This is distinct from Compile's top-level
// program entry point, which always discards its last statement's
// value (spec.md §8's `5 + 5;` ⇒ Null scenario) — only function bodies
// get this implicit-return treatment.
func (c *Compiler) compileFunctionBody(b *ast.BlockStatement) error {
	line := b.Pos().Line
	for i, s := range b.Statements {
		if i == len(b.Statements)-1 {
			if es, ok := s.(*ast.ExpressionStatement); ok {
				if err := c.compileExpression(es.Expression); err != nil {
					return err
				}
				c.emitOp(bytecode.Return, es.Pos().Line)
				return nil
			}
			if rs, ok := s.(*ast.ReturnStatement); ok {
				return c.compileReturn(rs)
			}
		}
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.NullOp, line)
	c.emitOp(bytecode.Return, line)
	return nil
}

// compileBlockAsExpr compiles a block whose final expression-statement
// value should remain on the stack as the block's value, matching `if`
// used in expression position. Every non-final statement compiles
// normally (with its own Pop); the final statement, if an expression
// statement, skips its Pop.
func (c *Compiler) compileBlockAsExpr(b *ast.BlockStatement) error {
	c.beginScope()
	for i, s := range b.Statements {
		if i == len(b.Statements)-1 {
			if es, ok := s.(*ast.ExpressionStatement); ok {
				if err := c.compileExpression(es.Expression); err != nil {
					return err
				}
				c.endScope(b.Pos().Line)
				return nil
			}
		}
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	c.emitOp(bytecode.NullOp, b.Pos().Line)
	c.endScope(b.Pos().Line)
	return nil
}

func (c *Compiler) compileArray(lit *ast.ArrayLiteral) error {
	for _, el := range lit.Elements {
		if err := c.compileExpression(el); err != nil {
			return err
		}
	}
	c.emitU16(bytecode.MakeArray, len(lit.Elements), lit.Pos().Line)
	return nil
}

func (c *Compiler) compileHash(lit *ast.HashLiteral) error {
	for _, pair := range lit.Pairs {
		if err := c.compileExpression(pair.Key); err != nil {
			return err
		}
		if err := c.compileExpression(pair.Value); err != nil {
			return err
		}
	}
	c.emitU16(bytecode.MakeHash, len(lit.Pairs), lit.Pos().Line)
	return nil
}

func (c *Compiler) compileCall(e *ast.CallExpression) error {
	if err := c.compileExpression(e.Function); err != nil {
		return err
	}
	for _, arg := range e.Arguments {
		if err := c.compileExpression(arg); err != nil {
			return err
		}
	}
	c.emitU8(bytecode.Call, len(e.Arguments), e.Pos().Line)
	return nil
}

// compileNew lowers `new C(args)` (spec.md §4.2): resolve C, compile
// arguments, emit New argc.
func (c *Compiler) compileNew(e *ast.NewExpression) error {
	if err := c.compileIdentifier(e.ClassName); err != nil {
		return err
	}
	for _, arg := range e.Arguments {
		if err := c.compileExpression(arg); err != nil {
			return err
		}
	}
	c.emitU8(bytecode.New, len(e.Arguments), e.Pos().Line)
	return nil
}
