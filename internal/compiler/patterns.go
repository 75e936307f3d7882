package compiler

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// compileMatch lowers `match v { pat [if g] => body, ... }` (spec.md
// §4.2/§4.2.1). The scrutinee is compiled once into a scratch local so
// every arm's pattern test and body can reload it with GetLocal instead
// of juggling operand-stack depth across arms.
func (c *Compiler) compileMatch(e *ast.MatchExpression) error {
	line := e.Pos().Line
	if err := c.compileExpression(e.Value); err != nil {
		return err
	}
	slot, err := c.addLocal(fmt.Sprintf("$match%d", e.ID()), line, e.Pos().Column)
	if err != nil {
		return err
	}
	c.emitU8(bytecode.SetLocal, slot, line)

	var endJumps []int
	scratch := 0
	for _, arm := range e.Arms {
		c.beginScope()

		fails, err := c.compilePatternTest(arm.Pattern, slot, line, e.ID(), &scratch)
		if err != nil {
			return err
		}

		if arm.Guard != nil {
			if err := c.compileExpression(arm.Guard); err != nil {
				return err
			}
			fails = append(fails, c.emitJump(bytecode.JumpIfFalse, line))
		}

		if err := c.compileBlockAsExpr(arm.Body); err != nil {
			return err
		}
		endJumps = append(endJumps, c.emitJump(bytecode.Jump, line))
		c.endScope(line)

		for _, f := range fails {
			c.patchJump(f)
		}
	}

	// Every arm's pattern test (or guard) failed: spec.md §4.2's
	// NonExhaustiveMatch runtime error.
	if err := c.emitRuntimeError("NonExhaustiveMatch", line); err != nil {
		return err
	}

	for _, j := range endJumps {
		c.patchJump(j)
	}
	return nil
}

// emitRuntimeError raises a named runtime error kind directly via the
// Raise opcode (used for non-exhaustive match, which has no
// surface-syntax expression form to compile instead).
func (c *Compiler) emitRuntimeError(kind string, line int) error {
	idx := c.chunk.AddConstant(object.Str(kind))
	c.emitU16(bytecode.Raise, int(idx), line)
	return nil
}

// compilePatternTest emits the comparisons for pat against the scrutinee
// held in slot, returning the offsets of every JumpIfFalse that should
// branch to the next arm on mismatch. Successful identifier/struct-field
// bindings are declared as fresh locals in the caller's already-open
// scope. nodeID/scratch make freshly synthesized local names for nested
// struct-field bindings unique within one match expression.
func (c *Compiler) compilePatternTest(pat ast.Pattern, slot, line int, nodeID ast.NodeID, scratch *int) ([]int, error) {
	switch p := pat.(type) {
	case ast.WildcardPattern:
		return nil, nil

	case ast.IdentifierPattern:
		bindSlot, err := c.addLocal(p.Name, line, 0)
		if err != nil {
			return nil, err
		}
		c.emitU8(bytecode.GetLocal, slot, line)
		c.emitU8(bytecode.SetLocal, bindSlot, line)
		return nil, nil

	case ast.LiteralPattern:
		c.emitU8(bytecode.GetLocal, slot, line)
		if err := c.compileExpression(p.Value); err != nil {
			return nil, err
		}
		c.emitOp(bytecode.Equal, line)
		return []int{c.emitJump(bytecode.JumpIfFalse, line)}, nil

	case ast.RangePattern:
		var fails []int

		c.emitU8(bytecode.GetLocal, slot, line)
		if err := c.compileExpression(p.Start); err != nil {
			return nil, err
		}
		c.emitOp(bytecode.LessThan, line)
		c.emitOp(bytecode.Not, line) // true when scrutinee >= start
		fails = append(fails, c.emitJump(bytecode.JumpIfFalse, line))

		c.emitU8(bytecode.GetLocal, slot, line)
		if err := c.compileExpression(p.End); err != nil {
			return nil, err
		}
		if p.Inclusive {
			c.emitOp(bytecode.GreaterThan, line)
			c.emitOp(bytecode.Not, line) // true when scrutinee <= end
		} else {
			c.emitOp(bytecode.LessThan, line) // true when scrutinee < end
		}
		fails = append(fails, c.emitJump(bytecode.JumpIfFalse, line))
		return fails, nil

	case ast.StructPattern:
		var fails []int

		c.emitU8(bytecode.GetLocal, slot, line)
		nameIdx := c.chunk.AddConstant(object.Str("__type_name"))
		c.emitU16(bytecode.GetProperty, int(nameIdx), line)
		nameConst := c.chunk.AddConstant(object.Str(p.Name))
		c.emitU16(bytecode.Constant, int(nameConst), line)
		c.emitOp(bytecode.Equal, line)
		fails = append(fails, c.emitJump(bytecode.JumpIfFalse, line))

		for _, f := range p.Fields {
			c.emitU8(bytecode.GetLocal, slot, line)
			fieldIdx := c.chunk.AddConstant(object.Str(f.Name))
			c.emitU16(bytecode.GetProperty, int(fieldIdx), line)
			*scratch++
			fieldSlot, err := c.addLocal(fmt.Sprintf("$field%d_%d", nodeID, *scratch), line, 0)
			if err != nil {
				return nil, err
			}
			c.emitU8(bytecode.SetLocal, fieldSlot, line)
			nested, err := c.compilePatternTest(f.Pattern, fieldSlot, line, nodeID, scratch)
			if err != nil {
				return nil, err
			}
			fails = append(fails, nested...)
		}
		return fails, nil

	default:
		return nil, newError(UnknownOperator, line, 0, "unsupported pattern %T", pat)
	}
}
