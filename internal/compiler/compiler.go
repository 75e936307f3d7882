// Package compiler lowers a SOFIA AST (internal/ast) into a
// internal/bytecode.Chunk — spec.md §2's Compiler component (≈30% of
// the core): scope/local/upvalue tracking, expression/statement/pattern
// lowering, jump patching, and compiled-function record assembly.
//
// Grounded on the teacher's internal/vm/compiler.go +
// compiler_scope.go, generalized to SOFIA's opcode set and to a single
// whole-program byte buffer (spec.md §3's Program) rather than the
// teacher's per-closure Chunk tree.
package compiler

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// Compiler compiles one function body (the top-level script counts as
// one) into the shared program-wide bytecode.Chunk.
type Compiler struct {
	chunk    *bytecode.Chunk
	fn       *object.CompiledFunction
	funcType FunctionType

	// codeOffset is where this function's code begins within chunk.Code
	// — every Jump/JumpIfFalse this Compiler emits is patched relative
	// to it (see scope.go's patchJump).
	codeOffset int

	locals     []Local
	scopeDepth int
	nextSlot   int
	upvalues   []Upvalue

	enclosing *Compiler

	// currentClass is set while compiling a method body, letting `this`,
	// `super`, and property compilation resolve against the owning
	// class (spec.md §9's super-resolution design note).
	currentClass *object.Class

	// classReg maps declared class names to their compile-time-assembled
	// object.Class, shared by every Compiler in one compilation (root and
	// nested alike, since Go maps are references) so `extends` can
	// resolve a parent declared earlier in the same program.
	classReg map[string]*object.Class
}

// New creates the root compiler for a top-level script.
func New() *Compiler {
	return &Compiler{
		fn:       &object.CompiledFunction{Name: "<script>"},
		funcType: ScriptFunction,
		chunk:    bytecode.NewChunk(""),
		classReg: make(map[string]*object.Class),
	}
}

// Compile lowers program into a finished bytecode.Chunk. The top-level
// script's CompiledFunction is stored at chunk.Functions[0] so the VM
// has a uniform place to find the entry point.
func Compile(program *ast.Program) (*bytecode.Chunk, error) {
	c := New()
	c.fn.CodeOffset = 0
	c.chunk.AddFunction(c.fn)
	if err := c.compileStatements(program.Statements); err != nil {
		return nil, err
	}
	c.emitOp(bytecode.NullOp, 0)
	c.emitOp(bytecode.Return, 0)
	c.fn.CodeLength = c.chunk.Len() - c.fn.CodeOffset
	return c.chunk, nil
}

// compileStatements compiles a sequence of statements, popping every
// intermediate expression-statement result except that, per spec.md
// §4.2, every statement kind already returns the stack to its entry
// depth — Pop is emitted per-statement, not just between statements.
func (c *Compiler) compileStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileStatement(s ast.Statement) error {
	switch s := s.(type) {
	case *ast.LetStatement:
		return c.compileLet(s)
	case *ast.AssignStatement:
		return c.compileAssign(s)
	case *ast.ReturnStatement:
		return c.compileReturn(s)
	case *ast.ExpressionStatement:
		if err := c.compileExpression(s.Expression); err != nil {
			return err
		}
		c.emitOp(bytecode.Pop, s.Pos().Line)
		return nil
	case *ast.BlockStatement:
		c.beginScope()
		if err := c.compileStatements(s.Statements); err != nil {
			return err
		}
		c.endScope(s.Pos().Line)
		return nil
	case *ast.ClassStatement:
		return c.compileClass(s)
	case *ast.StructStatement:
		return c.compileStruct(s)
	case *ast.InterfaceStatement:
		return c.compileInterface(s)
	default:
		return newError(UnknownOperator, s.Pos().Line, s.Pos().Column, "unsupported statement %T", s)
	}
}

func (c *Compiler) compileLet(s *ast.LetStatement) error {
	if err := c.compileExpression(s.Value); err != nil {
		return err
	}
	line := s.Pos().Line
	// scopeDepth alone is not enough: a nested Compiler's own body starts
	// at depth 0 too, and a `let` directly in a function body (not inside
	// a further block) must still become that function's own local, not
	// a script-wide global sharing its name across every call frame.
	if c.scopeDepth == 0 && c.enclosing == nil {
		idx := c.chunk.AddConstant(object.Str(s.Name.Value))
		c.emitU16(bytecode.SetGlobal, int(idx), line)
		return nil
	}
	slot, err := c.addLocal(s.Name.Value, line, s.Pos().Column)
	if err != nil {
		return err
	}
	c.emitU8(bytecode.SetLocal, slot, line)
	return nil
}

func (c *Compiler) compileReturn(s *ast.ReturnStatement) error {
	if c.funcType == ScriptFunction {
		return newError(ReturnOutsideFunction, s.Pos().Line, s.Pos().Column, "return outside function")
	}
	if s.ReturnValue != nil {
		if err := c.compileExpression(s.ReturnValue); err != nil {
			return err
		}
	} else {
		c.emitOp(bytecode.NullOp, s.Pos().Line)
	}
	c.emitOp(bytecode.Return, s.Pos().Line)
	return nil
}

func (c *Compiler) compileAssign(s *ast.AssignStatement) error {
	line := s.Pos().Line
	switch s.Kind {
	case ast.AssignIdentifier:
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		return c.storeIdentifier(s.Name.Value, line)
	case ast.AssignProperty:
		if err := c.compileExpression(s.Prop.Object); err != nil {
			return err
		}
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		idx := c.chunk.AddConstant(object.Str(s.Prop.Property))
		c.emitU16(bytecode.SetProperty, int(idx), line)
		return nil
	case ast.AssignIndex:
		if err := c.compileExpression(s.Index.Left); err != nil {
			return err
		}
		if err := c.compileExpression(s.Index.Index); err != nil {
			return err
		}
		if err := c.compileExpression(s.Value); err != nil {
			return err
		}
		c.emitOp(bytecode.SetIndex, line)
		return nil
	default:
		return newError(InvalidAssignmentTarget, line, s.Pos().Column, "invalid assignment target")
	}
}

func (c *Compiler) storeIdentifier(name string, line int) error {
	if slot, ok := c.resolveLocal(name); ok {
		c.emitU8(bytecode.SetLocal, slot, line)
		return nil
	}
	if idx, ok := c.resolveUpvalue(name); ok {
		c.emitU8(bytecode.SetUpvalue, idx, line)
		return nil
	}
	idx := c.chunk.AddConstant(object.Str(name))
	c.emitU16(bytecode.SetGlobal, int(idx), line)
	return nil
}

// currentChunk exposes the shared chunk to sibling files in this
// package (expressions.go, classes.go, patterns.go).
func (c *Compiler) currentChunk() *bytecode.Chunk { return c.chunk }
