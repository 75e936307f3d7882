package compiler

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/lexer"
	"github.com/sofia-lang/sofia/internal/object"
	"github.com/sofia-lang/sofia/internal/parser"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors)
	}
	return program
}

// compile parses and compiles src, failing the test on any error.
func compile(t *testing.T, src string) *bytecode.Chunk {
	t.Helper()
	chunk, err := Compile(parseProgram(t, src))
	if err != nil {
		t.Fatalf("compile error for %q: %v", src, err)
	}
	return chunk
}

// nestedFunction returns the sole non-script function in chunk — Compile
// registers the script's own CompiledFunction first, at index 0, before
// any nested function literal it contains registers itself.
func nestedFunction(t *testing.T, chunk *bytecode.Chunk) *object.CompiledFunction {
	t.Helper()
	for _, fn := range chunk.Functions {
		if fn.Name != "<script>" {
			return fn
		}
	}
	t.Fatal("expected a nested function in the compiled chunk")
	return nil
}

func TestCompileTopLevelExpressionEndsInNullReturn(t *testing.T) {
	chunk := compile(t, `5 + 5;`)
	script := chunk.Functions[0]
	body := chunk.Code[script.CodeOffset : script.CodeOffset+script.CodeLength]

	// Compile emits: CONSTANT, CONSTANT, ADD, POP, NULL, RETURN.
	last := bytecode.Opcode(body[len(body)-1])
	secondLast := bytecode.Opcode(body[len(body)-1-bytecode.InstructionWidth(bytecode.NullOp)])
	if last != bytecode.Return {
		t.Fatalf("expected the program to end in RETURN, got %s", last)
	}
	if secondLast != bytecode.NullOp {
		t.Fatalf("expected a top-level program to discard its last statement via NULL before RETURN, got %s", secondLast)
	}
	foundPop := false
	for _, b := range body {
		if bytecode.Opcode(b) == bytecode.Pop {
			foundPop = true
		}
	}
	if !foundPop {
		t.Fatal("expected the bare expression statement to be popped")
	}
}

func TestCompileTopLevelReturnIsAnError(t *testing.T) {
	_, err := Compile(parseProgram(t, `return 5;`))
	if err == nil {
		t.Fatal("expected a compile error for a top-level return")
	}
	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *compiler.Error, got %T", err)
	}
	if cerr.Kind != ReturnOutsideFunction {
		t.Fatalf("expected ReturnOutsideFunction, got %s", cerr.Kind)
	}
}

func TestCompileFunctionBodyImplicitlyReturnsTrailingExpression(t *testing.T) {
	chunk := compile(t, `let add = fn(x, y) { x + y; };`)
	if len(chunk.Functions) != 2 {
		t.Fatalf("expected the script plus one nested function, got %d", len(chunk.Functions))
	}
	fn := nestedFunction(t, chunk)
	body := chunk.Code[fn.CodeOffset : fn.CodeOffset+fn.CodeLength]

	// The trailing expression statement's value must flow straight into
	// RETURN with no intervening POP or forced NULL.
	last := bytecode.Opcode(body[len(body)-1])
	if last != bytecode.Return {
		t.Fatalf("expected function body to end in RETURN, got %s", last)
	}
	beforeReturn := bytecode.Opcode(body[len(body)-1-1])
	if beforeReturn == bytecode.NullOp {
		t.Fatal("a function body ending in an expression statement must not force a NULL before RETURN")
	}
	for _, b := range body {
		if bytecode.Opcode(b) == bytecode.Pop {
			t.Fatal("a function body's trailing expression statement must not be popped")
		}
	}
}

func TestCompileFunctionBodyWithoutTrailingExpressionReturnsNull(t *testing.T) {
	chunk := compile(t, `let f = fn() { let x = 1; };`)
	fn := nestedFunction(t, chunk)
	body := chunk.Code[fn.CodeOffset : fn.CodeOffset+fn.CodeLength]

	last := bytecode.Opcode(body[len(body)-1])
	secondLast := bytecode.Opcode(body[len(body)-1-bytecode.InstructionWidth(bytecode.NullOp)])
	if last != bytecode.Return || secondLast != bytecode.NullOp {
		t.Fatalf("expected a body with no trailing expression statement to return NULL, got body ending in ...%v", body[len(body)-4:])
	}
}

func TestCompileFunctionBodyExplicitReturnStillWorks(t *testing.T) {
	chunk := compile(t, `let f = fn(n) { if (n < 2) { return n; } return 99; };`)
	fn := nestedFunction(t, chunk)
	body := chunk.Code[fn.CodeOffset : fn.CodeOffset+fn.CodeLength]

	returns := 0
	for i := 0; i < len(body); {
		op := bytecode.Opcode(body[i])
		if op == bytecode.Return {
			returns++
		}
		i += bytecode.InstructionWidth(op)
	}
	if returns != 2 {
		t.Fatalf("expected exactly two RETURN instructions (one per branch), got %d", returns)
	}
}

func TestCompileDuplicateLocalIsAnError(t *testing.T) {
	_, err := Compile(parseProgram(t, `let f = fn() { let x = 1; let x = 2; };`))
	if err == nil {
		t.Fatal("expected a compile error for a duplicate local in the same scope")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != DuplicateLocal {
		t.Fatalf("expected DuplicateLocal, got %v", err)
	}
}

func TestCompileGlobalLetUsesSetGlobal(t *testing.T) {
	chunk := compile(t, `let x = 5;`)
	script := chunk.Functions[0]
	body := chunk.Code[script.CodeOffset : script.CodeOffset+script.CodeLength]
	if bytecode.Opcode(body[bytecode.InstructionWidth(bytecode.Constant)]) != bytecode.SetGlobal {
		t.Fatalf("expected a top-level let to emit SET_GLOBAL, got %s", bytecode.Opcode(body[bytecode.InstructionWidth(bytecode.Constant)]))
	}
}

func TestCompileLocalLetUsesSetLocal(t *testing.T) {
	chunk := compile(t, `let f = fn() { let x = 5; x; };`)
	fn := nestedFunction(t, chunk)
	body := chunk.Code[fn.CodeOffset : fn.CodeOffset+fn.CodeLength]
	if bytecode.Opcode(body[bytecode.InstructionWidth(bytecode.Constant)]) != bytecode.SetLocal {
		t.Fatalf("expected a local let inside a function to emit SET_LOCAL, got %s", bytecode.Opcode(body[bytecode.InstructionWidth(bytecode.Constant)]))
	}
}

func TestCompileLetAtFunctionBodyTopLevelIsStillLocal(t *testing.T) {
	// A `let` written directly in a function's body (not nested inside a
	// further block) sits at scopeDepth 0 relative to that function's own
	// Compiler, exactly like a script's top-level statements — it must
	// not be mistaken for a script-wide global on that basis alone.
	chunk := compile(t, `let f = fn(n) { let doubled = n * 2; doubled; };`)
	fn := nestedFunction(t, chunk)
	body := chunk.Code[fn.CodeOffset : fn.CodeOffset+fn.CodeLength]
	for i := 0; i < len(body); {
		op := bytecode.Opcode(body[i])
		if op == bytecode.SetGlobal || op == bytecode.GetGlobal {
			t.Fatalf("a let bound directly in a function body must never touch a global, found %s", op)
		}
		i += bytecode.InstructionWidth(op)
	}
}
