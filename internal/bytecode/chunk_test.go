package bytecode

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/object"
)

func TestEmitAndReadOperands(t *testing.T) {
	c := NewChunk("test.sofia")
	off8 := c.Emit(GetLocal, 1, PutU8(3))
	off16 := c.Emit(Constant, 1, PutU16(300))
	off32 := c.Emit(MapToAst, 2, PutU32(70000))

	if got := c.ReadU8(off8 + 1); got != 3 {
		t.Fatalf("ReadU8 = %d, want 3", got)
	}
	if got := c.ReadU16(off16 + 1); got != 300 {
		t.Fatalf("ReadU16 = %d, want 300", got)
	}
	if got := c.ReadU32(off32 + 1); got != 70000 {
		t.Fatalf("ReadU32 = %d, want 70000", got)
	}
}

func TestPatchU16(t *testing.T) {
	c := NewChunk("")
	off := c.Emit(Jump, 1, PutU16(0))
	c.PatchU16(off+1, 42)
	if got := c.ReadU16(off + 1); got != 42 {
		t.Fatalf("ReadU16 after patch = %d, want 42", got)
	}
}

func TestAddConstantAndFunctionIndices(t *testing.T) {
	c := NewChunk("")
	i0 := c.AddConstant(object.Integer(1))
	i1 := c.AddConstant(object.Str("x"))
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected sequential constant indices 0,1, got %d,%d", i0, i1)
	}

	f0 := c.AddFunction(&object.CompiledFunction{Name: "<script>"})
	f1 := c.AddFunction(&object.CompiledFunction{Name: "helper"})
	if f0 != 0 || f1 != 1 {
		t.Fatalf("expected sequential function indices 0,1, got %d,%d", f0, f1)
	}
	if len(c.Functions) != 2 || c.Functions[1].Name != "helper" {
		t.Fatalf("function table not populated correctly: %+v", c.Functions)
	}
}

func TestLenTracksWriteOffset(t *testing.T) {
	c := NewChunk("")
	if c.Len() != 0 {
		t.Fatalf("new chunk should start at offset 0, got %d", c.Len())
	}
	c.Emit(True, 1, nil)
	if c.Len() != InstructionWidth(True) {
		t.Fatalf("Len() = %d, want %d", c.Len(), InstructionWidth(True))
	}
}

func TestInstructionWidthMatchesOperandWidth(t *testing.T) {
	if InstructionWidth(Pop) != 1 {
		t.Fatalf("Pop should have no operands, got width %d", InstructionWidth(Pop))
	}
	if InstructionWidth(Constant) != 3 {
		t.Fatalf("Constant is opcode + u16, want width 3, got %d", InstructionWidth(Constant))
	}
	if InstructionWidth(MapToAst) != 5 {
		t.Fatalf("MapToAst is opcode + u32, want width 5, got %d", InstructionWidth(MapToAst))
	}
}
