package bytecode

import (
	"strings"
	"testing"

	"github.com/sofia-lang/sofia/internal/object"
)

func TestStringDisassemblesSimpleProgram(t *testing.T) {
	c := NewChunk("")
	idx := c.AddConstant(object.Integer(10))
	c.Emit(Constant, 1, PutU16(int(idx)))
	c.Emit(Pop, 1, nil)
	c.Emit(NullOp, 2, nil)
	c.Emit(Return, 2, nil)

	out := String(c, "<script>", 0, c.Len())

	if !strings.Contains(out, "== <script> ==") {
		t.Fatalf("expected a header line, got:\n%s", out)
	}
	if !strings.Contains(out, "CONSTANT") || !strings.Contains(out, "10") {
		t.Fatalf("expected CONSTANT operand to show the resolved constant, got:\n%s", out)
	}
	if !strings.Contains(out, "POP") {
		t.Fatalf("expected a POP line, got:\n%s", out)
	}
	if !strings.Contains(out, "RETURN") {
		t.Fatalf("expected a RETURN line, got:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("String() must never emit ANSI color, got:\n%s", out)
	}
}

func TestStringShowsJumpTargets(t *testing.T) {
	c := NewChunk("")
	off := c.Emit(Jump, 1, PutU16(0))
	c.PatchU16(off+1, 99)

	out := String(c, "<script>", 0, c.Len())
	if !strings.Contains(out, "-> 0099") {
		t.Fatalf("expected the patched jump target to render, got:\n%s", out)
	}
}

func TestStringResolvesMakeClosureFunctionName(t *testing.T) {
	c := NewChunk("")
	fnIdx := c.AddFunction(&object.CompiledFunction{Name: "helper"})
	c.Emit(MakeClosure, 1, PutU16(int(fnIdx)))

	out := String(c, "<script>", 0, c.Len())
	if !strings.Contains(out, "helper") {
		t.Fatalf("expected MAKE_CLOSURE operand to resolve the function's name, got:\n%s", out)
	}
}
