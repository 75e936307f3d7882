package object

import "fmt"

// UpvalueCapture describes one free variable a compiled function closes
// over, captured either from the immediately enclosing function's locals
// or from one of its own upvalues (spec.md §3's CompiledFunction.free_upvalues).
type UpvalueCapture struct {
	Index   uint8
	IsLocal bool
}

// CompiledFunction is a compiled function/method body: an offset+length
// range into the single Program byte buffer, plus the metadata the VM
// needs to set up a call frame (spec.md §3).
type CompiledFunction struct {
	Name       string
	CodeOffset int
	CodeLength int
	NumParams  int
	NumLocals  int
	Upvalues   []UpvalueCapture

	// SourceMap maps an instruction offset (relative to CodeOffset) to the
	// ast.NodeID that produced it, for step-trace mode (spec.md §4.3).
	SourceMap map[int]int

	// OwnerClass is set for compiled methods; it lets the VM resolve
	// `super` starting from the lexically enclosing method's class's
	// parent (spec.md §9's design note), independent of the receiver's
	// dynamic class.
	OwnerClass *Class
}

// Function is a first-class SOFIA function value wrapping a compiled
// function body plus its captured upvalue cells.
type Function struct {
	Proto    *CompiledFunction
	Upvalues []*Value
}

func (*Function) Type() string { return "Function" }

func (f *Function) Inspect() string {
	if f.Proto.Name != "" {
		return fmt.Sprintf("<fn %s>", f.Proto.Name)
	}
	return "<fn>"
}

// BoundMethod packages a method with the receiver it was looked up on
// (spec.md §3), callable exactly like a Function.
type BoundMethod struct {
	Method   *Function
	Receiver *ClassInstance
}

func (*BoundMethod) Type() string { return "BoundMethod" }

func (b *BoundMethod) Inspect() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Method.Proto.Name, b.Receiver.Class.Name)
}

// BuiltinFn is the signature of a native builtin function (SPEC_FULL.md's
// supplemented internal/builtins module).
type BuiltinFn func(args []Value) (Value, error)

// Builtin wraps a native Go function as a callable SOFIA value.
type Builtin struct {
	Name string
	Fn   BuiltinFn
}

func (*Builtin) Type() string { return "Builtin" }

func (b *Builtin) Inspect() string { return fmt.Sprintf("<builtin %s>", b.Name) }
