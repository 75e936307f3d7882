// Package vm executes a bytecode.Chunk produced by internal/compiler —
// spec.md §2's Virtual Machine component (≈35% of the core): the
// fetch-decode-execute loop, operand stack, call frames, globals, and
// runtime error surface.
//
// Grounded on the teacher's internal/vm/vm.go for the overall shape
// (growable stack/frames, push/pop/peek, stack-growth constants) with
// every trait/module/async subsystem removed — SOFIA has none of it —
// and the dispatch loop rebuilt from spec.md §4.3/§6 against SOFIA's own
// opcode set.
package vm

import (
	"fmt"
	"io"

	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/object"
)

// Stack/frame growth constants, grounded on the teacher's
// internal/vm/vm.go InitialStackSize/StackGrowthIncrement/MaxStackSize.
const (
	InitialStackSize     = 2048
	StackGrowthIncrement = 1024
	MaxStackSize         = 1 << 20

	// MaxFrameCount is spec.md §5's "call frames exceeding a soft limit,
	// default 1024" ⇒ StackOverflow.
	MaxFrameCount = 1024
)

// TraceEvent is one step-trace line (spec.md §4.3's "text line containing
// ip, opcode mnemonic, decoded operands, a stack snapshot ..., current
// frame index, and — if a MapToAst precedes the instruction — the
// associated AST node id").
type TraceEvent struct {
	IP         int
	Opcode     string
	Operands   []int
	Stack      []string
	FrameIndex int
	NodeID     int
}

// VM executes one Program to completion. Not reentrant — spec.md §5:
// "only one run may be in progress per VM value".
type VM struct {
	stack []object.Value
	sp    int

	frames     []Frame
	frameCount int
	frame      *Frame

	globals map[string]object.Value
	chunk   *bytecode.Chunk

	// maxStackSize/maxFrameCount default to the package constants but can
	// be tightened or loosened by internal/config (see NewWithLimits).
	maxStackSize  int
	maxFrameCount int

	// pendingNodeID is set by a MapToAst instruction and attached to the
	// next TraceEvent, then cleared (spec.md §4.3).
	pendingNodeID int
	haveNodeID    bool

	// lastPopped records the operand every Pop instruction discards,
	// grounded on the original reference VM's post-loop `stack[sp-1]`
	// read: the top-level program's Pop after its final expression
	// statement throws the value away (Run returns Null for `5 + 5;`,
	// spec.md §8), but that value is still recoverable here for a
	// REPL-like caller that wants to display it.
	lastPopped object.Value

	DebugTrace bool
	Trace      func(TraceEvent)
	Out        io.Writer
}

// New creates a VM ready to Run a compiled Program, using the built-in
// default stack/frame limits.
func New() *VM {
	return NewWithLimits(InitialStackSize, MaxStackSize, MaxFrameCount)
}

// NewWithLimits creates a VM with explicit stack/frame limits, as loaded
// from an internal/config.Config. A zero value for any argument falls
// back to that limit's built-in default.
func NewWithLimits(initialStackSize, maxStackSize, maxFrameCount int) *VM {
	if initialStackSize <= 0 {
		initialStackSize = InitialStackSize
	}
	if maxStackSize <= 0 {
		maxStackSize = MaxStackSize
	}
	if maxFrameCount <= 0 {
		maxFrameCount = MaxFrameCount
	}
	return &VM{
		stack:         make([]object.Value, initialStackSize),
		frames:        make([]Frame, maxFrameCount),
		globals:       make(map[string]object.Value),
		maxStackSize:  maxStackSize,
		maxFrameCount: maxFrameCount,
		Out:           io.Discard,
	}
}

// SetGlobal pre-seeds a global binding (used to install builtins before
// Run — see internal/builtins).
func (vm *VM) SetGlobal(name string, v object.Value) {
	vm.globals[name] = v
}

// LastPopped returns the value most recently discarded by a Pop
// instruction, or Null if none has executed yet. Used by a REPL-like
// eval helper that wants to show what an expression statement computed
// even though Run's own return value discards it.
func (vm *VM) LastPopped() object.Value {
	return vm.lastPopped
}

// Run executes chunk's script entry point (chunk.Functions[0], the
// top-level script's CompiledFunction per compiler.Compile) to
// completion and returns its final value.
func (vm *VM) Run(chunk *bytecode.Chunk) (object.Value, error) {
	if len(chunk.Functions) == 0 {
		return object.Null, fmt.Errorf("empty program: no compiled functions")
	}
	vm.chunk = chunk
	vm.sp = 0
	vm.frameCount = 1
	script := chunk.Functions[0]
	vm.frames[0] = Frame{fn: script, ip: script.CodeOffset, base: 0}
	vm.frame = &vm.frames[0]
	// The script frame's own locals (e.g. a top-level match's scrutinee
	// slot) need the same pre-allocated, Null-initialized space
	// pushFunctionFrame gives a real call — otherwise sp starts at 0 and
	// the very next operand push lands on top of local slot 0.
	for i := 0; i < script.NumLocals; i++ {
		if err := vm.push(object.Null); err != nil {
			return object.Null, err
		}
	}
	return vm.runLoop(0)
}

// runLoop drives fetch-decode-execute until frameCount drops back to
// targetDepth, returning the value left on the stack by the frame that
// just unwound past it. Shared by Run (targetDepth 0) and callAndRun
// (nested synchronous calls issued by New's property thunks and `init`).
func (vm *VM) runLoop(targetDepth int) (object.Value, error) {
	for {
		result, unwound, err := vm.step()
		if err != nil {
			return object.Null, err
		}
		if unwound && vm.frameCount <= targetDepth {
			return result, nil
		}
	}
}

// push appends v to the operand stack, growing it if necessary.
func (vm *VM) push(v object.Value) error {
	if vm.sp >= len(vm.stack) {
		if vm.sp >= vm.maxStackSize {
			return vm.newError(StackOverflow, "operand stack exceeded %d elements", vm.maxStackSize)
		}
		growBy := StackGrowthIncrement
		if len(vm.stack) > growBy {
			growBy = len(vm.stack)
		}
		newStack := make([]object.Value, len(vm.stack)+growBy)
		copy(newStack, vm.stack[:vm.sp])
		vm.stack = newStack
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() (object.Value, error) {
	if vm.sp <= 0 {
		return object.Null, vm.newError(StackUnderflow, "pop on empty stack")
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

func (vm *VM) peek(distance int) (object.Value, error) {
	idx := vm.sp - 1 - distance
	if idx < 0 {
		return object.Null, vm.newError(StackUnderflow, "peek(%d) below stack base", distance)
	}
	return vm.stack[idx], nil
}

func (vm *VM) currentOpMnemonic() string {
	if vm.frame == nil || vm.chunk == nil {
		return ""
	}
	ip := vm.frame.ip - 1
	if ip < 0 || ip >= len(vm.chunk.Code) {
		return ""
	}
	return bytecode.Opcode(vm.chunk.Code[ip]).String()
}
