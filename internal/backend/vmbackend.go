package backend

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/builtins"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/compiler"
	"github.com/sofia-lang/sofia/internal/object"
	"github.com/sofia-lang/sofia/internal/vm"
)

// VMBackend compiles the program to bytecode and executes it on
// internal/vm — spec.md §2's graded core.
type VMBackend struct {
	// Trace, when non-nil, is installed as the VM's step-trace sink
	// before Run (see internal/tracestore.Store.Recorder).
	Trace func(vm.TraceEvent)

	// InitialStackSize/MaxStackSize/MaxFrameCount override the VM's
	// built-in defaults when non-zero, as loaded from internal/config.
	InitialStackSize int
	MaxStackSize     int
	MaxFrameCount    int

	// Chunk, if set after Run, holds the compiled program for a caller
	// that wants to disassemble it. The CLI's --disasm flag does not read
	// it; it compiles its own copy before running.
	Chunk *bytecode.Chunk
}

func (b *VMBackend) Name() string { return "vm" }

func (b *VMBackend) Run(program *ast.Program) (object.Value, error) {
	_, result, err := b.execute(program)
	return result, err
}

// Eval runs program and returns the value its last Pop instruction
// discarded rather than Run's own return value — the "REPL-like eval
// helper" spec.md §8 distinguishes from a program's plain final value
// (e.g. `5 + 5;` still evaluates to Integer(10) here even though Run
// returns Null for the same source).
func (b *VMBackend) Eval(program *ast.Program) (object.Value, error) {
	machine, _, err := b.execute(program)
	if err != nil {
		return object.Null, err
	}
	return machine.LastPopped(), nil
}

func (b *VMBackend) execute(program *ast.Program) (*vm.VM, object.Value, error) {
	chunk, err := compiler.Compile(program)
	if err != nil {
		return nil, object.Null, err
	}
	b.Chunk = chunk

	machine := vm.NewWithLimits(b.InitialStackSize, b.MaxStackSize, b.MaxFrameCount)
	for name, fn := range builtins.All() {
		machine.SetGlobal(name, fn)
	}
	if b.Trace != nil {
		machine.DebugTrace = true
		machine.Trace = b.Trace
	}

	result, err := machine.Run(chunk)
	return machine, result, err
}
