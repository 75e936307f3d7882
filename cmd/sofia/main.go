// Command sofia is SOFIA's entry binary: it parses, compiles (or
// tree-walks), and executes one source file, per spec.md §6's CLI
// surface. Argument handling is hand-rolled over os.Args rather than
// the flag package, matching the teacher's cmd/funxy/main.go.
package main

import (
	"fmt"
	"os"

	"github.com/sofia-lang/sofia/internal/backend"
	"github.com/sofia-lang/sofia/internal/bytecode"
	"github.com/sofia-lang/sofia/internal/compiler"
	"github.com/sofia-lang/sofia/internal/config"
	"github.com/sofia-lang/sofia/internal/lexer"
	"github.com/sofia-lang/sofia/internal/parser"
	"github.com/sofia-lang/sofia/internal/tracestore"
	"github.com/sofia-lang/sofia/internal/vm"

	"github.com/mattn/go-isatty"
)

// Exit codes, per spec.md §6.
const (
	exitSuccess      = 0
	exitCompileError = 1
	exitRuntimeError = 2
	exitIOError      = 3
)

// options holds the parsed command line: one positional source file
// plus the ambient flags SPEC_FULL.md adds around it.
type options struct {
	sourcePath string
	useAST     bool
	trace      bool
	traceDB    string
	disasm     bool
	configPath string
}

func parseArgs(args []string) (*options, error) {
	opts := &options{useAST: false}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--vm":
			opts.useAST = false
		case "--ast":
			opts.useAST = true
		case "--trace":
			opts.trace = true
		case "--disasm":
			opts.disasm = true
		case "--trace-db":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--trace-db requires a path argument")
			}
			opts.traceDB = args[i]
		case "--config":
			i++
			if i >= len(args) {
				return nil, fmt.Errorf("--config requires a path argument")
			}
			opts.configPath = args[i]
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return nil, fmt.Errorf("unrecognized flag %q", arg)
			}
			if opts.sourcePath != "" {
				return nil, fmt.Errorf("unexpected extra argument %q", arg)
			}
			opts.sourcePath = arg
		}
	}
	if opts.sourcePath == "" {
		return nil, fmt.Errorf("usage: sofia [--vm|--ast] [--trace] [--trace-db path] [--disasm] [--config path] <source file>")
	}
	return opts, nil
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitIOError)
	}

	source, err := os.ReadFile(opts.sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sofia: %v\n", err)
		os.Exit(exitIOError)
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sofia: %v\n", err)
			os.Exit(exitIOError)
		}
	}

	var store *tracestore.Store
	traceDBPath := opts.traceDB
	if traceDBPath == "" && cfg != nil {
		traceDBPath = cfg.TraceDB
	}
	if traceDBPath != "" {
		store, err = tracestore.Open(traceDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sofia: %v\n", err)
			os.Exit(exitIOError)
		}
		defer store.Close()
	}

	l := lexer.New(string(source))
	p := parser.New(l)
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		for _, e := range p.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", opts.sourcePath, e.Error())
		}
		os.Exit(exitCompileError)
	}

	wantTrace := opts.trace || (cfg != nil && cfg.Trace) || store != nil

	var exec backend.Backend
	var vmBackend *backend.VMBackend
	if opts.useAST {
		exec = &backend.TreewalkBackend{}
	} else {
		vmBackend = &backend.VMBackend{}
		if cfg != nil {
			vmBackend.InitialStackSize = cfg.InitialStackSize
			vmBackend.MaxStackSize = cfg.MaxStackSize
			vmBackend.MaxFrameCount = cfg.MaxFrameCount
		}
		if wantTrace {
			vmBackend.Trace = traceSink(store)
		}
		exec = vmBackend
	}

	if opts.disasm {
		chunk, err := compiler.Compile(program)
		if err != nil {
			reportCompileError(opts.sourcePath, err)
			os.Exit(exitCompileError)
		}
		dumpChunk(chunk)
	}

	result, err := exec.Run(program)
	if err != nil {
		if _, ok := err.(*compiler.Error); ok {
			reportCompileError(opts.sourcePath, err)
			os.Exit(exitCompileError)
		}
		fmt.Fprintf(os.Stderr, "%s: runtime error: %v\n", opts.sourcePath, err)
		os.Exit(exitRuntimeError)
	}

	fmt.Println(result.Inspect())
	os.Exit(exitSuccess)
}

func reportCompileError(path string, err error) {
	fmt.Fprintf(os.Stderr, "%s: compile error: %v\n", path, err)
}

// traceSink returns a vm.TraceEvent callback that writes step lines to
// stdout and, when store is non-nil, also persists them.
func traceSink(store *tracestore.Store) func(vm.TraceEvent) {
	var record func(vm.TraceEvent)
	if store != nil {
		record = store.Recorder()
	}
	return func(evt vm.TraceEvent) {
		fmt.Fprintf(os.Stdout, "ip=%04d frame=%d %-14s operands=%v\n", evt.IP, evt.FrameIndex, evt.Opcode, evt.Operands)
		if record != nil {
			record(evt)
		}
	}
}

// dumpChunk disassembles every compiled function in the program, gating
// ANSI color on whether stdout is a terminal.
func dumpChunk(chunk *bytecode.Chunk) {
	colored := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	for _, fn := range chunk.Functions {
		name := fn.Name
		if name == "" {
			name = "<script>"
		}
		if colored {
			bytecode.Disassemble(os.Stdout, chunk, name, fn.CodeOffset, fn.CodeOffset+fn.CodeLength)
		} else {
			fmt.Print(bytecode.String(chunk, name, fn.CodeOffset, fn.CodeOffset+fn.CodeLength))
		}
	}
}
