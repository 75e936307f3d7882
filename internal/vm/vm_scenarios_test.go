package vm_test

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/sofia-lang/sofia/internal/backend"
	"github.com/sofia-lang/sofia/internal/lexer"
	"github.com/sofia-lang/sofia/internal/parser"
	"github.com/sofia-lang/sofia/internal/vm"
)

// TestScenarios runs spec.md §8's literal scenarios and boundary cases,
// bundled as golden txtar fixtures (source plus either an expected
// Inspect()'d value or an expected runtime error kind), against both
// backends.
func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("../../testdata/scenarios/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario fixtures found")
	}

	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatalf("parsing fixture: %v", err)
			}
			var source, wantValue, wantError string
			var haveValue, haveError bool
			for _, f := range archive.Files {
				switch f.Name {
				case "source":
					source = string(f.Data)
				case "value":
					wantValue = strings.TrimSuffix(string(f.Data), "\n")
					haveValue = true
				case "error":
					wantError = strings.TrimSpace(string(f.Data))
					haveError = true
				}
			}
			if !haveValue && !haveError {
				t.Fatalf("fixture %s has neither a value nor an error section", path)
			}

			p := parser.New(lexer.New(source))
			program := p.ParseProgram()
			if len(p.Errors) > 0 {
				t.Fatalf("parse errors: %v", p.Errors)
			}

			vmBackend := &backend.VMBackend{}
			twBackend := &backend.TreewalkBackend{}
			vmResult, vmErr := vmBackend.Eval(program)
			twResult, twErr := twBackend.Eval(program)

			if haveError {
				if vmErr == nil {
					t.Fatalf("expected VM error %s, got value %s", wantError, vmResult.Inspect())
				}
				rtErr, ok := vmErr.(*vm.Error)
				if !ok {
					t.Fatalf("expected *vm.Error, got %T: %v", vmErr, vmErr)
				}
				if string(rtErr.Kind) != wantError {
					t.Fatalf("expected error kind %s, got %s", wantError, rtErr.Kind)
				}
				if twErr == nil {
					t.Fatalf("expected treewalk backend to also error on %q", source)
				}
				return
			}

			if vmErr != nil {
				t.Fatalf("unexpected VM error: %v", vmErr)
			}
			if twErr != nil {
				t.Fatalf("unexpected treewalk error: %v", twErr)
			}
			if got := vmResult.Inspect(); got != wantValue {
				t.Fatalf("VM: expected %q, got %q", wantValue, got)
			}
			if got := twResult.Inspect(); got != wantValue {
				t.Fatalf("treewalk: expected %q, got %q", wantValue, got)
			}
		})
	}
}

// TestDeepCallChainDoesNotOverflowBelow1024Frames builds the deepest
// legal recursive call chain (spec.md §8's boundary: must not overflow
// below 1024 frames) and confirms the VM completes it.
func TestDeepCallChainDoesNotOverflowBelow1024Frames(t *testing.T) {
	src := `
	let countdown = fn(n) {
		if (n < 1) {
			return 0;
		}
		return countdown(n - 1);
	};
	countdown(1000);
	`
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors: %v", p.Errors)
	}
	result, err := (&backend.VMBackend{}).Eval(program)
	if err != nil {
		t.Fatalf("expected 1000 nested calls to succeed within the 1024 frame limit, got: %v", err)
	}
	if !result.IsInt() || result.AsInt() != 0 {
		t.Fatalf("expected 0, got %s", result.Inspect())
	}
}

// TestArrayOfMaxU16ElementsBuildsSuccessfully covers spec.md §8's
// boundary on MakeArray's u16 element-count operand.
func TestArrayOfMaxU16ElementsBuildsSuccessfully(t *testing.T) {
	const n = 65535
	var sb strings.Builder
	sb.WriteString("let arr = [")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("0")
	}
	sb.WriteString("];\narr[")
	sb.WriteString("65534")
	sb.WriteString("];\n")

	p := parser.New(lexer.New(sb.String()))
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors: %v", p.Errors)
	}
	result, err := (&backend.VMBackend{}).Eval(program)
	if err != nil {
		t.Fatalf("expected a %d-element array literal to compile and run, got: %v", n, err)
	}
	if !result.IsInt() || result.AsInt() != 0 {
		t.Fatalf("expected 0, got %s", result.Inspect())
	}
}
