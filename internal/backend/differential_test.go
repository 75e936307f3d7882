package backend

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/lexer"
	"github.com/sofia-lang/sofia/internal/object"
	"github.com/sofia-lang/sofia/internal/parser"
)

// runBoth parses src once and runs it through both the compiled VM path
// and the tree-walking reference oracle via Run, failing the test if
// either backend errors or if their final values disagree. Top-level
// `return` is a compile error (internal/compiler.ReturnOutsideFunction)
// and the script always ends in NullOp+Return, so a program's Run result
// is always Null; a top-level call's value is popped like any other
// expression statement.
func runBoth(t *testing.T, src string) object.Value {
	t.Helper()
	program := parseProgram(t, src)

	vmResult, err := (&VMBackend{}).Run(program)
	if err != nil {
		t.Fatalf("vm backend error for %q: %v", src, err)
	}

	twResult, err := (&TreewalkBackend{}).Run(program)
	if err != nil {
		t.Fatalf("treewalk backend error for %q: %v", src, err)
	}

	if !object.Equal(vmResult, twResult) {
		t.Fatalf("backend divergence for %q: vm=%s treewalk=%s", src, vmResult.Inspect(), twResult.Inspect())
	}
	return vmResult
}

// evalBoth is runBoth's counterpart for spec.md §8's "last produced
// value observable via a REPL-like eval helper": it uses Eval instead
// of Run, so a trailing bare expression statement's value is visible
// even though Run would discard it (scenario 1's `5 + 5;` ⇒ Null vs
// Integer(10) distinction).
func evalBoth(t *testing.T, src string) object.Value {
	t.Helper()
	program := parseProgram(t, src)

	vmResult, err := (&VMBackend{}).Eval(program)
	if err != nil {
		t.Fatalf("vm backend error for %q: %v", src, err)
	}

	twResult, err := (&TreewalkBackend{}).Eval(program)
	if err != nil {
		t.Fatalf("treewalk backend error for %q: %v", src, err)
	}

	if !object.Equal(vmResult, twResult) {
		t.Fatalf("backend divergence for %q: vm=%s treewalk=%s", src, vmResult.Inspect(), twResult.Inspect())
	}
	return vmResult
}

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors)
	}
	return program
}

func TestBackendsAgreeOnBareExpressionIsNull(t *testing.T) {
	got := runBoth(t, `5 + 5;`)
	if !got.IsNull() {
		t.Fatalf("expected Null for a bare top-level expression, got %s", got.Inspect())
	}
	last := evalBoth(t, `5 + 5;`)
	if !last.IsInt() || last.AsInt() != 10 {
		t.Fatalf("expected Eval to observe Integer(10), got %s", last.Inspect())
	}
}

func TestBackendsAgreeOnArithmetic(t *testing.T) {
	cases := map[string]object.Value{
		`1 + 2 * 3;`:        object.Integer(7),
		`(1 + 2) * 3;`:      object.Integer(9),
		`10 % 3;`:           object.Integer(1),
		`2 ** 10;`:          object.Integer(1024),
		`"ab" + "cd";`:      object.Str("abcd"),
		`"ab" * 3;`:         object.Str("ababab"),
		`1 < 2 && 2 < 3;`:   object.Bool(true),
		`1 == 1 || 1 == 2;`: object.Bool(true),
	}
	for src, want := range cases {
		got := evalBoth(t, src)
		if !object.Equal(got, want) {
			t.Fatalf("%q: expected %s, got %s", src, want.Inspect(), got.Inspect())
		}
	}
}

func TestBackendsAgreeOnControlFlow(t *testing.T) {
	src := `
	let f = fn(n) {
		if (n < 2) {
			return n;
		}
		return f(n - 1) + f(n - 2);
	};
	f(10);
	`
	got := evalBoth(t, src)
	if !got.IsInt() || got.AsInt() != 55 {
		t.Fatalf("expected 55, got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnRecursionWithBodyLevelLocal(t *testing.T) {
	// `n` is shadowed by a body-level `let x = n;` in every active call
	// frame simultaneously. x is only read after the recursive call
	// returns, so if every frame's x shared one slot instead of getting
	// its own, the deepest call's value would clobber every enclosing
	// frame's before it gets a chance to read it back.
	src := `
	let f = fn(n) {
		let x = n;
		if (n > 0) {
			f(n - 1);
		}
		x;
	};
	f(3);
	`
	got := evalBoth(t, src)
	if !got.IsInt() || got.AsInt() != 3 {
		t.Fatalf("expected 3, got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnFunctionImplicitReturn(t *testing.T) {
	// A function body's trailing expression statement is its implicit
	// return value (spec.md §8 scenario 4), distinct from the top-level
	// program, which always discards its own trailing statement.
	src := `
	let add = fn(x, y) { x + y; };
	add(2, 3);
	`
	got := evalBoth(t, src)
	if !got.IsInt() || got.AsInt() != 5 {
		t.Fatalf("expected 5, got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnClasses(t *testing.T) {
	src := `
	class Animal {
		public name = "unnamed";
		fn speak() {
			return this.name;
		}
	}
	class Dog extends Animal {
		fn init(name) {
			this.name = name;
		}
		fn speak() {
			return super.speak() + "!";
		}
	}
	let d = new Dog("Rex");
	d.speak();
	`
	got := evalBoth(t, src)
	if s, ok := object.AsString(got); !ok || s != "Rex!" {
		t.Fatalf("expected \"Rex!\", got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnMatch(t *testing.T) {
	src := `
	let classify = fn(n) {
		match n {
			0 => "zero",
			1..10 => "small",
			_ => "large",
		};
	};
	classify(5);
	`
	got := evalBoth(t, src)
	if s, ok := object.AsString(got); !ok || s != "small" {
		t.Fatalf("expected \"small\", got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnCollections(t *testing.T) {
	src := `
	let arr = [1, 2, 3];
	arr[1] = 99;
	let h = {"a": 1, "b": 2};
	h["c"] = 3;
	arr[1] + h["c"];
	`
	got := evalBoth(t, src)
	if !got.IsInt() || got.AsInt() != 102 {
		t.Fatalf("expected 102, got %s", got.Inspect())
	}
}

func TestBackendsAgreeOnClosures(t *testing.T) {
	src := `
	let makeCounter = fn() {
		let count = 0;
		fn() {
			count = count + 1;
			count;
		};
	};
	let c = makeCounter();
	c();
	c();
	c();
	`
	got := evalBoth(t, src)
	if !got.IsInt() || got.AsInt() != 3 {
		t.Fatalf("expected 3, got %s", got.Inspect())
	}
}
