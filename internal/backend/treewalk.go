package backend

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/builtins"
	"github.com/sofia-lang/sofia/internal/object"
)

// TreewalkBackend evaluates a program by walking the AST directly — the
// "pre-existing tree-walking interpreter" spec.md §1 names as the
// reference oracle the compiler+VM must stay bit-for-bit compatible
// with. It shares no code with internal/vm; its own value
// representations (values.go) mirror internal/object's semantics
// independently, so the two implementations can be checked against
// each other by internal/backend/differential_test.go.
type TreewalkBackend struct{}

func (*TreewalkBackend) Name() string { return "treewalk" }

// Run mirrors compiler.Compile's top-level entry point: the program is a
// plain statement sequence whose fall-through value is Null (spec.md's
// `5 + 5;` example) unless a top-level `return` unwinds with a value.
// Top-level `return` is rejected at compile time by internal/compiler,
// but the tree-walker accepts it as an early-exit, matching Run's own
// contract of returning a value on a returnSignal unwind.
func (b *TreewalkBackend) Run(program *ast.Program) (object.Value, error) {
	_, result, err := b.execute(program)
	return result, err
}

// Eval runs program and returns the value of the last expression
// statement it evaluated outside tail position, rather than Run's own
// result — see environment.lastPopped and internal/backend.VMBackend's
// Eval, which this mirrors.
func (b *TreewalkBackend) Eval(program *ast.Program) (object.Value, error) {
	env, _, err := b.execute(program)
	if err != nil {
		return object.Null, err
	}
	return *env.lastPopped, nil
}

func (b *TreewalkBackend) execute(program *ast.Program) (*environment, object.Value, error) {
	env := newEnvironment(nil)
	env.lastPopped = new(object.Value)
	for name, fn := range builtins.All() {
		env.define(name, fn)
	}
	classReg := make(map[string]*twClass)
	if err := evalStatements(program.Statements, env, classReg); err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return env, ret.value, nil
		}
		return env, object.Null, err
	}
	return env, object.Null, nil
}

// returnSignal unwinds evalStatements/evalBlock up to the nearest
// function-call boundary, carrying the returned value. It is never
// surfaced to a caller of Run/applyFunction as an error.
type returnSignal struct{ value object.Value }

func (*returnSignal) Error() string { return "return" }

// evalStatements runs a plain statement sequence — a nested block or the
// top-level program (function bodies go through evalFunctionBody
// instead). It mirrors compileStatements:
// every expression-statement's value is computed and discarded (the
// compiled path emits an explicit Pop after each one), so the only way
// out with a value is an explicit ReturnStatement unwinding via
// returnSignal. Callers that need a value from the final statement (if/
// match bodies) use evalBlockAsExpr instead.
func evalStatements(stmts []ast.Statement, env *environment, classReg map[string]*twClass) error {
	for _, s := range stmts {
		if _, err := evalStatement(s, env, classReg); err != nil {
			return err
		}
	}
	return nil
}

func evalStatement(s ast.Statement, env *environment, classReg map[string]*twClass) (object.Value, error) {
	switch stmt := s.(type) {
	case *ast.LetStatement:
		v, err := evalExpression(stmt.Value, env, classReg)
		if err != nil {
			return object.Null, err
		}
		env.define(stmt.Name.Value, v)
		return object.Null, nil

	case *ast.ReturnStatement:
		v, err := evalExpression(stmt.ReturnValue, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return object.Null, &returnSignal{value: v}

	case *ast.ExpressionStatement:
		v, err := evalExpression(stmt.Expression, env, classReg)
		if err == nil && env.lastPopped != nil {
			*env.lastPopped = v
		}
		return v, err

	case *ast.BlockStatement:
		child := newEnvironment(env)
		return object.Null, evalStatements(stmt.Statements, child, classReg)

	case *ast.AssignStatement:
		return evalAssign(stmt, env, classReg)

	case *ast.ClassStatement:
		return object.Null, evalClassStatement(stmt, env, classReg)

	case *ast.StructStatement:
		st := &twStruct{Name: stmt.Name, Fields: append([]string(nil), stmt.Fields...)}
		env.define(stmt.Name, object.Heap(st))
		return object.Null, nil

	case *ast.InterfaceStatement:
		iface := &twInterface{Name: stmt.Name, MethodNames: append([]string(nil), stmt.MethodNames...)}
		env.define(stmt.Name, object.Heap(iface))
		return object.Null, nil

	default:
		return object.Null, fmt.Errorf("treewalk: unsupported statement %T", s)
	}
}

// evalFunctionBody runs a function's statements so that a trailing
// expression-statement's value becomes the function's implicit return
// value, mirroring compiler.compileFunctionBody (Rust-style blocks: the
// reference interpreter's eval_block_statement returns the last
// evaluated statement's value unless a `return` unwinds first). It is
// the same traversal as evalBlockAsExpr; the two are kept as separate
// functions because they serve different call sites (function bodies
// vs if/match bodies in expression position) even though today they
// share an implementation.
func evalFunctionBody(block *ast.BlockStatement, env *environment, classReg map[string]*twClass) (object.Value, error) {
	return evalBlockAsExpr(block, env, classReg)
}

// evalBlockAsExpr evaluates a block for its value in expression position
// (if/match bodies, and function bodies via evalFunctionBody), mirroring
// compiler.compileBlockAsExpr/compileFunctionBody: the value of the
// final expression-statement is the block's value; anything else (an
// empty block, or a block ending in let/assign) evaluates to Null. A
// ReturnStatement anywhere still unwinds via returnSignal.
func evalBlockAsExpr(block *ast.BlockStatement, env *environment, classReg map[string]*twClass) (object.Value, error) {
	child := newEnvironment(env)
	for i, s := range block.Statements {
		if i == len(block.Statements)-1 {
			if es, ok := s.(*ast.ExpressionStatement); ok {
				return evalExpression(es.Expression, child, classReg)
			}
			if _, err := evalStatement(s, child, classReg); err != nil {
				return object.Null, err
			}
			return object.Null, nil
		}
		if _, err := evalStatement(s, child, classReg); err != nil {
			return object.Null, err
		}
	}
	return object.Null, nil
}

func evalAssign(stmt *ast.AssignStatement, env *environment, classReg map[string]*twClass) (object.Value, error) {
	v, err := evalExpression(stmt.Value, env, classReg)
	if err != nil {
		return object.Null, err
	}
	switch stmt.Kind {
	case ast.AssignIdentifier:
		if !env.assign(stmt.Name.Value, v) {
			return object.Null, fmt.Errorf("undefined identifier %q", stmt.Name.Value)
		}
		return object.Null, nil

	case ast.AssignProperty:
		obj, err := evalExpression(stmt.Prop.Object, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return object.Null, setProperty(obj, stmt.Prop.Property, v)

	case ast.AssignIndex:
		left, err := evalExpression(stmt.Index.Left, env, classReg)
		if err != nil {
			return object.Null, err
		}
		idx, err := evalExpression(stmt.Index.Index, env, classReg)
		if err != nil {
			return object.Null, err
		}
		return object.Null, setIndex(left, idx, v)

	default:
		return object.Null, fmt.Errorf("treewalk: unknown assign target kind %v", stmt.Kind)
	}
}
