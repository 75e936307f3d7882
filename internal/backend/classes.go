package backend

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/object"
)

// evalClassStatement mirrors internal/compiler/classes.go's compileClass:
// resolve the parent by name, install every declared property and
// method, and register the class both in the local environment and in
// classReg so later `extends`/StructPattern lookups can find it.
func evalClassStatement(stmt *ast.ClassStatement, env *environment, classReg map[string]*twClass) error {
	var parent *twClass
	if stmt.Parent != nil {
		p, ok := classReg[stmt.Parent.Value]
		if !ok {
			return fmt.Errorf("unknown parent class %q", stmt.Parent.Value)
		}
		parent = p
	}

	class := newTwClass(stmt.Name, parent)
	class.DeclEnv = env
	class.Properties = append([]ast.PropertyDecl(nil), stmt.Properties...)

	for _, m := range stmt.Methods {
		class.Methods[m.Name] = &twFunction{
			Name:       m.Name,
			Params:     m.Function.Parameters,
			Body:       m.Function.Body,
			Env:        env,
			OwnerClass: class,
			ClassReg:   classReg,
		}
	}

	// Static field defaults run once at declaration time, with no `this`
	// binding, matching compileThunk's zero-receiver semantics.
	for _, p := range stmt.Properties {
		if !p.IsStatic {
			continue
		}
		v := object.Null
		if p.Default != nil {
			var err error
			v, err = evalExpression(p.Default, env, classReg)
			if err != nil {
				return err
			}
		}
		class.StaticSlots[p.Name] = v
	}

	classReg[stmt.Name] = class
	env.define(stmt.Name, object.Heap(class))
	return nil
}

// evalNew mirrors internal/vm/vm_exec.go's execNew: every non-static
// field is initialized from its declared thunk (Null when absent) in
// declaration order across the whole inheritance chain, then `init` is
// invoked if the class defines one.
func evalNew(expr *ast.NewExpression, env *environment, classReg map[string]*twClass) (object.Value, error) {
	classVal, ok := env.get(expr.ClassName.Value)
	if !ok {
		return object.Null, fmt.Errorf("undefined class %q", expr.ClassName.Value)
	}
	if !classVal.IsHeap() {
		return object.Null, fmt.Errorf("%q is not a class", expr.ClassName.Value)
	}
	class, ok := classVal.Obj.(*twClass)
	if !ok {
		return object.Null, fmt.Errorf("%q is not a class", expr.ClassName.Value)
	}

	inst := newTwInstance(class)
	for _, p := range class.allProperties() {
		if p.IsStatic {
			continue
		}
		v := object.Null
		if p.Default != nil {
			// Property defaults run with no `this` bound, mirroring
			// compileThunk's zero-receiver thunk.
			var err error
			v, err = evalExpression(p.Default, class.DeclEnv, classReg)
			if err != nil {
				return object.Null, err
			}
		}
		inst.fields[p.Name] = v
	}

	args := make([]object.Value, len(expr.Arguments))
	for i, a := range expr.Arguments {
		v, err := evalExpression(a, env, classReg)
		if err != nil {
			return object.Null, err
		}
		args[i] = v
	}

	if initFn, _, ok := class.lookupMethod("init"); ok {
		if _, err := applyFunction(object.Heap(&twBoundMethod{Method: initFn, Receiver: inst}), args); err != nil {
			return object.Null, err
		}
	}

	return object.Heap(inst), nil
}

func evalCall(expr *ast.CallExpression, env *environment, classReg map[string]*twClass) (object.Value, error) {
	callee, err := evalExpression(expr.Function, env, classReg)
	if err != nil {
		return object.Null, err
	}
	args := make([]object.Value, len(expr.Arguments))
	for i, a := range expr.Arguments {
		v, err := evalExpression(a, env, classReg)
		if err != nil {
			return object.Null, err
		}
		args[i] = v
	}
	return applyFunction(callee, args)
}

// applyFunction mirrors internal/vm/vm_exec.go's call/pushFunctionFrame:
// bind parameters into a fresh child of the closed-over environment,
// install `this`/superStart when the callee is bound to a receiver, run
// the body, and unwrap a returnSignal into a normal value.
func applyFunction(callee object.Value, args []object.Value) (object.Value, error) {
	if !callee.IsHeap() {
		return object.Null, fmt.Errorf("cannot call value of type %s", callee.TypeName())
	}
	switch fn := callee.Obj.(type) {
	case *twFunction:
		return invoke(fn, nil, args)
	case *twBoundMethod:
		return invoke(fn.Method, fn.Receiver, args)
	case *object.Builtin:
		return fn.Fn(args)
	default:
		return object.Null, fmt.Errorf("cannot call value of type %s", callee.TypeName())
	}
}

func invoke(fn *twFunction, receiver *twInstance, args []object.Value) (object.Value, error) {
	if len(args) != len(fn.Params) {
		return object.Null, fmt.Errorf("%s expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	call := newEnvironment(fn.Env)
	for i, param := range fn.Params {
		call.define(param.Value, args[i])
	}
	if receiver != nil {
		this := object.Heap(receiver)
		call.this = &this
		call.superSet = true
		if fn.OwnerClass != nil {
			call.superStart = fn.OwnerClass.Parent
		}
	}

	// A function body's fall-through value is the value of its trailing
	// expression statement, matching compileFunctionBody's implicit
	// return; an explicit `return` still unwinds early with its own
	// value.
	result, err := evalFunctionBody(fn.Body, call, fn.ClassReg)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.value, nil
		}
		return object.Null, err
	}
	return result, nil
}
