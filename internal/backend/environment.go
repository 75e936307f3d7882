package backend

import "github.com/sofia-lang/sofia/internal/object"

// environment is a lexical scope chain for the tree-walking interpreter,
// grounded on the standard Monkey-style Environment{store, outer} shape
// used throughout the corpus's simpler interpreters, extended with the
// `this`/superStart bindings a call frame installs (mirroring
// internal/vm.Frame's receiver field and internal/vm/vm_exec.go's
// superRef).
type environment struct {
	vars  map[string]object.Value
	outer *environment

	// this/superStart are set only on the environment created at a
	// method-call boundary; every other scope leaves them nil and relies
	// on thisValue/superStart walking up to find them. superSet
	// distinguishes "this call has no parent class" (superStart nil,
	// superSet true, so `super` fails right here) from "not a method
	// call boundary at all" (superSet false, keep walking outward).
	this       *object.Value
	superStart *twClass
	superSet   bool

	// lastPopped is shared by every environment descended from one Run/
	// Eval call's root scope (see newEnvironment). It records the value
	// of every expression-statement evaluated outside tail position,
	// mirroring internal/vm's Pop-tracked lastPopped — the "REPL-like
	// eval helper" spec.md §8 describes as observing a program's last
	// produced value even when its formal result discards it.
	lastPopped *object.Value
}

func newEnvironment(outer *environment) *environment {
	e := &environment{vars: make(map[string]object.Value), outer: outer}
	if outer != nil {
		e.lastPopped = outer.lastPopped
	}
	return e
}

func (e *environment) get(name string) (object.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return object.Null, false
}

// define creates name in this exact scope (used for let, function
// parameters, and pattern bindings).
func (e *environment) define(name string, v object.Value) {
	e.vars[name] = v
}

// assign stores v into the nearest enclosing scope that already
// declares name, matching SetLocal/SetGlobal's "must already exist"
// semantics; it never creates a new binding.
func (e *environment) assign(name string, v object.Value) bool {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return true
		}
	}
	return false
}

func (e *environment) thisValue() (object.Value, bool) {
	for env := e; env != nil; env = env.outer {
		if env.this != nil {
			return *env.this, true
		}
	}
	return object.Null, false
}

func (e *environment) currentSuperStart() (*twClass, bool) {
	for env := e; env != nil; env = env.outer {
		if env.superSet {
			return env.superStart, env.superStart != nil
		}
	}
	return nil, false
}
