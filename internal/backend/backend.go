// Package backend selects between SOFIA's two program executors: the
// compiled bytecode VM and a compact tree-walking reference interpreter.
// Grounded on the teacher's internal/backend package (a Backend
// interface plus one implementation per executor, chosen by the CLI at
// startup) — generalized here to SOFIA's own AST/VM types and to a
// from-scratch tree-walker rather than the teacher's evaluator package.
package backend

import (
	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/object"
)

// Backend executes a parsed program and returns its final value.
type Backend interface {
	Run(program *ast.Program) (object.Value, error)
	Name() string
}
