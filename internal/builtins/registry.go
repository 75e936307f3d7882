// Package builtins implements SOFIA's native global functions — a
// small, additive surface with no analogue in spec.md's core four
// components. Grounded on the one-function-per-file namespace style of
// the reference builtin packages in the corpus (each builtin gets its
// own file and is registered into a single map consulted at VM
// startup), scaled down to SOFIA's untyped, single-module runtime.
package builtins

import "github.com/sofia-lang/sofia/internal/object"

// All returns every native builtin as name -> callable value, ready to
// be installed into a VM's global scope.
func All() map[string]object.Value {
	m := make(map[string]object.Value, len(registry))
	for name, fn := range registry {
		m[name] = object.Heap(&object.Builtin{Name: name, Fn: fn})
	}
	return m
}

var registry = map[string]object.BuiltinFn{
	"len":       builtinLen,
	"print":     builtinPrint,
	"type_of":   builtinTypeOf,
	"hash":      builtinHash,
	"uuid":      builtinUUID,
	"humanize":  builtinHumanize,
}
