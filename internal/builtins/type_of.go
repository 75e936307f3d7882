package builtins

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/object"
)

// builtinTypeOf returns the runtime type name the VM uses in error
// messages (spec.md §4.3's TypeMismatch reporting reuses the same names).
func builtinTypeOf(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return object.Null, fmt.Errorf("type_of expects 1 argument, got %d", len(args))
	}
	return object.Str(args[0].TypeName()), nil
}
