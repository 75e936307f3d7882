package builtins

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/object"
)

// builtinPrint writes every argument's Inspect() form, space-separated,
// followed by a newline, and returns null.
func builtinPrint(args []object.Value) (object.Value, error) {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	fmt.Println(parts...)
	return object.Null, nil
}
