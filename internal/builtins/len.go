package builtins

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/object"
)

// builtinLen returns the element count of an Array, entry count of a
// Hash, or byte length of a String.
func builtinLen(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return object.Null, fmt.Errorf("len expects 1 argument, got %d", len(args))
	}
	arg := args[0]
	if !arg.IsHeap() {
		return object.Null, fmt.Errorf("len: unsupported type %s", arg.TypeName())
	}
	switch v := arg.Obj.(type) {
	case *object.Array:
		return object.Integer(int64(len(v.Elements))), nil
	case *object.Hash:
		return object.Integer(int64(v.Len())), nil
	case *object.String:
		return object.Integer(int64(len(v.Value))), nil
	default:
		return object.Null, fmt.Errorf("len: unsupported type %s", arg.TypeName())
	}
}
