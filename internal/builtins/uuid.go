package builtins

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sofia-lang/sofia/internal/object"
)

// builtinUUID returns a fresh random (v4) UUID string, taking no
// arguments.
func builtinUUID(args []object.Value) (object.Value, error) {
	if len(args) != 0 {
		return object.Null, fmt.Errorf("uuid expects 0 arguments, got %d", len(args))
	}
	return object.Str(uuid.NewString()), nil
}
