package builtins

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sofia-lang/sofia/internal/object"
)

// builtinHumanize renders an Integer as a human-readable byte size, e.g.
// humanize(1536) == "1.5 kB" — handy for scripts reporting sizes or
// counts without hand-rolling SI formatting.
func builtinHumanize(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return object.Null, fmt.Errorf("humanize expects 1 argument, got %d", len(args))
	}
	if !args[0].IsInt() {
		return object.Null, fmt.Errorf("humanize: expected an Integer, got %s", args[0].TypeName())
	}
	n := args[0].AsInt()
	if n < 0 {
		return object.Null, fmt.Errorf("humanize: expected a non-negative Integer, got %d", n)
	}
	return object.Str(humanize.Bytes(uint64(n))), nil
}
