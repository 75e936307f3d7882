package builtins

import (
	"encoding/hex"
	"fmt"

	"github.com/sofia-lang/sofia/internal/object"
	"golang.org/x/crypto/blake2b"
)

// builtinHash returns the hex-encoded blake2b-256 digest of a string
// argument's bytes — a fast content hash for cache keys, dedup, etc.
func builtinHash(args []object.Value) (object.Value, error) {
	if len(args) != 1 {
		return object.Null, fmt.Errorf("hash expects 1 argument, got %d", len(args))
	}
	s, ok := object.AsString(args[0])
	if !ok {
		return object.Null, fmt.Errorf("hash: expected a String, got %s", args[0].TypeName())
	}
	sum := blake2b.Sum256([]byte(s))
	return object.Str(hex.EncodeToString(sum[:])), nil
}
