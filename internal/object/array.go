package object

import "strings"

// Array is a shared, mutable sequence of Values (spec.md §3). All holders
// of the same *Array observe the same mutations — Go's pointer semantics
// give this for free, standing in for the reference-counted shared cell
// spec.md's §5/§9 discuss for languages without a tracing GC.
type Array struct {
	Elements []Value
}

func NewArray(elements []Value) *Array { return &Array{Elements: elements} }

func (*Array) Type() string { return "Array" }

func (a *Array) Inspect() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
