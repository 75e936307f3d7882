package object

import "fmt"

// Interface is a named list of required method names. SPEC_FULL.md's
// resolved Open Question treats interface conformance as a compile-time
// no-op (no runtime dispatch table, no `implements` check) — this type
// exists purely so `interface Name { methods... }` declarations produce
// a HeapObject the object model can name and inspect.
type Interface struct {
	Name        string
	MethodNames []string
}

func NewInterface(name string, methodNames []string) *Interface {
	return &Interface{Name: name, MethodNames: methodNames}
}

func (*Interface) Type() string { return "Interface" }

func (i *Interface) Inspect() string { return fmt.Sprintf("<interface %s>", i.Name) }
