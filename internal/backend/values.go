package backend

import (
	"fmt"

	"github.com/sofia-lang/sofia/internal/ast"
	"github.com/sofia-lang/sofia/internal/object"
)

// The tree-walking interpreter keeps its own heap-object variants for
// functions and class/struct instances rather than reusing
// internal/object's bytecode-flavored Function/Class (which hold
// *object.CompiledFunction bodies). They still implement
// object.HeapObject so ast-level values interoperate with primitives
// and Arrays/Hashes exactly like the VM's do.

// twFunction is a function value closing over the environment in which
// it was defined — ordinary Go-closure semantics, unlike the VM's
// capture-by-value MakeClosure (see DESIGN.md's Open Question entry on
// upvalue capture: nothing in spec.md §8 distinguishes the two, so the
// tree-walk oracle is free to use the more natural shared-environment
// closure a plain recursive evaluator gives for free).
type twFunction struct {
	Name       string
	Params     []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *environment
	OwnerClass *twClass // nil for plain function literals

	// ClassReg is the whole program's class registry, captured at
	// closure-creation time so a call can resolve `new`/StructPattern
	// names without needing classReg threaded through every stack frame.
	ClassReg map[string]*twClass
}

func (*twFunction) Type() string { return "Function" }

func (f *twFunction) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("<fn %s>", f.Name)
	}
	return "<fn>"
}

// twBoundMethod pairs a method with the receiver it was looked up on.
type twBoundMethod struct {
	Method   *twFunction
	Receiver *twInstance
}

func (*twBoundMethod) Type() string { return "BoundMethod" }

func (b *twBoundMethod) Inspect() string {
	return fmt.Sprintf("<bound method %s of %s>", b.Method.Name, b.Receiver.Class.Name)
}

// twSuperRef is the synthetic value `super` evaluates to inside a
// method body — mirrors internal/vm/vm_exec.go's superRef.
type twSuperRef struct {
	Receiver   *twInstance
	StartClass *twClass
}

func (*twSuperRef) Type() string    { return "Super" }
func (*twSuperRef) Inspect() string { return "<super>" }

// twClass is a declared `class` — built incrementally as the
// interpreter evaluates a ClassStatement, unlike the VM's compile-time
// assembled object.Class.
type twClass struct {
	Name        string
	Parent      *twClass
	Properties  []ast.PropertyDecl // declared directly on this class, not inherited
	Methods     map[string]*twFunction
	StaticSlots map[string]object.Value

	// DeclEnv is the scope the class statement was evaluated in — the
	// scope every property default thunk runs in at `new` time, matching
	// compileThunk's lexical (not call-site) scoping.
	DeclEnv *environment
}

func newTwClass(name string, parent *twClass) *twClass {
	return &twClass{
		Name:        name,
		Parent:      parent,
		Methods:     make(map[string]*twFunction),
		StaticSlots: make(map[string]object.Value),
	}
}

func (*twClass) Type() string        { return "Class" }
func (c *twClass) Inspect() string   { return fmt.Sprintf("<class %s>", c.Name) }

// lookupMethod walks the inheritance chain starting at c, returning the
// method and the class that declares it (needed to resolve `super`
// relative to the declaring class, not the receiver's dynamic class).
func (c *twClass) lookupMethod(name string) (*twFunction, *twClass, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.Methods[name]; ok {
			return m, cur, true
		}
	}
	return nil, nil, false
}

// allProperties flattens the inheritance chain root-first, matching
// object.Class.AllProperties's ordering (spec.md §3: a subclass's own
// fields are initialized after its parent's).
func (c *twClass) allProperties() []ast.PropertyDecl {
	var chain []*twClass
	for cur := c; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var props []ast.PropertyDecl
	for i := len(chain) - 1; i >= 0; i-- {
		props = append(props, chain[i].Properties...)
	}
	return props
}

// twInstance is a `new`-constructed class instance with a closed field
// set (spec.md §9's resolved Open Question, matching internal/object's
// ClassInstance/StructInstance).
type twInstance struct {
	Class  *twClass
	fields map[string]object.Value
}

func newTwInstance(class *twClass) *twInstance {
	return &twInstance{Class: class, fields: make(map[string]object.Value)}
}

func (*twInstance) Type() string      { return "ClassInstance" }
func (i *twInstance) Inspect() string { return fmt.Sprintf("<%s instance>", i.Class.Name) }

func (i *twInstance) hasField(name string) bool {
	_, ok := i.fields[name]
	return ok
}

func (i *twInstance) getField(name string) (object.Value, bool) {
	v, ok := i.fields[name]
	return v, ok
}

// setField writes to an already-declared field only, reporting false for
// an undeclared one so the caller can raise UnknownProperty.
func (i *twInstance) setField(name string, v object.Value) bool {
	if !i.hasField(name) {
		return false
	}
	i.fields[name] = v
	return true
}

// twStruct/twStructInstance mirror internal/object.Struct/StructInstance:
// a plain closed field bag with no methods and no inheritance.
type twStruct struct {
	Name   string
	Fields []string
}

func (*twStruct) Type() string      { return "Struct" }
func (s *twStruct) Inspect() string { return fmt.Sprintf("<struct %s>", s.Name) }

type twStructInstance struct {
	Struct *twStruct
	fields map[string]object.Value
}

func newTwStructInstance(st *twStruct) *twStructInstance {
	return &twStructInstance{Struct: st, fields: make(map[string]object.Value)}
}

func (*twStructInstance) Type() string { return "StructInstance" }

func (s *twStructInstance) Inspect() string { return fmt.Sprintf("<%s instance>", s.Struct.Name) }

func (s *twStructInstance) hasField(name string) bool {
	_, ok := s.fields[name]
	return ok
}

func (s *twStructInstance) setField(name string, v object.Value) bool {
	if !s.hasField(name) {
		return false
	}
	s.fields[name] = v
	return true
}

// twInterface is a pure descriptor: SPEC_FULL.md's resolved Open
// Question keeps interface conformance unchecked, so it carries no
// behavior beyond naming its methods for reflection.
type twInterface struct {
	Name        string
	MethodNames []string
}

func (*twInterface) Type() string      { return "Interface" }
func (i *twInterface) Inspect() string { return fmt.Sprintf("<interface %s>", i.Name) }

// typeNameOf returns the name a StructPattern/`__type_name` access
// resolves to for v, matching internal/vm/vm_exec.go's execGetProperty
// synthetic accessor.
func typeNameOf(v object.Value) string {
	if v.IsHeap() {
		switch o := v.Obj.(type) {
		case *twInstance:
			return o.Class.Name
		case *twStructInstance:
			return o.Struct.Name
		}
	}
	return v.TypeName()
}
