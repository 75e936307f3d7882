package object

import "fmt"

// AccessKind is a declared property's visibility.
type AccessKind uint8

const (
	AccessPublic AccessKind = iota
	AccessPrivate
)

// Property is one declared field of a Class or Struct: a name, its
// declared access/staticness, and its default-value initializer compiled
// as a zero-argument thunk (spec.md §3's "default_value_expr_compiled_as_thunk").
// Default is nil when the property has no explicit initializer, in which
// case the field defaults to Null.
type Property struct {
	Name     string
	Access   AccessKind
	IsStatic bool
	Default  *CompiledFunction
}

// Class is a shared, mutable class record (spec.md §3). Method lookup
// walks the Parent chain, mirroring the VTable.parent walk in
// chazu-maggie/vm/object.go, simplified to a name-keyed map since
// spec.md's Class record is explicitly `methods: map name→Method`
// rather than a slot-indexed vtable.
type Class struct {
	Name        string
	Parent      *Class
	Properties  []Property
	Methods     map[string]*Function
	StaticSlots map[string]Value
}

func NewClass(name string, parent *Class) *Class {
	return &Class{
		Name:        name,
		Parent:      parent,
		Methods:     make(map[string]*Function),
		StaticSlots: make(map[string]Value),
	}
}

func (*Class) Type() string { return "Class" }

func (c *Class) Inspect() string { return fmt.Sprintf("<class %s>", c.Name) }

// LookupMethod walks c and its Parent chain for a method named name.
func (c *Class) LookupMethod(name string) (*Function, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// LookupProperty returns the declared Property named name, searching
// this class only (properties are not inherited redeclarations — each
// class in the chain owns its own field list, flattened into the
// instance at construction time by ClassInstance's builder).
func (c *Class) LookupProperty(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// AllProperties returns this class's properties preceded by its parent
// chain's, root-first, so that `new` can run every initializer in
// declaration order across the whole inheritance chain.
func (c *Class) AllProperties() []Property {
	if c.Parent == nil {
		return append([]Property(nil), c.Properties...)
	}
	return append(c.Parent.AllProperties(), c.Properties...)
}

// ClassInstance is a shared, mutable instance of a Class (spec.md §3).
// Its field set is exactly the declared (non-static) properties of its
// class and ancestors — SPEC_FULL.md's resolved Open Question rejects
// dynamic field addition on class instances.
type ClassInstance struct {
	Class  *Class
	names  map[string]int
	values []Value
}

// NewClassInstance allocates an instance with fieldNames in declaration
// order, all initialized to Null; the VM fills them in by running each
// property's default thunk (spec.md §3's "evaluating each property
// initializer in insertion order").
func NewClassInstance(class *Class, fieldNames []string) *ClassInstance {
	inst := &ClassInstance{
		Class:  class,
		names:  make(map[string]int, len(fieldNames)),
		values: make([]Value, len(fieldNames)),
	}
	for i, n := range fieldNames {
		inst.names[n] = i
		inst.values[i] = Null
	}
	return inst
}

func (*ClassInstance) Type() string { return "ClassInstance" }

func (i *ClassInstance) Inspect() string {
	return fmt.Sprintf("<instance of %s>", i.Class.Name)
}

// GetField returns the value of a declared field.
func (i *ClassInstance) GetField(name string) (Value, bool) {
	idx, ok := i.names[name]
	if !ok {
		return Null, false
	}
	return i.values[idx], true
}

// SetField writes a declared field. Returns false if name is not a
// declared field of this instance's class.
func (i *ClassInstance) SetField(name string, v Value) bool {
	idx, ok := i.names[name]
	if !ok {
		return false
	}
	i.values[idx] = v
	return true
}

// HasField reports whether name is a declared field.
func (i *ClassInstance) HasField(name string) bool {
	_, ok := i.names[name]
	return ok
}
