package object

import "fmt"

// Struct is a shared struct record: spec.md §3 describes it as "the same
// shape as Class, without methods or inheritance" — a plain named field
// schema with per-field default initializers, no Parent and no Methods.
type Struct struct {
	Name       string
	Properties []Property
}

func NewStruct(name string) *Struct { return &Struct{Name: name} }

func (*Struct) Type() string { return "Struct" }

func (s *Struct) Inspect() string { return fmt.Sprintf("<struct %s>", s.Name) }

func (s *Struct) LookupProperty(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// StructInstance is a shared, mutable instance of a Struct. Its field set
// is fixed to its Struct's declared properties, same as ClassInstance —
// grounded on spec.md §3's "same shape as Class" rather than on
// original_source's StructInstance, which starts empty; SPEC_FULL.md's
// Open Question log records this as a deliberate deviation for
// consistency with the class-instance field-access rules.
type StructInstance struct {
	Struct *Struct
	names  map[string]int
	values []Value
}

func NewStructInstance(def *Struct, fieldNames []string) *StructInstance {
	inst := &StructInstance{
		Struct: def,
		names:  make(map[string]int, len(fieldNames)),
		values: make([]Value, len(fieldNames)),
	}
	for i, n := range fieldNames {
		inst.names[n] = i
		inst.values[i] = Null
	}
	return inst
}

func (*StructInstance) Type() string { return "StructInstance" }

func (i *StructInstance) Inspect() string {
	return fmt.Sprintf("<instance of %s>", i.Struct.Name)
}

func (i *StructInstance) GetField(name string) (Value, bool) {
	idx, ok := i.names[name]
	if !ok {
		return Null, false
	}
	return i.values[idx], true
}

func (i *StructInstance) SetField(name string, v Value) bool {
	idx, ok := i.names[name]
	if !ok {
		return false
	}
	i.values[idx] = v
	return true
}

func (i *StructInstance) HasField(name string) bool {
	_, ok := i.names[name]
	return ok
}
