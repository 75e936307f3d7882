package object

import "testing"

func TestValueZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Fatalf("zero Value should be Null, got kind %d", v.Kind)
	}
	if v != Null {
		t.Fatalf("zero Value should equal Null exactly")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Null, false},
		{Bool(false), false},
		{Bool(true), true},
		{Integer(0), true},
		{Integer(-1), true},
		{Str(""), true},
		{Heap(NewArray(nil)), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Fatalf("%s.Truthy() = %v, want %v", c.v.Inspect(), got, c.want)
		}
	}
}

func TestEqualPrimitives(t *testing.T) {
	if !Equal(Integer(5), Integer(5)) {
		t.Fatal("Integer(5) should equal Integer(5)")
	}
	if Equal(Integer(5), Integer(6)) {
		t.Fatal("Integer(5) should not equal Integer(6)")
	}
	if Equal(Integer(5), Bool(true)) {
		t.Fatal("mismatched kinds should never be equal")
	}
	if !Equal(Null, Null) {
		t.Fatal("Null should equal Null")
	}
}

func TestEqualStringsByValue(t *testing.T) {
	a := Str("hello")
	b := Str("hello")
	if a.Obj == b.Obj {
		t.Fatal("test setup: expected distinct String pointers")
	}
	if !Equal(a, b) {
		t.Fatal("distinct String pointers with the same contents should be equal")
	}
	if Equal(a, Str("world")) {
		t.Fatal("strings with different contents should not be equal")
	}
}

func TestEqualAggregatesByIdentity(t *testing.T) {
	a := Heap(NewArray([]Value{Integer(1)}))
	b := Heap(NewArray([]Value{Integer(1)}))
	if Equal(a, b) {
		t.Fatal("two distinct arrays with equal contents should not be Equal (identity semantics)")
	}
	if !Equal(a, a) {
		t.Fatal("an array should equal itself")
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "Null"},
		{Bool(true), "Bool"},
		{Integer(1), "Integer"},
		{Str("x"), "String"},
		{Heap(NewArray(nil)), "Array"},
		{Heap(NewHash()), "Hash"},
	}
	for _, c := range cases {
		if got := c.v.TypeName(); got != c.want {
			t.Fatalf("TypeName() = %q, want %q", got, c.want)
		}
	}
}

func TestAsString(t *testing.T) {
	s, ok := AsString(Str("hi"))
	if !ok || s != "hi" {
		t.Fatalf("AsString(Str(\"hi\")) = (%q, %v)", s, ok)
	}
	if _, ok := AsString(Integer(1)); ok {
		t.Fatal("AsString should reject non-string values")
	}
}

func TestHashInsertionOrderAndOverwrite(t *testing.T) {
	h := NewHash()
	if !h.Set(Str("a"), Integer(1)) {
		t.Fatal("Set with a string key should succeed")
	}
	if !h.Set(Str("b"), Integer(2)) {
		t.Fatal("Set with a string key should succeed")
	}
	if !h.Set(Str("a"), Integer(99)) {
		t.Fatal("overwriting an existing key should succeed")
	}
	if h.Len() != 2 {
		t.Fatalf("expected 2 entries after overwrite, got %d", h.Len())
	}

	var keys []string
	h.Each(func(k, v Value) {
		s, _ := AsString(k)
		keys = append(keys, s)
	})
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected insertion order [a b], got %v", keys)
	}

	v, ok := h.Get(Str("a"))
	if !ok || v.AsInt() != 99 {
		t.Fatalf("expected overwritten value 99, got %s (ok=%v)", v.Inspect(), ok)
	}
}

func TestHashRejectsUnhashableKey(t *testing.T) {
	h := NewHash()
	if h.Set(Heap(NewArray(nil)), Integer(1)) {
		t.Fatal("an array is not a stringifiable key and should be rejected")
	}
}

func TestHashGetMissingKey(t *testing.T) {
	h := NewHash()
	v, ok := h.Get(Str("missing"))
	if ok || !v.IsNull() {
		t.Fatalf("expected (Null, false) for a missing key, got (%s, %v)", v.Inspect(), ok)
	}
}
