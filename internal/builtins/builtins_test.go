package builtins

import (
	"testing"

	"github.com/sofia-lang/sofia/internal/object"
)

func callBuiltin(t *testing.T, name string, args ...object.Value) object.Value {
	t.Helper()
	all := All()
	v, ok := all[name]
	if !ok {
		t.Fatalf("no builtin named %s", name)
	}
	b := v.Obj.(*object.Builtin)
	result, err := b.Fn(args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return result
}

func TestLen(t *testing.T) {
	got := callBuiltin(t, "len", object.Str("hello"))
	if got.AsInt() != 5 {
		t.Errorf("expected 5, got %d", got.AsInt())
	}

	arr := object.Heap(object.NewArray([]object.Value{object.Integer(1), object.Integer(2)}))
	got = callBuiltin(t, "len", arr)
	if got.AsInt() != 2 {
		t.Errorf("expected 2, got %d", got.AsInt())
	}
}

func TestTypeOf(t *testing.T) {
	got := callBuiltin(t, "type_of", object.Integer(5))
	s, _ := object.AsString(got)
	if s != "Integer" {
		t.Errorf("expected Integer, got %s", s)
	}
}

func TestHashIsDeterministic(t *testing.T) {
	a := callBuiltin(t, "hash", object.Str("sofia"))
	b := callBuiltin(t, "hash", object.Str("sofia"))
	as, _ := object.AsString(a)
	bs, _ := object.AsString(b)
	if as != bs || as == "" {
		t.Errorf("expected equal, non-empty digests, got %q and %q", as, bs)
	}
}

func TestUUIDLooksLikeAUUID(t *testing.T) {
	got := callBuiltin(t, "uuid")
	s, _ := object.AsString(got)
	if len(s) != 36 {
		t.Errorf("expected a 36-character UUID string, got %q", s)
	}
}
