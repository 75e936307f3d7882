package object

import (
	"fmt"
	"strings"
)

// hashKey turns a stringifiable Value into the string used to index a
// Hash's insertion-ordered map, per spec.md §3 ("mapping from
// stringifiable-key to Value").
func hashKey(v Value) (string, bool) {
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("i:%d", v.AsInt()), true
	case KindBool:
		return fmt.Sprintf("b:%t", v.AsBool()), true
	case KindHeap:
		if s, ok := AsString(v); ok {
			return "s:" + s, true
		}
	}
	return "", false
}

// Hash is a shared, mutable, insertion-ordered mapping from a
// stringifiable key to a Value (spec.md §3). Go's builtin map does not
// preserve insertion order, so entries are also tracked in a slice.
type Hash struct {
	index   map[string]int
	entries []hashEntry
}

type hashEntry struct {
	key   Value
	value Value
}

func NewHash() *Hash {
	return &Hash{index: make(map[string]int)}
}

// Set inserts or updates key -> value, preserving the position of an
// existing key and appending new keys in insertion order. Returns false
// if key is not a stringifiable value.
func (h *Hash) Set(key, value Value) bool {
	k, ok := hashKey(key)
	if !ok {
		return false
	}
	if i, exists := h.index[k]; exists {
		h.entries[i].value = value
		return true
	}
	h.index[k] = len(h.entries)
	h.entries = append(h.entries, hashEntry{key: key, value: value})
	return true
}

// Get looks up key, returning (value, true) if present.
func (h *Hash) Get(key Value) (Value, bool) {
	k, ok := hashKey(key)
	if !ok {
		return Null, false
	}
	i, exists := h.index[k]
	if !exists {
		return Null, false
	}
	return h.entries[i].value, true
}

// Len returns the number of entries.
func (h *Hash) Len() int { return len(h.entries) }

// Each iterates entries in insertion order.
func (h *Hash) Each(fn func(key, value Value)) {
	for _, e := range h.entries {
		fn(e.key, e.value)
	}
}

func (*Hash) Type() string { return "Hash" }

func (h *Hash) Inspect() string {
	parts := make([]string, 0, len(h.entries))
	for _, e := range h.entries {
		parts = append(parts, e.key.Inspect()+": "+e.value.Inspect())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
