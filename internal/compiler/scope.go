package compiler

import "github.com/sofia-lang/sofia/internal/bytecode"

// Local is a compile-time record of a stack-resident local variable,
// grounded on the teacher's internal/vm/compiler.go Local type.
type Local struct {
	Name       string
	Depth      int
	Slot       int
	IsCaptured bool
}

// Upvalue is a captured free variable, grounded on the teacher's
// internal/vm/compiler.go Upvalue type.
type Upvalue struct {
	Index   uint8
	IsLocal bool
}

// FunctionType distinguishes the kind of code body a *Compiler is
// assembling, so `return`/`this`/`super` can be validated contextually.
type FunctionType int

const (
	ScriptFunction FunctionType = iota
	PlainFunction
	MethodFunction
	ThunkFunction // a property default-value initializer
)

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope closes the current scope. Per spec.md §4.3's Call semantics
// ("allocate num_locals - num_params extra slots initialised to Null"
// at call time, all at once), every local in a function gets a
// permanent, statically-assigned frame slot for the function's whole
// lifetime — slots are never reused across sibling blocks and nothing
// needs popping when a block's lexical scope closes; endScope only
// drops the names from compile-time resolution.
func (c *Compiler) endScope(line int) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
	}
}

func (c *Compiler) addLocal(name string, line, col int) (int, error) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Depth < c.scopeDepth {
			break
		}
		if c.locals[i].Name == name {
			return 0, newError(DuplicateLocal, line, col, "duplicate local %q in this scope", name)
		}
	}
	slot := c.nextSlot
	c.nextSlot++
	c.locals = append(c.locals, Local{Name: name, Depth: c.scopeDepth, Slot: slot})
	if c.nextSlot > c.fn.NumLocals {
		c.fn.NumLocals = c.nextSlot
	}
	return slot, nil
}

func (c *Compiler) resolveLocal(name string) (slot int, found bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			return c.locals[i].Slot, true
		}
	}
	return -1, false
}

func (c *Compiler) resolveUpvalue(name string) (idx int, found bool) {
	if c.enclosing == nil {
		return -1, false
	}
	if slot, ok := c.enclosing.resolveLocalMutable(name); ok {
		return c.addUpvalue(uint8(slot), true), true
	}
	if up, ok := c.enclosing.resolveUpvalue(name); ok {
		return c.addUpvalue(uint8(up), false), true
	}
	return -1, false
}

// resolveLocalMutable resolves a local in c and marks it captured so the
// VM knows the frame's slot outlives the frame (spec.md's upvalue model).
func (c *Compiler) resolveLocalMutable(name string) (int, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			c.locals[i].IsCaptured = true
			return c.locals[i].Slot, true
		}
	}
	return -1, false
}

func (c *Compiler) addUpvalue(index uint8, isLocal bool) int {
	for i, up := range c.upvalues {
		if up.Index == index && up.IsLocal == isLocal {
			return i
		}
	}
	c.upvalues = append(c.upvalues, Upvalue{Index: index, IsLocal: isLocal})
	return len(c.upvalues) - 1
}

// emit helpers — all write into the single program-wide chunk shared by
// every nested *Compiler (see compiler.go's design note on why function
// bodies still fit inside one flat byte buffer).

func (c *Compiler) emitOp(op bytecode.Opcode, line int) int {
	return c.chunk.Emit(op, line, nil)
}

func (c *Compiler) emitU8(op bytecode.Opcode, operand int, line int) int {
	return c.chunk.Emit(op, line, bytecode.PutU8(operand))
}

func (c *Compiler) emitU16(op bytecode.Opcode, operand int, line int) int {
	return c.chunk.Emit(op, line, bytecode.PutU16(operand))
}

// emitJump emits op with a placeholder 0xFFFF operand and returns the
// offset of the operand bytes to patch later (spec.md §4.2: "Jump
// patching").
func (c *Compiler) emitJump(op bytecode.Opcode, line int) int {
	c.chunk.Emit(op, line, []byte{0xFF, 0xFF})
	return c.chunk.Len() - 2
}

// patchJump backfills the placeholder written by emitJump with the
// current end of the buffer, encoded relative to this function's own
// CodeOffset (spec.md §4.3: "Jump off sets ip := frame_base + off" —
// frame_base being the executing function's code_offset).
func (c *Compiler) patchJump(operandOffset int) {
	c.chunk.PatchU16(operandOffset, c.chunk.Len()-c.codeOffset)
}

func (c *Compiler) patchJumpTo(operandOffset, target int) {
	c.chunk.PatchU16(operandOffset, target-c.codeOffset)
}
