package bytecode

import "github.com/sofia-lang/sofia/internal/object"

// Chunk is SOFIA's Program (spec.md §3): the single linear byte buffer
// the compiler assembles by concatenating every function's code one
// after another, its constant pool, and the ordered list of compiled
// function records that MakeClosure operands index. Generalized from
// the teacher's per-closure internal/vm/chunk.go into one whole-program
// buffer, since spec.md §6 defines jump/call operands as an "absolute
// offset within function" against a single shared byte stream rather
// than the teacher's per-chunk-relative addressing.
type Chunk struct {
	Code      []byte
	Constants []object.Value
	Functions []*object.CompiledFunction
	Lines     []int
	File      string
}

func NewChunk(file string) *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 256),
		Constants: make([]object.Value, 0, 64),
		Functions: make([]*object.CompiledFunction, 0, 8),
		Lines:     make([]int, 0, 256),
		File:      file,
	}
}

// Len returns the current write offset — the offset the next Emit call
// would write to.
func (c *Chunk) Len() int { return len(c.Code) }

func (c *Chunk) writeByte(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// Emit appends op and its operand bytes (already encoded by the caller
// via PutU8/PutU16/PutU32) and returns the offset the opcode byte was
// written to.
func (c *Chunk) Emit(op Opcode, line int, operand []byte) int {
	offset := len(c.Code)
	c.writeByte(byte(op), line)
	for _, b := range operand {
		c.writeByte(b, line)
	}
	return offset
}

// AddConstant appends v to the constant pool and returns its index. An
// Integer equal to one already in the pool reuses that entry's index, so
// repeated integer literals (e.g. a large array of zeros) do not exhaust
// the u16 constant index space.
func (c *Chunk) AddConstant(v object.Value) uint16 {
	if v.IsInt() {
		for i, existing := range c.Constants {
			if existing.IsInt() && existing.AsInt() == v.AsInt() {
				return uint16(i)
			}
		}
	}
	c.Constants = append(c.Constants, v)
	return uint16(len(c.Constants) - 1)
}

// AddFunction appends fn to the program's function table and returns its
// index, used as the operand of MakeClosure.
func (c *Chunk) AddFunction(fn *object.CompiledFunction) uint16 {
	c.Functions = append(c.Functions, fn)
	return uint16(len(c.Functions) - 1)
}

// PutU8 encodes an 8-bit operand.
func PutU8(n int) []byte { return []byte{byte(n)} }

// PutU16 encodes a 16-bit little-endian operand (spec.md §4.1: "Encoding
// is little-endian for multi-byte operands").
func PutU16(n int) []byte { return []byte{byte(n), byte(n >> 8)} }

// PutU32 encodes a 32-bit little-endian operand.
func PutU32(n int) []byte {
	return []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
}

// ReadU8 reads an 8-bit operand at offset.
func (c *Chunk) ReadU8(offset int) int { return int(c.Code[offset]) }

// ReadU16 reads a 16-bit little-endian operand at offset.
func (c *Chunk) ReadU16(offset int) int {
	return int(c.Code[offset]) | int(c.Code[offset+1])<<8
}

// ReadU32 reads a 32-bit little-endian operand at offset.
func (c *Chunk) ReadU32(offset int) int {
	return int(c.Code[offset]) | int(c.Code[offset+1])<<8 |
		int(c.Code[offset+2])<<16 | int(c.Code[offset+3])<<24
}

// PatchU16 overwrites the 16-bit operand written at offset — used to
// back-patch Jump/JumpIfFalse targets once the jump destination is known.
func (c *Chunk) PatchU16(offset int, n int) {
	c.Code[offset] = byte(n)
	c.Code[offset+1] = byte(n >> 8)
}
