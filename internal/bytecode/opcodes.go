// Package bytecode defines SOFIA's instruction set and the Chunk
// container the compiler assembles and the VM executes (spec.md §6).
package bytecode

// Opcode is a single instruction byte. Operand widths are fixed per
// opcode (spec.md §6's table) and are never encoded in the stream
// itself.
type Opcode byte

const (
	Constant Opcode = iota // u16 idx — push constants[idx]
	True                   // push true
	False                  // push false
	NullOp                 // push null
	Pop                    // discard TOS

	Add
	Sub
	Mul
	Div
	Mod
	Pow

	Neg
	Not

	And // strict boolean and (both operands always evaluated)
	Or  // strict boolean or

	Equal
	NotEqual
	GreaterThan
	LessThan

	Jump        // u16 off — absolute offset within function
	JumpIfFalse // u16 off — pops condition

	Call   // u8 argc
	Return // unwinds current frame

	GetGlobal // u16 nidx — constants[nidx] is the string name
	SetGlobal // u16 nidx — pops the value
	GetLocal  // u8 slot
	SetLocal  // u8 slot — pops the value

	GetUpvalue // u8 idx
	SetUpvalue // u8 idx — pops the value

	MakeArray // u16 n — pops n elements, pushes Array
	MakeHash  // u16 n — pops 2n elements (pairs in written order), pushes Hash
	Index     // pops (a, i), pushes a[i]
	SetIndex  // pops (a, i, v), sets a[i] = v

	MakeClosure // u16 idx — functions[idx] is the closure's *object.CompiledFunction

	DeclareClass     // u16 nidx — declares an (initially empty) class, pushes it
	DeclareStruct    // u16 nidx — declares an (initially empty) struct, pushes it
	DeclareInterface // u16 nidx — declares an interface, pushes it

	GetProperty // u16 nidx — pops receiver, pushes field/bound-method
	SetProperty // u16 nidx — pops (receiver, value)

	New // u8 argc — pops (class, args...), runs field init + `init`, pushes instance

	This  // push current frame's receiver
	Super // push the enclosing method's owner class's parent, bound to `this`

	NoOp     // no-op
	MapToAst // u32 node_id — debug metadata, not executed semantically

	// Raise has no direct spec.md §6 table entry — it lowers a runtime
	// error that has no surface-syntax expression, namely a match
	// expression falling through every arm (spec.md §4.2's
	// NonExhaustiveMatch).
	Raise // u16 nidx — constants[nidx] is the error kind name; always errors
)

var names = map[Opcode]string{
	Constant: "CONSTANT",
	True:     "TRUE",
	False:    "FALSE",
	NullOp:   "NULL",
	Pop:      "POP",

	Add: "ADD",
	Sub: "SUB",
	Mul: "MUL",
	Div: "DIV",
	Mod: "MOD",
	Pow: "POW",

	Neg: "NEG",
	Not: "NOT",

	And: "AND",
	Or:  "OR",

	Equal:       "EQUAL",
	NotEqual:    "NOT_EQUAL",
	GreaterThan: "GREATER_THAN",
	LessThan:    "LESS_THAN",

	Jump:        "JUMP",
	JumpIfFalse: "JUMP_IF_FALSE",

	Call:   "CALL",
	Return: "RETURN",

	GetGlobal: "GET_GLOBAL",
	SetGlobal: "SET_GLOBAL",
	GetLocal:  "GET_LOCAL",
	SetLocal:  "SET_LOCAL",

	GetUpvalue: "GET_UPVALUE",
	SetUpvalue: "SET_UPVALUE",

	MakeArray: "MAKE_ARRAY",
	MakeHash:  "MAKE_HASH",
	Index:     "INDEX",
	SetIndex:  "SET_INDEX",

	MakeClosure: "MAKE_CLOSURE",

	DeclareClass:     "DECLARE_CLASS",
	DeclareStruct:    "DECLARE_STRUCT",
	DeclareInterface: "DECLARE_INTERFACE",

	GetProperty: "GET_PROPERTY",
	SetProperty: "SET_PROPERTY",

	New: "NEW",

	This:  "THIS",
	Super: "SUPER",

	NoOp:     "NOOP",
	MapToAst: "MAP_TO_AST",
	Raise:    "RAISE",
}

func (op Opcode) String() string {
	if n, ok := names[op]; ok {
		return n
	}
	return "UNKNOWN"
}

// operandWidth is the number of operand bytes following the opcode byte
// itself, per spec.md §6's table.
var operandWidth = map[Opcode]int{
	Constant:         2,
	Jump:             2,
	JumpIfFalse:      2,
	Call:             1,
	GetGlobal:        2,
	SetGlobal:        2,
	GetLocal:         1,
	SetLocal:         1,
	GetUpvalue:       1,
	SetUpvalue:       1,
	MakeArray:        2,
	MakeHash:         2,
	MakeClosure:      2,
	DeclareClass:     2,
	DeclareStruct:    2,
	DeclareInterface: 2,
	GetProperty:      2,
	SetProperty:      2,
	New:              1,
	MapToAst:         4,
	Raise:            2,
}

// OperandWidth returns how many bytes of operand follow op in the stream.
func OperandWidth(op Opcode) int { return operandWidth[op] }

// InstructionWidth returns the total encoded width (opcode + operands).
func InstructionWidth(op Opcode) int { return 1 + operandWidth[op] }
