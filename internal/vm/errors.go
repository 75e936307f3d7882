package vm

import "fmt"

// ErrorKind enumerates spec.md §7's RuntimeError variants.
type ErrorKind string

const (
	TypeMismatch      ErrorKind = "TypeMismatch"
	DivisionByZero    ErrorKind = "DivisionByZero"
	NegativeExponent  ErrorKind = "NegativeExponent"
	ArityMismatch     ErrorKind = "ArityMismatch"
	UnknownProperty   ErrorKind = "UnknownProperty"
	IndexOutOfBounds  ErrorKind = "IndexOutOfBounds"
	KeyNotFound       ErrorKind = "KeyNotFound"
	StackOverflow     ErrorKind = "StackOverflow"
	StackUnderflow    ErrorKind = "StackUnderflow"
	ThisOutsideMethod ErrorKind = "ThisOutsideMethod"
	NonExhaustive     ErrorKind = "NonExhaustiveMatch"
	UndefinedGlobal   ErrorKind = "UndefinedGlobal"
)

// Error is a runtime failure, reported with the ip/opcode at the point of
// failure (spec.md §7: "abort execution with a message and the ip/opcode
// at failure").
type Error struct {
	Kind    ErrorKind
	Message string
	IP      int
	Opcode  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at ip=%d (%s): %s", e.Kind, e.IP, e.Opcode, e.Message)
}

func (vm *VM) newError(kind ErrorKind, format string, args ...interface{}) *Error {
	ip, op := 0, ""
	if vm.frame != nil {
		ip = vm.frame.ip
		op = vm.currentOpMnemonic()
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), IP: ip, Opcode: op}
}
