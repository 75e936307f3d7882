package compiler

import "fmt"

// ErrorKind enumerates spec.md §7's CompileError variants.
type ErrorKind string

const (
	UnknownOperator         ErrorKind = "UnknownOperator"
	UnknownIdentifier       ErrorKind = "UnknownIdentifier"
	DuplicateLocal          ErrorKind = "DuplicateLocal"
	ReturnOutsideFunction   ErrorKind = "ReturnOutsideFunction"
	InvalidAssignmentTarget ErrorKind = "InvalidAssignmentTarget"
)

// Error is a compile-time failure, reported with the AST node context
// that produced it (spec.md §7: "reported with AST node context").
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Column, e.Message)
}

func newError(kind ErrorKind, line, col int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line, Column: col}
}
