package expr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCompile is wrapped by every CompileError.
var ErrCompile = errors.New("compile error")

// Sentinel errors for program execution.
var (
	// ErrStackUnderflow indicates a Pop or Arguments on an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrStackOverflow indicates the value stack exceeded its configured depth.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrUnknownTransform indicates a pipe to a transform that is not registered.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrUnknownEvent indicates a call to an event callback that is not registered.
	ErrUnknownEvent = errors.New("unknown event callback")

	// ErrArgumentCount indicates a transform or callback received the wrong number of arguments.
	ErrArgumentCount = errors.New("wrong number of arguments")

	// ErrInvalidInstruction indicates a malformed instruction payload.
	ErrInvalidInstruction = errors.New("invalid instruction")
)

// CompileError reports malformed expression text.
// Position is the byte offset of the offending character.
type CompileError struct {
	Expression string
	Position   int
	Message    string
}

// Error renders the message followed by the expression and a caret under
// the offending character.
func (e *CompileError) Error() string {
	pos := e.Position
	if pos < 0 {
		pos = 0
	}
	if pos > len(e.Expression) {
		pos = len(e.Expression)
	}
	return fmt.Sprintf("%s at position %d\n\t%s\n\t%s^",
		e.Message, e.Position, e.Expression, strings.Repeat(" ", pos))
}

// Unwrap returns ErrCompile for errors.Is support.
func (e *CompileError) Unwrap() error {
	return ErrCompile
}

// RuntimeError reports a failure while executing a Program.
// Evaluation stops at the failing instruction.
type RuntimeError struct {
	// Op is the instruction that failed.
	Op Opcode
	// Index is the instruction's position in the program.
	Index int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at instruction %d (%s): %v", e.Index, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}
