package databind

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/databind/pkg/databind/expr"
	"github.com/randalmurphal/databind/pkg/databind/registry"
	"github.com/randalmurphal/databind/pkg/databind/variable"
)

// Sentinel errors for binding and registration.
var (
	// ErrAlreadyBound indicates Bind was called with a name that is already bound.
	ErrAlreadyBound = errors.New("variable already bound")

	// ErrInvalidBinding indicates a bad name, a nil pointer or a kind mismatch.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrTypeNotRegistered indicates a struct type was bound before being registered.
	ErrTypeNotRegistered = variable.ErrTypeNotRegistered

	// ErrAlreadyRegistered indicates a transform or event callback name is taken.
	ErrAlreadyRegistered = registry.ErrDuplicate
)

// Sentinel errors for resolution.
var (
	// ErrNotBound indicates an address whose root name has no binding.
	ErrNotBound = errors.New("variable not bound")

	// ErrInvalidAddress indicates text that does not parse as an address.
	ErrInvalidAddress = errors.New("invalid address")

	ErrMemberNotFound  = variable.ErrMemberNotFound
	ErrIndexOutOfRange = variable.ErrIndexOutOfRange
	ErrNotContainer    = variable.ErrNotContainer
	ErrNilPointer      = variable.ErrNilPointer
	ErrReadOnly        = variable.ErrReadOnly
	ErrTypeMismatch    = variable.ErrTypeMismatch
)

// Sentinel errors for evaluation, wrapped in a *RuntimeError.
var (
	ErrCompile            = expr.ErrCompile
	ErrStackUnderflow     = expr.ErrStackUnderflow
	ErrStackOverflow      = expr.ErrStackOverflow
	ErrUnknownTransform   = expr.ErrUnknownTransform
	ErrUnknownEvent       = expr.ErrUnknownEvent
	ErrArgumentCount      = expr.ErrArgumentCount
	ErrInvalidInstruction = expr.ErrInvalidInstruction
)

// CompileError reports malformed expression text with the offending offset.
type CompileError = expr.CompileError

// RuntimeError reports a failed instruction.
type RuntimeError = expr.RuntimeError

// ResolutionError wraps a failure to reach, read or write a bound variable.
type ResolutionError struct {
	// Address is the textual address being resolved.
	Address string
	// Op is the operation that failed ("resolve", "get", "set", "dirty").
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Address, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
