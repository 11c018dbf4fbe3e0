package variable

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// Sentinel errors for variable access.
var (
	// ErrUnsupported indicates the definition does not support the operation.
	ErrUnsupported = errors.New("operation not supported")

	// ErrMemberNotFound indicates a struct has no member with the requested name.
	ErrMemberNotFound = errors.New("member not found")

	// ErrIndexOutOfRange indicates an array index outside [0, size).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotContainer indicates an index into something that is not an array.
	ErrNotContainer = errors.New("not indexable")

	// ErrNilPointer indicates a dereference of a nil pointer.
	ErrNilPointer = errors.New("nil pointer")

	// ErrReadOnly indicates a write to a variable that cannot be written.
	ErrReadOnly = errors.New("read-only variable")

	// ErrTypeMismatch indicates a value that cannot be stored in the target type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrTypeNotRegistered indicates no definition exists for a Go type.
	ErrTypeNotRegistered = errors.New("type not registered")

	// ErrInvalidVariable indicates use of a zero Variable.
	ErrInvalidVariable = errors.New("invalid variable")
)

// Kind identifies the capability set of a Definition.
type Kind int

const (
	KindScalar Kind = iota
	KindFunc
	KindStruct
	KindArray
	KindPointer
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindFunc:
		return "func"
	case KindStruct:
		return "struct"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindLiteral:
		return "literal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Definition knows how to access one shape of host data at a location.
type Definition interface {
	Kind() Kind
	Get(loc reflect.Value) (expr.Value, error)
	Set(loc reflect.Value, v expr.Value) error
	Size(loc reflect.Value) (int, error)
	Child(loc reflect.Value, e address.Entry) (Variable, error)
}

// unsupported is embedded by definitions to fail the operations they lack.
type unsupported struct {
	kind Kind
}

func (u unsupported) Kind() Kind { return u.kind }

func (u unsupported) Get(reflect.Value) (expr.Value, error) {
	return nil, fmt.Errorf("%w: get on %s", ErrUnsupported, u.kind)
}

func (u unsupported) Set(reflect.Value, expr.Value) error {
	return fmt.Errorf("%w: set on %s", ErrUnsupported, u.kind)
}

func (u unsupported) Size(reflect.Value) (int, error) {
	return 0, fmt.Errorf("%w: size of %s", ErrUnsupported, u.kind)
}

func (u unsupported) Child(_ reflect.Value, e address.Entry) (Variable, error) {
	if e.IsIndex() {
		return Variable{}, fmt.Errorf("%w: %s %s", ErrNotContainer, u.kind, e)
	}
	return Variable{}, fmt.Errorf("%w: %s has no member %q", ErrMemberNotFound, u.kind, e.Name)
}
