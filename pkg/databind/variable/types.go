package variable

import (
	"fmt"
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/registry"
)

// Types owns one Definition per Go type.
// A Types value may be shared by several data models.
type Types struct {
	defs *registry.Registry[reflect.Type, Definition]
}

// NewTypes returns an empty registry. Scalar definitions are derived on
// first use, so no pre-registration is needed for built-in types.
func NewTypes() *Types {
	return &Types{defs: registry.New[reflect.Type, Definition]()}
}

// Lookup returns the definition registered for rt.
func (t *Types) Lookup(rt reflect.Type) (Definition, bool) {
	return t.defs.Get(rt)
}

// Len returns the number of known definitions.
func (t *Types) Len() int {
	return t.defs.Len()
}

// Resolve returns the definition for rt, deriving it when rt is a scalar,
// or a slice, array or pointer whose element type is resolvable. Struct
// types must be registered with RegisterStruct first.
func (t *Types) Resolve(rt reflect.Type) (Definition, error) {
	if rt == nil {
		return nil, fmt.Errorf("%w: nil type", ErrTypeNotRegistered)
	}
	if def, ok := t.defs.Get(rt); ok {
		return def, nil
	}

	var def Definition
	switch {
	case isScalarKind(rt.Kind()):
		def = newScalar(rt)
	case rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array:
		elem, err := t.Resolve(rt.Elem())
		if err != nil {
			return nil, fmt.Errorf("element of %s: %w", rt, err)
		}
		def = &ArrayDefinition{unsupported: unsupported{KindArray}, typ: rt, elem: elem}
	case rt.Kind() == reflect.Pointer:
		elem, err := t.Resolve(rt.Elem())
		if err != nil {
			return nil, fmt.Errorf("pointee of %s: %w", rt, err)
		}
		def = &PointerDefinition{typ: rt, elem: elem}
	default:
		return nil, fmt.Errorf("%w: %s", ErrTypeNotRegistered, rt)
	}

	return t.defs.GetOrCreate(rt, func() (Definition, error) { return def, nil })
}

// RegisterScalar returns the scalar definition for T.
func RegisterScalar[T any](t *Types) (Definition, error) {
	rt := reflect.TypeFor[T]()
	if !isScalarKind(rt.Kind()) {
		return nil, fmt.Errorf("%w: %s is not a scalar type", ErrTypeMismatch, rt)
	}
	return t.Resolve(rt)
}

// RegisterStruct returns a handle for adding members to T's definition.
// Registering the same type twice returns a handle to the same definition.
func RegisterStruct[T any](t *Types) (*StructHandle[T], error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct type", ErrTypeMismatch, rt)
	}
	def, err := t.defs.GetOrCreate(rt, func() (Definition, error) { return newStruct(rt), nil })
	if err != nil {
		return nil, err
	}
	sd, ok := def.(*StructDefinition)
	if !ok {
		return nil, fmt.Errorf("%w: %s already registered as %s", ErrTypeMismatch, rt, def.Kind())
	}
	return &StructHandle[T]{types: t, def: sd}, nil
}

// RegisterArray returns the definition for the slice or array type C.
// The element type must be resolvable.
func RegisterArray[C any](t *Types) (Definition, error) {
	rt := reflect.TypeFor[C]()
	if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s is not a slice or array type", ErrTypeMismatch, rt)
	}
	return t.Resolve(rt)
}

// RegisterPointer returns the definition for the pointer type P.
// The pointee type must be resolvable.
func RegisterPointer[P any](t *Types) (Definition, error) {
	rt := reflect.TypeFor[P]()
	if rt.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%w: %s is not a pointer type", ErrTypeMismatch, rt)
	}
	return t.Resolve(rt)
}
