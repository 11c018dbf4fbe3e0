package variable

import (
	"fmt"
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/address"
)

// sizeMember is the pseudo-member that yields an array's length.
const sizeMember = "size"

// ArrayDefinition navigates slices and arrays by index.
type ArrayDefinition struct {
	unsupported
	typ  reflect.Type
	elem Definition
}

// Type returns the container type.
func (d *ArrayDefinition) Type() reflect.Type { return d.typ }

// Elem returns the element definition.
func (d *ArrayDefinition) Elem() Definition { return d.elem }

// Size returns the current length of the container at loc.
func (d *ArrayDefinition) Size(loc reflect.Value) (int, error) {
	if !loc.IsValid() {
		return 0, ErrInvalidVariable
	}
	return loc.Len(), nil
}

// Child returns the element at an index, or the length for "size".
func (d *ArrayDefinition) Child(loc reflect.Value, e address.Entry) (Variable, error) {
	if !loc.IsValid() {
		return Variable{}, ErrInvalidVariable
	}
	if !e.IsIndex() {
		if e.Name == sizeMember {
			return Literal(int64(loc.Len())), nil
		}
		return Variable{}, fmt.Errorf("%w: array has no member %q", ErrMemberNotFound, e.Name)
	}
	if e.Index < 0 || e.Index >= loc.Len() {
		return Variable{}, fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, e.Index, loc.Len())
	}
	return Variable{def: d.elem, loc: loc.Index(e.Index)}, nil
}
