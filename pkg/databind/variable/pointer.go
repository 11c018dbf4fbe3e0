package variable

import (
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// PointerDefinition dereferences one level and delegates to the pointee's
// definition. A nil pointer fails every operation with ErrNilPointer.
type PointerDefinition struct {
	typ  reflect.Type
	elem Definition
}

// Type returns the pointer type.
func (d *PointerDefinition) Type() reflect.Type { return d.typ }

// Elem returns the pointee definition.
func (d *PointerDefinition) Elem() Definition { return d.elem }

// Kind returns KindPointer.
func (d *PointerDefinition) Kind() Kind { return KindPointer }

func (d *PointerDefinition) deref(loc reflect.Value) (reflect.Value, error) {
	if !loc.IsValid() {
		return reflect.Value{}, ErrInvalidVariable
	}
	if loc.IsNil() {
		return reflect.Value{}, ErrNilPointer
	}
	return loc.Elem(), nil
}

// Get reads through the pointer.
func (d *PointerDefinition) Get(loc reflect.Value) (expr.Value, error) {
	target, err := d.deref(loc)
	if err != nil {
		return nil, err
	}
	return d.elem.Get(target)
}

// Set writes through the pointer.
func (d *PointerDefinition) Set(loc reflect.Value, v expr.Value) error {
	target, err := d.deref(loc)
	if err != nil {
		return err
	}
	return d.elem.Set(target, v)
}

// Size returns the pointee's size.
func (d *PointerDefinition) Size(loc reflect.Value) (int, error) {
	target, err := d.deref(loc)
	if err != nil {
		return 0, err
	}
	return d.elem.Size(target)
}

// Child navigates into the pointee.
func (d *PointerDefinition) Child(loc reflect.Value, e address.Entry) (Variable, error) {
	target, err := d.deref(loc)
	if err != nil {
		return Variable{}, err
	}
	return d.elem.Child(target, e)
}
