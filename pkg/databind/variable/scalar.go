package variable

import (
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// ScalarDefinition reads and writes a bool, number or string in place.
type ScalarDefinition struct {
	unsupported
	typ reflect.Type
}

func newScalar(rt reflect.Type) *ScalarDefinition {
	return &ScalarDefinition{unsupported: unsupported{KindScalar}, typ: rt}
}

// Type returns the Go type this definition was created for.
func (d *ScalarDefinition) Type() reflect.Type { return d.typ }

// Get returns the normalized value at loc.
func (d *ScalarDefinition) Get(loc reflect.Value) (expr.Value, error) {
	if !loc.IsValid() {
		return nil, ErrInvalidVariable
	}
	return expr.Normalize(loc.Interface()), nil
}

// Set converts v to the scalar's type and stores it at loc.
func (d *ScalarDefinition) Set(loc reflect.Value, v expr.Value) error {
	return assign(loc, v)
}
