package variable

import (
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// FuncDefinition forwards Get and Set to host closures instead of touching
// memory. The closures receive the location the variable was reached
// through; top-level function bindings ignore it.
type FuncDefinition struct {
	unsupported
	get func(loc reflect.Value) (expr.Value, error)
	set func(loc reflect.Value, v expr.Value) error
}

// NewFunc returns a definition backed by get and set. Either may be nil:
// a nil getter makes the variable write-only, a nil setter read-only.
func NewFunc[T any](get func() T, set func(T)) *FuncDefinition {
	d := &FuncDefinition{unsupported: unsupported{KindFunc}}
	if get != nil {
		d.get = func(reflect.Value) (expr.Value, error) {
			return expr.Normalize(get()), nil
		}
	}
	if set != nil {
		d.set = func(_ reflect.Value, v expr.Value) error {
			var t T
			if err := assign(reflect.ValueOf(&t).Elem(), v); err != nil {
				return err
			}
			set(t)
			return nil
		}
	}
	return d
}

// Get calls the getter.
func (d *FuncDefinition) Get(loc reflect.Value) (expr.Value, error) {
	if d.get == nil {
		return d.unsupported.Get(loc)
	}
	return d.get(loc)
}

// Set calls the setter.
func (d *FuncDefinition) Set(loc reflect.Value, v expr.Value) error {
	if d.set == nil {
		return ErrReadOnly
	}
	return d.set(loc, v)
}
