package variable

import (
	"fmt"
	"reflect"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// Variable is a Definition paired with a location in host memory.
// The zero Variable is invalid.
type Variable struct {
	def Definition
	loc reflect.Value
}

// New pairs def with loc.
func New(def Definition, loc reflect.Value) Variable {
	return Variable{def: def, loc: loc}
}

// Valid reports whether v refers to anything.
func (v Variable) Valid() bool {
	return v.def != nil
}

// Definition returns the variable's definition, or nil for the zero Variable.
func (v Variable) Definition() Definition {
	return v.def
}

// Kind returns the definition's kind.
func (v Variable) Kind() Kind {
	if v.def == nil {
		return KindLiteral
	}
	return v.def.Kind()
}

// Get reads the variable's value.
func (v Variable) Get() (expr.Value, error) {
	if v.def == nil {
		return nil, ErrInvalidVariable
	}
	return v.def.Get(v.loc)
}

// Set writes val to the variable.
func (v Variable) Set(val expr.Value) error {
	if v.def == nil {
		return ErrInvalidVariable
	}
	return v.def.Set(v.loc, val)
}

// Size returns the element count of an array variable.
func (v Variable) Size() (int, error) {
	if v.def == nil {
		return 0, ErrInvalidVariable
	}
	return v.def.Size(v.loc)
}

// Child navigates one address entry into the variable.
func (v Variable) Child(e address.Entry) (Variable, error) {
	if v.def == nil {
		return Variable{}, ErrInvalidVariable
	}
	return v.def.Child(v.loc, e)
}

// Walk follows path from v, one Child call per entry.
func (v Variable) Walk(path address.Address) (Variable, error) {
	cur := v
	for _, e := range path {
		next, err := cur.Child(e)
		if err != nil {
			return Variable{}, fmt.Errorf("at %s: %w", e, err)
		}
		cur = next
	}
	return cur, nil
}

// LiteralDefinition is a read-only constant, such as an array's size.
type LiteralDefinition struct {
	unsupported
	value expr.Value
}

// Literal returns a constant variable holding value.
func Literal(value expr.Value) Variable {
	return Variable{def: &LiteralDefinition{unsupported: unsupported{KindLiteral}, value: expr.Normalize(value)}}
}

// Get returns the constant.
func (d *LiteralDefinition) Get(reflect.Value) (expr.Value, error) {
	return d.value, nil
}

// Set always fails.
func (d *LiteralDefinition) Set(reflect.Value, expr.Value) error {
	return ErrReadOnly
}
