package variable

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// StructDefinition maps member names to child definitions.
type StructDefinition struct {
	unsupported
	typ     reflect.Type
	members map[string]member
}

// member locates one named child relative to the struct's location.
type member struct {
	def    Definition
	access func(loc reflect.Value) (reflect.Value, error)
}

func newStruct(rt reflect.Type) *StructDefinition {
	return &StructDefinition{
		unsupported: unsupported{KindStruct},
		typ:         rt,
		members:     make(map[string]member),
	}
}

// Type returns the struct type.
func (d *StructDefinition) Type() reflect.Type { return d.typ }

// Members returns the registered member names in sorted order.
func (d *StructDefinition) Members() []string {
	names := make([]string, 0, len(d.members))
	for name := range d.members {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Child returns the named member.
func (d *StructDefinition) Child(loc reflect.Value, e address.Entry) (Variable, error) {
	if e.IsIndex() {
		return Variable{}, fmt.Errorf("%w: cannot index struct %s", ErrNotContainer, d.typ)
	}
	m, ok := d.members[e.Name]
	if !ok {
		return Variable{}, fmt.Errorf("%w: %s has no member %q", ErrMemberNotFound, d.typ, e.Name)
	}
	if !loc.IsValid() {
		return Variable{}, ErrInvalidVariable
	}
	sub, err := m.access(loc)
	if err != nil {
		return Variable{}, err
	}
	return Variable{def: m.def, loc: sub}, nil
}

func (d *StructDefinition) add(name string, m member) {
	if address.Parse(name) == nil || len(address.Parse(name)) != 1 {
		panic(fmt.Sprintf("variable: invalid member name %q", name))
	}
	if _, exists := d.members[name]; exists {
		panic(fmt.Sprintf("variable: duplicate member %q on %s", name, d.typ))
	}
	d.members[name] = m
}

// StructHandle adds members to a registered struct definition.
// Member registration errors are programming errors and panic.
type StructHandle[T any] struct {
	types *Types
	def   *StructDefinition
}

// Definition returns the struct definition being built.
func (h *StructHandle[T]) Definition() *StructDefinition {
	return h.def
}

// Field exposes the exported Go field goField as name.
// The field's type must be resolvable by the registry.
func (h *StructHandle[T]) Field(name, goField string) *StructHandle[T] {
	sf, ok := h.def.typ.FieldByName(goField)
	if !ok || !sf.IsExported() {
		panic(fmt.Sprintf("variable: %s has no exported field %q", h.def.typ, goField))
	}
	def, err := h.types.Resolve(sf.Type)
	if err != nil {
		panic(fmt.Sprintf("variable: field %s.%s: %v", h.def.typ, goField, err))
	}
	index := sf.Index
	h.def.add(name, member{
		def: def,
		access: func(loc reflect.Value) (reflect.Value, error) {
			f, err := loc.FieldByIndexErr(index)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrNilPointer, err)
			}
			return f, nil
		},
	})
	return h
}

// Member exposes the value returned by field as name. field must return a
// pointer into the struct it is given.
func Member[T, M any](h *StructHandle[T], name string, field func(*T) *M) *StructHandle[T] {
	def, err := h.types.Resolve(reflect.TypeFor[M]())
	if err != nil {
		panic(fmt.Sprintf("variable: member %s.%s: %v", h.def.typ, name, err))
	}
	h.def.add(name, member{
		def: def,
		access: func(loc reflect.Value) (reflect.Value, error) {
			p := field(pointerTo[T](loc))
			if p == nil {
				return reflect.Value{}, ErrNilPointer
			}
			return reflect.ValueOf(p).Elem(), nil
		},
	})
	return h
}

// MemberFunc exposes a computed member backed by get and, optionally, set.
func MemberFunc[T, M any](h *StructHandle[T], name string, get func(*T) M, set func(*T, M)) *StructHandle[T] {
	if get == nil && set == nil {
		panic(fmt.Sprintf("variable: member %s.%s needs a getter or a setter", h.def.typ, name))
	}
	def := &FuncDefinition{unsupported: unsupported{KindFunc}}
	if get != nil {
		def.get = func(loc reflect.Value) (expr.Value, error) {
			return expr.Normalize(get(pointerTo[T](loc))), nil
		}
	}
	if set != nil {
		def.set = func(loc reflect.Value, v expr.Value) error {
			var m M
			if err := assign(reflect.ValueOf(&m).Elem(), v); err != nil {
				return err
			}
			set(pointerTo[T](loc), m)
			return nil
		}
	}
	h.def.add(name, member{
		def: def,
		access: func(loc reflect.Value) (reflect.Value, error) {
			return loc, nil
		},
	})
	return h
}

// pointerTo returns a *T for the struct at loc. Non-addressable locations
// are copied, so writes through the result are not visible to the host.
func pointerTo[T any](loc reflect.Value) *T {
	if loc.CanAddr() {
		if p, ok := loc.Addr().Interface().(*T); ok {
			return p
		}
	}
	p := new(T)
	reflect.ValueOf(p).Elem().Set(loc)
	return p
}
