package cli

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/randalmurphal/databind/pkg/databind"
	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
	"github.com/randalmurphal/databind/pkg/databind/variable"
)

// slot is one writable position inside a decoded YAML or JSON document.
type slot interface {
	load() any
	store(v any)
}

type mapSlot struct {
	m   map[string]any
	key string
}

func (s mapSlot) load() any   { return s.m[s.key] }
func (s mapSlot) store(v any) { s.m[s.key] = v }

type listSlot struct {
	l []any
	i int
}

func (s listSlot) load() any   { return s.l[s.i] }
func (s listSlot) store(v any) { s.l[s.i] = v }

// document exposes decoded map[string]any and []any trees to a model.
// Leaves read and write in place; maps and lists are navigated only.
// The kind follows the node a slot holds: maps are structs, lists are
// arrays, everything else is a scalar.
type document struct{ kind variable.Kind }

var (
	docMap  = document{kind: variable.KindStruct}
	docList = document{kind: variable.KindArray}
	docLeaf = document{kind: variable.KindScalar}
)

// nodeAt pairs s with the definition matching the node it holds.
func nodeAt(s slot) variable.Variable {
	def := docLeaf
	switch s.load().(type) {
	case map[string]any:
		def = docMap
	case []any:
		def = docList
	}
	return variable.New(def, reflect.ValueOf(s))
}

func (d document) Kind() variable.Kind { return d.kind }

func at(loc reflect.Value) slot {
	return loc.Interface().(slot)
}

func (document) Get(loc reflect.Value) (expr.Value, error) {
	switch v := at(loc).load().(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("%w: get on %T", variable.ErrUnsupported, v)
	default:
		return expr.Normalize(v), nil
	}
}

func (document) Set(loc reflect.Value, v expr.Value) error {
	s := at(loc)
	switch cur := s.load().(type) {
	case map[string]any, []any:
		return fmt.Errorf("%w: cannot replace %T", variable.ErrTypeMismatch, cur)
	}
	switch v.(type) {
	case map[string]any, []any:
		return fmt.Errorf("%w: cannot store %T in a leaf", variable.ErrTypeMismatch, v)
	}
	s.store(v)
	return nil
}

func (document) Size(loc reflect.Value) (int, error) {
	if l, ok := at(loc).load().([]any); ok {
		return len(l), nil
	}
	return 0, fmt.Errorf("%w: size of non-list", variable.ErrUnsupported)
}

func (document) Child(loc reflect.Value, e address.Entry) (variable.Variable, error) {
	switch node := at(loc).load().(type) {
	case map[string]any:
		if e.IsIndex() {
			return variable.Variable{}, fmt.Errorf("%w: map %s", variable.ErrNotContainer, e)
		}
		if _, ok := node[e.Name]; !ok {
			return variable.Variable{}, fmt.Errorf("%w: %q", variable.ErrMemberNotFound, e.Name)
		}
		return nodeAt(mapSlot{m: node, key: e.Name}), nil
	case []any:
		if !e.IsIndex() {
			if e.Name == "size" {
				return variable.Literal(int64(len(node))), nil
			}
			return variable.Variable{}, fmt.Errorf("%w: list has no member %q", variable.ErrMemberNotFound, e.Name)
		}
		if e.Index < 0 || e.Index >= len(node) {
			return variable.Variable{}, fmt.Errorf("%w: index %d, size %d", variable.ErrIndexOutOfRange, e.Index, len(node))
		}
		return nodeAt(listSlot{l: node, i: e.Index}), nil
	default:
		if e.IsIndex() {
			return variable.Variable{}, fmt.Errorf("%w: %T %s", variable.ErrNotContainer, node, e)
		}
		return variable.Variable{}, fmt.Errorf("%w: %T has no member %q", variable.ErrMemberNotFound, node, e.Name)
	}
}

// bindDocument binds every top-level key of vars as a root variable.
func bindDocument(model *databind.Model, vars map[string]any) error {
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		if err := model.BindVariable(name, nodeAt(mapSlot{m: vars, key: name})); err != nil {
			return err
		}
	}
	return nil
}
