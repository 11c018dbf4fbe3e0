package expr

import (
	"fmt"

	"github.com/randalmurphal/databind/pkg/databind/address"
)

// TransformFunc is a named function reachable through the pipe syntax.
//
// For "value | name(a, b)" input is the piped value and args is [a, b].
// The piped value is never prepended to args.
type TransformFunc func(input Value, args []Value) (Value, error)

// Evaluator evaluates expressions against plain Go maps, for callers that
// have no data model: tests, configuration rules, one-off conditions.
type Evaluator struct {
	transforms map[string]TransformFunc
	runOpts    []RunOption
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTransform registers a transform function.
func WithTransform(name string, fn TransformFunc) Option {
	return func(e *Evaluator) {
		if e.transforms == nil {
			e.transforms = make(map[string]TransformFunc)
		}
		e.transforms[name] = fn
	}
}

// WithRunOptions forwards options to every Run.
func WithRunOptions(opts ...RunOption) Option {
	return func(e *Evaluator) {
		e.runOpts = append(e.runOpts, opts...)
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate compiles and runs text against vars.
func (e *Evaluator) Evaluate(text string, vars map[string]any) (Value, error) {
	program, addresses, err := Compile(text, nil)
	if err != nil {
		return nil, err
	}
	return Run(program, addresses, &mapEnvironment{vars: vars, transforms: e.transforms}, e.runOpts...)
}

// Eval is a convenience function that evaluates an expression using
// the default evaluator (no transforms).
func Eval(text string, vars map[string]any) (Value, error) {
	return New().Evaluate(text, vars)
}

// mapEnvironment resolves addresses through nested map[string]any and
// []any values.
type mapEnvironment struct {
	vars       map[string]any
	transforms map[string]TransformFunc
}

func (m *mapEnvironment) GetValue(addr address.Address) Value {
	var cur any = m.vars
	for _, e := range addr {
		switch node := cur.(type) {
		case map[string]any:
			if e.IsIndex() {
				return nil
			}
			cur = node[e.Name]
		case []any:
			switch {
			case !e.IsIndex() && e.Name == "size":
				cur = int64(len(node))
			case e.IsIndex() && e.Index < len(node):
				cur = node[e.Index]
			default:
				return nil
			}
		default:
			return nil
		}
	}
	return Normalize(cur)
}

func (m *mapEnvironment) SetValue(addr address.Address, v Value) error {
	if len(addr) != 1 {
		return fmt.Errorf("cannot assign to %s: only top-level keys are writable", addr)
	}
	if m.vars == nil {
		return fmt.Errorf("cannot assign to %s: no variables", addr)
	}
	m.vars[addr.Root()] = v
	return nil
}

func (m *mapEnvironment) Transform(name string, input Value, args []Value) (Value, error) {
	fn, ok := m.transforms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransform, name)
	}
	return fn(input, args)
}

func (m *mapEnvironment) Event(name string, _ []Value) error {
	return fmt.Errorf("%w: %s", ErrUnknownEvent, name)
}
