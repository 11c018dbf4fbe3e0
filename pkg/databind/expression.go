package databind

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
	"github.com/randalmurphal/databind/pkg/databind/observability"
)

// Expression is a compiled program bound to the model it was compiled
// against. It can be evaluated any number of times.
type Expression struct {
	model     *Model
	text      string
	program   expr.Program
	addresses expr.AddressList
}

// Compile compiles a value expression such as "data.magic[3] * 2".
// Every referenced root must already be bound, except "ev".
func (m *Model) Compile(text string) (*Expression, error) {
	return m.compile(text, expr.Compile)
}

// CompileAssignment compiles a ';'-separated list of assignments and event
// calls, such as "count = count + 1; notify(count)".
func (m *Model) CompileAssignment(text string) (*Expression, error) {
	return m.compile(text, expr.CompileAssignment)
}

// MustCompile is Compile that panics on error, for expressions fixed at
// build time.
func (m *Model) MustCompile(text string) *Expression {
	e, err := m.Compile(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (m *Model) compile(text string, fn func(string, expr.AddressResolver) (expr.Program, expr.AddressList, error)) (*Expression, error) {
	program, addresses, err := fn(text, m.resolveBound)
	m.metrics.RecordCompile(context.Background(), m.id, err)
	if err != nil {
		observability.LogCompileError(m.logger, text, err)
		return nil, err
	}
	return &Expression{model: m, text: text, program: program, addresses: addresses}, nil
}

// resolveBound parses variable text and checks its root is known.
func (m *Model) resolveBound(text string) (address.Address, error) {
	addr, err := expr.ParseOnly(text)
	if err != nil {
		return nil, err
	}
	root := addr.Root()
	if root != EventRoot && !m.IsBound(root) {
		return nil, fmt.Errorf("variable %q not bound", root)
	}
	return addr, nil
}

// Text returns the source text.
func (e *Expression) Text() string { return e.text }

// Program returns the compiled instructions.
func (e *Expression) Program() expr.Program { return e.program }

// Addresses returns the variable table indexed by Variable and Assign
// instructions.
func (e *Expression) Addresses() expr.AddressList { return e.addresses }

// Dependencies returns the distinct bound roots the expression reads or
// writes, sorted. The event root is excluded.
func (e *Expression) Dependencies() []string {
	var roots []string
	for _, addr := range e.addresses {
		root := addr.Root()
		if root == EventRoot || slices.Contains(roots, root) {
			continue
		}
		roots = append(roots, root)
	}
	slices.Sort(roots)
	return roots
}

// String returns the source text followed by the disassembled program.
func (e *Expression) String() string {
	return e.text + "\n" + e.program.String()
}

// Evaluate runs the expression with no event payload.
func (e *Expression) Evaluate() (Value, error) {
	return e.EvaluateContext(context.Background(), nil)
}

// EvaluateContext runs the expression with ev available under the "ev"
// root. ctx carries tracing and metrics context only; evaluation is not
// cancellable.
func (e *Expression) EvaluateContext(ctx context.Context, ev Event) (Value, error) {
	m := e.model
	start := time.Now()
	ctx, span := m.spans.StartEvalSpan(ctx, m.id, e.text)

	env := &environment{model: m, event: ev}
	v, err := expr.Run(e.program, e.addresses, env, expr.WithMaxStackDepth(m.maxStackDepth))

	m.spans.EndSpanWithError(span, err)
	m.metrics.RecordEvaluation(ctx, m.id, time.Since(start), err)
	if err != nil {
		observability.LogRuntimeError(m.logger, e.text, err)
		return nil, err
	}
	return v, nil
}

// environment adapts a Model to expr.Environment for one run.
type environment struct {
	model *Model
	event Event
}

func (env *environment) GetValue(addr address.Address) Value {
	if addr.Root() == EventRoot {
		return env.eventValue(addr)
	}
	// Failures are logged by the model and read as nil.
	v, _ := env.model.get(addr, addr.String())
	return v
}

func (env *environment) eventValue(addr address.Address) Value {
	if len(addr) != 2 || addr[1].IsIndex() {
		observability.LogResolveWarning(env.model.logger, addr.String(), ErrMemberNotFound)
		return nil
	}
	return expr.Normalize(env.event[addr[1].Name])
}

func (env *environment) SetValue(addr address.Address, v Value) error {
	if addr.Root() == EventRoot {
		return &ResolutionError{Address: addr.String(), Op: "set", Err: ErrReadOnly}
	}
	return env.model.set(addr, addr.String(), v)
}

func (env *environment) Transform(name string, input Value, args []Value) (Value, error) {
	fn, ok := env.model.transforms.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransform, name)
	}
	return fn(input, args)
}

func (env *environment) Event(name string, args []Value) error {
	fn, ok := env.model.events.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, name)
	}
	return fn(env.event, args)
}
