package databind

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/google/uuid"

	"github.com/randalmurphal/databind/pkg/databind/address"
	"github.com/randalmurphal/databind/pkg/databind/expr"
	"github.com/randalmurphal/databind/pkg/databind/observability"
	"github.com/randalmurphal/databind/pkg/databind/registry"
	"github.com/randalmurphal/databind/pkg/databind/variable"
)

// EventRoot is the reserved root name that reads the event payload.
const EventRoot = "ev"

// Value is a normalized expression value: nil, bool, int64, float64 or string.
type Value = expr.Value

// TransformFunc is a named function reachable through the pipe syntax.
type TransformFunc = expr.TransformFunc

// Event is the payload available to expressions under the "ev" root.
type Event map[string]Value

// EventCallback handles a named call in an assignment expression, such as
// "submit(name)". ev is the payload the expression was evaluated with.
type EventCallback func(ev Event, args []Value) error

// Model owns root bindings, transforms, event callbacks and the dirty set
// for one logical scope.
//
// A Model is not safe for concurrent use. Bound memory must outlive the
// model and must not move while bound.
type Model struct {
	id            string
	logger        *slog.Logger
	level         *slog.Level
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
	types         *variable.Types
	builtins      bool
	disabled      []string
	maxStackDepth int

	bindings    map[string]variable.Variable
	dirty       map[string]struct{}
	transforms  *registry.Registry[string, TransformFunc]
	events      *registry.Registry[string, EventCallback]
	subscribers []func(dirty []string)
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		id:            uuid.New().String(),
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
		builtins:      true,
		maxStackDepth: expr.DefaultMaxStackDepth,
		bindings:      make(map[string]variable.Variable),
		dirty:         make(map[string]struct{}),
		transforms:    registry.New[string, TransformFunc](),
		events:        registry.New[string, EventCallback](),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = defaultLogger(m.level)
	}
	m.logger = observability.EnrichLogger(m.logger, m.id)
	if m.types == nil {
		m.types = variable.NewTypes()
	}
	if m.builtins {
		for name, fn := range builtinTransforms {
			if slices.Contains(m.disabled, name) {
				continue
			}
			// Fresh registry, names are unique.
			_ = m.transforms.Add(name, fn)
		}
	}
	return m
}

// ID returns the model's unique identifier, used in logs and metrics.
func (m *Model) ID() string { return m.id }

// Logger returns the model's enriched logger.
func (m *Model) Logger() *slog.Logger { return m.logger }

// Types returns the type registry used by Bind.
// Register struct types here before binding them:
//
//	h, _ := variable.RegisterStruct[Invader](model.Types())
//	variable.Member(h, "name", func(i *Invader) *string { return &i.Name })
func (m *Model) Types() *variable.Types { return m.types }

// Bind attaches the value ptr points to under name. The definition is
// derived from the pointee type through Types.
func (m *Model) Bind(name string, ptr any) error {
	return m.bindPointer(name, ptr, nil)
}

// BindScalar is Bind restricted to bool, integer, float and string pointees.
func (m *Model) BindScalar(name string, ptr any) error {
	return m.bindPointer(name, ptr, []variable.Kind{variable.KindScalar})
}

// BindStruct is Bind restricted to registered struct pointees.
func (m *Model) BindStruct(name string, ptr any) error {
	return m.bindPointer(name, ptr, []variable.Kind{variable.KindStruct})
}

// BindArray is Bind restricted to slice and array pointees.
func (m *Model) BindArray(name string, ptr any) error {
	return m.bindPointer(name, ptr, []variable.Kind{variable.KindArray})
}

// BindPointer is Bind restricted to pointer pointees, so ptr is a **T.
// The inner pointer is followed on every access and may change or be nil.
func (m *Model) BindPointer(name string, ptr any) error {
	return m.bindPointer(name, ptr, []variable.Kind{variable.KindPointer})
}

// BindFunc attaches a getter/setter pair built with variable.NewFunc.
func (m *Model) BindFunc(name string, def *variable.FuncDefinition) error {
	if def == nil {
		return m.bindFailed(name, fmt.Errorf("%w: %s: nil definition", ErrInvalidBinding, name))
	}
	return m.BindVariable(name, variable.New(def, reflect.Value{}))
}

// BindVariable attaches an already built variable under name.
func (m *Model) BindVariable(name string, v variable.Variable) error {
	if err := m.checkName(name); err != nil {
		return m.bindFailed(name, err)
	}
	if !v.Valid() {
		return m.bindFailed(name, fmt.Errorf("%w: %s: invalid variable", ErrInvalidBinding, name))
	}
	m.bindings[name] = v
	observability.LogBind(m.logger, name, v.Kind().String())
	return nil
}

func (m *Model) bindPointer(name string, ptr any, kinds []variable.Kind) error {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return m.bindFailed(name, fmt.Errorf("%w: %s: expected non-nil pointer, got %T", ErrInvalidBinding, name, ptr))
	}
	loc := rv.Elem()
	def, err := m.types.Resolve(loc.Type())
	if err != nil {
		return m.bindFailed(name, fmt.Errorf("bind %s: %w", name, err))
	}
	if kinds != nil && !slices.Contains(kinds, def.Kind()) {
		return m.bindFailed(name, fmt.Errorf("%w: %s: %s is a %s", ErrInvalidBinding, name, loc.Type(), def.Kind()))
	}
	return m.BindVariable(name, variable.New(def, loc))
}

func (m *Model) bindFailed(name string, err error) error {
	observability.LogBindError(m.logger, name, err)
	return err
}

func (m *Model) checkName(name string) error {
	addr := address.Parse(name)
	if len(addr) != 1 || addr[0].IsIndex() {
		return fmt.Errorf("%w: %q is not an identifier", ErrInvalidBinding, name)
	}
	if name == EventRoot {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidBinding, name)
	}
	if _, ok := m.bindings[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyBound, name)
	}
	return nil
}

// IsBound reports whether name has a root binding.
func (m *Model) IsBound(name string) bool {
	_, ok := m.bindings[name]
	return ok
}

// Bindings returns the bound root names in sorted order.
func (m *Model) Bindings() []string {
	names := make([]string, 0, len(m.bindings))
	for name := range m.bindings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve parses text into an Address. Malformed text yields nil.
func (m *Model) Resolve(text string) address.Address {
	return address.Parse(text)
}

// GetVariable walks addr from its root binding. Failures are logged as
// warnings and returned as *ResolutionError.
func (m *Model) GetVariable(addr address.Address) (variable.Variable, error) {
	v, err := m.walk(addr)
	if err != nil {
		observability.LogResolveWarning(m.logger, addr.String(), err)
		return variable.Variable{}, err
	}
	return v, nil
}

func (m *Model) walk(addr address.Address) (variable.Variable, error) {
	if !addr.Valid() {
		return variable.Variable{}, &ResolutionError{Address: addr.String(), Op: "resolve", Err: ErrInvalidAddress}
	}
	root, ok := m.bindings[addr.Root()]
	if !ok {
		return variable.Variable{}, &ResolutionError{Address: addr.String(), Op: "resolve", Err: ErrNotBound}
	}
	v, err := root.Walk(addr[1:])
	if err != nil {
		return variable.Variable{}, &ResolutionError{Address: addr.String(), Op: "resolve", Err: err}
	}
	return v, nil
}

// GetValue reads the variable at the textual address.
func (m *Model) GetValue(text string) (Value, error) {
	return m.get(m.Resolve(text), text)
}

func (m *Model) get(addr address.Address, text string) (Value, error) {
	v, err := m.GetVariable(addr)
	if err != nil {
		return nil, err
	}
	val, err := v.Get()
	if err != nil {
		err = &ResolutionError{Address: text, Op: "get", Err: err}
		observability.LogResolveWarning(m.logger, text, err)
		return nil, err
	}
	return val, nil
}

// SetValue writes val to the variable at the textual address and marks its
// root dirty.
func (m *Model) SetValue(text string, val Value) error {
	return m.set(m.Resolve(text), text, val)
}

func (m *Model) set(addr address.Address, text string, val Value) error {
	v, err := m.GetVariable(addr)
	if err != nil {
		return err
	}
	if err := v.Set(val); err != nil {
		err = &ResolutionError{Address: text, Op: "set", Err: err}
		observability.LogResolveWarning(m.logger, text, err)
		return err
	}
	m.dirty[addr.Root()] = struct{}{}
	return nil
}

// DirtyVariable marks the bound root name as changed.
func (m *Model) DirtyVariable(name string) error {
	if _, ok := m.bindings[name]; !ok {
		err := &ResolutionError{Address: name, Op: "dirty", Err: ErrNotBound}
		observability.LogResolveWarning(m.logger, name, err)
		return err
	}
	m.dirty[name] = struct{}{}
	return nil
}

// DirtyAll marks every bound root as changed.
func (m *Model) DirtyAll() {
	for name := range m.bindings {
		m.dirty[name] = struct{}{}
	}
}

// IsDirty reports whether name has been marked since the last clear.
func (m *Model) IsDirty(name string) bool {
	_, ok := m.dirty[name]
	return ok
}

// DirtyVariables returns the dirty root names in sorted order.
func (m *Model) DirtyVariables() []string {
	names := make([]string, 0, len(m.dirty))
	for name := range m.dirty {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ClearDirty empties the dirty set.
func (m *Model) ClearDirty() {
	clear(m.dirty)
}

// Subscribe registers fn to be called by Update with the dirty names.
// Subscribers run in registration order.
func (m *Model) Subscribe(fn func(dirty []string)) {
	if fn != nil {
		m.subscribers = append(m.subscribers, fn)
	}
}

// Update hands the current dirty set to every subscriber, then clears it.
// Subscribers may still query IsDirty. Roots first dirtied by a subscriber
// during Update are kept for the next pass.
func (m *Model) Update(ctx context.Context) {
	done := observability.TimedOperation()
	dirty := m.DirtyVariables()
	ctx, span := m.spans.StartUpdateSpan(ctx, m.id, dirty)
	if len(dirty) > 0 {
		for _, fn := range m.subscribers {
			fn(dirty)
		}
	}
	for _, name := range dirty {
		delete(m.dirty, name)
	}
	m.spans.EndSpanWithError(span, nil)
	m.metrics.RecordUpdate(ctx, m.id, len(dirty))
	observability.LogUpdate(m.logger, dirty, done())
}

// RegisterTransform makes fn callable as "value | name(args)".
func (m *Model) RegisterTransform(name string, fn TransformFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: transform %s: nil function", ErrInvalidBinding, name)
	}
	if err := m.transforms.Add(name, fn); err != nil {
		return fmt.Errorf("transform %s: %w", name, err)
	}
	return nil
}

// RegisterEventCallback makes fn callable as "name(args)" in assignment
// expressions.
func (m *Model) RegisterEventCallback(name string, fn EventCallback) error {
	if fn == nil {
		return fmt.Errorf("%w: event callback %s: nil function", ErrInvalidBinding, name)
	}
	if err := m.events.Add(name, fn); err != nil {
		return fmt.Errorf("event callback %s: %w", name, err)
	}
	return nil
}

// Transforms returns the registered transform names in sorted order.
func (m *Model) Transforms() []string {
	return registry.SortedKeys(m.transforms)
}
