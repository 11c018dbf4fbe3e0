package expr

import (
	"fmt"

	"github.com/randalmurphal/databind/pkg/databind/address"
)

// Environment is what a Program runs against: variable lookup, transform
// and event callback dispatch.
type Environment interface {
	// GetValue returns the value at addr. Unresolvable addresses yield nil.
	GetValue(addr address.Address) Value

	// SetValue writes v to the variable at addr.
	SetValue(addr address.Address, v Value) error

	// Transform applies the named transform to the piped input.
	// Unknown names return an error wrapping ErrUnknownTransform.
	Transform(name string, input Value, args []Value) (Value, error)

	// Event invokes the named event callback.
	// Unknown names return an error wrapping ErrUnknownEvent.
	Event(name string, args []Value) error
}

// machine is the register/stack state of one Run.
type machine struct {
	r, l, c Value
	stack   []Value
	args    []Value
	limit   int
}

func (m *machine) push(v Value) error {
	if len(m.stack) >= m.limit {
		return ErrStackOverflow
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *machine) pop() (Value, error) {
	n := len(m.stack)
	if n == 0 {
		return nil, ErrStackUnderflow
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, nil
}

// Run executes program against env and returns the final value of R.
//
// Execution is a single linear pass; there are no jumps. Both branches of a
// ternary are evaluated and OpTernary selects between them. A failing
// instruction aborts the run with a *RuntimeError.
func Run(program Program, addresses AddressList, env Environment, opts ...RunOption) (Value, error) {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &machine{limit: cfg.maxStackDepth}
	for i, in := range program {
		if err := m.step(in, addresses, env); err != nil {
			return nil, &RuntimeError{Op: in.Op, Index: i, Err: err}
		}
	}
	return m.r, nil
}

func (m *machine) step(in Instruction, addresses AddressList, env Environment) error {
	switch in.Op {
	case OpPush:
		return m.push(m.r)
	case OpPop:
		v, err := m.pop()
		if err != nil {
			return err
		}
		reg, ok := in.Data.(Register)
		if !ok {
			return fmt.Errorf("%w: pop target %v", ErrInvalidInstruction, in.Data)
		}
		switch reg {
		case RegR:
			m.r = v
		case RegL:
			m.l = v
		case RegC:
			m.c = v
		default:
			return fmt.Errorf("%w: pop target %v", ErrInvalidInstruction, reg)
		}
	case OpLiteral:
		m.r = in.Data
	case OpVariable:
		addr, err := addressAt(in, addresses)
		if err != nil {
			return err
		}
		m.r = env.GetValue(addr)
	case OpAdd:
		m.r = Add(m.l, m.r)
	case OpSubtract:
		m.r = Subtract(m.l, m.r)
	case OpMultiply:
		m.r = Multiply(m.l, m.r)
	case OpDivide:
		m.r = Divide(m.l, m.r)
	case OpNot:
		m.r = !IsTruthy(m.r)
	case OpAnd:
		m.r = IsTruthy(m.l) && IsTruthy(m.r)
	case OpOr:
		m.r = IsTruthy(m.l) || IsTruthy(m.r)
	case OpLess:
		m.r = Less(m.l, m.r)
	case OpLessEq:
		m.r = LessEqual(m.l, m.r)
	case OpGreater:
		m.r = Greater(m.l, m.r)
	case OpGreaterEq:
		m.r = GreaterEqual(m.l, m.r)
	case OpEqual:
		m.r = Equal(m.l, m.r)
	case OpNotEqual:
		m.r = !Equal(m.l, m.r)
	case OpTernary:
		if !IsTruthy(m.l) {
			return nil
		}
		m.r = m.c
	case OpArguments:
		n, ok := in.Data.(int)
		if !ok || n < 0 {
			return fmt.Errorf("%w: argument count %v", ErrInvalidInstruction, in.Data)
		}
		if n > len(m.stack) {
			return ErrStackUnderflow
		}
		split := len(m.stack) - n
		m.args = append(m.args[:0], m.stack[split:]...)
		m.stack = m.stack[:split]
	case OpTransform:
		name, ok := in.Data.(string)
		if !ok {
			return fmt.Errorf("%w: transform name %v", ErrInvalidInstruction, in.Data)
		}
		args := m.takeArgs()
		v, err := env.Transform(name, m.r, args)
		if err != nil {
			return err
		}
		m.r = v
	case OpAssign:
		addr, err := addressAt(in, addresses)
		if err != nil {
			return err
		}
		return env.SetValue(addr, m.r)
	case OpEventFnc:
		name, ok := in.Data.(string)
		if !ok {
			return fmt.Errorf("%w: event name %v", ErrInvalidInstruction, in.Data)
		}
		return env.Event(name, m.takeArgs())
	default:
		return fmt.Errorf("%w: %s", ErrInvalidInstruction, in.Op)
	}
	return nil
}

// takeArgs hands over the argument buffer and clears it.
func (m *machine) takeArgs() []Value {
	args := m.args
	m.args = nil
	return args
}

func addressAt(in Instruction, addresses AddressList) (address.Address, error) {
	i, ok := in.Data.(int)
	if !ok || i < 0 || i >= len(addresses) {
		return nil, fmt.Errorf("%w: address index %v", ErrInvalidInstruction, in.Data)
	}
	return addresses[i], nil
}
