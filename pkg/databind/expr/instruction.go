package expr

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/databind/pkg/databind/address"
)

// Opcode identifies a VM instruction.
type Opcode uint8

const (
	OpPush      Opcode = iota // S+ := R
	OpPop                     // <Register> := S-
	OpLiteral                 // R := Data
	OpVariable                // R := value of addresses[Data]
	OpAdd                     // R := L + R
	OpSubtract                // R := L - R
	OpMultiply                // R := L * R
	OpDivide                  // R := L / R
	OpNot                     // R := !R
	OpAnd                     // R := L && R
	OpOr                      // R := L || R
	OpLess                    // R := L < R
	OpLessEq                  // R := L <= R
	OpGreater                 // R := L > R
	OpGreaterEq               // R := L >= R
	OpEqual                   // R := L == R
	OpNotEqual                // R := L != R
	OpTernary                 // R := L ? C : R
	OpArguments               // A := pop Data values
	OpTransform               // R := transform[Data](R, A)
	OpAssign                  // variable at addresses[Data] := R
	OpEventFnc                // event[Data](A)
)

var opcodeNames = map[Opcode]string{
	OpPush:      "Push",
	OpPop:       "Pop",
	OpLiteral:   "Literal",
	OpVariable:  "Variable",
	OpAdd:       "Add",
	OpSubtract:  "Subtract",
	OpMultiply:  "Multiply",
	OpDivide:    "Divide",
	OpNot:       "Not",
	OpAnd:       "And",
	OpOr:        "Or",
	OpLess:      "Less",
	OpLessEq:    "LessEq",
	OpGreater:   "Greater",
	OpGreaterEq: "GreaterEq",
	OpEqual:     "Equal",
	OpNotEqual:  "NotEqual",
	OpTernary:   "Ternary",
	OpArguments: "Arguments",
	OpTransform: "Transform",
	OpAssign:    "Assign",
	OpEventFnc:  "EventFnc",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", int(op))
}

// Register names the VM registers a Pop may target.
type Register uint8

const (
	RegR Register = iota // primary result
	RegL                 // left operand of a binary operator
	RegC                 // centre branch of a ternary
)

func (r Register) String() string {
	switch r {
	case RegR:
		return "R"
	case RegL:
		return "L"
	case RegC:
		return "C"
	default:
		return fmt.Sprintf("reg(%d)", int(r))
	}
}

// Instruction is one opcode plus its payload.
// Data holds a literal Value, an address index (int), a register,
// an argument count (int) or a function name (string) depending on Op.
type Instruction struct {
	Op   Opcode
	Data Value
}

func (in Instruction) String() string {
	switch in.Op {
	case OpLiteral:
		if s, ok := in.Data.(string); ok {
			return fmt.Sprintf("%s %q", in.Op, s)
		}
		return fmt.Sprintf("%s %v", in.Op, in.Data)
	case OpPop, OpVariable, OpArguments, OpTransform, OpAssign, OpEventFnc:
		return fmt.Sprintf("%s %v", in.Op, in.Data)
	default:
		return in.Op.String()
	}
}

// Program is a compiled, immutable instruction sequence.
type Program []Instruction

// String disassembles the program, one instruction per line.
func (p Program) String() string {
	var b strings.Builder
	for i, in := range p {
		fmt.Fprintf(&b, "%3d  %s\n", i, in)
	}
	return b.String()
}

// AddressList holds the addresses referenced by a Program's Variable and
// Assign instructions, indexed by their payload.
type AddressList []address.Address
