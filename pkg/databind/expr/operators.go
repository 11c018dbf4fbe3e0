package expr

import "fmt"

// Add adds two values. If either operand is a string the result is the
// concatenation of both operands' string forms.
func Add(left, right Value) Value {
	if IsString(left) || IsString(right) {
		return ToString(left) + ToString(right)
	}
	return ToFloat64(left) + ToFloat64(right)
}

// Subtract returns left - right using numeric coercion.
func Subtract(left, right Value) Value {
	return ToFloat64(left) - ToFloat64(right)
}

// Multiply returns left * right using numeric coercion.
func Multiply(left, right Value) Value {
	return ToFloat64(left) * ToFloat64(right)
}

// Divide returns left / right using numeric coercion.
// Division by zero follows IEEE-754 and yields ±Inf or NaN.
func Divide(left, right Value) Value {
	return ToFloat64(left) / ToFloat64(right)
}

// Equal compares as strings if either operand is a string, else numerically.
func Equal(left, right Value) bool {
	if IsString(left) || IsString(right) {
		return ToString(left) == ToString(right)
	}
	return ToFloat64(left) == ToFloat64(right)
}

// Less compares numerically, even when an operand is a string.
func Less(left, right Value) bool {
	return ToFloat64(left) < ToFloat64(right)
}

// LessEqual compares numerically, even when an operand is a string.
func LessEqual(left, right Value) bool {
	return ToFloat64(left) <= ToFloat64(right)
}

// Greater compares numerically, even when an operand is a string.
func Greater(left, right Value) bool {
	return ToFloat64(left) > ToFloat64(right)
}

// GreaterEqual compares numerically, even when an operand is a string.
func GreaterEqual(left, right Value) bool {
	return ToFloat64(left) >= ToFloat64(right)
}

func fmtAny(v any) string {
	return fmt.Sprintf("%v", v)
}
