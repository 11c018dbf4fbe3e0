package databind

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

// builtinTransforms are registered on every model unless disabled.
var builtinTransforms = map[string]TransformFunc{
	"to_lower": toLower,
	"to_upper": toUpper,
	"round":    round,
	"format":   format,
}

func argCount(name string, args []Value, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		if lo == hi {
			return fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, name, lo, len(args))
		}
		return fmt.Errorf("%w: %s takes %d to %d, got %d", ErrArgumentCount, name, lo, hi, len(args))
	}
	return nil
}

func toLower(input Value, args []Value) (Value, error) {
	if err := argCount("to_lower", args, 0, 0); err != nil {
		return nil, err
	}
	return strings.ToLower(expr.ToString(input)), nil
}

func toUpper(input Value, args []Value) (Value, error) {
	if err := argCount("to_upper", args, 0, 0); err != nil {
		return nil, err
	}
	return strings.ToUpper(expr.ToString(input)), nil
}

func round(input Value, args []Value) (Value, error) {
	if err := argCount("round", args, 0, 0); err != nil {
		return nil, err
	}
	return math.Round(expr.ToFloat64(input)), nil
}

// format renders the input with a fixed number of decimals:
// "x | format(2)" or "x | format(2, true)" to drop trailing zeros.
func format(input Value, args []Value) (Value, error) {
	if err := argCount("format", args, 1, 2); err != nil {
		return nil, err
	}
	precision := max(int(expr.ToFloat64(args[0])), 0)
	s := strconv.FormatFloat(expr.ToFloat64(input), 'f', precision, 64)
	if len(args) == 2 && expr.IsTruthy(args[1]) && strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s, nil
}
