package variable

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/randalmurphal/databind/pkg/databind/expr"
)

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// number extracts a numeric value, rejecting strings that do not parse.
func number(v expr.Value) (float64, bool) {
	switch val := expr.Normalize(v).(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case bool:
		return expr.ToFloat64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Exclusive float64 upper bounds of int64 and uint64.
const (
	twoTo63 = 1 << 63
	twoTo64 = 1 << 64
)

// assign stores v into dst, converting between the engine's value set and
// dst's Go type. Fractional values stored into integers are truncated.
func assign(dst reflect.Value, v expr.Value) error {
	if !dst.IsValid() {
		return ErrInvalidVariable
	}
	if !dst.CanSet() {
		return ErrReadOnly
	}

	switch dst.Kind() {
	case reflect.Bool:
		dst.SetBool(expr.IsTruthy(v))
	case reflect.String:
		dst.SetString(expr.ToString(v))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := number(v)
		// NaN fails both comparisons; the range is checked before converting.
		if !ok || !(f >= math.MinInt64 && f < twoTo63) || dst.OverflowInt(int64(f)) {
			return mismatch(dst, v)
		}
		dst.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f, ok := number(v)
		if !ok || !(f >= 0 && f < twoTo64) || dst.OverflowUint(uint64(f)) {
			return mismatch(dst, v)
		}
		dst.SetUint(uint64(f))
	case reflect.Float32, reflect.Float64:
		f, ok := number(v)
		if !ok || dst.OverflowFloat(f) {
			return mismatch(dst, v)
		}
		dst.SetFloat(f)
	default:
		rv := reflect.ValueOf(v)
		switch {
		case !rv.IsValid():
			dst.Set(reflect.Zero(dst.Type()))
		case rv.Type().AssignableTo(dst.Type()):
			dst.Set(rv)
		default:
			return mismatch(dst, v)
		}
	}
	return nil
}

func mismatch(dst reflect.Value, v expr.Value) error {
	return fmt.Errorf("%w: cannot store %T in %s", ErrTypeMismatch, v, dst.Type())
}
