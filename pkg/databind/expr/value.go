package expr

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Value is a dynamically typed expression value.
//
// Values produced by the engine are always one of nil, bool, int64,
// float64 or string. Transform functions may return other types; they
// are passed through untouched and coerced on use.
type Value = any

// Normalize maps any Go scalar onto the canonical value set.
// Signed and unsigned integers become int64, floats become float64,
// and named types are reduced to their underlying kind.
func Normalize(v any) Value {
	switch val := v.(type) {
	case nil, bool, int64, float64, string:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	default:
		return v
	}
}

// IsString reports whether v is dynamically a string.
func IsString(v Value) bool {
	_, ok := Normalize(v).(string)
	return ok
}

// IsTruthy returns whether a value is truthy.
// nil is false, bools return their value, empty strings are false,
// zero numbers are false, everything else is true.
func IsTruthy(v Value) bool {
	switch val := Normalize(v).(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// ToFloat64 converts a value to float64 for arithmetic and comparison.
// Returns 0 for values that cannot be converted.
func ToFloat64(v Value) float64 {
	switch val := Normalize(v).(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ToString formats a value the way string concatenation sees it.
// Whole floats print without a fractional part.
func ToString(v Value) string {
	switch val := Normalize(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmtAny(val)
	}
}
