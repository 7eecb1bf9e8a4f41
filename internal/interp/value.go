package interp

import (
	"strconv"
	"strings"
)

// Value is the runtime Value sum type: Nil, Bool, Number, String, or
// Callable all implement it.
type Value interface {
	String() string
}

// Nil is the singleton `null` value.
type Nil struct{}

func (Nil) String() string { return "null" }

// Bool wraps a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps an IEEE-754 double.
type Number float64

func (n Number) String() string {
	text := strconv.FormatFloat(float64(n), 'f', -1, 64)
	return strings.TrimSuffix(text, ".0")
}

// String wraps a string value.
type String string

func (s String) String() string { return string(s) }

// IsTruthy: only null and false are falsy; 0 and "" are truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// IsEqual implements `is_equal`: null equals only null, otherwise host
// equality with no cross-type coercion.
func IsEqual(a, b Value) bool {
	_, aNil := a.(Nil)
	_, bNil := b.(Nil)
	if aNil && bNil {
		return true
	}
	if aNil || bNil {
		return false
	}

	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify formats v for `echo` and REPL auto-print output.
func Stringify(v Value) string {
	return v.String()
}
