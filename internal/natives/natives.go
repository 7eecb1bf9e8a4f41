// Package natives registers the interpreter's host-provided globals:
// a small set of callables with no Lox-level declaration, available
// in every script without an import mechanism.
package natives

import (
	"fmt"
	"time"

	"github.com/loxscript/lox/internal/interp"
)

// Define populates env with clock, len, and type. It is called once
// against the interpreter's globals before the first Interpret call.
func Define(env *interp.Environment) {
	env.Define("clock", interp.NewNative("clock", 0, clock))
	env.Define("len", interp.NewNative("len", 1, lenFn))
	env.Define("type", interp.NewNative("type", 1, typeFn))
}

func clock(_ *interp.Interpreter, _ []interp.Value) (interp.Value, error) {
	return interp.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

func lenFn(_ *interp.Interpreter, args []interp.Value) (interp.Value, error) {
	s, ok := args[0].(interp.String)
	if !ok {
		return nil, fmt.Errorf("len() expects a string argument")
	}
	return interp.Number(len(string(s))), nil
}

func typeFn(_ *interp.Interpreter, args []interp.Value) (interp.Value, error) {
	switch args[0].(type) {
	case interp.Nil:
		return interp.String("null"), nil
	case interp.Bool:
		return interp.String("boolean"), nil
	case interp.Number:
		return interp.String("number"), nil
	case interp.String:
		return interp.String("string"), nil
	case interp.Callable:
		return interp.String("function"), nil
	default:
		return interp.String("unknown"), nil
	}
}
