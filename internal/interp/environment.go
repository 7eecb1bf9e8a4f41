package interp

import (
	"errors"
	"fmt"
)

// ErrConstReassign and ErrUndefinedVariable are the sentinel causes
// wrapped by Assign and AssignAt. interpreter.go's evalAssign turns
// any error they return into a runtime error at the assigned name's
// token; variable reads report undefined names on their own.
var (
	ErrConstReassign     = errors.New("cannot reassign const variable")
	ErrUndefinedVariable = errors.New("undefined variable")
)

// Environment is a node in a singly-linked chain of scope frames. Block
// entry and function calls each create a fresh child; the chain's root
// is the interpreter's single globals environment.
type Environment struct {
	parent *Environment
	values map[string]Value
	consts map[string]bool
}

// NewEnvironment creates a child of parent (nil for the globals
// environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
		consts: make(map[string]bool),
	}
}

// Define creates or overwrites a binding in the current node.
func (e *Environment) Define(name string, v Value) {
	e.values[name] = v
}

// DefineConst creates or overwrites a binding in the current node and
// marks it immutable.
func (e *Environment) DefineConst(name string, v Value) {
	e.values[name] = v
	e.consts[name] = true
}

// Get walks the chain looking for name, starting at e.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign walks the chain looking for an existing binding and writes
// through it. It fails if no binding exists anywhere in the chain, or
// if the found binding is const.
func (e *Environment) Assign(name string, v Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			if env.consts[name] {
				return fmt.Errorf("%w '%s'", ErrConstReassign, name)
			}
			env.values[name] = v
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// GetAt skips exactly distance parent links and reads name directly
// from that node, with no further chain search.
func (e *Environment) GetAt(distance int, name string) Value {
	env := e.ancestor(distance)
	return env.values[name]
}

// AssignAt skips exactly distance parent links and writes name
// directly into that node.
func (e *Environment) AssignAt(distance int, name string, v Value) error {
	env := e.ancestor(distance)
	if env.consts[name] {
		return fmt.Errorf("%w '%s'", ErrConstReassign, name)
	}
	env.values[name] = v
	return nil
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}
