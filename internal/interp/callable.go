package interp

import "github.com/loxscript/lox/internal/ast"

// Callable is implemented by every value that can appear on the left
// of a Call expression: native host functions and user-declared
// functions alike.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// Function is a user-declared callable: its declaration plus the
// environment captured at declaration time (its closure).
type Function struct {
	declaration *ast.Function
	closure     *Environment
}

// NewFunction builds a Function closing over env.
func NewFunction(decl *ast.Function, env *Environment) *Function {
	return &Function{declaration: decl, closure: env}
}

func (f *Function) String() string {
	return "<User Fn - " + f.declaration.Name.Lexeme + ">"
}

// Arity is the fixed parameter count.
func (f *Function) Arity() int {
	return len(f.declaration.Params)
}

// Call creates a fresh child of the closure, binds parameters, and
// executes the body; a signalReturn produced anywhere inside unwinds
// back here regardless of nesting depth.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	sig, err := in.execBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if sig.kind == signalReturn {
		return sig.value, nil
	}
	return Nil{}, nil
}

// Native is a host-provided callable with a fixed arity.
type Native struct {
	name string
	arity int
	fn    func(in *Interpreter, args []Value) (Value, error)
}

// NewNative builds a Native callable registered under name.
func NewNative(name string, arity int, fn func(in *Interpreter, args []Value) (Value, error)) *Native {
	return &Native{name: name, arity: arity, fn: fn}
}

func (n *Native) String() string   { return "<native fn " + n.name + ">" }
func (n *Native) Arity() int       { return n.arity }
func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}
