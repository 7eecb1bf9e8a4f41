// Package interp implements the tree-walking evaluator: the
// Environment/closure model, the runtime Value sum type, and the
// Interpreter that walks an ast.Stmt list resolved by
// internal/resolver.
package interp

import (
	"fmt"
	"io"
	"math"

	"github.com/loxscript/lox/internal/ast"
	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/token"
)

// Mode selects REPL auto-print behavior for top-level expression
// statements.
type Mode int

const (
	File Mode = iota
	REPL
)

// Interpreter walks statements in source order, maintaining the
// current environment and the resolver's distance map.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[ast.Expr]int
	rep     *reporter.Reporter
	mode    Mode
	out     io.Writer
}

// New creates an Interpreter writing echo/REPL output to out and
// reporting runtime errors to rep.
func New(rep *reporter.Reporter, mode Mode, out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[ast.Expr]int),
		rep:     rep,
		mode:    mode,
		out:     out,
	}
}

// Globals returns the single globals environment, for native-function
// registration prior to Interpret.
func (in *Interpreter) Globals() *Environment { return in.globals }

// SetLocals installs the resolver's distance map.
func (in *Interpreter) SetLocals(locals map[ast.Expr]int) { in.locals = locals }

// SetMode switches REPL/File behavior, used by a REPL driver that
// reuses one Interpreter across lines.
func (in *Interpreter) SetMode(mode Mode) { in.mode = mode }

// Interpret runs stmts in order. A runtime error aborts the remaining
// top-level statements and is reported through rep; it never panics
// out to the caller.
func (in *Interpreter) Interpret(stmts []ast.Stmt) {
	for _, s := range stmts {
		var err error
		if in.mode == REPL {
			_, err = in.execREPL(s)
		} else {
			_, err = in.execStmt(s)
		}
		if err != nil {
			in.rep.Runtime(toRuntimeError(err))
			return
		}
	}
}

func toRuntimeError(err error) *reporter.RuntimeError {
	if rerr, ok := err.(*reporter.RuntimeError); ok {
		return rerr
	}
	return &reporter.RuntimeError{Message: err.Error()}
}

func (in *Interpreter) execREPL(s ast.Stmt) (signal, error) {
	exprStmt, ok := s.(*ast.Expression)
	if !ok {
		return in.execStmt(s)
	}

	val, err := in.evalExpr(exprStmt.Expression)
	if err != nil {
		return noSignal, err
	}

	if _, isAssign := exprStmt.Expression.(*ast.Assign); !isAssign {
		fmt.Fprintln(in.out, Stringify(val))
	}
	return noSignal, nil
}

// --------------- statements --------------- //

func (in *Interpreter) execStmt(s ast.Stmt) (signal, error) {
	switch n := s.(type) {
	case *ast.Block:
		return in.execBlock(n.Statements, NewEnvironment(in.env))
	case *ast.Break:
		return breakSignal(), nil
	case *ast.Continue:
		return continueSignal(), nil
	case *ast.Const:
		val, err := in.evalExpr(n.Initializer)
		if err != nil {
			return noSignal, err
		}
		in.env.DefineConst(n.Name.Lexeme, val)
		return noSignal, nil
	case *ast.Echo:
		val, err := in.evalExpr(n.Expression)
		if err != nil {
			return noSignal, err
		}
		fmt.Fprintln(in.out, Stringify(val))
		return noSignal, nil
	case *ast.Expression:
		_, err := in.evalExpr(n.Expression)
		return noSignal, err
	case *ast.For:
		return in.execFor(n)
	case *ast.Function:
		fn := NewFunction(n, in.env)
		in.env.DefineConst(n.Name.Lexeme, fn)
		return noSignal, nil
	case *ast.If:
		cond, err := in.evalExpr(n.Condition)
		if err != nil {
			return noSignal, err
		}
		if IsTruthy(cond) {
			return in.execStmt(n.ThenBranch)
		} else if n.ElseBranch != nil {
			return in.execStmt(n.ElseBranch)
		}
		return noSignal, nil
	case *ast.Return:
		var val Value = Nil{}
		if n.Value != nil {
			v, err := in.evalExpr(n.Value)
			if err != nil {
				return noSignal, err
			}
			val = v
		}
		return returnSignal(val), nil
	case *ast.Var:
		var val Value = Nil{}
		if n.Initializer != nil {
			v, err := in.evalExpr(n.Initializer)
			if err != nil {
				return noSignal, err
			}
			val = v
		}
		in.env.Define(n.Name.Lexeme, val)
		return noSignal, nil
	case *ast.While:
		return in.execWhile(n)
	}
	return noSignal, nil
}

// execBlock performs scoped acquisition of env: the previous
// environment is restored on every exit path, normal or via a
// non-local transfer.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) (signal, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		sig, err := in.execStmt(s)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != signalNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

func (in *Interpreter) execWhile(w *ast.While) (signal, error) {
	for {
		cond, err := in.evalExpr(w.Condition)
		if err != nil {
			return noSignal, err
		}
		if !IsTruthy(cond) {
			return noSignal, nil
		}

		sig, err := in.execStmt(w.Body)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case signalBreak:
			return noSignal, nil
		case signalReturn:
			return sig, nil
		}
	}
}

// execFor runs the C-style for loop, ensuring Increment still runs
// when the body signals Continue.
func (in *Interpreter) execFor(f *ast.For) (signal, error) {
	if f.Initializer != nil {
		if _, err := in.evalExpr(f.Initializer); err != nil {
			return noSignal, err
		}
	}

	for {
		cond, err := in.evalExpr(f.Condition)
		if err != nil {
			return noSignal, err
		}
		if !IsTruthy(cond) {
			return noSignal, nil
		}

		sig, err := in.execStmt(f.Body)
		if err != nil {
			return noSignal, err
		}
		if sig.kind == signalBreak {
			return noSignal, nil
		}
		if sig.kind == signalReturn {
			return sig, nil
		}

		if f.Increment != nil {
			if _, err := in.evalExpr(f.Increment); err != nil {
				return noSignal, err
			}
		}
	}
}

// --------------- expressions --------------- //

func (in *Interpreter) evalExpr(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.Assign:
		return in.evalAssign(n)
	case *ast.Binary:
		return in.evalBinary(n)
	case *ast.Call:
		return in.evalCall(n)
	case *ast.Conditional:
		cond, err := in.evalExpr(n.Condition)
		if err != nil {
			return nil, err
		}
		if IsTruthy(cond) {
			return in.evalExpr(n.ThenBranch)
		}
		return in.evalExpr(n.ElseBranch)
	case *ast.Grouping:
		return in.evalExpr(n.Expression)
	case *ast.Literal:
		return literalValue(n.Value), nil
	case *ast.Logical:
		return in.evalLogical(n)
	case *ast.Unary:
		return in.evalUnary(n)
	case *ast.Variable:
		return in.evalVariable(n)
	}
	return nil, fmt.Errorf("unreachable: unknown expression %T", e)
}

func literalValue(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool(val)
	case float64:
		return Number(val)
	case string:
		return String(val)
	default:
		return Nil{}
	}
}

func (in *Interpreter) evalLogical(n *ast.Logical) (Value, error) {
	left, err := in.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}

	if n.Operator.Kind == token.Or {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}

	return in.evalExpr(n.Right)
}

func (in *Interpreter) evalUnary(n *ast.Unary) (Value, error) {
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Kind {
	case token.Bang:
		return Bool(!IsTruthy(right)), nil
	case token.Minus:
		num, ok := right.(Number)
		if !ok {
			return nil, in.runtimeErr(n.Operator, "Operand must be a number.")
		}
		return -num, nil
	}
	return nil, fmt.Errorf("unreachable: unknown unary operator %s", n.Operator.Kind)
}

func (in *Interpreter) evalBinary(n *ast.Binary) (Value, error) {
	left, err := in.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Operator.Kind {
	case token.Plus:
		return in.evalPlus(n.Operator, left, right)
	case token.Minus:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.Star:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.StarStar:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Number(math.Pow(float64(l), float64(r))), nil
	case token.Slash:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, in.runtimeErr(n.Operator, "Cannot divide by Zero.")
		}
		return l / r, nil
	case token.Percent:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, in.runtimeErr(n.Operator, "Cannot divide by Zero.")
		}
		return Number(math.Mod(float64(l), float64(r))), nil
	case token.Greater:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l > r), nil
	case token.GreaterEqual:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l >= r), nil
	case token.Less:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l < r), nil
	case token.LessEqual:
		l, r, err := in.assertNumbers(n.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l <= r), nil
	case token.EqualEqual:
		return Bool(IsEqual(left, right)), nil
	case token.BangEqual:
		return Bool(!IsEqual(left, right)), nil
	}
	return nil, fmt.Errorf("unreachable: unknown binary operator %s", n.Operator.Kind)
}

func (in *Interpreter) evalPlus(op token.Token, left, right Value) (Value, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if lok && rok {
		return ln + rn, nil
	}

	ls, lsok := left.(String)
	rs, rsok := right.(String)
	if lsok && rsok {
		return ls + rs, nil
	}

	if lok && rsok {
		return String(ln.String() + string(rs)), nil
	}
	if lsok && rok {
		return String(string(ls) + rn.String()), nil
	}

	return nil, in.runtimeErr(op, "Operands must be two numbers or two strings.")
}

func (in *Interpreter) assertNumbers(op token.Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, in.runtimeErr(op, "Operands must be numbers.")
	}
	return l, r, nil
}

func (in *Interpreter) evalCall(n *ast.Call) (Value, error) {
	callee, err := in.evalExpr(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		v, err := in.evalExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, in.runtimeErr(n.Paren, "Only classes, functions or methods can be called.")
	}
	if len(args) != fn.Arity() {
		return nil, in.runtimeErr(n.Paren, fmt.Sprintf("Expected %d arguments but got %d instead.", fn.Arity(), len(args)))
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalVariable(n *ast.Variable) (Value, error) {
	if distance, ok := in.locals[n]; ok {
		return in.env.GetAt(distance, n.Name.Lexeme), nil
	}
	if v, ok := in.globals.Get(n.Name.Lexeme); ok {
		return v, nil
	}
	return nil, in.runtimeErr(n.Name, "Undefined variable '"+n.Name.Lexeme+"'.")
}

func (in *Interpreter) evalAssign(n *ast.Assign) (Value, error) {
	value, err := in.evalExpr(n.Value)
	if err != nil {
		return nil, err
	}

	if n.Operator.Kind == token.Equal {
		if err := in.write(n, value); err != nil {
			return nil, in.runtimeErr(n.Name, err.Error())
		}
		return value, nil
	}

	rhs, ok := value.(Number)
	if !ok {
		return nil, in.runtimeErr(n.Operator, "Cannot use augmented assignment on non-number values.")
	}

	current, err := in.readCurrent(n)
	if err != nil {
		return nil, err
	}
	currentNum, ok := current.(Number)
	if !ok {
		return nil, in.runtimeErr(n.Operator, "Cannot use augmented assignment on non-number values.")
	}

	var result Number
	switch n.Operator.Kind {
	case token.PlusEqual:
		result = currentNum + rhs
	case token.MinusEqual:
		result = currentNum - rhs
	case token.StarEqual:
		result = currentNum * rhs
	case token.SlashEqual:
		if rhs == 0 {
			return nil, in.runtimeErr(n.Operator, "Cannot divide by Zero.")
		}
		result = currentNum / rhs
	case token.PercentEqual:
		if rhs == 0 {
			return nil, in.runtimeErr(n.Operator, "Cannot divide by Zero.")
		}
		result = Number(math.Mod(float64(currentNum), float64(rhs)))
	default:
		return nil, fmt.Errorf("unreachable: unknown compound operator %s", n.Operator.Kind)
	}

	// The written value is the computed result, but the expression's
	// value is the RHS, not the new stored value.
	if err := in.write(n, result); err != nil {
		return nil, in.runtimeErr(n.Name, err.Error())
	}
	return value, nil
}

func (in *Interpreter) readCurrent(n *ast.Assign) (Value, error) {
	if distance, ok := in.locals[n]; ok {
		return in.env.GetAt(distance, n.Name.Lexeme), nil
	}
	if v, ok := in.globals.Get(n.Name.Lexeme); ok {
		return v, nil
	}
	return nil, in.runtimeErr(n.Name, "Undefined variable '"+n.Name.Lexeme+"'.")
}

func (in *Interpreter) write(n *ast.Assign, value Value) error {
	if distance, ok := in.locals[n]; ok {
		return in.env.AssignAt(distance, n.Name.Lexeme, value)
	}
	return in.globals.Assign(n.Name.Lexeme, value)
}

func (in *Interpreter) runtimeErr(tok token.Token, message string) error {
	return &reporter.RuntimeError{Token: tok, Message: message}
}
