// Package resolver performs the static lexical-resolution pass: for
// every variable-reading or assigning expression it records the scope
// distance from the use site to its definition, so the interpreter can
// skip straight to the right environment instead of walking the chain.
package resolver

import (
	"github.com/loxscript/lox/internal/ast"
	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/token"
)

type functionType int

const (
	funcNone functionType = iota
	funcFunction
)

// scope maps a name to whether it has finished being defined (false
// means declared but its initializer is still being resolved).
type scope map[string]bool

// Resolver walks a statement list and produces the distance map the
// interpreter uses for variable resolution.
type Resolver struct {
	scopes      []scope
	currentFunc functionType
	loopDepth   int
	locals      map[ast.Expr]int
	rep         *reporter.Reporter
}

// New creates a Resolver reporting static errors to rep.
func New(rep *reporter.Reporter) *Resolver {
	return &Resolver{locals: make(map[ast.Expr]int), rep: rep}
}

// Resolve walks stmts and returns the completed distance map. Check
// rep.HadError() before trusting the result.
func (r *Resolver) Resolve(stmts []ast.Stmt) map[ast.Expr]int {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Statements)
		r.endScope()
	case *ast.Break:
		if r.loopDepth == 0 {
			r.rep.Static(n.Keyword, "Cannot use 'break' outside of a loop.")
		}
	case *ast.Continue:
		if r.loopDepth == 0 {
			r.rep.Static(n.Keyword, "Cannot use 'continue' outside of a loop.")
		}
	case *ast.Const:
		r.declare(n.Name)
		r.resolveExpr(n.Initializer)
		r.define(n.Name)
	case *ast.Echo:
		r.resolveExpr(n.Expression)
	case *ast.Expression:
		r.resolveExpr(n.Expression)
	case *ast.For:
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.resolveExpr(n.Condition)
		if n.Increment != nil {
			r.resolveExpr(n.Increment)
		}
		r.loopDepth++
		r.resolveStmt(n.Body)
		r.loopDepth--
	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, funcFunction)
	case *ast.If:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.ThenBranch)
		if n.ElseBranch != nil {
			r.resolveStmt(n.ElseBranch)
		}
	case *ast.Return:
		if r.currentFunc == funcNone {
			r.rep.Static(n.Keyword, "Cannot return from top-level code.")
		}
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
	case *ast.Var:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)
	case *ast.While:
		r.resolveExpr(n.Condition)
		r.loopDepth++
		r.resolveStmt(n.Body)
		r.loopDepth--
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, ft functionType) {
	enclosing := r.currentFunc
	r.currentFunc = ft

	enclosingLoopDepth := r.loopDepth
	r.loopDepth = 0

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunc = enclosing
	r.loopDepth = enclosingLoopDepth
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocal(n, n.Name)
	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, arg := range n.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.Conditional:
		r.resolveExpr(n.Condition)
		r.resolveExpr(n.ThenBranch)
		r.resolveExpr(n.ElseBranch)
	case *ast.Grouping:
		r.resolveExpr(n.Expression)
	case *ast.Literal:
		// nothing to resolve
	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.Unary:
		r.resolveExpr(n.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.rep.Static(n.Name, "Cannot read a local variable within its own initializer.")
			}
		}
		r.resolveLocal(n, n.Name)
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, exists := s[name.Lexeme]; exists {
		r.rep.Static(name, "Already a variable named '"+name.Lexeme+"' in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: falls back to a global lookup at runtime
}
