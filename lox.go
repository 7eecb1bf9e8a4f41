// Package lox wires the scanner, parser, resolver, and interpreter
// into the single entrypoint a driver calls.
package lox

import (
	"io"
	"os"

	"github.com/loxscript/lox/internal/ast"
	"github.com/loxscript/lox/internal/interp"
	"github.com/loxscript/lox/internal/lexer"
	"github.com/loxscript/lox/internal/natives"
	"github.com/loxscript/lox/internal/parser"
	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/resolver"
)

// Mode selects FILE or REPL evaluation semantics; see interp.Mode.
type Mode = interp.Mode

const (
	File Mode = interp.File
	REPL Mode = interp.REPL
)

// Session bundles one long-lived interpreter with the reporter it
// writes errors to, so a REPL driver can Run one line at a time while
// preserving global state (variables, functions) across lines.
type Session struct {
	rep *reporter.Reporter
	in  *interp.Interpreter
}

// NewSession creates a Session writing program output to out and
// errors to rep, with globals pre-populated from internal/natives.
func NewSession(rep *reporter.Reporter, mode Mode, out io.Writer) *Session {
	in := interp.New(rep, mode, out)
	natives.Define(in.Globals())
	return &Session{rep: rep, in: in}
}

// Run scans, parses, resolves, and interprets source, aborting at the
// first stage that reports an error. It returns the parsed statements
// for callers that want to inspect the pipeline's intermediate output,
// or nil when the scanner, parser, or resolver reported an error.
func (s *Session) Run(source string) []ast.Stmt {
	scan := lexer.New(source, s.rep)
	tokens := scan.Scan()
	if s.rep.HadError() {
		return nil
	}

	p := parser.New(tokens, s.rep)
	stmts := p.Parse()
	if s.rep.HadError() {
		return nil
	}

	res := resolver.New(s.rep)
	locals := res.Resolve(stmts)
	if s.rep.HadError() {
		return nil
	}

	s.in.SetLocals(locals)
	s.in.Interpret(stmts)
	return stmts
}

// Reporter exposes the session's error collector.
func (s *Session) Reporter() *reporter.Reporter { return s.rep }

// SetMode switches REPL/File auto-print behavior for the next Run
// call, used when a driver flips modes on one long-lived Session.
func (s *Session) SetMode(mode Mode) { s.in.SetMode(mode) }

// Run is a convenience one-shot entrypoint: a fresh Session is built,
// natives are registered, and source is run once to completion. Output
// goes to os.Stdout and errors to rep.
func Run(source string, mode Mode, rep *reporter.Reporter) {
	sess := NewSession(rep, mode, os.Stdout)
	sess.Run(source)
}
