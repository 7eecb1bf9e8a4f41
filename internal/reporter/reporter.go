// Package reporter implements the shared error collector consumed by
// every pipeline stage: the scanner, parser, resolver, and interpreter
// all report through the same *Reporter rather than a process-wide
// singleton.
package reporter

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/loxscript/lox/internal/token"
)

// RuntimeError is a runtime failure tied to the token whose evaluation
// produced it.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Reporter accumulates had-error/had-runtime-error flags and formats
// diagnostics to an output stream.
type Reporter struct {
	out             io.Writer
	hadError        bool
	hadRuntimeError bool
}

// New creates a Reporter writing to w. Pass os.Stderr for normal use;
// an *bytes.Buffer works for tests that want to assert on messages.
func New(w io.Writer) *Reporter {
	return &Reporter{out: w}
}

// Default creates a Reporter writing to os.Stderr.
func Default() *Reporter {
	return New(os.Stderr)
}

// Lexical reports a scanner-stage error at the given line.
func (r *Reporter) Lexical(line int, message string) {
	r.hadError = true
	tag := color.YellowString("[line %d]", line)
	fmt.Fprintf(r.out, "%s Error: %s\n", tag, message)
}

// Parse reports a parser-stage error at a token.
func (r *Reporter) Parse(tok token.Token, message string) {
	r.report(tok, message)
}

// Static reports a resolver-stage error at a token.
func (r *Reporter) Static(tok token.Token, message string) {
	r.report(tok, message)
}

func (r *Reporter) report(tok token.Token, message string) {
	r.hadError = true
	tag := color.YellowString("[line %d]", tok.Line)

	where := " at end"
	if tok.Kind != token.EOF {
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(r.out, "%s Error%s: %s\n", tag, where, message)
}

// Runtime reports an interpreter-stage error.
func (r *Reporter) Runtime(err *RuntimeError) {
	r.hadRuntimeError = true
	fmt.Fprintf(r.out, "%s\n%s\n", color.RedString(err.Message), fmt.Sprintf("[line %d]", err.Token.Line))
}

// HadError reports whether any lexical, parse, or static error has
// been recorded since the last Reset.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error has been recorded
// since the last Reset.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears both error flags, used between REPL lines so one bad
// statement doesn't poison the rest of the session.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}
