package lox_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxscript/lox"
	"github.com/loxscript/lox/internal/reporter"
)

func runProgram(t *testing.T, src string, mode lox.Mode) (string, *reporter.Reporter) {
	t.Helper()
	var errBuf, outBuf bytes.Buffer
	rep := reporter.New(&errBuf)
	sess := lox.NewSession(rep, mode, &outBuf)
	sess.Run(src)
	if rep.HadRuntimeError() {
		t.Logf("runtime error: %s", errBuf.String())
	}
	return outBuf.String(), rep
}

// Scenario 1: echo 1 + 2 * 3; -> stdout 7
func TestEndToEndArithmeticPrecedence(t *testing.T) {
	out, rep := runProgram(t, `echo 1 + 2 * 3;`, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "7\n", out)
}

// Scenario 2: var a = 1; { var a = 2; echo a; } echo a; -> stdout 2\n1
func TestEndToEndBlockShadowing(t *testing.T) {
	out, rep := runProgram(t, `var a = 1; { var a = 2; echo a; } echo a;`, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "2\n1\n", out)
}

// Scenario 3: nested closure over a compound-assigned parameter.
func TestEndToEndClosureOverCompoundAssignment(t *testing.T) {
	out, rep := runProgram(t, `
		fun make(n) {
			fun inc() {
				n += 1;
				return n;
			}
			return inc;
		}
		var c = make(10);
		echo c();
		echo c();
	`, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "11\n12\n", out)
}

// Scenario 4: for-loop continue skips the echo but still runs the
// increment.
func TestEndToEndForLoopContinue(t *testing.T) {
	out, rep := runProgram(t, `
		for (var i = 0; i < 3; i = i + 1) {
			if (i == 1) continue;
			echo i;
		}
	`, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "0\n2\n", out)
}

// Scenario 5: const reassignment is a runtime error referencing the
// constant's name.
func TestEndToEndConstReassignmentIsRuntimeError(t *testing.T) {
	var errBuf, outBuf bytes.Buffer
	rep := reporter.New(&errBuf)
	sess := lox.NewSession(rep, lox.File, &outBuf)
	sess.Run(`const K = 3; K = 4;`)

	assert.True(t, rep.HadRuntimeError())
	assert.True(t, strings.Contains(errBuf.String(), "K"))
}

// Scenario 6: number/string concatenation via +.
func TestEndToEndNumberStringConcat(t *testing.T) {
	out, rep := runProgram(t, `echo "n=" + 42;`, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "n=42\n", out)
}

// Boundary: deeply nested groupings evaluate to their inner value.
func TestEndToEndDeeplyNestedGroupings(t *testing.T) {
	depth := 1000
	src := "echo " + strings.Repeat("(", depth) + "42" + strings.Repeat(")", depth) + ";"
	out, rep := runProgram(t, src, lox.File)
	require.False(t, rep.HadError())
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "42\n", out)
}

// Boundary: wrong-arity call reports expected/actual counts.
func TestEndToEndArityMismatchMessage(t *testing.T) {
	var errBuf, outBuf bytes.Buffer
	rep := reporter.New(&errBuf)
	sess := lox.NewSession(rep, lox.File, &outBuf)
	sess.Run(`fun f(a, b) { return a + b; } f(1);`)

	assert.True(t, rep.HadRuntimeError())
	assert.Contains(t, errBuf.String(), "Expected 2 arguments but got 1")
}

// Boundary: return at module top level is a static error, not runtime.
func TestEndToEndTopLevelReturnIsStaticError(t *testing.T) {
	_, rep := runProgram(t, `return 1;`, lox.File)
	assert.True(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())
}

// Boundary: duplicate declaration in one block is a static error;
// shadowing across blocks is allowed.
func TestEndToEndDuplicateDeclarationVsShadowing(t *testing.T) {
	_, rep := runProgram(t, `{ var a = 1; var a = 2; }`, lox.File)
	assert.True(t, rep.HadError())

	out, rep2 := runProgram(t, `{ var a = 1; } { var a = 2; echo a; }`, lox.File)
	assert.False(t, rep2.HadError())
	assert.Equal(t, "2\n", out)
}

// Boundary: `var x = x;` in a non-global scope is a static error.
func TestEndToEndSelfReferentialLocalInitializerIsStaticError(t *testing.T) {
	_, rep := runProgram(t, `{ var x = x; }`, lox.File)
	assert.True(t, rep.HadError())
}

// Boundary: division and modulo by zero are runtime errors.
func TestEndToEndDivideAndModuloByZero(t *testing.T) {
	_, rep := runProgram(t, `echo 0 / 0;`, lox.File)
	assert.True(t, rep.HadRuntimeError())

	_, rep2 := runProgram(t, `echo 5 % 0;`, lox.File)
	assert.True(t, rep2.HadRuntimeError())
}

// The REPL driver resets error flags between lines; after such a
// Reset, one bad line does not poison later ones on the same Session.
func TestReplResetsErrorFlagsBetweenLines(t *testing.T) {
	var errBuf, outBuf bytes.Buffer
	rep := reporter.New(&errBuf)
	sess := lox.NewSession(rep, lox.REPL, &outBuf)

	sess.Run(`1 +;`) // static/parse error
	require.True(t, rep.HadError())
	rep.Reset()

	sess.Run(`1 + 1;`)
	assert.False(t, rep.HadError())
	assert.Equal(t, "2\n", outBuf.String())
}
