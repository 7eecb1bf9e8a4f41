package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxscript/lox/internal/interp"
	"github.com/loxscript/lox/internal/lexer"
	"github.com/loxscript/lox/internal/parser"
	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/resolver"
)

// run scans, parses, resolves, and interprets src against a fresh
// Interpreter, returning its captured stdout and reporter.
func run(t *testing.T, src string, mode interp.Mode) (string, *reporter.Reporter) {
	t.Helper()
	var errBuf, outBuf bytes.Buffer
	rep := reporter.New(&errBuf)

	toks := lexer.New(src, rep).Scan()
	require.False(t, rep.HadError(), "lexer error: %s", errBuf.String())

	stmts := parser.New(toks, rep).Parse()
	require.False(t, rep.HadError(), "parser error: %s", errBuf.String())

	locals := resolver.New(rep).Resolve(stmts)
	require.False(t, rep.HadError(), "resolver error: %s", errBuf.String())

	in := interp.New(rep, mode, &outBuf)
	in.SetLocals(locals)
	in.Interpret(stmts)

	if rep.HadRuntimeError() {
		t.Logf("runtime error: %s", errBuf.String())
	}
	return outBuf.String(), rep
}

func TestEchoPrintsStringifiedValue(t *testing.T) {
	out, rep := run(t, `echo 1 + 2;`, interp.File)
	require.False(t, rep.HadRuntimeError())
	assert.Equal(t, "3\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _ := run(t, `echo "foo" + "bar";`, interp.File)
	assert.Equal(t, "foobar\n", out)
}

func TestNumberPlusStringConcatenatesStringified(t *testing.T) {
	out, _ := run(t, `echo 1 + "a";`, interp.File)
	assert.Equal(t, "1a\n", out)

	out, _ = run(t, `echo "a" + 1;`, interp.File)
	assert.Equal(t, "a1\n", out)
}

func TestArithmeticOperators(t *testing.T) {
	out, _ := run(t, `echo 2 * 3 + 4 / 2 - 1;`, interp.File)
	assert.Equal(t, "7\n", out)
}

func TestPowerOperator(t *testing.T) {
	out, _ := run(t, `echo 2 ** 3 ** 2;`, interp.File)
	assert.Equal(t, "512\n", out)
}

func TestModuloOperator(t *testing.T) {
	out, _ := run(t, `echo 7 % 3;`, interp.File)
	assert.Equal(t, "1\n", out)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, rep := run(t, `echo 1 / 0;`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestModuloByZeroIsRuntimeError(t *testing.T) {
	_, rep := run(t, `echo 1 % 0;`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestComparisonOperators(t *testing.T) {
	out, _ := run(t, `echo 1 < 2; echo 2 <= 2; echo 3 > 2; echo 2 >= 3;`, interp.File)
	assert.Equal(t, "true\ntrue\ntrue\nfalse\n", out)
}

func TestEqualityAcrossTypesIsFalse(t *testing.T) {
	out, _ := run(t, `echo 1 == "1"; echo null == false;`, interp.File)
	assert.Equal(t, "false\nfalse\n", out)
}

func TestTruthiness(t *testing.T) {
	out, _ := run(t, `echo !null; echo !false; echo !0; echo !"";`, interp.File)
	assert.Equal(t, "true\ntrue\nfalse\nfalse\n", out)
}

func TestLogicalShortCircuitReturnsOperandValue(t *testing.T) {
	out, _ := run(t, `echo false or "fallback"; echo 1 and 2;`, interp.File)
	assert.Equal(t, "fallback\n2\n", out)
}

func TestTernary(t *testing.T) {
	out, _ := run(t, `echo true ? "yes" : "no"; echo false ? "yes" : "no";`, interp.File)
	assert.Equal(t, "yes\nno\n", out)
}

func TestBlockScoping(t *testing.T) {
	out, _ := run(t, `
		var a = "outer";
		{
			var a = "inner";
			echo a;
		}
		echo a;
	`, interp.File)
	assert.Equal(t, "inner\nouter\n", out)
}

func TestConstReassignmentIsRuntimeError(t *testing.T) {
	_, rep := run(t, `const x = 1; x = 2;`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, rep := run(t, `echo undefinedThing;`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestCompoundAssignmentReturnsRHSNotStoredValue(t *testing.T) {
	// Quirk: `x += 1` evaluates to the RHS (1), not the new value of x
	// (11).
	out, _ := run(t, `
		var x = 10;
		echo x += 1;
		echo x;
	`, interp.File)
	assert.Equal(t, "1\n11\n", out)
}

func TestCompoundAssignmentRejectsNonNumberRHS(t *testing.T) {
	_, rep := run(t, `var x = 1; x += "oops";`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestWhileLoopWithBreak(t *testing.T) {
	out, _ := run(t, `
		var i = 0;
		while (true) {
			if (i >= 3) break;
			echo i;
			i = i + 1;
		}
	`, interp.File)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestForLoopContinueStillRunsIncrement(t *testing.T) {
	out, _ := run(t, `
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 2) continue;
			echo i;
		}
	`, interp.File)
	assert.Equal(t, "0\n1\n3\n4\n", out)
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, _ := run(t, `
		fun add(a, b) {
			return a + b;
		}
		echo add(2, 3);
	`, interp.File)
	assert.Equal(t, "5\n", out)
}

func TestFunctionWithoutReturnYieldsNull(t *testing.T) {
	out, _ := run(t, `
		fun noop() {}
		echo noop();
	`, interp.File)
	assert.Equal(t, "null\n", out)
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	out, _ := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		echo counter();
		echo counter();
		echo counter();
	`, interp.File)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestCallArityMismatchIsRuntimeError(t *testing.T) {
	_, rep := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, rep := run(t, `
		var x = 1;
		x();
	`, interp.File)
	assert.True(t, rep.HadRuntimeError())
}

func TestReplModeAutoPrintsNonAssignExpression(t *testing.T) {
	out, _ := run(t, `1 + 1;`, interp.REPL)
	assert.Equal(t, "2\n", out)
}

func TestReplModeDoesNotAutoPrintAssignment(t *testing.T) {
	out, _ := run(t, `var x = 1; x = 2;`, interp.REPL)
	assert.Equal(t, "", out)
}

func TestRuntimeErrorAbortsRemainingTopLevelStatements(t *testing.T) {
	out, rep := run(t, `
		echo "before";
		echo 1 / 0;
		echo "after";
	`, interp.File)
	assert.True(t, rep.HadRuntimeError())
	assert.True(t, strings.Contains(out, "before"))
	assert.False(t, strings.Contains(out, "after"))
}
