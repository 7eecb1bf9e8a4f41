package parser_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxscript/lox/internal/ast"
	"github.com/loxscript/lox/internal/lexer"
	"github.com/loxscript/lox/internal/parser"
	"github.com/loxscript/lox/internal/reporter"
)

func parseSource(t *testing.T, src string) ([]ast.Stmt, *reporter.Reporter) {
	t.Helper()
	var buf bytes.Buffer
	rep := reporter.New(&buf)
	toks := lexer.New(src, rep).Scan()
	stmts := parser.New(toks, rep).Parse()
	return stmts, rep
}

func TestParseVarDecl(t *testing.T) {
	stmts, rep := parseSource(t, "var x = 1 + 2;")
	require.False(t, rep.HadError())
	require.Len(t, stmts, 1)

	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Lexeme)
	_, ok = v.Initializer.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseConstDeclRequiresInitializer(t *testing.T) {
	_, rep := parseSource(t, "const x;")
	assert.True(t, rep.HadError())
}

func TestParseTernaryIsRightAssociativeInElseBranch(t *testing.T) {
	stmts, rep := parseSource(t, "var x = true ? 1 : false ? 2 : 3;")
	require.False(t, rep.HadError())
	v := stmts[0].(*ast.Var)
	cond, ok := v.Initializer.(*ast.Conditional)
	require.True(t, ok)
	_, ok = cond.ElseBranch.(*ast.Conditional)
	assert.True(t, ok)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	stmts, rep := parseSource(t, "var x = 2 ** 3 ** 2;")
	require.False(t, rep.HadError())
	v := stmts[0].(*ast.Var)
	bin, ok := v.Initializer.(*ast.Binary)
	require.True(t, ok)
	_, ok = bin.Right.(*ast.Binary)
	assert.True(t, ok, "outer ** should nest on the right")
}

func TestParseForHoistsVarInitializerIntoBlock(t *testing.T) {
	stmts, rep := parseSource(t, "for (var i = 0; i < 10; i = i + 1) echo i;")
	require.False(t, rep.HadError())
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok, "var initializer should be hoisted into a wrapping block")
	require.Len(t, block.Statements, 2)

	_, ok = block.Statements[0].(*ast.Var)
	assert.True(t, ok)
	_, ok = block.Statements[1].(*ast.For)
	assert.True(t, ok)
}

func TestParseForWithoutInitializerStaysBare(t *testing.T) {
	stmts, rep := parseSource(t, "for (; true; ) break;")
	require.False(t, rep.HadError())
	_, ok := stmts[0].(*ast.For)
	assert.True(t, ok)
}

func TestParseForOmittedConditionDefaultsToTrue(t *testing.T) {
	stmts, rep := parseSource(t, "for (;;) break;")
	require.False(t, rep.HadError())
	f := stmts[0].(*ast.For)
	lit, ok := f.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, true, lit.Value)
}

func TestParseInvalidAssignmentTargetReportsErrorWithoutDiscardingTokens(t *testing.T) {
	stmts, rep := parseSource(t, "1 + 2 = 3; var x = 1;")
	assert.True(t, rep.HadError())
	require.Len(t, stmts, 2)
	_, ok := stmts[1].(*ast.Var)
	assert.True(t, ok)
}

func TestParseCompoundAssignmentOperators(t *testing.T) {
	stmts, rep := parseSource(t, "x += 1;")
	require.False(t, rep.HadError())
	exprStmt := stmts[0].(*ast.Expression)
	assign, ok := exprStmt.Expression.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name.Lexeme)
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts, rep := parseSource(t, "fun add(a, b) { return a + b; }")
	require.False(t, rep.HadError())
	fn, ok := stmts[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	assert.Len(t, fn.Params, 2)
	assert.Len(t, fn.Body, 1)
}

func TestParseSynchronizeRecoversAfterError(t *testing.T) {
	stmts, rep := parseSource(t, "var ; var y = 2;")
	assert.True(t, rep.HadError())
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "y", v.Name.Lexeme)
}

func TestParseMissingSemicolonReportsError(t *testing.T) {
	_, rep := parseSource(t, "var x = 1")
	assert.True(t, rep.HadError())
}
