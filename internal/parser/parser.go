// Package parser implements a recursive-descent parser with
// panic-mode error recovery, producing the ast.Stmt sequence consumed
// by the resolver and interpreter.
//
// Grammar (lowest to highest precedence):
//
//	program     → declaration* EOF
//	declaration → varDecl | constDecl | funDecl | statement
//	statement   → echoStmt | ifStmt | forStmt | whileStmt
//	            | breakStmt | continueStmt | returnStmt | block | exprStmt
//	expression  → assignment
//	assignment  → IDENT ( "=" | "+=" | "-=" | "*=" | "/=" | "%=" ) assignment
//	            | conditional
//	conditional → logic_or ( "?" expression ":" conditional )?
//	logic_or    → logic_and ( "or" logic_and )*
//	logic_and   → equality ( "and" equality )*
//	equality    → comparison ( ( "==" | "!=" ) comparison )*
//	comparison  → term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        → factor ( ( "+" | "-" ) factor )*
//	factor      → power ( ( "*" | "/" | "%" ) power )*
//	power       → unary ( "**" power )?        (right-associative)
//	unary       → ( "!" | "-" ) unary | call
//	call        → primary ( "(" arguments? ")" )*
//	primary     → NUMBER | STRING | "true" | "false" | "null"
//	            | "(" expression ")" | IDENT
package parser

import (
	"github.com/loxscript/lox/internal/ast"
	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/token"
)

const maxArgs = 255

// parseError unwinds the recursive descent to the nearest
// synchronization point; it is never returned to callers outside this
// package.
type parseError struct{}

// Parser consumes a token sequence produced by the lexer.
type Parser struct {
	tokens []token.Token
	cur    int
	rep    *reporter.Reporter
}

// New creates a Parser over tokens, reporting errors to rep.
func New(tokens []token.Token, rep *reporter.Reporter) *Parser {
	return &Parser{tokens: tokens, rep: rep}
}

// Parse runs the parser to completion, returning every statement it
// could recover around errors. Check rep.HadError() before using the
// result.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if stmt, ok := p.declarationRecovering(); ok {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) declarationRecovering() (stmt ast.Stmt, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); isParseErr {
				p.synchronize()
				ok = false
				return
			}
			panic(r)
		}
	}()
	return p.declaration(), true
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Var):
		return p.varDecl()
	case p.match(token.Const):
		return p.constDecl()
	case p.match(token.Fun):
		return p.funDecl("function")
	default:
		return p.statement()
	}
}

func (p *Parser) varDecl() ast.Stmt {
	keyword := p.previous()
	name := p.consume(token.Identifier, "Expect variable name.")

	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Keyword: keyword, Initializer: init}
}

func (p *Parser) constDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect constant name.")
	p.consume(token.Equal, "Expect '=' after constant name.")
	init := p.expression()
	p.consume(token.Semicolon, "Expect ';' after constant declaration.")
	return &ast.Const{Name: name, Initializer: init}
}

func (p *Parser) funDecl(kind string) ast.Stmt {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")
	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.blockStatements()
	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Echo):
		return p.echoStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.Break):
		kw := p.previous()
		p.consume(token.Semicolon, "Expect ';' after 'break'.")
		return &ast.Break{Keyword: kw}
	case p.match(token.Continue):
		kw := p.previous()
		p.consume(token.Semicolon, "Expect ';' after 'continue'.")
		return &ast.Continue{Keyword: kw}
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LeftBrace):
		return &ast.Block{Statements: p.blockStatements()}
	default:
		return p.exprStatement()
	}
}

func (p *Parser) echoStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Echo{Expression: expr}
}

func (p *Parser) exprStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.Expression{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Condition: condition, Body: body}
}

// forStatement parses `for (init?; cond?; incr?) body`. A `var`
// initializer is hoisted into a wrapping Block around the For node,
// since ast.For's Initializer is an Expr, not a Stmt.
func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var hoisted ast.Stmt
	var init ast.Expr
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		hoisted = p.varDecl()
	default:
		init = p.expression()
		p.consume(token.Semicolon, "Expect ';' after loop initializer.")
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition = p.expression()
	} else {
		condition = &ast.Literal{Value: true}
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	forStmt := &ast.For{Initializer: init, Condition: condition, Increment: increment, Body: body}
	if hoisted != nil {
		return &ast.Block{Statements: []ast.Stmt{hoisted, forStmt}}
	}
	return forStmt
}

func (p *Parser) blockStatements() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt, ok := p.declarationRecovering(); ok {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

// --------------- expressions --------------- //

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.conditional()

	if op, ok := p.matchOneOf(token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual, token.PercentEqual); ok {
		value := p.assignment()

		v, ok := expr.(*ast.Variable)
		if !ok {
			p.error(op, "Invalid assignment target.")
			return expr
		}
		return &ast.Assign{Name: v.Name, Operator: op, Value: value}
	}

	return expr
}

func (p *Parser) conditional() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Question) {
		then := p.expression()
		p.consume(token.Colon, "Expect ':' in conditional expression.")
		els := p.conditional()
		return &ast.Conditional{Condition: expr, ThenBranch: then, ElseBranch: els}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for {
		op, ok := p.matchOneOf(token.EqualEqual, token.BangEqual)
		if !ok {
			break
		}
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for {
		op, ok := p.matchOneOf(token.Less, token.LessEqual, token.Greater, token.GreaterEqual)
		if !ok {
			break
		}
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for {
		op, ok := p.matchOneOf(token.Plus, token.Minus)
		if !ok {
			break
		}
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.power()
	for {
		op, ok := p.matchOneOf(token.Star, token.Slash, token.Percent)
		if !ok {
			break
		}
		right := p.power()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

// power is right-associative: `2 ** 3 ** 2 == 2 ** (3 ** 2)`.
func (p *Parser) power() ast.Expr {
	expr := p.unary()
	if p.match(token.StarStar) {
		op := p.previous()
		right := p.power()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if op, ok := p.matchOneOf(token.Bang, token.Minus); ok {
		right := p.unary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for p.match(token.LeftParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.error(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.True):
		return &ast.Literal{Value: true}
	case p.match(token.False):
		return &ast.Literal{Value: false}
	case p.match(token.Null):
		return &ast.Literal{Value: nil}
	case p.match(token.Number):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.String):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		expr := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	default:
		p.error(p.peek(), "Expect expression.")
		panic(parseError{})
	}
}

// --------------- token stream helpers --------------- //

func (p *Parser) match(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) matchOneOf(kinds ...token.Kind) (token.Token, bool) {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return p.previous(), true
		}
	}
	return token.Token{}, false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.error(p.peek(), message)
	panic(parseError{})
}

func (p *Parser) check(kind token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) atEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.cur]
}

func (p *Parser) previous() token.Token {
	if p.cur == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.cur-1]
}

func (p *Parser) error(tok token.Token, message string) {
	p.rep.Parse(tok, message)
}

// synchronize discards tokens until a statement boundary: just past a
// consumed ';', or the next token starts a new declaration/statement.
func (p *Parser) synchronize() {
	p.advance()

	for !p.atEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Fun, token.Var, token.Const, token.For, token.If,
			token.While, token.Return, token.Echo, token.Break, token.Continue:
			return
		}

		p.advance()
	}
}
