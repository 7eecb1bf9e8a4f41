// Package token defines the lexical token model shared by the scanner,
// parser, resolver, and interpreter.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota

	// single-character
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Semicolon
	Question
	Colon

	// arithmetic, with compound-assignment variants
	Minus
	MinusEqual
	Plus
	PlusEqual
	Star
	StarEqual
	StarStar
	Slash
	SlashEqual
	Percent
	PercentEqual

	// comparison
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Or
	If
	Else
	For
	While
	Break
	Continue
	Var
	Const
	Fun
	Return
	Echo
	True
	False
	Null
)

var names = [...]string{
	EOF:           "EOF",
	LeftParen:     "LEFT_PAREN",
	RightParen:    "RIGHT_PAREN",
	LeftBrace:     "LEFT_BRACE",
	RightBrace:    "RIGHT_BRACE",
	Comma:         "COMMA",
	Dot:           "DOT",
	Semicolon:     "SEMICOLON",
	Question:      "QUESTION",
	Colon:         "COLON",
	Minus:         "MINUS",
	MinusEqual:    "MINUS_EQUAL",
	Plus:          "PLUS",
	PlusEqual:     "PLUS_EQUAL",
	Star:          "STAR",
	StarEqual:     "STAR_EQUAL",
	StarStar:      "STAR_STAR",
	Slash:         "SLASH",
	SlashEqual:    "SLASH_EQUAL",
	Percent:       "PERCENT",
	PercentEqual:  "PERCENT_EQUAL",
	Bang:          "BANG",
	BangEqual:     "BANG_EQUAL",
	Equal:         "EQUAL",
	EqualEqual:    "EQUAL_EQUAL",
	Greater:       "GREATER",
	GreaterEqual:  "GREATER_EQUAL",
	Less:          "LESS",
	LessEqual:     "LESS_EQUAL",
	Identifier:    "IDENTIFIER",
	String:        "STRING",
	Number:        "NUMBER",
	And:           "AND",
	Or:            "OR",
	If:            "IF",
	Else:          "ELSE",
	For:           "FOR",
	While:         "WHILE",
	Break:         "BREAK",
	Continue:      "CONTINUE",
	Var:           "VAR",
	Const:         "CONST",
	Fun:           "FUN",
	Return:        "RETURN",
	Echo:          "ECHO",
	True:          "TRUE",
	False:         "FALSE",
	Null:          "NULL",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return names[k]
}

// Keywords maps reserved identifiers to their token kind. Consulted
// after an identifier's lexeme has been fully scanned.
var Keywords = map[string]Kind{
	"and":      And,
	"or":       Or,
	"if":       If,
	"else":     Else,
	"for":      For,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"var":      Var,
	"const":    Const,
	"fun":      Fun,
	"return":   Return,
	"echo":     Echo,
	"true":     True,
	"false":    False,
	"null":     Null,
}

// Literal is the optional payload of a NUMBER or STRING token.
type Literal interface{}

// Token is an immutable lexical unit produced by the scanner and
// consumed by the parser, resolver, and interpreter.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal Literal
	Line    int
}

func (t Token) String() string {
	lit := "null"
	if t.Literal != nil {
		lit = fmt.Sprintf("%v", t.Literal)
	}
	return fmt.Sprintf("%s %s %s", t.Kind, t.Lexeme, lit)
}
