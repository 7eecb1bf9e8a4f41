// Package lexer turns Lox source text into a token sequence.
package lexer

import (
	"strconv"

	"github.com/loxscript/lox/internal/reporter"
	"github.com/loxscript/lox/internal/token"
)

// Scanner walks a source string one byte at a time, tracking the
// current line for error reporting and token positions.
type Scanner struct {
	src   string
	start int
	cur   int
	line  int
	rep   *reporter.Reporter
}

// New creates a Scanner over src that reports lexical errors to rep.
func New(src string, rep *reporter.Reporter) *Scanner {
	return &Scanner{src: src, line: 1, rep: rep}
}

// Scan consumes the entire source and returns its tokens, terminated
// by a single EOF sentinel. Lexical errors are reported but do not
// stop scanning.
func (s *Scanner) Scan() []token.Token {
	var toks []token.Token

	for !s.atEnd() {
		s.start = s.cur
		if tok, ok := s.scanToken(); ok {
			toks = append(toks, tok)
		}
	}

	toks = append(toks, token.Token{Kind: token.EOF, Line: s.line})
	return toks
}

func (s *Scanner) scanToken() (token.Token, bool) {
	c := s.advance()

	switch c {
	case ' ', '\t', '\r':
		return token.Token{}, false
	case '\n':
		s.line++
		return token.Token{}, false
	case '(':
		return s.simple(token.LeftParen), true
	case ')':
		return s.simple(token.RightParen), true
	case '{':
		return s.simple(token.LeftBrace), true
	case '}':
		return s.simple(token.RightBrace), true
	case ',':
		return s.simple(token.Comma), true
	case '.':
		return s.simple(token.Dot), true
	case ';':
		return s.simple(token.Semicolon), true
	case '?':
		return s.simple(token.Question), true
	case ':':
		return s.simple(token.Colon), true
	case '-':
		return s.twoChar('=', token.MinusEqual, token.Minus), true
	case '+':
		return s.twoChar('=', token.PlusEqual, token.Plus), true
	case '%':
		return s.twoChar('=', token.PercentEqual, token.Percent), true
	case '*':
		if s.match('*') {
			return s.make(token.StarStar), true
		}
		return s.twoChar('=', token.StarEqual, token.Star), true
	case '/':
		switch {
		case s.match('/'):
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
			return token.Token{}, false
		case s.match('*'):
			s.blockComment()
			return token.Token{}, false
		case s.match('='):
			return s.make(token.SlashEqual), true
		default:
			return s.make(token.Slash), true
		}
	case '!':
		return s.twoChar('=', token.BangEqual, token.Bang), true
	case '=':
		return s.twoChar('=', token.EqualEqual, token.Equal), true
	case '<':
		return s.twoChar('=', token.LessEqual, token.Less), true
	case '>':
		return s.twoChar('=', token.GreaterEqual, token.Greater), true
	case '"':
		return s.stringLiteral()
	default:
		switch {
		case isDigit(c):
			return s.numberLiteral(), true
		case isAlpha(c):
			return s.identifier(), true
		default:
			s.rep.Lexical(s.line, "Unexpected character: "+string(c))
			return token.Token{}, false
		}
	}
}

func (s *Scanner) blockComment() {
	depth := 1
	for depth > 0 {
		if s.atEnd() {
			s.rep.Lexical(s.line, "Unterminated block comment.")
			return
		}
		switch {
		case s.peek() == '/' && s.peekNext() == '*':
			s.advance()
			s.advance()
			depth++
		case s.peek() == '*' && s.peekNext() == '/':
			s.advance()
			s.advance()
			depth--
		case s.peek() == '\n':
			s.line++
			s.advance()
		default:
			s.advance()
		}
	}
}

func (s *Scanner) stringLiteral() (token.Token, bool) {
	startLine := s.line
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}

	if s.atEnd() {
		s.rep.Lexical(startLine, "Unterminated string.")
		return token.Token{}, false
	}

	s.advance() // closing quote
	value := s.src[s.start+1 : s.cur-1]
	return token.Token{Kind: token.String, Lexeme: s.src[s.start:s.cur], Literal: value, Line: startLine}, true
}

func (s *Scanner) numberLiteral() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	lexeme := s.src[s.start:s.cur]
	n, _ := strconv.ParseFloat(lexeme, 64)
	return token.Token{Kind: token.Number, Lexeme: lexeme, Literal: n, Line: s.line}
}

func (s *Scanner) identifier() token.Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}

	lexeme := s.src[s.start:s.cur]
	if kind, ok := token.Keywords[lexeme]; ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: s.line}
	}
	return token.Token{Kind: token.Identifier, Lexeme: lexeme, Line: s.line}
}

// --------------- helpers --------------- //

func (s *Scanner) simple(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.src[s.start:s.cur], Line: s.line}
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.src[s.start:s.cur], Line: s.line}
}

func (s *Scanner) twoChar(second byte, twoKind, oneKind token.Kind) token.Token {
	if s.match(second) {
		return s.make(twoKind)
	}
	return s.make(oneKind)
}

func (s *Scanner) atEnd() bool {
	return s.cur >= len(s.src)
}

func (s *Scanner) advance() byte {
	c := s.src[s.cur]
	s.cur++
	return c
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.cur] != expected {
		return false
	}
	s.cur++
	return true
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.cur]
}

func (s *Scanner) peekNext() byte {
	if s.cur+1 >= len(s.src) {
		return 0
	}
	return s.src[s.cur+1]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
