// Package lexer turns Ry source text into a token stream.
package lexer

import (
	"strconv"

	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/token"
)

type Lexer struct {
	input   string
	start   int // start of the token being scanned
	current int // current position in input
	line    int
	column  int // 1-based, resets on newline

	tokenStartColumn int

	tokens []token.Token
	Errors []*diagnostics.Error
}

func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// ScanTokens scans the whole input and returns the tokens, terminated by EOF.
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() {
		l.tokenStartColumn = l.column
		l.start = l.current
		l.scanToken()
	}
	l.addToken(token.EOF)
	return l.tokens
}

func (l *Lexer) isAtEnd() bool { return l.current >= len(l.input) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.input[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.input) {
		return 0
	}
	return l.input[l.current+1]
}

func (l *Lexer) next() byte {
	c := l.input[l.current]
	l.current++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.peek() != expected {
		return false
	}
	l.next()
	return true
}

func (l *Lexer) addToken(t token.Type) {
	l.addTokenLiteral(t, nil)
}

func (l *Lexer) addTokenLiteral(t token.Type, literal interface{}) {
	text := l.input[l.start:l.current]
	l.tokens = append(l.tokens, token.Token{
		Type: t, Lexeme: text, Literal: literal,
		Line: l.line, Column: l.tokenStartColumn,
	})
}

func (l *Lexer) error(message string) {
	l.Errors = append(l.Errors, &diagnostics.Error{
		Code: "L001", Line: l.line, Column: l.tokenStartColumn, Message: message,
	})
}

func (l *Lexer) scanToken() {
	c := l.next()
	switch c {
	case '#':
		for l.peek() != '\n' && !l.isAtEnd() {
			l.next()
		}
	case '+':
		if l.match('+') {
			l.addToken(token.PLUS_PLUS)
		} else {
			l.addToken(token.PLUS)
		}
	case '-':
		if l.match('>') {
			l.addToken(token.LARROW)
		} else if l.match('-') {
			l.addToken(token.MINUS_MINUS)
		} else {
			l.addToken(token.MINUS)
		}
	case '*':
		l.addToken(token.STAR)
	case '/':
		l.addToken(token.DIVIDE)
	case '%':
		l.addToken(token.PERCENT)
	case '=':
		if l.match('=') {
			l.addToken(token.EQUAL_EQUAL)
		} else {
			l.addToken(token.EQUAL)
		}
	case '!':
		if l.match('=') {
			l.addToken(token.BANG_EQUAL)
		} else {
			l.addToken(token.BANG)
		}
	case '<':
		if l.match('<') {
			l.addToken(token.LESS_LESS)
		} else if l.match('=') {
			l.addToken(token.LESS_EQUAL)
		} else {
			l.addToken(token.LESS)
		}
	case '>':
		if l.match('>') {
			l.addToken(token.GREATER_GREATER)
		} else if l.match('=') {
			l.addToken(token.GREATER_EQUAL)
		} else {
			l.addToken(token.GREATER)
		}
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ',':
		l.addToken(token.COMMA)
	case '.':
		l.addToken(token.DOT)
	case ':':
		if l.match(':') {
			l.addToken(token.DOUBLE_COLON)
		} else {
			l.addToken(token.COLON)
		}
	case ';':
		l.addToken(token.SEMICOLON)
	case '&':
		l.addToken(token.AMPERSAND)
	case '|':
		l.addToken(token.PIPE)
	case '^':
		l.addToken(token.CARET)
	case '~':
		l.addToken(token.TILDE)
	case '"':
		l.scanString()
	case ' ', '\t', '\r', '\n':
		// skipped
	default:
		if isDigit(c) {
			l.scanNumber()
		} else if isAlpha(c) {
			l.scanIdentifier()
		} else {
			l.error("Unexpected character: '" + string(c) + "'")
		}
	}
}

func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}
	text := l.input[l.start:l.current]
	value, _ := strconv.ParseFloat(text, 64)
	l.addTokenLiteral(token.NUMBER, value)
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	text := l.input[l.start:l.current]
	if keyword, ok := token.Keywords[text]; ok {
		l.addToken(keyword)
	} else {
		l.addToken(token.IDENTIFIER)
	}
}

// scanString handles escapes and `${name}` interpolation. Interpolation is
// desugared at the token level: the accumulated segment is emitted as a
// STRING, then PLUS, IDENTIFIER, PLUS, and scanning resumes. The final
// segment is always emitted, even when empty.
func (l *Lexer) scanString() {
	var value []byte

	for l.peek() != '"' && !l.isAtEnd() {
		if l.peek() == '\\' {
			l.next()
			if l.isAtEnd() {
				l.error("Unterminated string.")
				return
			}
			switch escaped := l.next(); escaped {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case 'r':
				value = append(value, '\r')
			case '"':
				value = append(value, '"')
			case '\\':
				value = append(value, '\\')
			case '$':
				value = append(value, '$')
			default:
				// Unknown escape keeps the following character literally.
				value = append(value, escaped)
			}
		} else if l.peek() == '$' && l.peekNext() == '{' {
			if len(value) > 0 {
				l.emitStringSegment(string(value))
				l.emitSynthetic(token.PLUS, "+")
			}

			l.next()
			l.next() // consume ${
			varStart := l.current
			for l.peek() != '}' && !l.isAtEnd() {
				l.next()
			}
			if l.isAtEnd() {
				l.error("Unterminated interpolation.")
				return
			}
			name := l.input[varStart:l.current]
			l.tokens = append(l.tokens, token.Token{
				Type: token.IDENTIFIER, Lexeme: name,
				Line: l.line, Column: l.column,
			})
			l.next() // consume }

			l.emitSynthetic(token.PLUS, "+")

			value = value[:0]
			l.tokenStartColumn = l.column
		} else {
			value = append(value, l.next())
		}
	}

	if l.isAtEnd() {
		l.error("Unterminated string.")
		return
	}

	l.next() // consume closing "
	l.emitStringSegment(string(value))
}

func (l *Lexer) emitStringSegment(value string) {
	l.tokens = append(l.tokens, token.Token{
		Type: token.STRING, Lexeme: value, Literal: value,
		Line: l.line, Column: l.tokenStartColumn,
	})
}

func (l *Lexer) emitSynthetic(t token.Type, lexeme string) {
	l.tokens = append(l.tokens, token.Token{
		Type: t, Lexeme: lexeme, Line: l.line, Column: l.column,
	})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
