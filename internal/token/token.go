// Package token defines the lexical tokens of Ry.
package token

// Type identifies the kind of a token.
type Type uint8

const (
	// Punctuators
	LPAREN Type = iota // (
	RPAREN             // )
	LBRACE             // {
	RBRACE             // }
	LBRACKET           // [
	RBRACKET           // ]
	COMMA              // ,
	DOT                // .
	COLON              // :
	DOUBLE_COLON       // ::
	SEMICOLON          // ;

	// Operators
	PLUS          // +
	PLUS_PLUS     // ++
	MINUS         // -
	MINUS_MINUS   // --
	STAR          // *
	DIVIDE        // /
	PERCENT       // %
	EQUAL         // =
	EQUAL_EQUAL   // ==
	BANG          // !
	BANG_EQUAL    // !=
	LESS          // <
	LESS_EQUAL    // <=
	LESS_LESS     // <<
	GREATER       // >
	GREATER_EQUAL // >=
	GREATER_GREATER // >>
	AMPERSAND     // &
	PIPE          // |
	CARET         // ^
	TILDE         // ~
	LARROW        // ->

	// Literals
	IDENTIFIER
	STRING
	NUMBER

	// Keywords
	AND
	OR
	TRUE
	FALSE
	NULL
	IF
	ELSE
	WHILE
	FOR
	EACH
	IN
	TO
	DATA
	FUNC
	RETURN
	CLASS
	CHILDOF
	THIS
	ATTEMPT
	FAIL
	PANIC
	STOP
	SKIP
	IMPORT
	ALIAS
	NAMESPACE

	EOF
)

// Token is a single lexical unit with its source position.
// Column is 1-based and resets on every newline.
type Token struct {
	Type    Type
	Lexeme  string
	Literal interface{} // float64 for NUMBER, string for STRING, else nil
	Line    int
	Column  int
}

// Keywords maps reserved identifiers to their token types.
// "fn" and "func" are interchangeable; "each" and "foreach" are too.
var Keywords = map[string]Type{
	"and":       AND,
	"or":        OR,
	"true":      TRUE,
	"false":     FALSE,
	"null":      NULL,
	"if":        IF,
	"else":      ELSE,
	"while":     WHILE,
	"for":       FOR,
	"each":      EACH,
	"foreach":   EACH,
	"in":        IN,
	"to":        TO,
	"data":      DATA,
	"func":      FUNC,
	"fn":        FUNC,
	"return":    RETURN,
	"class":     CLASS,
	"childof":   CHILDOF,
	"this":      THIS,
	"attempt":   ATTEMPT,
	"fail":      FAIL,
	"panic":     PANIC,
	"stop":      STOP,
	"skip":      SKIP,
	"import":    IMPORT,
	"alias":     ALIAS,
	"namespace": NAMESPACE,
}

// TypeNames maps token types to readable names (for diagnostics and tests).
var TypeNames = map[Type]string{
	LPAREN: "LPAREN", RPAREN: "RPAREN", LBRACE: "LBRACE", RBRACE: "RBRACE",
	LBRACKET: "LBRACKET", RBRACKET: "RBRACKET", COMMA: "COMMA", DOT: "DOT",
	COLON: "COLON", DOUBLE_COLON: "DOUBLE_COLON", SEMICOLON: "SEMICOLON",
	PLUS: "PLUS", PLUS_PLUS: "PLUS_PLUS", MINUS: "MINUS", MINUS_MINUS: "MINUS_MINUS",
	STAR: "STAR", DIVIDE: "DIVIDE", PERCENT: "PERCENT",
	EQUAL: "EQUAL", EQUAL_EQUAL: "EQUAL_EQUAL", BANG: "BANG", BANG_EQUAL: "BANG_EQUAL",
	LESS: "LESS", LESS_EQUAL: "LESS_EQUAL", LESS_LESS: "LESS_LESS",
	GREATER: "GREATER", GREATER_EQUAL: "GREATER_EQUAL", GREATER_GREATER: "GREATER_GREATER",
	AMPERSAND: "AMPERSAND", PIPE: "PIPE", CARET: "CARET", TILDE: "TILDE", LARROW: "LARROW",
	IDENTIFIER: "IDENTIFIER", STRING: "STRING", NUMBER: "NUMBER",
	AND: "AND", OR: "OR", TRUE: "TRUE", FALSE: "FALSE", NULL: "NULL",
	IF: "IF", ELSE: "ELSE", WHILE: "WHILE", FOR: "FOR", EACH: "EACH", IN: "IN", TO: "TO",
	DATA: "DATA", FUNC: "FUNC", RETURN: "RETURN", CLASS: "CLASS", CHILDOF: "CHILDOF",
	THIS: "THIS", ATTEMPT: "ATTEMPT", FAIL: "FAIL", PANIC: "PANIC",
	STOP: "STOP", SKIP: "SKIP", IMPORT: "IMPORT", ALIAS: "ALIAS", NAMESPACE: "NAMESPACE",
	EOF: "EOF",
}

func (t Type) String() string {
	if name, ok := TypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
