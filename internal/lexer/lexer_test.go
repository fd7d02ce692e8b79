package lexer

import (
	"testing"

	"github.com/ry-lang/ry/internal/token"
)

func scan(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	tokens := l.ScanTokens()
	if len(l.Errors) > 0 {
		t.Fatalf("lexer error: %s", l.Errors[0].Error())
	}
	return tokens
}

func TestOperators(t *testing.T) {
	input := `+ ++ - -- -> * / % = == ! != < <= << > >= >> & | ^ ~ :: : ;`
	want := []token.Type{
		token.PLUS, token.PLUS_PLUS, token.MINUS, token.MINUS_MINUS, token.LARROW,
		token.STAR, token.DIVIDE, token.PERCENT,
		token.EQUAL, token.EQUAL_EQUAL, token.BANG, token.BANG_EQUAL,
		token.LESS, token.LESS_EQUAL, token.LESS_LESS,
		token.GREATER, token.GREATER_EQUAL, token.GREATER_GREATER,
		token.AMPERSAND, token.PIPE, token.CARET, token.TILDE,
		token.DOUBLE_COLON, token.COLON, token.SEMICOLON,
		token.EOF,
	}
	tokens := scan(t, input)
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, tokens[i].Type, w)
		}
	}
}

func TestKeywordsAndAliases(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"data", token.DATA},
		{"func", token.FUNC},
		{"fn", token.FUNC},
		{"each", token.EACH},
		{"foreach", token.EACH},
		{"childof", token.CHILDOF},
		{"attempt", token.ATTEMPT},
		{"fail", token.FAIL},
		{"panic", token.PANIC},
		{"stop", token.STOP},
		{"skip", token.SKIP},
		{"namespace", token.NAMESPACE},
		{"alias", token.ALIAS},
		{"datum", token.IDENTIFIER}, // keyword prefix alone is not a keyword
	}
	for _, tt := range tests {
		tokens := scan(t, tt.input)
		if tokens[0].Type != tt.want {
			t.Errorf("%q = %s, want %s", tt.input, tokens[0].Type, tt.want)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{"10.0", 10},
	}
	for _, tt := range tests {
		tokens := scan(t, tt.input)
		if tokens[0].Type != token.NUMBER {
			t.Fatalf("%q: type = %s, want NUMBER", tt.input, tokens[0].Type)
		}
		if got := tokens[0].Literal.(float64); got != tt.want {
			t.Errorf("%q: literal = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `"hello"`, "hello"},
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"quote", `"say \"hi\""`, `say "hi"`},
		{"backslash", `"a\\b"`, `a\b`},
		{"dollar", `"cost: \$5"`, "cost: $5"},
		{"empty", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := scan(t, tt.input)
			if tokens[0].Type != token.STRING {
				t.Fatalf("type = %s, want STRING", tokens[0].Type)
			}
			if got := tokens[0].Literal.(string); got != tt.want {
				t.Errorf("literal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpolationDesugaring(t *testing.T) {
	tokens := scan(t, `"a${x}b"`)
	want := []struct {
		typ    token.Type
		lexeme string
	}{
		{token.STRING, "a"},
		{token.PLUS, "+"},
		{token.IDENTIFIER, "x"},
		{token.PLUS, "+"},
		{token.STRING, "b"},
		{token.EOF, ""},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}
	for i, w := range want {
		if tokens[i].Type != w.typ {
			t.Errorf("token %d = %s, want %s", i, tokens[i].Type, w.typ)
		}
	}
}

func TestInterpolationAtStart(t *testing.T) {
	// No empty leading segment: `${x}!` becomes IDENT PLUS STRING.
	tokens := scan(t, `"${x}!"`)
	want := []token.Type{token.IDENTIFIER, token.PLUS, token.STRING, token.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token %d = %s, want %s", i, tokens[i].Type, w)
		}
	}
	if tokens[2].Literal.(string) != "!" {
		t.Errorf("trailing segment = %q, want %q", tokens[2].Literal, "!")
	}
}

func TestComments(t *testing.T) {
	tokens := scan(t, "1 # the rest is ignored ++ \"\n2")
	want := []token.Type{token.NUMBER, token.NUMBER, token.EOF}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
}

func TestPositions(t *testing.T) {
	tokens := scan(t, "data x\n  out")
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("data at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[1].Line != 1 || tokens[1].Column != 6 {
		t.Errorf("x at %d:%d, want 1:6", tokens[1].Line, tokens[1].Column)
	}
	if tokens[2].Line != 2 || tokens[2].Column != 3 {
		t.Errorf("out at %d:%d, want 2:3", tokens[2].Line, tokens[2].Column)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated string", `"abc`, "Unterminated string."},
		{"unterminated interpolation", `"a${x`, "Unterminated interpolation."},
		{"unexpected character", "@", "Unexpected character: '@'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			l.ScanTokens()
			if len(l.Errors) == 0 {
				t.Fatal("expected an error")
			}
			if l.Errors[0].Message != tt.want {
				t.Errorf("got %q, want %q", l.Errors[0].Message, tt.want)
			}
		})
	}
}
