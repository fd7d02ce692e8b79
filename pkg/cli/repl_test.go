package cli

import "testing"

func TestCountIndentation(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{"flat", `out(1)`, 0},
		{"open brace", `func f() {`, 1},
		{"close brace", `}`, -1},
		{"balanced", `if x { out(1) }`, 0},
		{"nested opens", `data m = {"a": [`, 2},
		{"brace in string", `out("{")`, 0},
		{"escaped quote", `out("\"{")`, 0},
		{"comment hides rest", `out(1) # {{{`, 0},
		{"bracket and paren", `data l = [f(`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countIndentation(tt.line); got != tt.want {
				t.Errorf("countIndentation(%q) = %d, want %d", tt.line, got, tt.want)
			}
		})
	}
}

func TestPrompt(t *testing.T) {
	if got := prompt(0); got == "" {
		t.Error("top-level prompt is empty")
	}
	if got := prompt(2); got != "........ " {
		t.Errorf("continuation prompt = %q, want 8 dots and a space", got)
	}
}
