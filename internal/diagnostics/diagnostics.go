// Package diagnostics formats lexer, compiler, and runtime errors with
// source excerpts and caret pointers.
package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/ry-lang/ry/internal/token"
)

// ANSI escape codes, emitted only when stderr is a terminal.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
)

var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// SetColorEnabled overrides terminal detection (used by tests).
func SetColorEnabled(on bool) { colorEnabled = on }

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + ansiReset
}

// Error is a positioned diagnostic produced by any pipeline stage.
type Error struct {
	Code    string // stage prefix: L=lexer, P=parser, C=compiler
	Line    int
	Column  int
	Message string
	File    string
}

func NewError(code string, tok token.Token, message string) *Error {
	return &Error{Code: code, Line: tok.Line, Column: tok.Column, Message: message}
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Report prints a source excerpt with a caret under the offending column,
// followed by the message with a red "Runtime Error:" prefix.
func Report(line, column int, message, source string) {
	excerpt := sourceLine(source, line)
	fmt.Fprintf(os.Stderr, "%s\n", paint(ansiBold, fmt.Sprintf("[line %d:%d]", line, column)))
	if excerpt != "" {
		fmt.Fprintf(os.Stderr, "    %s\n", excerpt)
		if column > 0 && column <= len(excerpt)+1 {
			fmt.Fprintf(os.Stderr, "    %s%s\n", strings.Repeat(" ", column-1), paint(ansiRed, "^"))
		}
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", paint(ansiBold+ansiRed, "Runtime Error:"), message)
}

// ReportCompile prints a compile-stage diagnostic in the same excerpt format.
func ReportCompile(line, column int, message, source string) {
	excerpt := sourceLine(source, line)
	fmt.Fprintf(os.Stderr, "%s\n", paint(ansiBold, fmt.Sprintf("[line %d:%d]", line, column)))
	if excerpt != "" {
		fmt.Fprintf(os.Stderr, "    %s\n", excerpt)
		if column > 0 && column <= len(excerpt)+1 {
			fmt.Fprintf(os.Stderr, "    %s%s\n", strings.Repeat(" ", column-1), paint(ansiRed, "^"))
		}
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", paint(ansiBold+ansiRed, "Error:"), message)
}

func sourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// Prompt paints a REPL prompt blue on terminals.
func Prompt(s string) string { return paint(ansiBlue, s) }

// Banner paints the REPL banner bold on terminals.
func Banner(s string) string { return paint(ansiBold, s) }
