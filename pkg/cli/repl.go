package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ry-lang/ry/internal/config"
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/vm"
)

// RunREPL starts the interactive session. Input accumulates while braces
// are open; the buffer runs once every opened block is closed again.
// Globals persist across inputs on a single VM.
func RunREPL() {
	fmt.Println(diagnostics.Banner("Ry (Ry's for You) REPL - Bytecode Edition"))
	fmt.Println(config.Version)
	fmt.Println("Type 'quit' to exit, '!!' to clear the current buffer.")

	baseDir, _ := os.Getwd()
	machine := vm.New(baseDir)

	scanner := bufio.NewScanner(os.Stdin)
	var buffer strings.Builder
	indentLevel := 0

	for {
		fmt.Print(prompt(indentLevel))
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()

		if indentLevel == 0 {
			switch strings.TrimSpace(line) {
			case "quit":
				return
			case "clear":
				fmt.Print("\033[2J\033[H")
				continue
			case "!!":
				buffer.Reset()
				indentLevel = 0
				fmt.Println("Buffer cleared.")
				continue
			}
		}

		buffer.WriteString(line)
		buffer.WriteByte('\n')
		indentLevel += countIndentation(line)

		if indentLevel > 0 {
			continue
		}

		runInput(machine, buffer.String())
		buffer.Reset()
		indentLevel = 0
	}
}

func prompt(indentLevel int) string {
	if indentLevel <= 0 {
		return diagnostics.Prompt("ry> ")
	}
	return strings.Repeat(".", indentLevel*4) + " "
}

// countIndentation tracks the brace delta of one input line; string
// contents and comments are skipped so a "{" in a string does not keep
// the REPL waiting.
func countIndentation(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '#':
			return delta
		case '{', '[', '(':
			delta++
		case '}', ']', ')':
			delta--
		}
	}
	return delta
}

func runInput(machine *vm.VM, source string) {
	fn, errs := vm.CompileSource(source, "")
	if len(errs) > 0 {
		for _, e := range errs {
			diagnostics.ReportCompile(e.Line, e.Column, e.Message, source)
		}
		return
	}
	// Interpret already reported any runtime error.
	_ = machine.Interpret(fn, source)
}
