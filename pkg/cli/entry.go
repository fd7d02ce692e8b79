// Package cli implements the ry command line entry point: running script
// files, printing the version, and the interactive REPL.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ry-lang/ry/internal/config"
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/vm"
)

// Exit codes follow the sysexits convention: 65 for compile errors, 70 for
// runtime errors.
const (
	exitUsage   = 64
	exitCompile = 65
	exitRuntime = 70
)

// Run dispatches the command line. With no arguments it starts the REPL.
func Run() {
	args := os.Args[1:]

	if len(args) == 0 {
		RunREPL()
		return
	}

	switch args[0] {
	case "-v", "--version":
		fmt.Println(config.Version)
	case "run":
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "Usage: %s run <path>\n", os.Args[0])
			os.Exit(exitUsage)
		}
		RunFile(args[1])
	default:
		// `ry script.ry` works as shorthand for `ry run script.ry`.
		RunFile(args[0])
	}
}

// RunFile compiles and executes a script file
func RunFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open script file '%s'.\n", path)
		os.Exit(exitUsage)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	fn, errs := vm.CompileSource(string(source), absPath)
	if len(errs) > 0 {
		for _, e := range errs {
			diagnostics.ReportCompile(e.Line, e.Column, e.Message, string(source))
		}
		os.Exit(exitCompile)
	}

	machine := vm.New(filepath.Dir(absPath))
	if err := machine.Interpret(fn, string(source)); err != nil {
		os.Exit(exitRuntime)
	}
}
