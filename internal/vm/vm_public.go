package vm

import (
	"os"

	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/lexer"
	"github.com/ry-lang/ry/internal/parser"
	"github.com/ry-lang/ry/internal/pipeline"
)

// CompileSource runs the full front end on a source string: lexer, parser,
// then the bytecode compiler. filePath is recorded in the chunk for
// diagnostics; it may be empty for REPL input.
func CompileSource(source, filePath string) (*CompiledFunction, []*diagnostics.Error) {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath

	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	)
	ctx = p.Run(ctx)
	if ctx.HadError() {
		return nil, ctx.Errors
	}

	program := ctx.AstRoot.(*ast.Program)
	return Compile(program)
}

// importModule resolves, compiles, and runs a module. The module's closure
// is cached by absolute path, so repeated imports run the file only once.
func (vm *VM) importModule() error {
	pathValue := vm.pop()
	if !pathValue.IsString() {
		return runtimeError("Import path must be a string.")
	}
	name := pathValue.AsString()

	path, err := vm.resolver.Resolve(name)
	if err != nil {
		return runtimeError("Could not open script file '%s'.", name)
	}

	if cached, ok := vm.moduleCache[path]; ok {
		vm.push(ClosureVal(cached))
		return vm.callClosure(cached, 0)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return runtimeError("Could not open script file '%s'.", name)
	}

	fn, errs := CompileSource(string(src), path)
	if len(errs) > 0 {
		return runtimeError("Could not compile script file '%s': %s", name, errs[0].Message)
	}

	closure := NewClosure(fn)
	vm.moduleCache[path] = closure
	vm.push(ClosureVal(closure))
	return vm.callClosure(closure, 0)
}
