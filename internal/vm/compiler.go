package vm

import (
	"strings"

	"github.com/ry-lang/ry/internal/ast"
	"github.com/ry-lang/ry/internal/config"
	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/token"
)

// Local represents a local variable during compilation
type Local struct {
	Name  string
	Depth int // Scope depth where this local was declared
}

// Upvalue represents a captured variable from an enclosing scope
type Upvalue struct {
	Index   uint8 // Index of the local/upvalue in the enclosing scope
	IsLocal bool  // True if it captures a local, false if another upvalue
}

// FunctionType distinguishes top-level code, functions, and methods
type FunctionType int

const (
	TYPE_SCRIPT FunctionType = iota
	TYPE_FUNCTION
	TYPE_METHOD
)

// LoopType tags a LoopContext so stop/skip know how much stack to discard
type LoopType int

const (
	LOOP_WHILE LoopType = iota
	LOOP_FOR
	LOOP_EACH
)

// LoopContext tracks the innermost enclosing loop for stop/skip
type LoopContext struct {
	loopStart  int   // Offset of loop start (for skip)
	scopeDepth int   // Scope depth when the loop started
	loopType   LoopType
	breakJumps []int // Offsets of stop jumps to patch at loop end
}

// funcState is the per-function compilation state. Function bodies nest, so
// these form a chain through enclosing.
type funcState struct {
	enclosing  *funcState
	function   *CompiledFunction
	funcType   FunctionType
	locals     []Local
	scopeDepth int
	upvalues   []Upvalue
	loopStack  []*LoopContext
}

func newFuncState(enclosing *funcState, funcType FunctionType, name, file string) *funcState {
	chunk := NewChunk()
	chunk.File = file
	fs := &funcState{
		enclosing: enclosing,
		function:  &CompiledFunction{Chunk: chunk, Name: name},
		funcType:  funcType,
		locals:    make([]Local, 0, 8),
	}
	// Slot zero belongs to the callee: the closure itself, or the receiver
	// inside a method.
	slotZero := ""
	if funcType == TYPE_METHOD {
		slotZero = "this"
	}
	fs.locals = append(fs.locals, Local{Name: slotZero, Depth: 0})
	return fs
}

// Compiler walks the AST once and emits bytecode directly
type Compiler struct {
	current    *funcState
	namespace  string // active namespace prefix, "" at top level
	classDepth int    // > 0 while compiling class methods

	errors []*diagnostics.Error
	file   string

	// Position of the token being compiled, recorded per emitted byte
	line   int
	column int
}

// Compile translates a parsed program into a top-level function whose chunk
// ends with a bare OP_RETURN.
func Compile(program *ast.Program) (*CompiledFunction, []*diagnostics.Error) {
	c := &Compiler{file: program.File}
	c.current = newFuncState(nil, TYPE_SCRIPT, "(script)", program.File)

	for _, stmt := range program.Statements {
		c.statement(stmt)
	}
	c.emitOp(OP_RETURN)

	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.current.function, nil
}

func (c *Compiler) chunk() *Chunk {
	return c.current.function.Chunk
}

func (c *Compiler) track(tok token.Token) {
	c.line = tok.Line
	c.column = tok.Column
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	err := diagnostics.NewError("C001", tok, message)
	err.File = c.file
	c.errors = append(c.errors, err)
}

// --- Emission ---

func (c *Compiler) emitByte(b byte) {
	c.chunk().Write(b, c.line, c.column)
}

func (c *Compiler) emitOp(op Opcode) {
	c.chunk().WriteOp(op, c.line, c.column)
}

func (c *Compiler) emitOps(a, b Opcode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *Compiler) makeConstant(value Value, tok token.Token) byte {
	index := c.chunk().AddConstant(value)
	if index > 255 {
		c.errorAt(tok, "Too many constants in one chunk.")
		return 0
	}
	return byte(index)
}

func (c *Compiler) emitConstant(value Value, tok token.Token) {
	c.emitOp(OP_CONSTANT)
	c.emitByte(c.makeConstant(value, tok))
}

func (c *Compiler) identifierConstant(name string, tok token.Token) byte {
	return c.makeConstant(StringVal(name), tok)
}

// emitJump writes op with a two-byte placeholder and returns the offset of
// the placeholder for later patching.
func (c *Compiler) emitJump(op Opcode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.chunk().Len() - 2
}

func (c *Compiler) patchJump(offset int, tok token.Token) {
	jump := c.chunk().Len() - offset - 2
	if jump > 0xffff {
		c.errorAt(tok, "Too much code to jump over.")
	}
	c.chunk().Code[offset] = byte(jump >> 8)
	c.chunk().Code[offset+1] = byte(jump)
}

func (c *Compiler) emitLoop(loopStart int, tok token.Token) {
	c.emitOp(OP_LOOP)
	offset := c.chunk().Len() - loopStart + 2
	if offset > 0xffff {
		c.errorAt(tok, "Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// --- Namespace mangling ---

// globalName qualifies a bare identifier with the active namespace.
// Already-qualified names pass through, and so do native function names so
// `out` keeps working inside a namespace block.
func (c *Compiler) globalName(name string) string {
	if strings.Contains(name, "::") {
		return name
	}
	if config.NativeNames[name] || strings.HasPrefix(name, "native") {
		return name
	}
	if c.namespace != "" {
		return c.namespace + "::" + name
	}
	return name
}

// assignName is globalName without the native escape: assignment inside a
// namespace always targets the namespaced global.
func (c *Compiler) assignName(name string) string {
	if strings.Contains(name, "::") {
		return name
	}
	if c.namespace != "" {
		return c.namespace + "::" + name
	}
	return name
}

// baseName strips any namespace qualifier; locals are stored unqualified.
func baseName(name string) string {
	if i := strings.LastIndex(name, "::"); i != -1 {
		return name[i+2:]
	}
	return name
}
