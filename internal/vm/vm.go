package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ry-lang/ry/internal/diagnostics"
	"github.com/ry-lang/ry/internal/modules"
)

// Stack and call depth limits
const (
	StackMax  = 256
	FramesMax = 64
)

// RuntimeError is a recoverable VM error. Every RuntimeError raised during
// execution unwinds to the nearest attempt handler, or aborts the program
// with a positioned report when no handler is active.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeError(format string, args ...interface{}) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...)}
}

// CallFrame represents a single ongoing function call
type CallFrame struct {
	closure *ObjClosure
	ip      int // Instruction pointer within this frame's chunk
	slots   int // Where this frame's locals start in the stack
}

// ControlBlock is a pending attempt handler. Raising a panic restores the
// recorded stack and frame depths and resumes at handlerIP.
type ControlBlock struct {
	stackDepth int
	frameDepth int
	handlerIP  int
}

// VM is the virtual machine that executes bytecode
type VM struct {
	stack    [StackMax]Value
	stackTop int

	frames     [FramesMax]CallFrame
	frameCount int

	// Current frame (for convenience)
	frame *CallFrame

	globals map[string]Value

	// Linked list of open upvalues, sorted by stack location (highest first)
	openUpvalues *ObjUpvalue

	// Active attempt handlers, innermost last
	panicStack []ControlBlock

	// Compiled modules keyed by absolute path; an import of a cached module
	// reuses the closure without re-running the file read.
	moduleCache map[string]*ObjClosure
	resolver    *modules.Resolver

	// Source of the outermost script, for runtime error excerpts
	source string

	// Position of the instruction being executed
	curLine int
	curCol  int

	Stdout io.Writer
	Stdin  io.Reader

	// Lazily created so tests can swap Stdin before the first input() call
	stdinReader *bufio.Reader
}

// New creates a VM with the built-in natives registered. baseDir anchors
// import resolution; "" means the current working directory.
func New(baseDir string) *VM {
	vm := &VM{
		globals:     make(map[string]Value),
		moduleCache: make(map[string]*ObjClosure),
		resolver:    modules.NewResolver(baseDir),
		Stdout:      os.Stdout,
		Stdin:       os.Stdin,
	}
	vm.registerNatives()
	return vm
}

// Interpret runs a compiled script on the VM. Globals persist across calls,
// which is what keeps REPL sessions stateful.
func (vm *VM) Interpret(fn *CompiledFunction, source string) error {
	vm.source = source
	closure := NewClosure(fn)
	vm.push(ClosureVal(closure))
	if err := vm.callClosure(closure, 0); err != nil {
		vm.resetStack()
		return err
	}
	return vm.run()
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCount = 0
	vm.frame = nil
	vm.openUpvalues = nil
	vm.panicStack = vm.panicStack[:0]
}

func (vm *VM) push(value Value) {
	vm.stack[vm.stackTop] = value
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

// raise implements the panic protocol. With a handler active it unwinds the
// stack and frames to the recorded depths, pushes the message where the
// handler's error variable lives, and resumes at the fail block. Without
// one it reports at the current instruction and aborts.
func (vm *VM) raise(message string) error {
	if len(vm.panicStack) == 0 {
		diagnostics.Report(vm.curLine, vm.curCol, message, vm.source)
		vm.resetStack()
		return fmt.Errorf("runtime error: %s", message)
	}

	block := vm.panicStack[len(vm.panicStack)-1]
	vm.panicStack = vm.panicStack[:len(vm.panicStack)-1]

	vm.closeUpvalues(block.stackDepth)
	vm.frameCount = block.frameDepth
	vm.frame = &vm.frames[vm.frameCount-1]
	vm.stackTop = block.stackDepth
	vm.push(StringVal(message))
	vm.frame.ip = block.handlerIP
	return nil
}

// captureUpvalue returns the open upvalue for a stack slot, creating and
// splicing one in when the slot is not captured yet. The list stays sorted
// by descending location.
func (vm *VM) captureUpvalue(location int) *ObjUpvalue {
	var prev *ObjUpvalue
	uv := vm.openUpvalues
	for uv != nil && uv.Location > location {
		prev = uv
		uv = uv.Next
	}
	if uv != nil && uv.Location == location {
		return uv
	}

	created := &ObjUpvalue{Location: location, Next: uv}
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the given stack slot,
// moving the captured value off the stack into the upvalue itself.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Location >= from {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Location]
		uv.Location = -1
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}

// upvalueGet reads through an upvalue regardless of open/closed state.
func (vm *VM) upvalueGet(uv *ObjUpvalue) Value {
	if uv.Location >= 0 {
		return vm.stack[uv.Location]
	}
	return uv.Closed
}

func (vm *VM) upvalueSet(uv *ObjUpvalue, value Value) {
	if uv.Location >= 0 {
		vm.stack[uv.Location] = value
		return
	}
	uv.Closed = value
}

// calculateDistance is the Levenshtein edit distance, used to suggest
// likely names for undefined variables. Lengths more than two apart are
// never close enough, so they short-circuit.
func calculateDistance(a, b string) int {
	diff := len(a) - len(b)
	if diff < -2 || diff > 2 {
		return 99
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// suggestGlobal finds the closest defined global within edit distance two.
func (vm *VM) suggestGlobal(name string) string {
	best := ""
	bestDistance := 3
	for candidate := range vm.globals {
		if d := calculateDistance(name, candidate); d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}
