// Package vm implements the bytecode compiler and virtual machine for Ry
package vm

// Opcode represents a single VM instruction
type Opcode byte

const (
	// Literals
	OP_CONSTANT Opcode = iota // Push constant from pool (1-byte index)
	OP_NULL                   // Push null
	OP_TRUE                   // Push true
	OP_FALSE                  // Push false
	OP_POP                    // Discard top of stack
	OP_COPY                   // Duplicate top of stack

	// Variables & scopes
	OP_DEFINE_GLOBAL // Define global by name constant, pops value
	OP_GET_GLOBAL    // Push global by name constant
	OP_SET_GLOBAL    // Pop value into existing global
	OP_GET_LOCAL     // Push frame slot
	OP_SET_LOCAL     // Pop value into frame slot
	OP_GET_UPVALUE   // Push through upvalue
	OP_SET_UPVALUE   // Pop value and write it through upvalue
	OP_GET_PROPERTY  // Property read by name constant
	OP_SET_PROPERTY  // Property write by name constant (instances only)

	// Math
	OP_ADD      // Polymorphic: numbers, strings, lists
	OP_SUBTRACT // Numbers only
	OP_MULTIPLY // Numbers, string repetition, list append
	OP_DIVIDE   // Numbers; zero divisor panics
	OP_MODULO   // Floating-point modulo
	OP_NEGATE   // Unary minus

	// Bitwise (integer casts of doubles)
	OP_BITWISE_AND
	OP_BITWISE_OR
	OP_BITWISE_XOR
	OP_LEFT_SHIFT
	OP_RIGHT_SHIFT

	// Comparison
	OP_EQUAL
	OP_GREATER
	OP_LESS
	OP_NOT

	// Control flow
	OP_JUMP          // Unconditional forward jump (16-bit offset)
	OP_JUMP_IF_FALSE // Forward jump when top of stack is falsey (peeks)
	OP_LOOP          // Backward jump
	OP_FOR_EACH_NEXT // Advance each-loop over a range or list, or exit

	// Collections
	OP_BUILD_LIST       // Pop n elements, push list
	OP_BUILD_MAP        // Pop n key/value pairs, push map
	OP_BUILD_RANGE_LIST // Pop end then start, push range
	OP_GET_INDEX        // obj[index] read
	OP_SET_INDEX        // obj[index] = value write

	// Functions & classes
	OP_CALL    // Call with n args
	OP_CLOSURE // Wrap function constant in a closure, capture upvalues
	OP_RETURN  // Return from current frame
	OP_CLASS   // Push new class by name constant
	OP_METHOD  // Install closure at top into class below it
	OP_INHERIT // Link superclass into subclass

	// Panic handling
	OP_ATTEMPT     // Push a panic handler (16-bit offset to fail block)
	OP_END_ATTEMPT // Pop the handler on the success path
	OP_PANIC       // Pop message and unwind to the nearest handler

	// Modules
	OP_IMPORT // Pop path, compile-or-reuse module, call it
)

// OpcodeNames maps opcodes to their string names (for the disassembler)
var OpcodeNames = map[Opcode]string{
	OP_CONSTANT: "CONSTANT",
	OP_NULL:     "NULL",
	OP_TRUE:     "TRUE",
	OP_FALSE:    "FALSE",
	OP_POP:      "POP",
	OP_COPY:     "COPY",

	OP_DEFINE_GLOBAL: "DEFINE_GLOBAL",
	OP_GET_GLOBAL:    "GET_GLOBAL",
	OP_SET_GLOBAL:    "SET_GLOBAL",
	OP_GET_LOCAL:     "GET_LOCAL",
	OP_SET_LOCAL:     "SET_LOCAL",
	OP_GET_UPVALUE:   "GET_UPVALUE",
	OP_SET_UPVALUE:   "SET_UPVALUE",
	OP_GET_PROPERTY:  "GET_PROPERTY",
	OP_SET_PROPERTY:  "SET_PROPERTY",

	OP_ADD:      "ADD",
	OP_SUBTRACT: "SUBTRACT",
	OP_MULTIPLY: "MULTIPLY",
	OP_DIVIDE:   "DIVIDE",
	OP_MODULO:   "MODULO",
	OP_NEGATE:   "NEGATE",

	OP_BITWISE_AND: "BITWISE_AND",
	OP_BITWISE_OR:  "BITWISE_OR",
	OP_BITWISE_XOR: "BITWISE_XOR",
	OP_LEFT_SHIFT:  "LEFT_SHIFT",
	OP_RIGHT_SHIFT: "RIGHT_SHIFT",

	OP_EQUAL:   "EQUAL",
	OP_GREATER: "GREATER",
	OP_LESS:    "LESS",
	OP_NOT:     "NOT",

	OP_JUMP:          "JUMP",
	OP_JUMP_IF_FALSE: "JUMP_IF_FALSE",
	OP_LOOP:          "LOOP",
	OP_FOR_EACH_NEXT: "FOR_EACH_NEXT",

	OP_BUILD_LIST:       "BUILD_LIST",
	OP_BUILD_MAP:        "BUILD_MAP",
	OP_BUILD_RANGE_LIST: "BUILD_RANGE_LIST",
	OP_GET_INDEX:        "GET_INDEX",
	OP_SET_INDEX:        "SET_INDEX",

	OP_CALL:    "CALL",
	OP_CLOSURE: "CLOSURE",
	OP_RETURN:  "RETURN",
	OP_CLASS:   "CLASS",
	OP_METHOD:  "METHOD",
	OP_INHERIT: "INHERIT",

	OP_ATTEMPT:     "ATTEMPT",
	OP_END_ATTEMPT: "END_ATTEMPT",
	OP_PANIC:       "PANIC",

	OP_IMPORT: "IMPORT",
}
