package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable representation of the bytecode
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	sb.WriteString(fmt.Sprintf("%04d ", offset))

	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		sb.WriteString(fmt.Sprintf("%4d ", chunk.Lines[offset]))
	}

	op := Opcode(chunk.Code[offset])
	name, ok := OpcodeNames[op]
	if !ok {
		sb.WriteString(fmt.Sprintf("UNKNOWN %d\n", op))
		return offset + 1
	}

	switch op {
	case OP_CONSTANT, OP_DEFINE_GLOBAL, OP_GET_GLOBAL, OP_SET_GLOBAL,
		OP_GET_PROPERTY, OP_SET_PROPERTY, OP_CLASS, OP_METHOD:
		return constantInstruction(sb, name, chunk, offset)

	case OP_GET_LOCAL, OP_SET_LOCAL, OP_GET_UPVALUE, OP_SET_UPVALUE,
		OP_CALL, OP_BUILD_LIST, OP_BUILD_MAP:
		return byteInstruction(sb, name, chunk, offset)

	case OP_JUMP, OP_JUMP_IF_FALSE, OP_FOR_EACH_NEXT, OP_ATTEMPT:
		return jumpInstruction(sb, name, chunk, offset, 1)

	case OP_LOOP:
		return jumpInstruction(sb, name, chunk, offset, -1)

	case OP_CLOSURE:
		return closureInstruction(sb, name, chunk, offset)

	default:
		sb.WriteString(name + "\n")
		return offset + 1
	}
}

func constantInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	index := chunk.Code[offset+1]
	sb.WriteString(fmt.Sprintf("%-16s %4d '%s'\n", name, index, chunk.Constants[index].ToString()))
	return offset + 2
}

func byteInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	operand := chunk.Code[offset+1]
	sb.WriteString(fmt.Sprintf("%-16s %4d\n", name, operand))
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, name string, chunk *Chunk, offset, sign int) int {
	jump := int(chunk.Code[offset+1])<<8 | int(chunk.Code[offset+2])
	sb.WriteString(fmt.Sprintf("%-16s %4d -> %d\n", name, offset, offset+3+sign*jump))
	return offset + 3
}

func closureInstruction(sb *strings.Builder, name string, chunk *Chunk, offset int) int {
	index := chunk.Code[offset+1]
	fn := chunk.Constants[index].AsFunction()
	sb.WriteString(fmt.Sprintf("%-16s %4d %s\n", name, index, fn.Name))
	offset += 2
	for i := 0; i < fn.UpvalueCount; i++ {
		isLocal := chunk.Code[offset] == 1
		capture := chunk.Code[offset+1]
		kind := "upvalue"
		if isLocal {
			kind = "local"
		}
		sb.WriteString(fmt.Sprintf("%04d    |                     %s %d\n", offset, kind, capture))
		offset += 2
	}
	return offset
}
