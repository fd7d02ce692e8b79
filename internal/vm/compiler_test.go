package vm

import (
	"testing"
)

func compileChunk(t *testing.T, source string) *Chunk {
	t.Helper()
	fn := compileScript(t, source)
	return fn.Chunk
}

func TestExpressionStatementBytecode(t *testing.T) {
	chunk := compileChunk(t, `1`)
	want := []byte{
		byte(OP_CONSTANT), 0,
		byte(OP_POP),
		byte(OP_RETURN),
	}
	if len(chunk.Code) != len(want) {
		t.Fatalf("code length = %d, want %d (%v)", len(chunk.Code), len(want), chunk.Code)
	}
	for i, b := range want {
		if chunk.Code[i] != b {
			t.Errorf("code[%d] = %d, want %d", i, chunk.Code[i], b)
		}
	}
	if !chunk.Constants[0].Equals(NumberVal(1)) {
		t.Errorf("constant 0 = %s, want 1", chunk.Constants[0].ToString())
	}
}

func TestAssignmentLeavesNothingOnStack(t *testing.T) {
	chunk := compileChunk(t, "data x = 1\nx = 2")
	// SET_GLOBAL pops, so the assignment statement ends the chunk directly:
	// no POP between it and the final RETURN.
	code := chunk.Code
	if n := len(code); Opcode(code[n-1]) != OP_RETURN ||
		Opcode(code[n-3]) != OP_SET_GLOBAL {
		t.Errorf("tail of chunk = %v, want SET_GLOBAL <idx> RETURN", code)
	}
}

func TestComparisonLowering(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Opcode
	}{
		{"greater equal", `1 >= 2`, []Opcode{OP_LESS, OP_NOT}},
		{"less equal", `1 <= 2`, []Opcode{OP_GREATER, OP_NOT}},
		{"not equal", `1 != 2`, []Opcode{OP_EQUAL, OP_NOT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := compileChunk(t, tt.source)
			if !containsSequence(chunk.Code, tt.want) {
				t.Errorf("bytecode %v does not contain %v", chunk.Code, tt.want)
			}
		})
	}
}

func containsSequence(code []byte, ops []Opcode) bool {
outer:
	for i := 0; i+len(ops) <= len(code); i++ {
		for j, op := range ops {
			if Opcode(code[i+j]) != op {
				continue outer
			}
		}
		return true
	}
	return false
}

func TestJumpPatching(t *testing.T) {
	chunk := compileChunk(t, "if true {\n}\n")
	// TRUE, JUMP_IF_FALSE <then>, POP, JUMP <else>, POP, RETURN
	if Opcode(chunk.Code[0]) != OP_TRUE {
		t.Fatalf("code[0] = %d, want OP_TRUE", chunk.Code[0])
	}
	if Opcode(chunk.Code[1]) != OP_JUMP_IF_FALSE {
		t.Fatalf("code[1] = %d, want OP_JUMP_IF_FALSE", chunk.Code[1])
	}
	offset := int(chunk.Code[2])<<8 | int(chunk.Code[3])
	// Lands after the then-branch JUMP, on the else-path POP.
	target := 4 + offset
	if Opcode(chunk.Code[target]) != OP_POP {
		t.Errorf("jump target %d = %d, want OP_POP", target, chunk.Code[target])
	}
}

func TestLoopJumpsBackward(t *testing.T) {
	chunk := compileChunk(t, "while true {\n}\n")
	code := chunk.Code
	loopAt := -1
	for i := 0; i < len(code); i++ {
		if Opcode(code[i]) == OP_LOOP {
			loopAt = i
			break
		}
	}
	if loopAt == -1 {
		t.Fatal("no OP_LOOP emitted")
	}
	offset := int(code[loopAt+1])<<8 | int(code[loopAt+2])
	if target := loopAt + 3 - offset; target != 0 {
		t.Errorf("loop target = %d, want 0 (the condition)", target)
	}
}

func TestNamespaceMangling(t *testing.T) {
	chunk := compileChunk(t, "namespace app {\n  data x = 1\n}")
	found := false
	for _, c := range chunk.Constants {
		if c.IsString() && c.AsString() == "app::x" {
			found = true
		}
	}
	if !found {
		t.Errorf("constants %v do not contain mangled name app::x", chunk.Constants)
	}
}

func TestNativeNamesEscapeNamespace(t *testing.T) {
	chunk := compileChunk(t, "namespace app {\n  out(1)\n}")
	for _, c := range chunk.Constants {
		if c.IsString() && c.AsString() == "app::out" {
			t.Error("native name was namespace-qualified")
		}
	}
}

func TestFunctionCompilation(t *testing.T) {
	chunk := compileChunk(t, "func add(a, b) {\n  return a + b\n}")

	var fn *CompiledFunction
	for _, c := range chunk.Constants {
		if c.IsFunction() {
			fn = c.AsFunction()
		}
	}
	if fn == nil {
		t.Fatal("no function constant emitted")
	}
	if fn.Arity != 2 {
		t.Errorf("arity = %d, want 2", fn.Arity)
	}
	if fn.Name != "add" {
		t.Errorf("name = %q, want add", fn.Name)
	}
	// Parameters resolve as locals: slots 1 and 2.
	want := []Opcode{OP_GET_LOCAL, Opcode(1), OP_GET_LOCAL, Opcode(2), OP_ADD, OP_RETURN}
	if !containsSequence(fn.Chunk.Code, want) {
		t.Errorf("body bytecode %v does not contain %v", fn.Chunk.Code, want)
	}
}

func TestClosureCapturesUpvalue(t *testing.T) {
	source := `func outerFn() {
  data captured = 1
  func innerFn() {
    return captured
  }
  return innerFn
}`
	chunk := compileChunk(t, source)

	var outer *CompiledFunction
	for _, c := range chunk.Constants {
		if c.IsFunction() {
			outer = c.AsFunction()
		}
	}
	if outer == nil {
		t.Fatal("no function constant emitted")
	}

	var inner *CompiledFunction
	for _, c := range outer.Chunk.Constants {
		if c.IsFunction() {
			inner = c.AsFunction()
		}
	}
	if inner == nil {
		t.Fatal("no nested function constant emitted")
	}
	if inner.UpvalueCount != 1 {
		t.Errorf("upvalue count = %d, want 1", inner.UpvalueCount)
	}
	if !containsSequence(inner.Chunk.Code, []Opcode{OP_GET_UPVALUE, Opcode(0)}) {
		t.Errorf("inner bytecode %v does not read upvalue 0", inner.Chunk.Code)
	}
}

func TestLinesTrackBytecode(t *testing.T) {
	chunk := compileChunk(t, "1\n2\n")
	if chunk.Lines[0] != 1 {
		t.Errorf("first instruction line = %d, want 1", chunk.Lines[0])
	}
	secondConst := -1
	count := 0
	for i := 0; i < len(chunk.Code); i++ {
		if Opcode(chunk.Code[i]) == OP_CONSTANT {
			count++
			if count == 2 {
				secondConst = i
			}
			i++ // skip operand
		}
	}
	if secondConst == -1 {
		t.Fatal("second constant not found")
	}
	if chunk.Lines[secondConst] != 2 {
		t.Errorf("second constant line = %d, want 2", chunk.Lines[secondConst])
	}
}

func TestDisassembleSmoke(t *testing.T) {
	chunk := compileChunk(t, "data x = 1\nout(x)")
	text := Disassemble(chunk, "script")
	for _, want := range []string{"== script ==", "CONSTANT", "DEFINE_GLOBAL", "GET_GLOBAL", "CALL"} {
		if !contains(text, want) {
			t.Errorf("disassembly missing %q:\n%s", want, text)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
