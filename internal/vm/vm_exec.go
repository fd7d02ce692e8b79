package vm

import (
	"errors"
)

// errHalt signals that the top-level frame returned; it never escapes run.
var errHalt = errors.New("halt")

func (vm *VM) readByte() byte {
	b := vm.frame.closure.Function.Chunk.Code[vm.frame.ip]
	vm.frame.ip++
	return b
}

func (vm *VM) readShort() int {
	hi := vm.readByte()
	lo := vm.readByte()
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant() Value {
	return vm.frame.closure.Function.Chunk.Constants[vm.readByte()]
}

// run is the dispatch loop. Recoverable errors go through raise, which
// either unwinds to an attempt handler and lets the loop continue, or
// reports and aborts.
func (vm *VM) run() error {
	for {
		if vm.stackTop < 0 {
			if err := vm.raise("Stack underflow."); err != nil {
				return err
			}
			continue
		}
		if vm.stackTop >= StackMax {
			if err := vm.raise("Stack overflow."); err != nil {
				return err
			}
			continue
		}

		chunk := vm.frame.closure.Function.Chunk
		vm.curLine = chunk.Lines[vm.frame.ip]
		vm.curCol = chunk.Columns[vm.frame.ip]

		op := Opcode(vm.readByte())
		err := vm.executeOneOp(op)
		if err == nil {
			continue
		}
		if err == errHalt {
			return nil
		}
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			if aborted := vm.raise(rerr.Message); aborted != nil {
				return aborted
			}
			continue
		}
		vm.resetStack()
		return err
	}
}

func (vm *VM) executeOneOp(op Opcode) error {
	switch op {
	case OP_CONSTANT:
		vm.push(vm.readConstant())

	case OP_NULL:
		vm.push(NilVal())

	case OP_TRUE:
		vm.push(BoolVal(true))

	case OP_FALSE:
		vm.push(BoolVal(false))

	case OP_POP:
		vm.pop()

	case OP_COPY:
		vm.push(vm.peek(0))

	case OP_DEFINE_GLOBAL:
		name := vm.readConstant().AsString()
		vm.globals[name] = vm.pop()

	case OP_GET_GLOBAL:
		name := vm.readConstant().AsString()
		value, ok := vm.globals[name]
		if !ok {
			if hint := vm.suggestGlobal(name); hint != "" {
				return runtimeError("Undefined variable '%s'. Did you mean '%s'?", name, hint)
			}
			return runtimeError("Undefined variable '%s'.", name)
		}
		vm.push(value)

	case OP_SET_GLOBAL:
		name := vm.readConstant().AsString()
		if _, ok := vm.globals[name]; !ok {
			if hint := vm.suggestGlobal(name); hint != "" {
				return runtimeError("Cannot set undefined variable '%s'. Did you mean '%s'?", name, hint)
			}
			return runtimeError("Cannot set undefined variable '%s'.", name)
		}
		vm.globals[name] = vm.pop()

	case OP_GET_LOCAL:
		slot := int(vm.readByte())
		vm.push(vm.stack[vm.frame.slots+slot])

	case OP_SET_LOCAL:
		slot := int(vm.readByte())
		vm.stack[vm.frame.slots+slot] = vm.pop()

	case OP_GET_UPVALUE:
		index := int(vm.readByte())
		vm.push(vm.upvalueGet(vm.frame.closure.Upvalues[index]))

	case OP_SET_UPVALUE:
		index := int(vm.readByte())
		vm.upvalueSet(vm.frame.closure.Upvalues[index], vm.pop())

	case OP_GET_PROPERTY:
		return vm.getProperty(vm.readConstant().AsString())

	case OP_SET_PROPERTY:
		return vm.setProperty(vm.readConstant().AsString())

	case OP_ADD, OP_SUBTRACT, OP_MULTIPLY, OP_DIVIDE, OP_MODULO:
		return vm.binaryOp(op)

	case OP_NEGATE:
		if !vm.peek(0).IsNumber() {
			return runtimeError("Operand must be a number.")
		}
		vm.push(NumberVal(-vm.pop().AsNumber()))

	case OP_NOT:
		vm.push(BoolVal(!vm.pop().IsTruthy()))

	case OP_BITWISE_AND, OP_BITWISE_OR, OP_BITWISE_XOR, OP_LEFT_SHIFT, OP_RIGHT_SHIFT:
		return vm.bitwiseOp(op)

	case OP_EQUAL:
		b := vm.pop()
		a := vm.pop()
		vm.push(BoolVal(a.Equals(b)))

	case OP_GREATER, OP_LESS:
		return vm.compareOp(op)

	case OP_JUMP:
		offset := vm.readShort()
		vm.frame.ip += offset

	case OP_JUMP_IF_FALSE:
		offset := vm.readShort()
		if !vm.peek(0).IsTruthy() {
			vm.frame.ip += offset
		}

	case OP_LOOP:
		offset := vm.readShort()
		vm.frame.ip -= offset

	case OP_FOR_EACH_NEXT:
		offset := vm.readShort()
		return vm.forEachNext(offset)

	case OP_BUILD_LIST:
		count := int(vm.readByte())
		elements := make([]Value, count)
		for i := count - 1; i >= 0; i-- {
			elements[i] = vm.pop()
		}
		vm.push(ListVal(&ListObject{Elements: elements}))

	case OP_BUILD_MAP:
		count := int(vm.readByte())
		m := NewMapObject()
		for i := count - 1; i >= 0; i-- {
			value := vm.peek(2 * i)
			key := vm.peek(2*i + 1)
			if !m.Set(key, value) {
				return runtimeError("Map keys must be numbers, strings, booleans, or null.")
			}
		}
		vm.stackTop -= 2 * count
		vm.push(MapVal(m))

	case OP_BUILD_RANGE_LIST:
		end := vm.pop()
		start := vm.pop()
		if !start.IsNumber() || !end.IsNumber() {
			return runtimeError("Range bounds must be numbers.")
		}
		vm.push(RangeVal(start.AsNumber(), end.AsNumber()))

	case OP_GET_INDEX:
		return vm.getIndex()

	case OP_SET_INDEX:
		return vm.setIndex()

	case OP_CALL:
		argCount := int(vm.readByte())
		return vm.callValue(vm.peek(argCount), argCount)

	case OP_CLOSURE:
		fn := vm.readConstant().AsFunction()
		closure := NewClosure(fn)
		vm.push(ClosureVal(closure))
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := vm.readByte() == 1
			index := int(vm.readByte())
			if isLocal {
				closure.Upvalues[i] = vm.captureUpvalue(vm.frame.slots + index)
			} else {
				closure.Upvalues[i] = vm.frame.closure.Upvalues[index]
			}
		}

	case OP_RETURN:
		frame := vm.frame
		result := vm.pop()
		// An init method always hands back the receiver.
		if frame.closure.Function.Name == "init" {
			result = vm.stack[frame.slots]
		}
		vm.closeUpvalues(frame.slots)
		vm.frameCount--
		if vm.frameCount == 0 {
			return errHalt
		}
		vm.stackTop = frame.slots
		vm.push(result)
		vm.frame = &vm.frames[vm.frameCount-1]

	case OP_CLASS:
		name := vm.readConstant().AsString()
		vm.push(ClassVal(NewClass(name)))

	case OP_METHOD:
		name := vm.readConstant().AsString()
		method := vm.peek(0).AsClosure()
		vm.peek(1).AsClass().Methods[name] = method
		vm.pop()

	case OP_INHERIT:
		superclass := vm.peek(0)
		if !superclass.IsClass() {
			return runtimeError("Superclass must be a class.")
		}
		vm.peek(1).AsClass().Superclass = superclass.AsClass()
		vm.pop()

	case OP_ATTEMPT:
		offset := vm.readShort()
		vm.panicStack = append(vm.panicStack, ControlBlock{
			stackDepth: vm.stackTop,
			frameDepth: vm.frameCount,
			handlerIP:  vm.frame.ip + offset,
		})

	case OP_END_ATTEMPT:
		if len(vm.panicStack) == 0 {
			return runtimeError("Cannot end attempt if panicStack is empty.")
		}
		vm.panicStack = vm.panicStack[:len(vm.panicStack)-1]

	case OP_PANIC:
		message := vm.pop()
		if message.IsNil() {
			return runtimeError("Unknown Panic")
		}
		return runtimeError("%s", message.ToString())

	case OP_IMPORT:
		return vm.importModule()

	default:
		return runtimeError("Unknown opcode %d.", op)
	}
	return nil
}
