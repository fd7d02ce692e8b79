package vm

// callValue dispatches a call based on the callee's type
func (vm *VM) callValue(callee Value, argCount int) error {
	switch callee.Type {
	case ValClosure:
		return vm.callClosure(callee.AsClosure(), argCount)

	case ValFunction:
		// Bare functions only exist as constants; wrap in a fresh closure.
		return vm.callClosure(NewClosure(callee.AsFunction()), argCount)

	case ValNative:
		return vm.callNative(callee.AsNative(), argCount)

	case ValClass:
		class := callee.AsClass()
		instance := NewInstance(class)
		vm.stack[vm.stackTop-argCount-1] = InstanceVal(instance)
		if init, ok := class.FindMethod("init"); ok {
			return vm.callClosure(init, argCount)
		}
		if argCount != 0 {
			return runtimeError("Expected 0 arguments but got %d.", argCount)
		}
		return nil

	case ValBoundMethod:
		bound := callee.AsBoundMethod()
		vm.stack[vm.stackTop-argCount-1] = bound.Receiver
		return vm.callClosure(bound.Method, argCount)

	default:
		return runtimeError("Can only call functions and classes.")
	}
}

func (vm *VM) callClosure(closure *ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return runtimeError("Expected %d arguments but got %d.",
			closure.Function.Arity, argCount)
	}
	if vm.frameCount == FramesMax {
		return runtimeError("Stack overflow.")
	}
	frame := &vm.frames[vm.frameCount]
	vm.frameCount++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argCount - 1
	vm.frame = frame
	return nil
}

// callNative runs a host function in place: the callee and arguments
// collapse into the single result slot. A returned error becomes a
// recoverable panic.
func (vm *VM) callNative(native *ObjNative, argCount int) error {
	args := make([]Value, argCount)
	copy(args, vm.stack[vm.stackTop-argCount:vm.stackTop])

	result, err := native.Fn(args, vm.globals)
	if err != nil {
		return &RuntimeError{Message: err.Error()}
	}
	vm.stackTop -= argCount + 1
	vm.push(result)
	return nil
}
