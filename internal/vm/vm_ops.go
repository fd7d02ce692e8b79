package vm

import (
	"fmt"
	"math"
	"strings"
)

// binaryOp performs the polymorphic arithmetic operators
func (vm *VM) binaryOp(op Opcode) error {
	b := vm.pop()
	a := vm.pop()

	switch op {
	case OP_ADD:
		switch {
		case a.IsList():
			// list + list concatenates, list + anything else appends.
			combined := make([]Value, 0, len(a.AsList().Elements)+1)
			combined = append(combined, a.AsList().Elements...)
			if b.IsList() {
				combined = append(combined, b.AsList().Elements...)
			} else {
				combined = append(combined, b)
			}
			vm.push(ListVal(&ListObject{Elements: combined}))
		case a.IsNumber() && b.IsNumber():
			vm.push(NumberVal(a.AsNumber() + b.AsNumber()))
		case a.IsString() || b.IsString():
			vm.push(StringVal(a.ToString() + b.ToString()))
		default:
			return runtimeError("Operands must be numbers, strings, or lists.")
		}

	case OP_SUBTRACT:
		if !a.IsNumber() || !b.IsNumber() {
			return runtimeError("Operands must be numbers.")
		}
		vm.push(NumberVal(a.AsNumber() - b.AsNumber()))

	case OP_MULTIPLY:
		switch {
		case a.IsList():
			appended := make([]Value, 0, len(a.AsList().Elements)+1)
			appended = append(appended, a.AsList().Elements...)
			appended = append(appended, b)
			vm.push(ListVal(&ListObject{Elements: appended}))
		case a.IsNumber() && b.IsNumber():
			vm.push(NumberVal(a.AsNumber() * b.AsNumber()))
		case a.IsNumber() && b.IsString():
			vm.push(StringVal(repeatString(b.AsString(), a.AsNumber())))
		case a.IsString() && b.IsNumber():
			vm.push(StringVal(repeatString(a.AsString(), b.AsNumber())))
		default:
			return runtimeError("Operands must be numbers.")
		}

	case OP_DIVIDE:
		if !a.IsNumber() || !b.IsNumber() {
			return runtimeError("Operands must be numbers.")
		}
		if b.AsNumber() == 0 {
			return runtimeError("Division by zero")
		}
		vm.push(NumberVal(a.AsNumber() / b.AsNumber()))

	case OP_MODULO:
		if !a.IsNumber() || !b.IsNumber() {
			return runtimeError("Operands must be numbers.")
		}
		vm.push(NumberVal(math.Mod(a.AsNumber(), b.AsNumber())))
	}
	return nil
}

func repeatString(s string, count float64) string {
	if count <= 0 {
		return ""
	}
	return strings.Repeat(s, int(count))
}

// compareOp pushes nil rather than erroring for non-numeric operands
func (vm *VM) compareOp(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		vm.push(NilVal())
		return nil
	}
	if op == OP_GREATER {
		vm.push(BoolVal(a.AsNumber() > b.AsNumber()))
	} else {
		vm.push(BoolVal(a.AsNumber() < b.AsNumber()))
	}
	return nil
}

// bitwiseOp casts both operands to 64-bit integers
func (vm *VM) bitwiseOp(op Opcode) error {
	b := vm.pop()
	a := vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		return runtimeError("Operands must be numbers for bitwise operations.")
	}
	x := int64(a.AsNumber())
	y := int64(b.AsNumber())

	var result int64
	switch op {
	case OP_BITWISE_AND:
		result = x & y
	case OP_BITWISE_OR:
		result = x | y
	case OP_BITWISE_XOR:
		result = x ^ y
	case OP_LEFT_SHIFT:
		result = x << uint64(y)
	case OP_RIGHT_SHIFT:
		result = x >> uint64(y)
	}
	vm.push(NumberVal(float64(result)))
	return nil
}

// forEachNext drives an each loop. The cursor sits on top of the stack with
// the collection below it. In bounds: advance the cursor and push the
// current element. Out of bounds: jump past the loop body.
func (vm *VM) forEachNext(offset int) error {
	cursor := vm.peek(0)
	if !cursor.IsNumber() {
		return fmt.Errorf("ENGINE ERROR: each-loop cursor is not a number")
	}
	i := cursor.AsNumber()
	collection := vm.peek(1)

	switch {
	case collection.IsRange():
		r := collection.AsRange()
		var current float64
		var inBounds bool
		if r.Start <= r.End {
			current = r.Start + i
			inBounds = current < r.End
		} else {
			current = r.Start - i
			inBounds = current > r.End
		}
		if inBounds {
			vm.stack[vm.stackTop-1] = NumberVal(i + 1)
			vm.push(NumberVal(current))
		} else {
			vm.frame.ip += offset
		}

	case collection.IsList():
		elements := collection.AsList().Elements
		index := int(i)
		if index < len(elements) {
			vm.stack[vm.stackTop-1] = NumberVal(i + 1)
			vm.push(elements[index])
		} else {
			vm.frame.ip += offset
		}

	default:
		return runtimeError("Can only use 'each' on lists or ranges.")
	}
	return nil
}

// getIndex implements obj[index] for lists, maps, and strings
func (vm *VM) getIndex() error {
	index := vm.pop()
	obj := vm.pop()

	switch {
	case obj.IsList():
		if !index.IsNumber() {
			return runtimeError("List index must be a number.")
		}
		elements := obj.AsList().Elements
		i := int(index.AsNumber())
		if i < 0 || i >= len(elements) {
			return runtimeError("List index out of bounds.")
		}
		vm.push(elements[i])

	case obj.IsMap():
		value, ok := obj.AsMap().Get(index)
		if !ok {
			return runtimeError("Key '%s' not found in map.", index.ToString())
		}
		vm.push(value)

	case obj.IsString():
		if !index.IsNumber() {
			return runtimeError("String index must be a number.")
		}
		s := obj.AsString()
		i := int(index.AsNumber())
		if i < 0 || i >= len(s) {
			return runtimeError("String index out of bounds.")
		}
		vm.push(StringVal(s[i : i+1]))

	default:
		return runtimeError("Can only index lists, maps, and strings.")
	}
	return nil
}

// setIndex implements obj[index] = value; it leaves nothing on the stack
func (vm *VM) setIndex() error {
	value := vm.pop()
	index := vm.pop()
	obj := vm.pop()

	switch {
	case obj.IsList():
		if !index.IsNumber() {
			return runtimeError("List index must be a number.")
		}
		elements := obj.AsList().Elements
		i := int(index.AsNumber())
		if i < 0 || i >= len(elements) {
			return runtimeError("List index out of bounds.")
		}
		elements[i] = value

	case obj.IsMap():
		if !obj.AsMap().Set(index, value) {
			return runtimeError("Map keys must be numbers, strings, booleans, or null.")
		}

	case obj.IsString():
		return runtimeError("Strings are immutable and do not support index assignment.")

	default:
		return runtimeError("Only lists and maps support index assignment.")
	}
	return nil
}

// getProperty resolves `obj.name`: built-in len/pop, map keys, instance
// fields, then methods.
func (vm *VM) getProperty(name string) error {
	obj := vm.peek(0)

	if name == "len" {
		switch {
		case obj.IsList():
			vm.pop()
			vm.push(NumberVal(float64(len(obj.AsList().Elements))))
			return nil
		case obj.IsString():
			vm.pop()
			vm.push(NumberVal(float64(len(obj.AsString()))))
			return nil
		case obj.IsMap():
			vm.pop()
			vm.push(NumberVal(float64(len(obj.AsMap().Pairs))))
			return nil
		}
	}

	if name == "pop" && obj.IsList() {
		list := obj.AsList()
		vm.pop()
		vm.push(NativeVal(&ObjNative{
			Name: "pop",
			Fn: func(args []Value, globals map[string]Value) (Value, error) {
				if len(list.Elements) == 0 {
					return NilVal(), fmt.Errorf("Cannot pop from an empty list.")
				}
				last := list.Elements[len(list.Elements)-1]
				list.Elements = list.Elements[:len(list.Elements)-1]
				return last, nil
			},
		}))
		return nil
	}

	switch {
	case obj.IsMap():
		value, ok := obj.AsMap().Get(StringVal(name))
		if !ok {
			return runtimeError("Key '%s' not found in map.", name)
		}
		vm.pop()
		vm.push(value)
		return nil

	case obj.IsInstance():
		instance := obj.AsInstance()
		if value, ok := instance.Fields[name]; ok {
			vm.pop()
			vm.push(value)
			return nil
		}
		if method, ok := instance.Class.FindMethod(name); ok {
			bound := &ObjBoundMethod{Receiver: obj, Method: method}
			vm.pop()
			vm.push(BoundMethodVal(bound))
			return nil
		}
		return runtimeError("Property '%s' not found on this type.", name)

	case obj.IsClass():
		if method, ok := obj.AsClass().FindMethod(name); ok {
			vm.pop()
			vm.push(ClosureVal(method))
			return nil
		}
		return runtimeError("Property '%s' not found on this type.", name)

	default:
		return runtimeError("Property '%s' not found on this type.", name)
	}
}

// setProperty implements `obj.name = value`; the value is pushed back as
// the expression's result.
func (vm *VM) setProperty(name string) error {
	target := vm.peek(1)
	if !target.IsInstance() {
		return runtimeError("Only instances have fields.")
	}
	value := vm.pop()
	vm.pop()
	target.AsInstance().Fields[name] = value
	vm.push(value)
	return nil
}
