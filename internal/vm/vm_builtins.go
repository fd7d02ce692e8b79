package vm

import (
	"bufio"
	"fmt"
	"os"
	"plugin"
	"strconv"
	"strings"
	"time"

	"github.com/ry-lang/ry/internal/config"
)

// registerNatives installs the built-in host functions as globals
func (vm *VM) registerNatives() {
	register := func(name string, fn NativeFn) {
		vm.globals[name] = NativeVal(&ObjNative{Name: name, Fn: fn})
	}
	register(config.OutFuncName, vm.outNative)
	register(config.InputFuncName, vm.inputNative)
	register(config.ClockFuncName, vm.clockNative)
	register(config.ClearFuncName, vm.clearNative)
	register(config.ExitFuncName, vm.exitNative)
	register(config.TypeFuncName, typeNative)
	register(config.UseFuncName, useNative)
}

// outNative prints its arguments separated by spaces, followed by a newline
func (vm *VM) outNative(args []Value, _ map[string]Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.ToString()
	}
	fmt.Fprintln(vm.Stdout, strings.Join(parts, " "))
	return NilVal(), nil
}

// inputNative reads one line, coercing numeric and boolean answers.
// An optional argument is printed first as a prompt.
func (vm *VM) inputNative(args []Value, _ map[string]Value) (Value, error) {
	if len(args) > 0 {
		fmt.Fprint(vm.Stdout, args[0].ToString())
	}
	if vm.stdinReader == nil {
		vm.stdinReader = bufio.NewReader(vm.Stdin)
	}
	line, err := vm.stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return NilVal(), nil
	}
	line = strings.TrimRight(line, "\r\n")

	if n, err := strconv.ParseFloat(line, 64); err == nil {
		return NumberVal(n), nil
	}
	switch line {
	case "true":
		return BoolVal(true), nil
	case "false":
		return BoolVal(false), nil
	case "null":
		return NilVal(), nil
	}
	return StringVal(line), nil
}

var processStart = time.Now()

// clockNative returns seconds of process time as a float, suitable for
// measuring deltas
func (vm *VM) clockNative(_ []Value, _ map[string]Value) (Value, error) {
	return NumberVal(time.Since(processStart).Seconds()), nil
}

func (vm *VM) clearNative(_ []Value, _ map[string]Value) (Value, error) {
	fmt.Fprint(vm.Stdout, "\033[2J\033[H")
	return NilVal(), nil
}

func (vm *VM) exitNative(args []Value, _ map[string]Value) (Value, error) {
	code := 0
	if len(args) > 0 && args[0].IsNumber() {
		code = int(args[0].AsNumber())
	}
	fmt.Fprintf(vm.Stdout, "\033[1;33m[Ry] Exited Successfully with exit code: %d\033[0m\n", code)
	os.Exit(0)
	return NilVal(), nil
}

func typeNative(args []Value, _ map[string]Value) (Value, error) {
	if len(args) != 1 {
		return NilVal(), fmt.Errorf("type() expects exactly one argument.")
	}
	switch args[0].Type {
	case ValNumber:
		return StringVal("number"), nil
	case ValString:
		return StringVal("string"), nil
	case ValBool:
		return StringVal("bool"), nil
	case ValList:
		return StringVal("list"), nil
	case ValMap:
		return StringVal("map"), nil
	default:
		return StringVal("unknown"), nil
	}
}

// PluginInit is the entry point a shared library must export as
// "InitRyModule". Arguments and results cross the boundary as plain Go
// values: float64, string, bool, nil, []interface{}.
type PluginInit = func() map[string]func(args []interface{}) (interface{}, error)

// useNative loads a Go plugin and returns its exported functions as a map
// of natives.
func useNative(args []Value, _ map[string]Value) (Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return NilVal(), fmt.Errorf("use() expects a library path string.")
	}
	path := args[0].AsString()

	lib, err := plugin.Open(path)
	if err != nil {
		return NilVal(), fmt.Errorf("Could not load library '%s'.", path)
	}
	sym, err := lib.Lookup("InitRyModule")
	if err != nil {
		return NilVal(), fmt.Errorf("Library '%s' does not export InitRyModule.", path)
	}
	initFn, ok := sym.(PluginInit)
	if !ok {
		if ptr, isPtr := sym.(*PluginInit); isPtr {
			initFn = *ptr
		} else {
			return NilVal(), fmt.Errorf("Library '%s' has an incompatible InitRyModule.", path)
		}
	}

	exports := NewMapObject()
	for name, fn := range initFn() {
		hostFn := fn
		native := &ObjNative{Name: name, Fn: func(callArgs []Value, _ map[string]Value) (Value, error) {
			raw := make([]interface{}, len(callArgs))
			for i, a := range callArgs {
				raw[i] = valueToHost(a)
			}
			result, err := hostFn(raw)
			if err != nil {
				return NilVal(), err
			}
			return hostToValue(result), nil
		}}
		exports.Set(StringVal(name), NativeVal(native))
	}
	return MapVal(exports), nil
}

func valueToHost(v Value) interface{} {
	switch v.Type {
	case ValNil:
		return nil
	case ValBool:
		return v.AsBool()
	case ValNumber:
		return v.AsNumber()
	case ValString:
		return v.AsString()
	case ValList:
		elems := v.AsList().Elements
		out := make([]interface{}, len(elems))
		for i, e := range elems {
			out[i] = valueToHost(e)
		}
		return out
	default:
		return v.ToString()
	}
}

func hostToValue(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return NilVal()
	case bool:
		return BoolVal(x)
	case float64:
		return NumberVal(x)
	case int:
		return NumberVal(float64(x))
	case string:
		return StringVal(x)
	case []interface{}:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = hostToValue(e)
		}
		return ListVal(&ListObject{Elements: elems})
	default:
		return NilVal()
	}
}
