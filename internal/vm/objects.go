package vm

// ListObject is a mutable ordered sequence shared by reference.
type ListObject struct {
	Elements []Value
}

// MapPair keeps the original key next to its value so maps can be printed
// and iterated with real keys, not hashes.
type MapPair struct {
	Key   Value
	Value Value
}

// MapObject is a mutable Value-to-Value mapping shared by reference.
type MapObject struct {
	Pairs map[HashKey]MapPair
}

func NewMapObject() *MapObject {
	return &MapObject{Pairs: make(map[HashKey]MapPair)}
}

// Get looks a key up; the second return is false when the key is absent or
// unhashable.
func (m *MapObject) Get(key Value) (Value, bool) {
	hk, ok := key.HashKey()
	if !ok {
		return NilVal(), false
	}
	pair, found := m.Pairs[hk]
	if !found {
		return NilVal(), false
	}
	return pair.Value, true
}

// Set inserts or replaces an entry; returns false for unhashable keys.
func (m *MapObject) Set(key, value Value) bool {
	hk, ok := key.HashKey()
	if !ok {
		return false
	}
	m.Pairs[hk] = MapPair{Key: key, Value: value}
	return true
}

// CompiledFunction is a function body compiled to bytecode.
type CompiledFunction struct {
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
	Name         string
}

// ObjClosure wraps a CompiledFunction with its captured upvalues.
type ObjClosure struct {
	Function *CompiledFunction
	Upvalues []*ObjUpvalue
}

func NewClosure(function *CompiledFunction) *ObjClosure {
	return &ObjClosure{
		Function: function,
		Upvalues: make([]*ObjUpvalue, function.UpvalueCount),
	}
}

// ObjUpvalue is a captured variable from an enclosing scope. While open it
// points at a stack slot; closing copies the value into the upvalue itself.
type ObjUpvalue struct {
	// Location is the stack slot index while open, -1 once closed.
	Location int
	Closed   Value

	// Next links the VM's open-upvalue list, sorted by descending Location.
	Next *ObjUpvalue
}

// NativeFn is a host function callable from Ry code. A returned error is
// raised as a recoverable panic.
type NativeFn func(args []Value, globals map[string]Value) (Value, error)

// ObjNative is a registered host function. Arity is informational; natives
// validate their own arguments.
type ObjNative struct {
	Name  string
	Arity int
	Fn    NativeFn
}

// ObjClass is a user-defined class.
type ObjClass struct {
	Name       string
	Superclass *ObjClass
	Methods    map[string]*ObjClosure
}

func NewClass(name string) *ObjClass {
	return &ObjClass{Name: name, Methods: make(map[string]*ObjClosure)}
}

// FindMethod walks the inheritance chain.
func (c *ObjClass) FindMethod(name string) (*ObjClosure, bool) {
	for klass := c; klass != nil; klass = klass.Superclass {
		if method, ok := klass.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// ObjInstance is an instance of a class with its own field map.
type ObjInstance struct {
	Class  *ObjClass
	Fields map[string]Value
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{Class: class, Fields: make(map[string]Value)}
}

// ObjBoundMethod pairs a receiver with a method closure.
type ObjBoundMethod struct {
	Receiver Value
	Method   *ObjClosure
}
