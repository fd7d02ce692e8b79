package vm

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
)

// ValueType identifies the kind of value stored in the Value struct
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValString
	ValList
	ValMap
	ValRange
	ValFunction
	ValClosure
	ValNative
	ValClass
	ValInstance
	ValBoundMethod
)

// Value is a stack-allocated tagged union. Primitives (nil, bool, number,
// range) live in Data/Obj by value; everything else is a shared pointer in
// Obj.
type Value struct {
	Type ValueType
	Data uint64      // float64 bits for numbers, 0/1 for bools
	Obj  interface{} // payload for string, range, and heap kinds
}

// RangeValue is the by-value payload of a range.
type RangeValue struct {
	Start float64
	End   float64
}

// Constructors

func NilVal() Value {
	return Value{Type: ValNil}
}

func BoolVal(v bool) Value {
	var data uint64
	if v {
		data = 1
	}
	return Value{Type: ValBool, Data: data}
}

func NumberVal(v float64) Value {
	return Value{Type: ValNumber, Data: math.Float64bits(v)}
}

func StringVal(s string) Value {
	return Value{Type: ValString, Obj: s}
}

func RangeVal(start, end float64) Value {
	return Value{Type: ValRange, Obj: RangeValue{Start: start, End: end}}
}

func ListVal(l *ListObject) Value {
	return Value{Type: ValList, Obj: l}
}

func MapVal(m *MapObject) Value {
	return Value{Type: ValMap, Obj: m}
}

func FunctionVal(f *CompiledFunction) Value {
	return Value{Type: ValFunction, Obj: f}
}

func ClosureVal(c *ObjClosure) Value {
	return Value{Type: ValClosure, Obj: c}
}

func NativeVal(n *ObjNative) Value {
	return Value{Type: ValNative, Obj: n}
}

func ClassVal(c *ObjClass) Value {
	return Value{Type: ValClass, Obj: c}
}

func InstanceVal(i *ObjInstance) Value {
	return Value{Type: ValInstance, Obj: i}
}

func BoundMethodVal(b *ObjBoundMethod) Value {
	return Value{Type: ValBoundMethod, Obj: b}
}

// Accessors

func (v Value) AsBool() bool                  { return v.Data == 1 }
func (v Value) AsNumber() float64             { return math.Float64frombits(v.Data) }
func (v Value) AsString() string              { return v.Obj.(string) }
func (v Value) AsRange() RangeValue           { return v.Obj.(RangeValue) }
func (v Value) AsList() *ListObject           { return v.Obj.(*ListObject) }
func (v Value) AsMap() *MapObject             { return v.Obj.(*MapObject) }
func (v Value) AsFunction() *CompiledFunction { return v.Obj.(*CompiledFunction) }
func (v Value) AsClosure() *ObjClosure        { return v.Obj.(*ObjClosure) }
func (v Value) AsNative() *ObjNative          { return v.Obj.(*ObjNative) }
func (v Value) AsClass() *ObjClass            { return v.Obj.(*ObjClass) }
func (v Value) AsInstance() *ObjInstance      { return v.Obj.(*ObjInstance) }
func (v Value) AsBoundMethod() *ObjBoundMethod { return v.Obj.(*ObjBoundMethod) }

// Type checking helpers

func (v Value) IsNil() bool         { return v.Type == ValNil }
func (v Value) IsBool() bool        { return v.Type == ValBool }
func (v Value) IsNumber() bool      { return v.Type == ValNumber }
func (v Value) IsString() bool      { return v.Type == ValString }
func (v Value) IsList() bool        { return v.Type == ValList }
func (v Value) IsMap() bool         { return v.Type == ValMap }
func (v Value) IsRange() bool       { return v.Type == ValRange }
func (v Value) IsFunction() bool    { return v.Type == ValFunction }
func (v Value) IsClosure() bool     { return v.Type == ValClosure }
func (v Value) IsNative() bool      { return v.Type == ValNative }
func (v Value) IsClass() bool       { return v.Type == ValClass }
func (v Value) IsInstance() bool    { return v.Type == ValInstance }
func (v Value) IsBoundMethod() bool { return v.Type == ValBoundMethod }

// IsTruthy: nil is false, bool is itself, a number is false iff zero,
// every other kind is true.
func (v Value) IsTruthy() bool {
	switch v.Type {
	case ValNil:
		return false
	case ValBool:
		return v.Data == 1
	case ValNumber:
		return v.AsNumber() != 0
	default:
		return true
	}
}

// Equals is structural for primitives and strings, identity for heap kinds.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.Data == other.Data
	case ValNumber:
		return v.AsNumber() == other.AsNumber()
	case ValString:
		return v.AsString() == other.AsString()
	case ValRange:
		return v.AsRange() == other.AsRange()
	default:
		return v.Obj == other.Obj
	}
}

// ToString renders a value the way `out` prints it.
func (v Value) ToString() string {
	switch v.Type {
	case ValNil:
		return "null"
	case ValBool:
		if v.Data == 1 {
			return "true"
		}
		return "false"
	case ValNumber:
		return strconv.FormatFloat(v.AsNumber(), 'f', -1, 64)
	case ValString:
		return v.AsString()
	case ValList:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, elem := range v.AsList().Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(elem.ToString())
		}
		sb.WriteByte(']')
		return sb.String()
	case ValMap:
		var sb strings.Builder
		sb.WriteByte('{')
		first := true
		for _, pair := range v.AsMap().Pairs {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(pair.Key.ToString())
			sb.WriteString(": ")
			sb.WriteString(pair.Value.ToString())
		}
		sb.WriteByte('}')
		return sb.String()
	case ValRange:
		r := v.AsRange()
		return strconv.Itoa(int(r.Start)) + ".." + strconv.Itoa(int(r.End))
	case ValFunction:
		return "<function>"
	case ValClosure:
		return "<closure>"
	case ValNative:
		return "<native>"
	case ValClass:
		return v.AsClass().Name
	case ValInstance:
		return v.AsInstance().Class.Name + " instance"
	case ValBoundMethod:
		return "<bound method>"
	default:
		return "<unknown>"
	}
}

// HashKey combines the kind discriminator with a kind-specific hash.
// Only nil, bool, number, and string values are hashable map keys; the
// second return is false for everything else.
type HashKey struct {
	Type ValueType
	Hash uint64
}

func (v Value) HashKey() (HashKey, bool) {
	switch v.Type {
	case ValNil:
		return HashKey{Type: ValNil}, true
	case ValBool:
		return HashKey{Type: ValBool, Hash: v.Data}, true
	case ValNumber:
		return HashKey{Type: ValNumber, Hash: v.Data}, true
	case ValString:
		h := fnv.New64a()
		h.Write([]byte(v.AsString()))
		return HashKey{Type: ValString, Hash: h.Sum64()}, true
	default:
		return HashKey{}, false
	}
}
