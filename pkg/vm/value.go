package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"
)

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				expStart := i + 2
				j := expStart
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull

	TypeString
	TypeSymbol

	TypeFloatNumber
	TypeIntegerNumber

	TypeBoolean

	TypeNativeFunction

	TypeObject

	TypeRegExp
	TypeArrayBuffer
	TypeTypedArray
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeNativeFunction:
		return "native function"
	case TypeObject:
		return "object"
	case TypeRegExp:
		return "regexp"
	case TypeArrayBuffer:
		return "arraybuffer"
	case TypeTypedArray:
		return "typed array"
	default:
		return "unknown"
	}
}

type StringObject struct {
	Object
	value string
}

// SymbolObject carries a symbol's description. Symbol identity is the
// pointer identity of this struct, so two NewSymbol calls with the same
// description produce distinct symbols.
type SymbolObject struct {
	Object
	value string
}

// Value is a compact tagged value. Numbers and booleans live in payload,
// everything heap-backed hangs off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, payload: uint64(math.Float64bits(value))}
}

func IntegerValue(value int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(int64(value))}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

func NewSymbol(value string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{value: value})}
}

// NewValueFromPlainObject wraps an existing PlainObject back into a Value.
func NewValueFromPlainObject(plainObj *PlainObject) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(plainObj)}
}

func (v Value) IsUndefined() bool {
	return v.typ == TypeUndefined
}

func (v Value) IsNull() bool {
	return v.typ == TypeNull
}

func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}

func (v Value) IsFloatNumber() bool {
	return v.typ == TypeFloatNumber
}

func (v Value) IsIntegerNumber() bool {
	return v.typ == TypeIntegerNumber
}

func (v Value) IsString() bool {
	return v.typ == TypeString
}

func (v Value) IsSymbol() bool {
	return v.typ == TypeSymbol
}

func (v Value) IsBoolean() bool {
	return v.typ == TypeBoolean
}

func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeNativeFunction || v.typ == TypeRegExp || v.typ == TypeArrayBuffer || v.typ == TypeTypedArray
}

func (v Value) IsCallable() bool {
	return v.typ == TypeNativeFunction
}

func (v Value) IsNativeFunction() bool {
	return v.typ == TypeNativeFunction
}

func (v Value) IsRegExp() bool {
	return v.typ == TypeRegExp
}

func (v Value) IsArrayBuffer() bool {
	return v.typ == TypeArrayBuffer
}

func (v Value) IsTypedArray() bool {
	return v.typ == TypeTypedArray
}

func (v Value) Type() ValueType {
	return v.typ
}

// TypeName returns the typeof-style name for the value.
func (v Value) TypeName() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeNativeFunction:
		return "function"
	case TypeObject, TypeRegExp, TypeArrayBuffer, TypeTypedArray:
		return "object"
	default:
		return fmt.Sprintf("<unknown type: %d>", v.typ)
	}
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeFloatNumber {
		panic("value is not a float")
	}
	return math.Float64frombits(uint64(v.payload))
}

func (v Value) AsInteger() int32 {
	if v.typ != TypeIntegerNumber {
		panic("value is not an integer")
	}
	return int32(v.payload)
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload == 1
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return (*StringObject)(v.obj).value
}

func (v Value) AsSymbol() string {
	if v.typ != TypeSymbol {
		panic("value is not a symbol")
	}
	return (*SymbolObject)(v.obj).value
}

// AsSymbolObject returns the underlying SymbolObject pointer for symbol values
func (v Value) AsSymbolObject() *SymbolObject {
	if v.typ != TypeSymbol {
		panic("value is not a symbol")
	}
	return (*SymbolObject)(v.obj)
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		panic("value is not an object")
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsNativeFunction() *NativeFunctionObject {
	if v.typ != TypeNativeFunction {
		panic("value is not a native function")
	}
	return (*NativeFunctionObject)(v.obj)
}

func (v Value) AsRegExp() *RegExpObject {
	if v.typ != TypeRegExp {
		panic("value is not a regexp")
	}
	return (*RegExpObject)(v.obj)
}

func (v Value) AsArrayBuffer() *ArrayBufferObject {
	if v.typ != TypeArrayBuffer {
		panic("value is not an arraybuffer")
	}
	return (*ArrayBufferObject)(v.obj)
}

func (v Value) AsTypedArray() *TypedArrayObject {
	if v.typ != TypeTypedArray {
		panic("value is not a typed array")
	}
	return (*TypedArrayObject)(v.obj)
}

func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return (*StringObject)(v.obj).value
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%s)", (*SymbolObject)(v.obj).value)
	case TypeFloatNumber:
		return formatFloat(v.AsFloat())
	case TypeIntegerNumber:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeNativeFunction:
		nativeFn := (*NativeFunctionObject)(v.obj)
		if nativeFn.Name != "" {
			return fmt.Sprintf("<native function %s>", nativeFn.Name)
		}
		return "<native function>"
	case TypeObject:
		return "[object Object]"
	case TypeRegExp:
		re := (*RegExpObject)(v.obj)
		return "/" + re.source + "/" + re.flags
	case TypeArrayBuffer:
		return "[object ArrayBuffer]"
	case TypeTypedArray:
		ta := (*TypedArrayObject)(v.obj)
		return "[object " + ta.kind.CtorName() + "]"
	default:
		return "<unknown>"
	}
}

// formatFloat renders a float64 the way ECMAScript ToString (7.1.12.1) does.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 && math.Signbit(f) {
		return "0"
	}
	absF := f
	if absF < 0 {
		absF = -absF
	}
	// Exponential notation below 1e-6 and from 1e21 up, fixed otherwise
	if absF != 0 && (absF < 1e-6 || absF >= 1e21) {
		exp := strconv.FormatFloat(f, 'e', -1, 64)
		return cleanExponentialFormat(exp)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeFloatNumber:
		return v.AsFloat()
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	case TypeBoolean:
		if v.AsBoolean() {
			return 1
		}
		return 0
	case TypeNull:
		return 0
	case TypeString:
		s := strings.TrimSpace(v.AsString())
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func (v Value) ToBoolean() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return false
	case TypeBoolean:
		return v.payload == 1
	case TypeFloatNumber:
		f := v.AsFloat()
		return f != 0 && !math.IsNaN(f)
	case TypeIntegerNumber:
		return v.AsInteger() != 0
	case TypeString:
		return len(v.AsString()) > 0
	default:
		return true
	}
}

// StringLength is the .length of a string primitive, counted in runes.
func (v Value) StringLength() int {
	return utf8.RuneCountInString(v.AsString())
}

// Is reports strict equality: numbers by numeric value, strings by
// content, symbols and objects by identity.
func (v Value) Is(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		return v.ToFloat() == other.ToFloat()
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeString:
		return v.AsString() == other.AsString()
	default:
		return v.obj == other.obj
	}
}

// SameValue is Is plus NaN equals NaN and +0 distinct from -0.
func (v Value) SameValue(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		a, b := v.ToFloat(), other.ToFloat()
		if math.IsNaN(a) && math.IsNaN(b) {
			return true
		}
		if a == 0 && b == 0 {
			return math.Signbit(a) == math.Signbit(b)
		}
		return a == b
	}
	return v.Is(other)
}

// Inspect renders a value for diagnostics. Strings are quoted, plain
// objects are shown shallowly.
func (v Value) Inspect() string {
	switch v.typ {
	case TypeString:
		return strconv.Quote(v.AsString())
	case TypeObject:
		obj := (*PlainObject)(v.obj)
		names := obj.OwnPropertyNames()
		if len(names) == 0 {
			return "{}"
		}
		var b strings.Builder
		b.WriteString("{")
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			val, ok := obj.GetOwnDataByKey(keyFromString(name))
			switch {
			case !ok:
				b.WriteString("[accessor]")
			case val.typ == TypeObject:
				b.WriteString("{...}")
			case val.typ == TypeString:
				b.WriteString(strconv.Quote(val.AsString()))
			default:
				b.WriteString(val.ToString())
			}
		}
		b.WriteString("}")
		return b.String()
	default:
		return v.ToString()
	}
}
