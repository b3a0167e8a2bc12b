package vm

import (
	"unsafe"
)

// NativeFn is the signature of every host function: explicit this,
// positional args, JS-level failures as a ThrownError.
type NativeFn func(this Value, args []Value) (Value, error)

// NativeFunctionObject represents a native Go function callable from the
// embedded runtime. Properties is the function's own-property table
// (prototype, name, statics); its prototype link doubles as the
// function's [[Prototype]] and stays the Undefined sentinel until a
// realm resolves it to Function.prototype.
type NativeFunctionObject struct {
	Object
	Arity      int
	Variadic   bool
	Name       string
	Fn         NativeFn
	Properties *PlainObject
}

func NewNativeFunction(arity int, variadic bool, name string, fn NativeFn) Value {
	return Value{typ: TypeNativeFunction, obj: unsafe.Pointer(&NativeFunctionObject{
		Arity:    arity,
		Variadic: variadic,
		Name:     name,
		Fn:       fn,
	})}
}

// Props returns the function's own-property table, creating it on first
// use. The fresh table's prototype is the Undefined sentinel; chain
// walks in the realm substitute Function.prototype for it.
func (nf *NativeFunctionObject) Props() *PlainObject {
	if nf.Properties == nil {
		nf.Properties = &PlainObject{prototype: Undefined, extensible: true}
	}
	return nf.Properties
}

// NewFunctionValue wraps an existing NativeFunctionObject back into a Value.
func NewFunctionValue(nf *NativeFunctionObject) Value {
	return Value{typ: TypeNativeFunction, obj: unsafe.Pointer(nf)}
}

// NewConstructorWithProps builds a native constructor with the own
// "name" and "length" properties engines give built-in functions
// (non-writable, non-enumerable, configurable). Callers hang statics
// and the prototype slot off Props afterwards.
func NewConstructorWithProps(arity int, variadic bool, name string, fn NativeFn) Value {
	fnVal := NewNativeFunction(arity, variadic, name, fn)
	props := fnVal.AsNativeFunction().Props()
	f := false
	tr := true
	props.DefineOwnProperty("name", NewString(name), &f, &f, &tr)
	props.DefineOwnProperty("length", IntegerValue(int32(arity)), &f, &f, &tr)
	return fnVal
}
