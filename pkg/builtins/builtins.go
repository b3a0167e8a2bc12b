package builtins

import (
	"strconv"

	"vetro/pkg/vm"
)

// Shared helpers for the builtin initializers.

// argAt returns args[i] or Undefined when the caller passed fewer.
func argAt(args []vm.Value, i int) vm.Value {
	if i < len(args) {
		return args[i]
	}
	return vm.Undefined
}

// toPropertyKey converts a value to a property key: symbols stay
// symbols, everything else stringifies.
func toPropertyKey(v vm.Value) vm.PropertyKey {
	if v.Type() == vm.TypeSymbol {
		return vm.NewSymbolKey(v)
	}
	return vm.NewStringKey(v.ToString())
}

// newArrayValue builds an array-shaped object: indexed properties plus
// the standard writable, non-enumerable, non-configurable length.
func newArrayValue(realm *vm.Realm, elems []vm.Value) vm.Value {
	arr := vm.NewObject(realm.ArrayPrototype).AsPlainObject()
	for i, e := range elems {
		arr.SetOwn(strconv.Itoa(i), e)
	}
	f := false
	tr := true
	arr.DefineOwnProperty("length", vm.IntegerValue(int32(len(elems))), &tr, &f, &f)
	return vm.NewValueFromPlainObject(arr)
}

// isArrayValue reports whether v is array-shaped in this realm. Arrays
// are plain objects here, so the prototype link is the marker.
func isArrayValue(realm *vm.Realm, v vm.Value) bool {
	holder := vm.PropertyHolder(v)
	if holder == nil {
		return false
	}
	if holder == realm.ArrayPrototype.AsPlainObject() {
		return true
	}
	return holder.GetPrototype().Is(realm.ArrayPrototype)
}

// arrayLength reads the length property of an array-shaped object.
func arrayLength(holder *vm.PlainObject) int {
	if v, ok := holder.GetOwn("length"); ok {
		return int(v.ToFloat())
	}
	return 0
}

// setArrayLength updates the length property after index mutation.
func setArrayLength(holder *vm.PlainObject, n int) {
	holder.SetOwn("length", vm.IntegerValue(int32(n)))
}

// stringFromValue pulls the primitive string out of this-values that
// may be a plain string or a String wrapper object.
func stringFromValue(v vm.Value) (string, bool) {
	if v.IsString() {
		return v.AsString(), true
	}
	if holder := vm.PropertyHolder(v); holder != nil {
		if prim, ok := holder.GetOwn("[[PrimitiveValue]]"); ok && prim.IsString() {
			return prim.AsString(), true
		}
	}
	return "", false
}

// numberFromValue pulls the primitive number out of this-values that
// may be a plain number or a Number wrapper object.
func numberFromValue(v vm.Value) (float64, bool) {
	if v.IsNumber() {
		return v.ToFloat(), true
	}
	if holder := vm.PropertyHolder(v); holder != nil {
		if prim, ok := holder.GetOwn("[[PrimitiveValue]]"); ok && prim.IsNumber() {
			return prim.ToFloat(), true
		}
	}
	return 0, false
}
