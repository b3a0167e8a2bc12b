package intrinsics

import (
	"vetro/pkg/vm"
)

// Anonymous builds the anonIntrinsics table. Discovery failures drop
// the entry rather than erroring: a realm without some intrinsic is a
// smaller realm, and plans targeting the missing root report RootAbsent.
func Anonymous(realm *vm.Realm) map[string]vm.Value {
	table := make(map[string]vm.Value)

	if proto, ok := iteratorPrototypeOf(realm); ok {
		table["IteratorPrototype"] = proto
	}
	if ctor, ok := typedArrayOf(realm); ok {
		table["TypedArray"] = ctor
	}

	// The function-flavor constructors are anonymous by construction;
	// the realm tracks them directly.
	anonymousCtors := []struct {
		label string
		ctor  vm.Value
	}{
		{"GeneratorFunction", realm.GeneratorFunctionConstructor},
		{"AsyncFunction", realm.AsyncFunctionConstructor},
		{"AsyncGeneratorFunction", realm.AsyncGeneratorFunctionConstructor},
	}
	for _, entry := range anonymousCtors {
		if vm.PropertyHolder(entry.ctor) != nil {
			table[entry.label] = entry.ctor
		}
	}
	return table
}

// iteratorPrototypeOf finds %IteratorPrototype% by iterating a fresh
// array: the iterator's prototype is %ArrayIteratorPrototype%, whose
// prototype is the shared iterator base.
func iteratorPrototypeOf(realm *vm.Realm) (vm.Value, bool) {
	arrayCtor, ok := realm.GetGlobal("Array")
	if !ok {
		return vm.Undefined, false
	}
	arr, err := realm.Construct(arrayCtor, nil)
	if err != nil {
		return vm.Undefined, false
	}
	method, err := realm.GetV(arr, vm.NewSymbolKey(realm.SymbolIterator))
	if err != nil || !method.IsCallable() {
		return vm.Undefined, false
	}
	iter, err := realm.Call(method, arr, nil)
	if err != nil {
		return vm.Undefined, false
	}
	return grandPrototype(iter)
}

// typedArrayOf finds the abstract %TypedArray% constructor from a
// throwaway Uint8Array: two prototype hops up sit on
// %TypedArray%.prototype, whose constructor is the abstract parent.
func typedArrayOf(realm *vm.Realm) (vm.Value, bool) {
	u8, ok := realm.GetGlobal("Uint8Array")
	if !ok {
		return vm.Undefined, false
	}
	inst, err := realm.Construct(u8, []vm.Value{vm.IntegerValue(0)})
	if err != nil {
		return vm.Undefined, false
	}
	base, ok := grandPrototype(inst)
	if !ok {
		return vm.Undefined, false
	}
	ctor, err := realm.Get(base, "constructor")
	if err != nil || !ctor.IsCallable() {
		return vm.Undefined, false
	}
	return ctor, true
}

// grandPrototype returns the prototype of v's prototype.
func grandPrototype(v vm.Value) (vm.Value, bool) {
	holder := vm.PropertyHolder(v)
	if holder == nil {
		return vm.Undefined, false
	}
	parent := vm.PropertyHolder(holder.GetPrototype())
	if parent == nil {
		return vm.Undefined, false
	}
	grand := parent.GetPrototype()
	if vm.PropertyHolder(grand) == nil {
		return vm.Undefined, false
	}
	return grand, true
}
