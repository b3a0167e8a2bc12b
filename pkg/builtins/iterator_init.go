package builtins

import (
	"strconv"

	"vetro/pkg/vm"
)

// IteratorInitializer populates %IteratorPrototype% and the array
// iterator. Every iterator in the realm inherits from
// %IteratorPrototype%, which is why freeze plans single it out.
type IteratorInitializer struct{}

func (i *IteratorInitializer) Name() string {
	return "Iterator"
}

func (i *IteratorInitializer) Priority() int {
	return PriorityIterator
}

func (i *IteratorInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	iterProto := realm.IteratorPrototype.AsPlainObject()

	// %IteratorPrototype%[Symbol.iterator]() returns this
	iterProto.SetOwnNonEnumerableByKey(vm.NewSymbolKey(realm.SymbolIterator), vm.NewNativeFunction(0, false, "[Symbol.iterator]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	}))

	// %AsyncIteratorPrototype%[Symbol.asyncIterator]() returns this
	asyncIterProto := realm.AsyncIteratorPrototype.AsPlainObject()
	asyncIterProto.SetOwnNonEnumerableByKey(vm.NewSymbolKey(realm.SymbolAsyncIterator), vm.NewNativeFunction(0, false, "[Symbol.asyncIterator]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	}))

	// %ArrayIteratorPrototype%.next()
	arrayIterProto := realm.ArrayIteratorPrototype.AsPlainObject()
	arrayIterProto.SetOwnNonEnumerable("next", vm.NewNativeFunction(0, false, "next", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(this)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("next called on incompatible receiver")
		}
		iterated, ok := holder.GetOwn("[[IteratedObject]]")
		if !ok {
			return vm.Undefined, realm.NewTypeError("next called on incompatible receiver")
		}
		if iterated.IsUndefined() {
			return iterResult(realm, vm.Undefined, true), nil
		}
		idxVal, _ := holder.GetOwn("[[NextIndex]]")
		idx := int(idxVal.ToFloat())
		target := vm.PropertyHolder(iterated)
		if target == nil || idx >= arrayLength(target) {
			holder.SetOwn("[[IteratedObject]]", vm.Undefined)
			return iterResult(realm, vm.Undefined, true), nil
		}
		elem, err := realm.Get(iterated, strconv.Itoa(idx))
		if err != nil {
			return vm.Undefined, err
		}
		holder.SetOwn("[[NextIndex]]", vm.IntegerValue(int32(idx+1)))
		return iterResult(realm, elem, false), nil
	}))
	arrayIterProto.SetOwnNonEnumerableByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("Array Iterator"))

	return nil
}

// iterResult builds a { value, done } object.
func iterResult(realm *vm.Realm, value vm.Value, done bool) vm.Value {
	obj := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
	obj.SetOwn("value", value)
	obj.SetOwn("done", vm.BooleanValue(done))
	return vm.NewValueFromPlainObject(obj)
}

// newArrayIterator wraps an array-shaped object in a fresh iterator
// inheriting from %ArrayIteratorPrototype%.
func newArrayIterator(realm *vm.Realm, arr vm.Value) vm.Value {
	iter := vm.NewObject(realm.ArrayIteratorPrototype).AsPlainObject()
	iter.SetOwnNonEnumerable("[[IteratedObject]]", arr)
	iter.SetOwnNonEnumerable("[[NextIndex]]", vm.IntegerValue(0))
	return vm.NewValueFromPlainObject(iter)
}
