package builtins

import (
	"vetro/pkg/vm"
)

// ArrayBufferInitializer implements the ArrayBuffer constructor and its
// prototype.
type ArrayBufferInitializer struct{}

func (a *ArrayBufferInitializer) Name() string {
	return "ArrayBuffer"
}

func (a *ArrayBufferInitializer) Priority() int {
	return PriorityArrayBuffer
}

func (a *ArrayBufferInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	bufferProto := realm.ArrayBufferPrototype.AsPlainObject()

	requireBuffer := func(this vm.Value, method string) (*vm.ArrayBufferObject, error) {
		if this.IsArrayBuffer() {
			return this.AsArrayBuffer(), nil
		}
		return nil, realm.NewTypeError("ArrayBuffer.prototype." + method + " requires that 'this' be an ArrayBuffer")
	}

	f := false
	tr := true

	// byteLength is an accessor, as in real engines.
	byteLengthGetter := vm.NewNativeFunction(0, false, "get byteLength", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ab, err := requireBuffer(this, "byteLength")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.IntegerValue(int32(ab.ByteLength())), nil
	})
	bufferProto.DefineAccessorProperty("byteLength", byteLengthGetter, true, vm.Undefined, false, &f, &tr)

	// ArrayBuffer.prototype.slice(start, end)
	bufferProto.SetOwnNonEnumerable("slice", vm.NewNativeFunction(2, false, "slice", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ab, err := requireBuffer(this, "slice")
		if err != nil {
			return vm.Undefined, err
		}
		length := ab.ByteLength()
		start := relativeIndex(argAt(args, 0), 0, length)
		end := relativeIndex(argAt(args, 1), length, length)
		if end < start {
			end = start
		}
		copied := vm.NewArrayBuffer(end-start, realm.ArrayBufferPrototype)
		copy(copied.AsArrayBuffer().GetData(), ab.GetData()[start:end])
		return copied, nil
	}))

	bufferProto.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("ArrayBuffer"), &f, &f, &tr)

	// ArrayBuffer(length) constructor
	bufferCtor := vm.NewConstructorWithProps(1, false, "ArrayBuffer", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		length := argAt(args, 0).ToFloat()
		if length < 0 || length != float64(int(length)) {
			return vm.Undefined, realm.NewRangeError("Invalid array buffer length")
		}
		return vm.NewArrayBuffer(int(length), realm.ArrayBufferPrototype), nil
	})
	ctorProps := bufferCtor.AsNativeFunction().Props()

	// ArrayBuffer.isView(value)
	ctorProps.SetOwnNonEnumerable("isView", vm.NewNativeFunction(1, false, "isView", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(argAt(args, 0).IsTypedArray()), nil
	}))

	speciesGetter := vm.NewNativeFunction(0, false, "get [Symbol.species]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	})
	ctorProps.DefineAccessorPropertyByKey(vm.NewSymbolKey(realm.SymbolSpecies), speciesGetter, true, vm.Undefined, false, &f, &tr)

	ctorProps.DefineOwnProperty("prototype", realm.ArrayBufferPrototype, &f, &f, &f)
	bufferProto.SetOwnNonEnumerable("constructor", bufferCtor)

	return ctx.DefineGlobal("ArrayBuffer", bufferCtor)
}
