package builtins

import (
	"vetro/pkg/vm"
)

// AsyncInitializer wires the async function and async generator
// families. Like the generator family these are anonymous intrinsics:
// %AsyncFunction%, %AsyncGeneratorFunction% -> %AsyncGenerator% ->
// %AsyncGeneratorPrototype%.
type AsyncInitializer struct{}

func (a *AsyncInitializer) Name() string {
	return "AsyncGenerator"
}

func (a *AsyncInitializer) Priority() int {
	return PriorityAsyncGenerator
}

func (a *AsyncInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	f := false
	tr := true

	// %AsyncFunction%
	asyncCtor := vm.NewConstructorWithProps(1, true, "AsyncFunction", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, realm.NewTypeError("AsyncFunction constructor is not available in this runtime")
	})
	asyncCtor.AsNativeFunction().Props().DefineOwnProperty("prototype", realm.AsyncFunctionPrototype, &f, &f, &tr)
	realm.AsyncFunctionConstructor = asyncCtor

	asyncFnProto := realm.AsyncFunctionPrototype.AsPlainObject()
	asyncFnProto.DefineOwnProperty("constructor", asyncCtor, &f, &f, &tr)
	asyncFnProto.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("AsyncFunction"), &f, &f, &tr)

	// %AsyncGeneratorFunction%
	asyncGenCtor := vm.NewConstructorWithProps(1, true, "AsyncGeneratorFunction", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, realm.NewTypeError("AsyncGeneratorFunction constructor is not available in this runtime")
	})
	asyncGenCtor.AsNativeFunction().Props().DefineOwnProperty("prototype", realm.AsyncGeneratorFunctionPrototype, &f, &f, &tr)
	realm.AsyncGeneratorFunctionConstructor = asyncGenCtor

	// %AsyncGenerator% (= AsyncGeneratorFunction.prototype)
	asyncGenerator := realm.AsyncGeneratorFunctionPrototype.AsPlainObject()
	asyncGenerator.DefineOwnProperty("constructor", asyncGenCtor, &f, &f, &tr)
	asyncGenerator.DefineOwnProperty("prototype", realm.AsyncGeneratorPrototype, &f, &f, &tr)
	asyncGenerator.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("AsyncGeneratorFunction"), &f, &f, &tr)

	// %AsyncGeneratorPrototype%
	asyncGenProto := realm.AsyncGeneratorPrototype.AsPlainObject()
	asyncGenProto.DefineOwnProperty("constructor", realm.AsyncGeneratorFunctionPrototype, &f, &f, &tr)
	for _, method := range []string{"next", "return", "throw"} {
		name := method
		asyncGenProto.SetOwnNonEnumerable(name, vm.NewNativeFunction(1, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Undefined, realm.NewTypeError("AsyncGenerator.prototype." + name + " called on incompatible receiver")
		}))
	}
	asyncGenProto.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("AsyncGenerator"), &f, &f, &tr)

	return nil
}
