package builtins

import (
	"strconv"

	"vetro/pkg/vm"
)

// FunctionInitializer implements Function.prototype and the Function
// constructor. There is no script compiler behind this runtime, so the
// constructor cannot build functions from source text.
type FunctionInitializer struct{}

func (f *FunctionInitializer) Name() string {
	return "Function"
}

func (f *FunctionInitializer) Priority() int {
	return PriorityFunction
}

func (f *FunctionInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	functionProto := realm.FunctionPrototype.AsPlainObject()

	// Function.prototype.call(thisArg, ...args)
	functionProto.SetOwnNonEnumerable("call", vm.NewNativeFunction(1, true, "call", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return realm.Call(this, argAt(args, 0), args[min(1, len(args)):])
	}))

	// Function.prototype.apply(thisArg, argsArray)
	functionProto.SetOwnNonEnumerable("apply", vm.NewNativeFunction(2, false, "apply", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		var callArgs []vm.Value
		if arr := argAt(args, 1); !arr.IsUndefined() && !arr.IsNull() {
			holder := vm.PropertyHolder(arr)
			if holder == nil {
				return vm.Undefined, realm.NewTypeError("CreateListFromArrayLike called on non-object")
			}
			n := arrayLength(holder)
			callArgs = make([]vm.Value, n)
			for i := 0; i < n; i++ {
				elem, err := realm.Get(arr, strconv.Itoa(i))
				if err != nil {
					return vm.Undefined, err
				}
				callArgs[i] = elem
			}
		}
		return realm.Call(this, argAt(args, 0), callArgs)
	}))

	// Function.prototype.bind(thisArg, ...prefix)
	functionProto.SetOwnNonEnumerable("bind", vm.NewNativeFunction(1, true, "bind", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsCallable() {
			return vm.Undefined, realm.NewTypeError("Bind must be called on a function")
		}
		target := this
		boundThis := argAt(args, 0)
		prefix := append([]vm.Value(nil), args[min(1, len(args)):]...)
		name := "bound " + target.AsNativeFunction().Name
		bound := vm.NewNativeFunction(0, true, name, func(_ vm.Value, callArgs []vm.Value) (vm.Value, error) {
			full := append(append([]vm.Value(nil), prefix...), callArgs...)
			return realm.Call(target, boundThis, full)
		})
		return bound, nil
	}))

	// Function.prototype.toString()
	functionProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsCallable() {
			return vm.Undefined, realm.NewTypeError("Function.prototype.toString requires that 'this' be a Function")
		}
		name := this.AsNativeFunction().Name
		return vm.NewString("function " + name + "() { [native code] }"), nil
	}))

	// Function constructor: dynamic source compilation is unsupported
	functionCtor := vm.NewConstructorWithProps(1, true, "Function", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, realm.NewTypeError("Function constructor is not available in this runtime")
	})
	f2 := false
	functionCtor.AsNativeFunction().Props().DefineOwnProperty("prototype", realm.FunctionPrototype, &f2, &f2, &f2)
	functionProto.SetOwnNonEnumerable("constructor", functionCtor)

	realm.FunctionConstructor = functionCtor
	return ctx.DefineGlobal("Function", functionCtor)
}
