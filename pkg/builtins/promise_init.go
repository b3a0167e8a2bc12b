package builtins

import (
	"vetro/pkg/vm"
)

// PromiseInitializer implements the Promise constructor and its
// prototype. The realm has no event loop, so promises settle
// synchronously during executor and handler calls; a promise left
// pending stays pending.
type PromiseInitializer struct{}

func (p *PromiseInitializer) Name() string {
	return "Promise"
}

func (p *PromiseInitializer) Priority() int {
	return PriorityPromise
}

const (
	promiseStateProp  = "[[PromiseState]]"
	promiseResultProp = "[[PromiseResult]]"
)

func (p *PromiseInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	promiseProto := realm.PromisePrototype.AsPlainObject()

	requirePromise := func(this vm.Value, method string) (*vm.PlainObject, error) {
		if holder := vm.PropertyHolder(this); holder != nil && holder.HasOwn(promiseStateProp) {
			return holder, nil
		}
		return nil, realm.NewTypeError("Promise.prototype." + method + " requires that 'this' be a Promise")
	}

	// Promise.prototype.then(onFulfilled, onRejected)
	promiseProto.SetOwnNonEnumerable("then", vm.NewNativeFunction(2, false, "then", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requirePromise(this, "then")
		if err != nil {
			return vm.Undefined, err
		}
		state, result := promiseState(holder)
		switch state {
		case "fulfilled":
			if cb := argAt(args, 0); cb.IsCallable() {
				return invokeHandler(realm, cb, result)
			}
			return newSettledPromise(realm, "fulfilled", result), nil
		case "rejected":
			if cb := argAt(args, 1); cb.IsCallable() {
				return invokeHandler(realm, cb, result)
			}
			return newSettledPromise(realm, "rejected", result), nil
		default:
			return newPendingPromise(realm), nil
		}
	}))

	// Promise.prototype.catch(onRejected)
	promiseProto.SetOwnNonEnumerable("catch", vm.NewNativeFunction(1, false, "catch", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requirePromise(this, "catch")
		if err != nil {
			return vm.Undefined, err
		}
		state, result := promiseState(holder)
		if state == "rejected" {
			if cb := argAt(args, 0); cb.IsCallable() {
				return invokeHandler(realm, cb, result)
			}
			return newSettledPromise(realm, "rejected", result), nil
		}
		if state == "fulfilled" {
			return newSettledPromise(realm, "fulfilled", result), nil
		}
		return newPendingPromise(realm), nil
	}))

	// Promise.prototype.finally(onFinally)
	promiseProto.SetOwnNonEnumerable("finally", vm.NewNativeFunction(1, false, "finally", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requirePromise(this, "finally")
		if err != nil {
			return vm.Undefined, err
		}
		state, result := promiseState(holder)
		if state != "pending" {
			if cb := argAt(args, 0); cb.IsCallable() {
				if _, err := realm.Call(cb, vm.Undefined, nil); err != nil {
					if ex, ok := vm.Thrown(err); ok {
						return newSettledPromise(realm, "rejected", ex), nil
					}
					return vm.Undefined, err
				}
			}
			return newSettledPromise(realm, state, result), nil
		}
		return newPendingPromise(realm), nil
	}))

	f := false
	tr := true
	promiseProto.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("Promise"), &f, &f, &tr)

	// Promise(executor) constructor
	promiseCtor := vm.NewConstructorWithProps(1, false, "Promise", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		executor := argAt(args, 0)
		if !executor.IsCallable() {
			return vm.Undefined, realm.NewTypeError("Promise resolver " + executor.Inspect() + " is not a function")
		}
		instVal := newPendingPromise(realm)
		inst := instVal.AsPlainObject()
		resolveFn := vm.NewNativeFunction(1, false, "resolve", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			settlePromise(inst, "fulfilled", argAt(args, 0))
			return vm.Undefined, nil
		})
		rejectFn := vm.NewNativeFunction(1, false, "reject", func(this vm.Value, args []vm.Value) (vm.Value, error) {
			settlePromise(inst, "rejected", argAt(args, 0))
			return vm.Undefined, nil
		})
		if _, err := realm.Call(executor, vm.Undefined, []vm.Value{resolveFn, rejectFn}); err != nil {
			if ex, ok := vm.Thrown(err); ok {
				settlePromise(inst, "rejected", ex)
				return instVal, nil
			}
			return vm.Undefined, err
		}
		return instVal, nil
	})
	ctorProps := promiseCtor.AsNativeFunction().Props()

	// Promise.resolve(value)
	ctorProps.SetOwnNonEnumerable("resolve", vm.NewNativeFunction(1, false, "resolve", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		value := argAt(args, 0)
		if holder := vm.PropertyHolder(value); holder != nil && holder.HasOwn(promiseStateProp) {
			return value, nil
		}
		return newSettledPromise(realm, "fulfilled", value), nil
	}))

	// Promise.reject(reason)
	ctorProps.SetOwnNonEnumerable("reject", vm.NewNativeFunction(1, false, "reject", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return newSettledPromise(realm, "rejected", argAt(args, 0)), nil
	}))

	speciesGetter := vm.NewNativeFunction(0, false, "get [Symbol.species]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	})
	ctorProps.DefineAccessorPropertyByKey(vm.NewSymbolKey(realm.SymbolSpecies), speciesGetter, true, vm.Undefined, false, &f, &tr)

	ctorProps.DefineOwnProperty("prototype", realm.PromisePrototype, &f, &f, &f)
	promiseProto.SetOwnNonEnumerable("constructor", promiseCtor)

	return ctx.DefineGlobal("Promise", promiseCtor)
}

func newPendingPromise(realm *vm.Realm) vm.Value {
	inst := vm.NewObject(realm.PromisePrototype).AsPlainObject()
	inst.SetOwnNonEnumerable(promiseStateProp, vm.NewString("pending"))
	inst.SetOwnNonEnumerable(promiseResultProp, vm.Undefined)
	return vm.NewValueFromPlainObject(inst)
}

func newSettledPromise(realm *vm.Realm, state string, result vm.Value) vm.Value {
	instVal := newPendingPromise(realm)
	settlePromise(instVal.AsPlainObject(), state, result)
	return instVal
}

func promiseState(holder *vm.PlainObject) (string, vm.Value) {
	state, _ := holder.GetOwn(promiseStateProp)
	result, _ := holder.GetOwn(promiseResultProp)
	return state.ToString(), result
}

// settlePromise transitions a pending promise. Later settlements are
// ignored, matching the first-call-wins resolver contract.
func settlePromise(holder *vm.PlainObject, state string, result vm.Value) {
	if current, _ := holder.GetOwn(promiseStateProp); current.ToString() != "pending" {
		return
	}
	holder.SetOwnNonEnumerable(promiseStateProp, vm.NewString(state))
	holder.SetOwnNonEnumerable(promiseResultProp, result)
}

// invokeHandler calls a then/catch handler and wraps its outcome in a
// settled promise, adopting the handler's own promise when it returns
// one.
func invokeHandler(realm *vm.Realm, cb, arg vm.Value) (vm.Value, error) {
	res, err := realm.Call(cb, vm.Undefined, []vm.Value{arg})
	if err != nil {
		if ex, ok := vm.Thrown(err); ok {
			return newSettledPromise(realm, "rejected", ex), nil
		}
		return vm.Undefined, err
	}
	if holder := vm.PropertyHolder(res); holder != nil && holder.HasOwn(promiseStateProp) {
		return res, nil
	}
	return newSettledPromise(realm, "fulfilled", res), nil
}
