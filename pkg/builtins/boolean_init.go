package builtins

import (
	"vetro/pkg/vm"
)

// BooleanInitializer implements the Boolean constructor and Boolean.prototype
type BooleanInitializer struct{}

func (b *BooleanInitializer) Name() string {
	return "Boolean"
}

func (b *BooleanInitializer) Priority() int {
	return PriorityBoolean
}

func (b *BooleanInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	booleanProto := realm.BooleanPrototype.AsPlainObject()

	requireBoolean := func(this vm.Value, method string) (bool, error) {
		if this.IsBoolean() {
			return this.AsBoolean(), nil
		}
		if holder := vm.PropertyHolder(this); holder != nil {
			if prim, ok := holder.GetOwn("[[PrimitiveValue]]"); ok && prim.IsBoolean() {
				return prim.AsBoolean(), nil
			}
		}
		return false, realm.NewTypeError("Boolean.prototype." + method + " requires that 'this' be a Boolean")
	}

	// Boolean.prototype.toString()
	booleanProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		prim, err := requireBoolean(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		if prim {
			return vm.NewString("true"), nil
		}
		return vm.NewString("false"), nil
	}))

	// Boolean.prototype.valueOf()
	booleanProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		prim, err := requireBoolean(this, "valueOf")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(prim), nil
	}))

	// Boolean constructor: Boolean(value) converts
	booleanCtor := vm.NewConstructorWithProps(1, false, "Boolean", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(argAt(args, 0).ToBoolean()), nil
	})

	f := false
	booleanCtor.AsNativeFunction().Props().DefineOwnProperty("prototype", realm.BooleanPrototype, &f, &f, &f)
	booleanProto.SetOwnNonEnumerable("constructor", booleanCtor)

	return ctx.DefineGlobal("Boolean", booleanCtor)
}
