package builtins

import (
	"math"

	"vetro/pkg/vm"
)

// GlobalsInitializer installs the value globals and the top-level
// conversion functions. It runs last so it can alias functions already
// installed on Number.
type GlobalsInitializer struct{}

func (g *GlobalsInitializer) Name() string {
	return "Globals"
}

func (g *GlobalsInitializer) Priority() int {
	return PriorityGlobals
}

func (g *GlobalsInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	global := realm.GlobalObject

	// globalThis refers back to the global object itself.
	global.SetOwnNonEnumerable("globalThis", vm.NewValueFromPlainObject(global))

	// NaN, Infinity, and undefined are pinned value globals.
	f := false
	global.DefineOwnProperty("NaN", vm.NaN, &f, &f, &f)
	global.DefineOwnProperty("Infinity", vm.NumberValue(math.Inf(1)), &f, &f, &f)
	global.DefineOwnProperty("undefined", vm.Undefined, &f, &f, &f)

	// The global parseInt and parseFloat are the same function objects
	// Number carries.
	parseIntFn := makeParseInt()
	parseFloatFn := makeParseFloat()
	if numberCtor, ok := realm.GetGlobal("Number"); ok {
		if props := vm.PropertyHolder(numberCtor); props != nil {
			if fn, ok := props.GetOwn("parseInt"); ok {
				parseIntFn = fn
			}
			if fn, ok := props.GetOwn("parseFloat"); ok {
				parseFloatFn = fn
			}
		}
	}
	global.SetOwnNonEnumerable("parseInt", parseIntFn)
	global.SetOwnNonEnumerable("parseFloat", parseFloatFn)

	// isNaN and isFinite coerce their argument, unlike the Number statics.
	global.SetOwnNonEnumerable("isNaN", vm.NewNativeFunction(1, false, "isNaN", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(math.IsNaN(argAt(args, 0).ToFloat())), nil
	}))
	global.SetOwnNonEnumerable("isFinite", vm.NewNativeFunction(1, false, "isFinite", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		num := argAt(args, 0).ToFloat()
		return vm.BooleanValue(!math.IsNaN(num) && !math.IsInf(num, 0)), nil
	}))

	return nil
}
