package builtins

import (
	"math"
	"math/rand"

	"vetro/pkg/vm"
)

// MathInitializer implements the Math namespace object.
type MathInitializer struct{}

func (m *MathInitializer) Name() string {
	return "Math"
}

func (m *MathInitializer) Priority() int {
	return PriorityMath
}

func (m *MathInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	mathObj := vm.NewObject(realm.ObjectPrototype).AsPlainObject()

	// Mathematical constants are pinned: non-writable, non-enumerable,
	// non-configurable.
	f := false
	constants := []struct {
		name  string
		value float64
	}{
		{"PI", math.Pi},
		{"E", math.E},
		{"LN2", math.Ln2},
		{"LN10", math.Log(10)},
		{"LOG2E", 1 / math.Ln2},
		{"LOG10E", 1 / math.Log(10)},
		{"SQRT2", math.Sqrt2},
		{"SQRT1_2", math.Sqrt(0.5)},
	}
	for _, c := range constants {
		mathObj.DefineOwnProperty(c.name, vm.NumberValue(c.value), &f, &f, &f)
	}

	unary := []struct {
		name string
		fn   func(float64) float64
	}{
		{"abs", math.Abs},
		{"floor", math.Floor},
		{"ceil", math.Ceil},
		{"sqrt", math.Sqrt},
		{"cbrt", math.Cbrt},
		{"trunc", math.Trunc},
		{"log", math.Log},
		{"log2", math.Log2},
		{"log10", math.Log10},
		{"exp", math.Exp},
		{"sin", math.Sin},
		{"cos", math.Cos},
		{"tan", math.Tan},
		{"asin", math.Asin},
		{"acos", math.Acos},
		{"atan", math.Atan},
		{"sinh", math.Sinh},
		{"cosh", math.Cosh},
		{"tanh", math.Tanh},
	}
	for _, u := range unary {
		fn := u.fn
		mathObj.SetOwnNonEnumerable(u.name, vm.NewNativeFunction(1, false, u.name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.NumberValue(fn(argAt(args, 0).ToFloat())), nil
		}))
	}

	// Math.round halves away from negative infinity, unlike math.Round.
	mathObj.SetOwnNonEnumerable("round", vm.NewNativeFunction(1, false, "round", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		x := argAt(args, 0).ToFloat()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return vm.NumberValue(x), nil
		}
		return vm.NumberValue(math.Floor(x + 0.5)), nil
	}))

	// Math.sign(x)
	mathObj.SetOwnNonEnumerable("sign", vm.NewNativeFunction(1, false, "sign", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		x := argAt(args, 0).ToFloat()
		switch {
		case math.IsNaN(x) || x == 0:
			return vm.NumberValue(x), nil
		case x > 0:
			return vm.IntegerValue(1), nil
		default:
			return vm.IntegerValue(-1), nil
		}
	}))

	// Math.pow(base, exp)
	mathObj.SetOwnNonEnumerable("pow", vm.NewNativeFunction(2, false, "pow", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NumberValue(math.Pow(argAt(args, 0).ToFloat(), argAt(args, 1).ToFloat())), nil
	}))

	// Math.atan2(y, x)
	mathObj.SetOwnNonEnumerable("atan2", vm.NewNativeFunction(2, false, "atan2", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NumberValue(math.Atan2(argAt(args, 0).ToFloat(), argAt(args, 1).ToFloat())), nil
	}))

	// Math.hypot(...values)
	mathObj.SetOwnNonEnumerable("hypot", vm.NewNativeFunction(2, true, "hypot", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		sum := 0.0
		for _, arg := range args {
			v := arg.ToFloat()
			sum += v * v
		}
		return vm.NumberValue(math.Sqrt(sum)), nil
	}))

	// Math.min(...values)
	mathObj.SetOwnNonEnumerable("min", vm.NewNativeFunction(2, true, "min", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		result := math.Inf(1)
		for _, arg := range args {
			v := arg.ToFloat()
			if math.IsNaN(v) {
				return vm.NaN, nil
			}
			if v < result {
				result = v
			}
		}
		return vm.NumberValue(result), nil
	}))

	// Math.max(...values)
	mathObj.SetOwnNonEnumerable("max", vm.NewNativeFunction(2, true, "max", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		result := math.Inf(-1)
		for _, arg := range args {
			v := arg.ToFloat()
			if math.IsNaN(v) {
				return vm.NaN, nil
			}
			if v > result {
				result = v
			}
		}
		return vm.NumberValue(result), nil
	}))

	// Math.random()
	mathObj.SetOwnNonEnumerable("random", vm.NewNativeFunction(0, false, "random", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NumberValue(rand.Float64()), nil
	}))

	tr := true
	mathObj.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("Math"), &f, &f, &tr)

	return ctx.DefineGlobal("Math", vm.NewValueFromPlainObject(mathObj))
}
