package builtins

import (
	"math"
	"strconv"
	"strings"

	"vetro/pkg/vm"
)

// NumberInitializer implements the Number constructor and Number.prototype
type NumberInitializer struct{}

func (n *NumberInitializer) Name() string {
	return "Number"
}

func (n *NumberInitializer) Priority() int {
	return PriorityNumber
}

func (n *NumberInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	numberProto := realm.NumberPrototype.AsPlainObject()

	requireNumber := func(this vm.Value, method string) (float64, error) {
		if num, ok := numberFromValue(this); ok {
			return num, nil
		}
		return 0, realm.NewTypeError("Number.prototype." + method + " requires that 'this' be a Number")
	}

	// Number.prototype.toString(radix)
	numberProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(1, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		num, err := requireNumber(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		radix := 10
		if r := argAt(args, 0); !r.IsUndefined() {
			radix = int(r.ToFloat())
		}
		if radix < 2 || radix > 36 {
			return vm.Undefined, realm.NewRangeError("toString() radix must be between 2 and 36")
		}
		if radix == 10 {
			return vm.NewString(vm.NumberValue(num).ToString()), nil
		}
		if num == math.Trunc(num) && !math.IsInf(num, 0) {
			return vm.NewString(strconv.FormatInt(int64(num), radix)), nil
		}
		return vm.NewString(strconv.FormatFloat(num, 'g', -1, 64)), nil
	}))

	// Number.prototype.valueOf()
	numberProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		num, err := requireNumber(this, "valueOf")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NumberValue(num), nil
	}))

	// Number.prototype.toFixed(digits)
	numberProto.SetOwnNonEnumerable("toFixed", vm.NewNativeFunction(1, false, "toFixed", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		num, err := requireNumber(this, "toFixed")
		if err != nil {
			return vm.Undefined, err
		}
		digits := int(argAt(args, 0).ToFloat())
		if digits < 0 || digits > 100 {
			return vm.Undefined, realm.NewRangeError("toFixed() digits argument must be between 0 and 100")
		}
		return vm.NewString(strconv.FormatFloat(num, 'f', digits, 64)), nil
	}))

	// Number constructor: Number(value) converts
	numberCtor := vm.NewConstructorWithProps(1, false, "Number", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.IntegerValue(0), nil
		}
		return vm.NumberValue(args[0].ToFloat()), nil
	})
	ctorProps := numberCtor.AsNativeFunction().Props()

	// Numeric constants are pinned exactly as engines pin them:
	// non-writable, non-enumerable, non-configurable.
	f := false
	constants := []struct {
		name  string
		value vm.Value
	}{
		{"MAX_SAFE_INTEGER", vm.NumberValue(9007199254740991)},
		{"MIN_SAFE_INTEGER", vm.NumberValue(-9007199254740991)},
		{"MAX_VALUE", vm.NumberValue(math.MaxFloat64)},
		{"MIN_VALUE", vm.NumberValue(5e-324)},
		{"EPSILON", vm.NumberValue(2.220446049250313e-16)},
		{"POSITIVE_INFINITY", vm.NumberValue(math.Inf(1))},
		{"NEGATIVE_INFINITY", vm.NumberValue(math.Inf(-1))},
		{"NaN", vm.NaN},
	}
	for _, c := range constants {
		ctorProps.DefineOwnProperty(c.name, c.value, &f, &f, &f)
	}

	// Number.isInteger(value)
	ctorProps.SetOwnNonEnumerable("isInteger", vm.NewNativeFunction(1, false, "isInteger", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		if !arg.IsNumber() {
			return vm.False, nil
		}
		num := arg.ToFloat()
		return vm.BooleanValue(!math.IsInf(num, 0) && !math.IsNaN(num) && num == math.Trunc(num)), nil
	}))

	// Number.isSafeInteger(value)
	ctorProps.SetOwnNonEnumerable("isSafeInteger", vm.NewNativeFunction(1, false, "isSafeInteger", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		if !arg.IsNumber() {
			return vm.False, nil
		}
		num := arg.ToFloat()
		return vm.BooleanValue(!math.IsNaN(num) && num == math.Trunc(num) && math.Abs(num) <= 9007199254740991), nil
	}))

	// Number.isFinite(value) does not coerce, unlike the global.
	ctorProps.SetOwnNonEnumerable("isFinite", vm.NewNativeFunction(1, false, "isFinite", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		if !arg.IsNumber() {
			return vm.False, nil
		}
		num := arg.ToFloat()
		return vm.BooleanValue(!math.IsInf(num, 0) && !math.IsNaN(num)), nil
	}))

	// Number.isNaN(value)
	ctorProps.SetOwnNonEnumerable("isNaN", vm.NewNativeFunction(1, false, "isNaN", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		return vm.BooleanValue(arg.IsNumber() && math.IsNaN(arg.ToFloat())), nil
	}))

	// Number.parseFloat / Number.parseInt share the global functions
	ctorProps.SetOwnNonEnumerable("parseFloat", makeParseFloat())
	ctorProps.SetOwnNonEnumerable("parseInt", makeParseInt())

	// Wire constructor <-> prototype
	ctorProps.DefineOwnProperty("prototype", realm.NumberPrototype, &f, &f, &f)
	numberProto.SetOwnNonEnumerable("constructor", numberCtor)

	return ctx.DefineGlobal("Number", numberCtor)
}

// makeParseFloat builds the parseFloat function installed both on
// Number and as a global.
func makeParseFloat() vm.Value {
	return vm.NewNativeFunction(1, false, "parseFloat", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str := strings.TrimSpace(argAt(args, 0).ToString())
		end := 0
		seenDot, seenExp := false, false
		for i, r := range str {
			if r >= '0' && r <= '9' {
				end = i + 1
				continue
			}
			if (r == '+' || r == '-') && (i == 0 || str[i-1] == 'e' || str[i-1] == 'E') {
				continue
			}
			if r == '.' && !seenDot && !seenExp {
				seenDot = true
				continue
			}
			if (r == 'e' || r == 'E') && !seenExp && end > 0 {
				seenExp = true
				continue
			}
			break
		}
		if end == 0 {
			if strings.HasPrefix(str, "Infinity") || strings.HasPrefix(str, "+Infinity") {
				return vm.NumberValue(math.Inf(1)), nil
			}
			if strings.HasPrefix(str, "-Infinity") {
				return vm.NumberValue(math.Inf(-1)), nil
			}
			return vm.NaN, nil
		}
		prefix := str
		if parsed, err := strconv.ParseFloat(prefix[:longestFloatPrefix(prefix)], 64); err == nil {
			return vm.NumberValue(parsed), nil
		}
		return vm.NaN, nil
	})
}

// longestFloatPrefix finds the longest prefix of s that parses as a
// decimal floating point number.
func longestFloatPrefix(s string) int {
	best := 0
	for i := 1; i <= len(s); i++ {
		if _, err := strconv.ParseFloat(s[:i], 64); err == nil {
			best = i
		}
	}
	return best
}

// makeParseInt builds the parseInt function installed both on Number
// and as a global.
func makeParseInt() vm.Value {
	return vm.NewNativeFunction(2, false, "parseInt", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str := strings.TrimSpace(argAt(args, 0).ToString())
		radix := 10
		if r := argAt(args, 1); !r.IsUndefined() {
			radix = int(r.ToFloat())
			if radix != 0 && (radix < 2 || radix > 36) {
				return vm.NaN, nil
			}
			if radix == 0 {
				radix = 10
			}
		}
		sign := 1.0
		if strings.HasPrefix(str, "-") {
			sign = -1
			str = str[1:]
		} else {
			str = strings.TrimPrefix(str, "+")
		}
		if radix == 16 || radix == 10 {
			if strings.HasPrefix(str, "0x") || strings.HasPrefix(str, "0X") {
				str = str[2:]
				radix = 16
			}
		}
		end := 0
		for i := 0; i < len(str); i++ {
			if digitValue(str[i]) >= radix || digitValue(str[i]) < 0 {
				break
			}
			end = i + 1
		}
		if end == 0 {
			return vm.NaN, nil
		}
		parsed, err := strconv.ParseInt(str[:end], radix, 64)
		if err != nil {
			// Overflow: fall back to float accumulation
			var acc float64
			for i := 0; i < end; i++ {
				acc = acc*float64(radix) + float64(digitValue(str[i]))
			}
			return vm.NumberValue(sign * acc), nil
		}
		return vm.NumberValue(sign * float64(parsed)), nil
	})
}

func digitValue(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'z':
		return int(b-'a') + 10
	case b >= 'A' && b <= 'Z':
		return int(b-'A') + 10
	default:
		return -1
	}
}
