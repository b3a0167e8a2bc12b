package builtins

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"vetro/pkg/vm"
)

// StringInitializer implements the String constructor and
// String.prototype. Strings are sequences of runes here; indices and
// lengths are rune-based.
type StringInitializer struct{}

func (s *StringInitializer) Name() string {
	return "String"
}

func (s *StringInitializer) Priority() int {
	return PriorityString
}

func (s *StringInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	stringProto := realm.StringPrototype.AsPlainObject()

	requireString := func(this vm.Value, method string) (string, error) {
		if str, ok := stringFromValue(this); ok {
			return str, nil
		}
		return "", realm.NewTypeError("String.prototype." + method + " requires that 'this' be a String")
	}

	// String.prototype.toString() / valueOf()
	for _, name := range []string{"toString", "valueOf"} {
		method := name
		stringProto.SetOwnNonEnumerable(method, vm.NewNativeFunction(0, false, method, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			str, err := requireString(this, method)
			if err != nil {
				return vm.Undefined, err
			}
			return vm.NewString(str), nil
		}))
	}

	// String.prototype.charAt(index)
	stringProto.SetOwnNonEnumerable("charAt", vm.NewNativeFunction(1, false, "charAt", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "charAt")
		if err != nil {
			return vm.Undefined, err
		}
		runes := []rune(str)
		idx := int(argAt(args, 0).ToFloat())
		if idx < 0 || idx >= len(runes) {
			return vm.NewString(""), nil
		}
		return vm.NewString(string(runes[idx])), nil
	}))

	// String.prototype.charCodeAt(index)
	stringProto.SetOwnNonEnumerable("charCodeAt", vm.NewNativeFunction(1, false, "charCodeAt", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "charCodeAt")
		if err != nil {
			return vm.Undefined, err
		}
		runes := []rune(str)
		idx := int(argAt(args, 0).ToFloat())
		if idx < 0 || idx >= len(runes) {
			return vm.NaN, nil
		}
		return vm.IntegerValue(int32(runes[idx])), nil
	}))

	// String.prototype.indexOf(search, from)
	stringProto.SetOwnNonEnumerable("indexOf", vm.NewNativeFunction(1, false, "indexOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "indexOf")
		if err != nil {
			return vm.Undefined, err
		}
		search := argAt(args, 0).ToString()
		byteIdx := strings.Index(str, search)
		if byteIdx < 0 {
			return vm.IntegerValue(-1), nil
		}
		return vm.IntegerValue(int32(len([]rune(str[:byteIdx])))), nil
	}))

	// String.prototype.includes(search)
	stringProto.SetOwnNonEnumerable("includes", vm.NewNativeFunction(1, false, "includes", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "includes")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(strings.Contains(str, argAt(args, 0).ToString())), nil
	}))

	// String.prototype.startsWith(search)
	stringProto.SetOwnNonEnumerable("startsWith", vm.NewNativeFunction(1, false, "startsWith", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "startsWith")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(strings.HasPrefix(str, argAt(args, 0).ToString())), nil
	}))

	// String.prototype.endsWith(search)
	stringProto.SetOwnNonEnumerable("endsWith", vm.NewNativeFunction(1, false, "endsWith", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "endsWith")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.BooleanValue(strings.HasSuffix(str, argAt(args, 0).ToString())), nil
	}))

	// String.prototype.slice(start, end)
	stringProto.SetOwnNonEnumerable("slice", vm.NewNativeFunction(2, false, "slice", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "slice")
		if err != nil {
			return vm.Undefined, err
		}
		runes := []rune(str)
		start := relativeIndex(argAt(args, 0), 0, len(runes))
		end := relativeIndex(argAt(args, 1), len(runes), len(runes))
		if start >= end {
			return vm.NewString(""), nil
		}
		return vm.NewString(string(runes[start:end])), nil
	}))

	// String.prototype.substring(start, end)
	stringProto.SetOwnNonEnumerable("substring", vm.NewNativeFunction(2, false, "substring", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "substring")
		if err != nil {
			return vm.Undefined, err
		}
		runes := []rune(str)
		start := clampIndex(argAt(args, 0), 0, len(runes))
		end := clampIndex(argAt(args, 1), len(runes), len(runes))
		if start > end {
			start, end = end, start
		}
		return vm.NewString(string(runes[start:end])), nil
	}))

	// String.prototype.toUpperCase() / toLowerCase()
	stringProto.SetOwnNonEnumerable("toUpperCase", vm.NewNativeFunction(0, false, "toUpperCase", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "toUpperCase")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(strings.ToUpper(str)), nil
	}))
	stringProto.SetOwnNonEnumerable("toLowerCase", vm.NewNativeFunction(0, false, "toLowerCase", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "toLowerCase")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(strings.ToLower(str)), nil
	}))

	// String.prototype.trim()
	stringProto.SetOwnNonEnumerable("trim", vm.NewNativeFunction(0, false, "trim", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "trim")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(strings.TrimSpace(str)), nil
	}))

	// String.prototype.split(separator, limit)
	stringProto.SetOwnNonEnumerable("split", vm.NewNativeFunction(2, false, "split", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "split")
		if err != nil {
			return vm.Undefined, err
		}
		sep := argAt(args, 0)
		if sep.IsUndefined() {
			return newArrayValue(realm, []vm.Value{vm.NewString(str)}), nil
		}
		parts := strings.Split(str, sep.ToString())
		if limit := argAt(args, 1); !limit.IsUndefined() {
			if n := int(limit.ToFloat()); n >= 0 && n < len(parts) {
				parts = parts[:n]
			}
		}
		elems := make([]vm.Value, len(parts))
		for i, p := range parts {
			elems[i] = vm.NewString(p)
		}
		return newArrayValue(realm, elems), nil
	}))

	// String.prototype.repeat(count)
	stringProto.SetOwnNonEnumerable("repeat", vm.NewNativeFunction(1, false, "repeat", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "repeat")
		if err != nil {
			return vm.Undefined, err
		}
		count := int(argAt(args, 0).ToFloat())
		if count < 0 {
			return vm.Undefined, realm.NewRangeError("Invalid count value")
		}
		return vm.NewString(strings.Repeat(str, count)), nil
	}))

	// String.prototype.padStart(targetLength, padString)
	stringProto.SetOwnNonEnumerable("padStart", vm.NewNativeFunction(2, false, "padStart", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "padStart")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(padString(str, args, true)), nil
	}))
	stringProto.SetOwnNonEnumerable("padEnd", vm.NewNativeFunction(2, false, "padEnd", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "padEnd")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(padString(str, args, false)), nil
	}))

	// String.prototype.replace(pattern, replacement) with string or
	// RegExp patterns; replacement is taken literally.
	stringProto.SetOwnNonEnumerable("replace", vm.NewNativeFunction(2, false, "replace", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "replace")
		if err != nil {
			return vm.Undefined, err
		}
		replacement := argAt(args, 1).ToString()
		pattern := argAt(args, 0)
		if pattern.IsRegExp() {
			re := pattern.AsRegExp()
			match, err := re.ExecString(str, 0)
			if err != nil || match == nil {
				return vm.NewString(str), nil
			}
			matched := match.Input
			if re.IsGlobal() {
				return vm.NewString(strings.ReplaceAll(str, matched, replacement)), nil
			}
			return vm.NewString(strings.Replace(str, matched, replacement, 1)), nil
		}
		return vm.NewString(strings.Replace(str, pattern.ToString(), replacement, 1)), nil
	}))

	// String.prototype.normalize(form) via golang.org/x/text
	stringProto.SetOwnNonEnumerable("normalize", vm.NewNativeFunction(1, false, "normalize", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "normalize")
		if err != nil {
			return vm.Undefined, err
		}
		form := "NFC"
		if arg := argAt(args, 0); !arg.IsUndefined() {
			form = arg.ToString()
		}
		switch form {
		case "NFC":
			return vm.NewString(norm.NFC.String(str)), nil
		case "NFD":
			return vm.NewString(norm.NFD.String(str)), nil
		case "NFKC":
			return vm.NewString(norm.NFKC.String(str)), nil
		case "NFKD":
			return vm.NewString(norm.NFKD.String(str)), nil
		default:
			return vm.Undefined, realm.NewRangeError("The normalization form should be one of NFC, NFD, NFKC, NFKD")
		}
	}))

	// String.prototype.concat(...strings)
	stringProto.SetOwnNonEnumerable("concat", vm.NewNativeFunction(1, true, "concat", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "concat")
		if err != nil {
			return vm.Undefined, err
		}
		var sb strings.Builder
		sb.WriteString(str)
		for _, arg := range args {
			sb.WriteString(arg.ToString())
		}
		return vm.NewString(sb.String()), nil
	}))

	// String.prototype.at(index)
	stringProto.SetOwnNonEnumerable("at", vm.NewNativeFunction(1, false, "at", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		str, err := requireString(this, "at")
		if err != nil {
			return vm.Undefined, err
		}
		runes := []rune(str)
		idx := int(argAt(args, 0).ToFloat())
		if idx < 0 {
			idx += len(runes)
		}
		if idx < 0 || idx >= len(runes) {
			return vm.Undefined, nil
		}
		return vm.NewString(string(runes[idx])), nil
	}))

	// String constructor: String(value) converts, new String(value)
	// would wrap; the host model folds both into conversion plus an
	// explicit wrapper when called via Construct.
	stringCtor := vm.NewConstructorWithProps(1, false, "String", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 0 {
			return vm.NewString(""), nil
		}
		return vm.NewString(args[0].ToString()), nil
	})
	ctorProps := stringCtor.AsNativeFunction().Props()

	// String.fromCharCode(...codes)
	ctorProps.SetOwnNonEnumerable("fromCharCode", vm.NewNativeFunction(1, true, "fromCharCode", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		runes := make([]rune, len(args))
		for i, arg := range args {
			runes[i] = rune(int(arg.ToFloat()))
		}
		return vm.NewString(string(runes)), nil
	}))

	// Wire constructor <-> prototype
	f := false
	ctorProps.DefineOwnProperty("prototype", realm.StringPrototype, &f, &f, &f)
	stringProto.SetOwnNonEnumerable("constructor", stringCtor)

	return ctx.DefineGlobal("String", stringCtor)
}

// clampIndex clamps a non-relative index argument into [0, length].
func clampIndex(v vm.Value, def, length int) int {
	if v.IsUndefined() {
		return def
	}
	idx := int(v.ToFloat())
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

// padString implements padStart/padEnd over runes.
func padString(str string, args []vm.Value, atStart bool) string {
	target := int(argAt(args, 0).ToFloat())
	pad := " "
	if p := argAt(args, 1); !p.IsUndefined() {
		pad = p.ToString()
	}
	runes := []rune(str)
	if target <= len(runes) || pad == "" {
		return str
	}
	padRunes := []rune(pad)
	fill := make([]rune, 0, target-len(runes))
	for len(fill) < target-len(runes) {
		fill = append(fill, padRunes[len(fill)%len(padRunes)])
	}
	if atStart {
		return string(fill) + str
	}
	return str + string(fill)
}
