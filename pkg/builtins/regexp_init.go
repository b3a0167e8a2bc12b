package builtins

import (
	"unicode/utf8"

	"vetro/pkg/vm"
)

// RegExpInitializer implements the RegExp constructor and RegExp.prototype
type RegExpInitializer struct{}

func (r *RegExpInitializer) Name() string {
	return "RegExp"
}

func (r *RegExpInitializer) Priority() int {
	return PriorityRegExp
}

func (r *RegExpInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	regexpProto := realm.RegExpPrototype.AsPlainObject()
	protoHolder := regexpProto

	requireRegExp := func(this vm.Value, method string) (*vm.RegExpObject, error) {
		if this.IsRegExp() {
			return this.AsRegExp(), nil
		}
		return nil, realm.NewTypeError("RegExp.prototype." + method + " requires that 'this' be a RegExp")
	}

	f := false
	tr := true

	// The source and flags properties are accessors on the prototype, as
	// they are in real engines. Reading them on RegExp.prototype itself is
	// allowed and answers with the lenient defaults.
	sourceGetter := vm.NewNativeFunction(0, false, "get source", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == protoHolder {
			return vm.NewString("(?:)"), nil
		}
		re, err := requireRegExp(this, "source")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(re.GetSource()), nil
	})
	regexpProto.DefineAccessorProperty("source", sourceGetter, true, vm.Undefined, false, &f, &tr)

	flagsGetter := vm.NewNativeFunction(0, false, "get flags", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == protoHolder {
			return vm.NewString(""), nil
		}
		re, err := requireRegExp(this, "flags")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(re.GetFlags()), nil
	})
	regexpProto.DefineAccessorProperty("flags", flagsGetter, true, vm.Undefined, false, &f, &tr)

	flagAccessors := []struct {
		name string
		flag byte
	}{
		{"global", 'g'},
		{"ignoreCase", 'i'},
		{"multiline", 'm'},
		{"dotAll", 's'},
		{"unicode", 'u'},
		{"sticky", 'y'},
	}
	for _, fa := range flagAccessors {
		name := fa.name
		flag := fa.flag
		getter := vm.NewNativeFunction(0, false, "get "+name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			if vm.PropertyHolder(this) == protoHolder {
				return vm.Undefined, nil
			}
			re, err := requireRegExp(this, name)
			if err != nil {
				return vm.Undefined, err
			}
			for i := 0; i < len(re.GetFlags()); i++ {
				if re.GetFlags()[i] == flag {
					return vm.True, nil
				}
			}
			return vm.False, nil
		})
		regexpProto.DefineAccessorProperty(name, getter, true, vm.Undefined, false, &f, &tr)
	}

	// RegExp.prototype.exec(str)
	regexpProto.SetOwnNonEnumerable("exec", vm.NewNativeFunction(1, false, "exec", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		re, err := requireRegExp(this, "exec")
		if err != nil {
			return vm.Undefined, err
		}
		input := argAt(args, 0).ToString()
		match, err := execWithLastIndex(re, input)
		if err != nil {
			return vm.Undefined, realm.NewTypeError(err.Error())
		}
		if match == nil {
			return vm.Null, nil
		}
		elems := append([]vm.Value{vm.NewString(match.Input)}, match.Groups...)
		result := newArrayValue(realm, elems)
		holder := result.AsPlainObject()
		holder.SetOwn("index", vm.IntegerValue(int32(match.Index)))
		holder.SetOwn("input", vm.NewString(input))
		return result, nil
	}))

	// RegExp.prototype.test(str)
	regexpProto.SetOwnNonEnumerable("test", vm.NewNativeFunction(1, false, "test", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		re, err := requireRegExp(this, "test")
		if err != nil {
			return vm.Undefined, err
		}
		input := argAt(args, 0).ToString()
		if !re.IsGlobal() && !re.IsSticky() {
			ok, err := re.MatchString(input)
			if err != nil {
				return vm.Undefined, realm.NewTypeError(err.Error())
			}
			return vm.BooleanValue(ok), nil
		}
		match, err := execWithLastIndex(re, input)
		if err != nil {
			return vm.Undefined, realm.NewTypeError(err.Error())
		}
		return vm.BooleanValue(match != nil), nil
	}))

	// RegExp.prototype.toString()
	regexpProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == protoHolder {
			return vm.NewString("/(?:)/"), nil
		}
		re, err := requireRegExp(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString("/" + re.GetSource() + "/" + re.GetFlags()), nil
	}))

	// RegExp(pattern, flags) constructor
	regexpCtor := vm.NewConstructorWithProps(2, false, "RegExp", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		patternArg := argAt(args, 0)
		flagsArg := argAt(args, 1)
		pattern := ""
		flags := ""
		if patternArg.IsRegExp() {
			pattern = patternArg.AsRegExp().GetSource()
			flags = patternArg.AsRegExp().GetFlags()
			if !flagsArg.IsUndefined() {
				flags = flagsArg.ToString()
			}
		} else {
			if !patternArg.IsUndefined() {
				pattern = patternArg.ToString()
			}
			if !flagsArg.IsUndefined() {
				flags = flagsArg.ToString()
			}
		}
		compiled, err := vm.NewRegExp(pattern, flags, realm.RegExpPrototype)
		if err != nil {
			return vm.Undefined, realm.NewSyntaxError("Invalid regular expression: /" + pattern + "/: " + err.Error())
		}
		return compiled, nil
	})
	ctorProps := regexpCtor.AsNativeFunction().Props()

	// RegExp[Symbol.species] is a getter in real engines.
	speciesGetter := vm.NewNativeFunction(0, false, "get [Symbol.species]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	})
	ctorProps.DefineAccessorPropertyByKey(vm.NewSymbolKey(realm.SymbolSpecies), speciesGetter, true, vm.Undefined, false, &f, &tr)

	ctorProps.DefineOwnProperty("prototype", realm.RegExpPrototype, &f, &f, &f)
	regexpProto.SetOwnNonEnumerable("constructor", regexpCtor)

	return ctx.DefineGlobal("RegExp", regexpCtor)
}

// execWithLastIndex runs one match honoring the lastIndex protocol of
// global and sticky patterns.
func execWithLastIndex(re *vm.RegExpObject, input string) (*vm.MatchResult, error) {
	stateful := re.IsGlobal() || re.IsSticky()
	start := 0
	if stateful {
		start = re.GetLastIndex()
		if start > utf8.RuneCountInString(input) {
			re.SetLastIndex(0)
			return nil, nil
		}
	}
	match, err := re.ExecString(input, start)
	if err != nil {
		return nil, err
	}
	if stateful {
		if match == nil {
			re.SetLastIndex(0)
		} else {
			re.SetLastIndex(match.Index + utf8.RuneCountInString(match.Input))
		}
	}
	return match, nil
}
