package builtins

import (
	"vetro/pkg/vm"
)

// SymbolInitializer implements the Symbol function and Symbol.prototype
type SymbolInitializer struct{}

func (s *SymbolInitializer) Name() string {
	return "Symbol"
}

func (s *SymbolInitializer) Priority() int {
	return PrioritySymbol
}

func (s *SymbolInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	symbolProto := realm.SymbolPrototype.AsPlainObject()

	requireSymbol := func(this vm.Value, method string) (vm.Value, error) {
		if this.IsSymbol() {
			return this, nil
		}
		if holder := vm.PropertyHolder(this); holder != nil {
			if prim, ok := holder.GetOwn("[[PrimitiveValue]]"); ok && prim.IsSymbol() {
				return prim, nil
			}
		}
		return vm.Undefined, realm.NewTypeError("Symbol.prototype." + method + " requires that 'this' be a Symbol")
	}

	// Symbol.prototype.toString()
	symbolProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		sym, err := requireSymbol(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString("Symbol(" + sym.AsSymbol() + ")"), nil
	}))

	// Symbol.prototype.valueOf()
	symbolProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return requireSymbol(this, "valueOf")
	}))

	// Symbol.prototype.description is an accessor in real engines, so
	// it is installed as a getter pair with no setter here too.
	descGetter := vm.NewNativeFunction(0, false, "get description", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		sym, err := requireSymbol(this, "description")
		if err != nil {
			return vm.Undefined, err
		}
		return vm.NewString(sym.AsSymbol()), nil
	})
	f := false
	tr := true
	symbolProto.DefineAccessorProperty("description", descGetter, true, vm.Undefined, false, &f, &tr)

	// Symbol(description) creates a fresh unique symbol
	symbolCtor := vm.NewConstructorWithProps(0, false, "Symbol", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		desc := ""
		if d := argAt(args, 0); !d.IsUndefined() {
			desc = d.ToString()
		}
		return vm.NewSymbol(desc), nil
	})
	ctorProps := symbolCtor.AsNativeFunction().Props()

	// Symbol.for(key) resolves through the realm-wide registry
	ctorProps.SetOwnNonEnumerable("for", vm.NewNativeFunction(1, false, "for", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return realm.SymbolFor(argAt(args, 0).ToString()), nil
	}))

	// Symbol.keyFor(sym)
	ctorProps.SetOwnNonEnumerable("keyFor", vm.NewNativeFunction(1, false, "keyFor", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		if !arg.IsSymbol() {
			return vm.Undefined, realm.NewTypeError(arg.Inspect() + " is not a symbol")
		}
		for key, sym := range realm.SymbolRegistry {
			if sym.Is(arg) {
				return vm.NewString(key), nil
			}
		}
		return vm.Undefined, nil
	}))

	// Well-known symbols are pinned: non-writable, non-enumerable,
	// non-configurable, matching engine behavior.
	wellKnown := []struct {
		name  string
		value vm.Value
	}{
		{"iterator", realm.SymbolIterator},
		{"asyncIterator", realm.SymbolAsyncIterator},
		{"toStringTag", realm.SymbolToStringTag},
		{"hasInstance", realm.SymbolHasInstance},
		{"species", realm.SymbolSpecies},
	}
	for _, wk := range wellKnown {
		ctorProps.DefineOwnProperty(wk.name, wk.value, &f, &f, &f)
	}

	ctorProps.DefineOwnProperty("prototype", realm.SymbolPrototype, &f, &f, &f)
	symbolProto.SetOwnNonEnumerable("constructor", symbolCtor)
	symbolProto.SetOwnNonEnumerableByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("Symbol"))

	return ctx.DefineGlobal("Symbol", symbolCtor)
}
