package builtins

import (
	"vetro/pkg/vm"
)

// ObjectInitializer implements the Object constructor and Object.prototype
type ObjectInitializer struct{}

func (o *ObjectInitializer) Name() string {
	return "Object"
}

func (o *ObjectInitializer) Priority() int {
	return PriorityObject
}

func (o *ObjectInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	objectProto := realm.ObjectPrototype.AsPlainObject()

	// Object.prototype.hasOwnProperty(key)
	objectProto.SetOwnNonEnumerable("hasOwnProperty", vm.NewNativeFunction(1, false, "hasOwnProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(this)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Object.prototype.hasOwnProperty called on null or undefined")
		}
		return vm.BooleanValue(holder.HasOwnByKey(toPropertyKey(argAt(args, 0)))), nil
	}))

	// Object.prototype.isPrototypeOf(obj)
	objectProto.SetOwnNonEnumerable("isPrototypeOf", vm.NewNativeFunction(1, false, "isPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := vm.PropertyHolder(argAt(args, 0))
		self := vm.PropertyHolder(this)
		if target == nil || self == nil {
			return vm.False, nil
		}
		proto := target.GetPrototype()
		for {
			next := vm.PropertyHolder(proto)
			if next == nil {
				return vm.False, nil
			}
			if next == self {
				return vm.True, nil
			}
			proto = next.GetPrototype()
		}
	}))

	// Object.prototype.propertyIsEnumerable(key)
	objectProto.SetOwnNonEnumerable("propertyIsEnumerable", vm.NewNativeFunction(1, false, "propertyIsEnumerable", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(this)
		if holder == nil {
			return vm.False, nil
		}
		key := toPropertyKey(argAt(args, 0))
		if _, _, enumerable, _, exists := holder.GetOwnDescriptorByKey(key); exists {
			return vm.BooleanValue(enumerable), nil
		}
		if _, _, enumerable, _, exists := holder.GetOwnAccessorByKey(key); exists {
			return vm.BooleanValue(enumerable), nil
		}
		return vm.False, nil
	}))

	// Object.prototype.toString() honoring Symbol.toStringTag
	objectProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		switch this.Type() {
		case vm.TypeUndefined:
			return vm.NewString("[object Undefined]"), nil
		case vm.TypeNull:
			return vm.NewString("[object Null]"), nil
		}
		tag := "Object"
		if isArrayValue(realm, this) {
			tag = "Array"
		} else if this.IsCallable() {
			tag = "Function"
		}
		if holder := vm.PropertyHolder(this); holder != nil {
			if v, err := realm.GetV(this, vm.NewSymbolKey(realm.SymbolToStringTag)); err == nil && v.IsString() {
				tag = v.AsString()
			}
		}
		return vm.NewString("[object " + tag + "]"), nil
	}))

	// Object.prototype.toLocaleString() delegates to toString
	objectProto.SetOwnNonEnumerable("toLocaleString", vm.NewNativeFunction(0, false, "toLocaleString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		fn, err := realm.Get(this, "toString")
		if err != nil {
			return vm.Undefined, err
		}
		return realm.Call(fn, this, nil)
	}))

	// Object.prototype.valueOf()
	objectProto.SetOwnNonEnumerable("valueOf", vm.NewNativeFunction(0, false, "valueOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return this, nil
	}))

	// Object constructor: Object() / Object(value)
	objectCtor := vm.NewConstructorWithProps(1, false, "Object", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		if arg.IsObject() {
			return arg, nil
		}
		return vm.NewObject(realm.ObjectPrototype), nil
	})
	ctorProps := objectCtor.AsNativeFunction().Props()

	// Object.keys(obj)
	ctorProps.SetOwnNonEnumerable("keys", vm.NewNativeFunction(1, false, "keys", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		names := holder.OwnKeys()
		elems := make([]vm.Value, len(names))
		for i, n := range names {
			elems[i] = vm.NewString(n)
		}
		return newArrayValue(realm, elems), nil
	}))

	// Object.values(obj)
	ctorProps.SetOwnNonEnumerable("values", vm.NewNativeFunction(1, false, "values", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		holder := vm.PropertyHolder(target)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		var elems []vm.Value
		for _, n := range holder.OwnKeys() {
			v, err := realm.Get(target, n)
			if err != nil {
				return vm.Undefined, err
			}
			elems = append(elems, v)
		}
		return newArrayValue(realm, elems), nil
	}))

	// Object.entries(obj)
	ctorProps.SetOwnNonEnumerable("entries", vm.NewNativeFunction(1, false, "entries", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		holder := vm.PropertyHolder(target)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		var elems []vm.Value
		for _, n := range holder.OwnKeys() {
			v, err := realm.Get(target, n)
			if err != nil {
				return vm.Undefined, err
			}
			elems = append(elems, newArrayValue(realm, []vm.Value{vm.NewString(n), v}))
		}
		return newArrayValue(realm, elems), nil
	}))

	// Object.getPrototypeOf(obj)
	ctorProps.SetOwnNonEnumerable("getPrototypeOf", vm.NewNativeFunction(1, false, "getPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		return holder.GetPrototype(), nil
	}))

	// Object.setPrototypeOf(obj, proto)
	ctorProps.SetOwnNonEnumerable("setPrototypeOf", vm.NewNativeFunction(2, false, "setPrototypeOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		holder := vm.PropertyHolder(target)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Object.setPrototypeOf called on null or undefined")
		}
		if !holder.SetPrototype(argAt(args, 1)) {
			return vm.Undefined, realm.NewTypeError("#<Object> is not extensible")
		}
		return target, nil
	}))

	// Object.create(proto[, descriptors])
	ctorProps.SetOwnNonEnumerable("create", vm.NewNativeFunction(2, false, "create", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		proto := argAt(args, 0)
		if !proto.IsObject() && !proto.IsNull() {
			return vm.Undefined, realm.NewTypeError("Object prototype may only be an Object or null")
		}
		obj := vm.NewObject(proto)
		if descs := argAt(args, 1); !descs.IsUndefined() {
			if err := defineFromDescriptors(realm, obj, descs); err != nil {
				return vm.Undefined, err
			}
		}
		return obj, nil
	}))

	// Object.assign(target, ...sources) copies enumerable own string
	// keys with full get/set semantics.
	ctorProps.SetOwnNonEnumerable("assign", vm.NewNativeFunction(1, true, "assign", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		if vm.PropertyHolder(target) == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		for _, source := range args[1:] {
			srcHolder := vm.PropertyHolder(source)
			if srcHolder == nil {
				continue
			}
			for _, n := range srcHolder.OwnKeys() {
				v, err := realm.Get(source, n)
				if err != nil {
					return vm.Undefined, err
				}
				if err := realm.Set(target, n, v); err != nil {
					return vm.Undefined, err
				}
			}
		}
		return target, nil
	}))

	// Object.defineProperty(obj, key, descriptor)
	ctorProps.SetOwnNonEnumerable("defineProperty", vm.NewNativeFunction(3, false, "defineProperty", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		holder := vm.PropertyHolder(target)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Object.defineProperty called on non-object")
		}
		key := toPropertyKey(argAt(args, 1))
		if err := defineFromDescriptor(realm, holder, key, argAt(args, 2)); err != nil {
			return vm.Undefined, err
		}
		return target, nil
	}))

	// Object.defineProperties(obj, descriptors)
	ctorProps.SetOwnNonEnumerable("defineProperties", vm.NewNativeFunction(2, false, "defineProperties", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		if vm.PropertyHolder(target) == nil {
			return vm.Undefined, realm.NewTypeError("Object.defineProperties called on non-object")
		}
		if err := defineFromDescriptors(realm, target, argAt(args, 1)); err != nil {
			return vm.Undefined, err
		}
		return target, nil
	}))

	// Object.getOwnPropertyDescriptor(obj, key)
	ctorProps.SetOwnNonEnumerable("getOwnPropertyDescriptor", vm.NewNativeFunction(2, false, "getOwnPropertyDescriptor", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		key := toPropertyKey(argAt(args, 1))
		if getter, setter, enumerable, configurable, ok := holder.GetOwnAccessorByKey(key); ok {
			desc := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
			desc.SetOwn("get", getter)
			desc.SetOwn("set", setter)
			desc.SetOwn("enumerable", vm.BooleanValue(enumerable))
			desc.SetOwn("configurable", vm.BooleanValue(configurable))
			return vm.NewValueFromPlainObject(desc), nil
		}
		if value, writable, enumerable, configurable, ok := holder.GetOwnDescriptorByKey(key); ok {
			desc := vm.NewObject(realm.ObjectPrototype).AsPlainObject()
			desc.SetOwn("value", value)
			desc.SetOwn("writable", vm.BooleanValue(writable))
			desc.SetOwn("enumerable", vm.BooleanValue(enumerable))
			desc.SetOwn("configurable", vm.BooleanValue(configurable))
			return vm.NewValueFromPlainObject(desc), nil
		}
		return vm.Undefined, nil
	}))

	// Object.getOwnPropertyNames(obj)
	ctorProps.SetOwnNonEnumerable("getOwnPropertyNames", vm.NewNativeFunction(1, false, "getOwnPropertyNames", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		names := holder.OwnPropertyNames()
		elems := make([]vm.Value, len(names))
		for i, n := range names {
			elems[i] = vm.NewString(n)
		}
		return newArrayValue(realm, elems), nil
	}))

	// Object.getOwnPropertySymbols(obj)
	ctorProps.SetOwnNonEnumerable("getOwnPropertySymbols", vm.NewNativeFunction(1, false, "getOwnPropertySymbols", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		return newArrayValue(realm, holder.OwnSymbolKeys()), nil
	}))

	// Object.freeze(obj)
	ctorProps.SetOwnNonEnumerable("freeze", vm.NewNativeFunction(1, false, "freeze", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		if holder := vm.PropertyHolder(target); holder != nil {
			holder.Freeze()
		}
		return target, nil
	}))

	// Object.isFrozen(obj)
	ctorProps.SetOwnNonEnumerable("isFrozen", vm.NewNativeFunction(1, false, "isFrozen", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.True, nil
		}
		return vm.BooleanValue(holder.IsFrozen()), nil
	}))

	// Object.preventExtensions(obj)
	ctorProps.SetOwnNonEnumerable("preventExtensions", vm.NewNativeFunction(1, false, "preventExtensions", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		target := argAt(args, 0)
		if holder := vm.PropertyHolder(target); holder != nil {
			holder.SetExtensible(false)
		}
		return target, nil
	}))

	// Object.isExtensible(obj)
	ctorProps.SetOwnNonEnumerable("isExtensible", vm.NewNativeFunction(1, false, "isExtensible", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.False, nil
		}
		return vm.BooleanValue(holder.IsExtensible()), nil
	}))

	// Object.hasOwn(obj, key) (ES2022)
	ctorProps.SetOwnNonEnumerable("hasOwn", vm.NewNativeFunction(2, false, "hasOwn", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder := vm.PropertyHolder(argAt(args, 0))
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		return vm.BooleanValue(holder.HasOwnByKey(toPropertyKey(argAt(args, 1)))), nil
	}))

	// Object.is(a, b)
	ctorProps.SetOwnNonEnumerable("is", vm.NewNativeFunction(2, false, "is", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(argAt(args, 0).SameValue(argAt(args, 1))), nil
	}))

	// Wire constructor <-> prototype
	f := false
	ctorProps.DefineOwnProperty("prototype", realm.ObjectPrototype, &f, &f, &f)
	objectProto.SetOwnNonEnumerable("constructor", objectCtor)

	realm.ObjectConstructor = objectCtor
	return ctx.DefineGlobal("Object", objectCtor)
}

// defineFromDescriptor applies one JS property descriptor object.
func defineFromDescriptor(realm *vm.Realm, holder *vm.PlainObject, key vm.PropertyKey, descVal vm.Value) error {
	descHolder := vm.PropertyHolder(descVal)
	if descHolder == nil {
		return realm.NewTypeError("Property description must be an object")
	}

	var writable, enumerable, configurable *bool
	readFlag := func(name string) *bool {
		if v, ok := descHolder.GetOwn(name); ok {
			b := v.ToBoolean()
			return &b
		}
		return nil
	}
	writable = readFlag("writable")
	enumerable = readFlag("enumerable")
	configurable = readFlag("configurable")

	getter, hasGetter := descHolder.GetOwn("get")
	setter, hasSetter := descHolder.GetOwn("set")
	value, hasValue := descHolder.GetOwn("value")

	if hasGetter || hasSetter {
		if hasValue || writable != nil {
			return realm.NewTypeError("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
		}
		if hasGetter && !getter.IsCallable() && !getter.IsUndefined() {
			return realm.NewTypeError("Getter must be a function")
		}
		if hasSetter && !setter.IsCallable() && !setter.IsUndefined() {
			return realm.NewTypeError("Setter must be a function")
		}
		if !holder.DefineAccessorPropertyByKey(key, getter, hasGetter, setter, hasSetter, enumerable, configurable) {
			return realm.NewTypeError("Cannot redefine property: " + key.String())
		}
		return nil
	}

	if !hasValue {
		// Flags-only update: keep an existing accessor's halves, or an
		// existing data value, or start from Undefined.
		if _, _, _, _, isAccessor := holder.GetOwnAccessorByKey(key); isAccessor {
			if !holder.DefineAccessorPropertyByKey(key, vm.Undefined, false, vm.Undefined, false, enumerable, configurable) {
				return realm.NewTypeError("Cannot redefine property: " + key.String())
			}
			return nil
		}
		if existing, ok := holder.GetOwnDataByKey(key); ok {
			value = existing
		} else {
			value = vm.Undefined
		}
	}
	if !holder.DefineOwnPropertyByKey(key, value, writable, enumerable, configurable) {
		return realm.NewTypeError("Cannot redefine property: " + key.String())
	}
	return nil
}

// defineFromDescriptors applies a { key: descriptor } bag.
func defineFromDescriptors(realm *vm.Realm, target vm.Value, descsVal vm.Value) error {
	holder := vm.PropertyHolder(target)
	descsHolder := vm.PropertyHolder(descsVal)
	if holder == nil || descsHolder == nil {
		return realm.NewTypeError("Object.defineProperties called on non-object")
	}
	for _, name := range descsHolder.OwnKeys() {
		desc, err := realm.Get(descsVal, name)
		if err != nil {
			return err
		}
		if err := defineFromDescriptor(realm, holder, vm.NewStringKey(name), desc); err != nil {
			return err
		}
	}
	return nil
}
