package builtins

import (
	"strconv"
	"strings"

	"vetro/pkg/vm"
)

// ArrayInitializer implements the Array constructor and Array.prototype.
// Arrays are plain objects here: indexed own properties plus a
// writable, non-enumerable, non-configurable length.
type ArrayInitializer struct{}

func (a *ArrayInitializer) Name() string {
	return "Array"
}

func (a *ArrayInitializer) Priority() int {
	return PriorityArray
}

func (a *ArrayInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	arrayProto := realm.ArrayPrototype.AsPlainObject()

	// Array.prototype is itself array-shaped (length 0), as in real engines.
	f := false
	tr := true
	arrayProto.DefineOwnProperty("length", vm.IntegerValue(0), &tr, &f, &f)

	requireThis := func(this vm.Value, method string) (*vm.PlainObject, error) {
		holder := vm.PropertyHolder(this)
		if holder == nil {
			return nil, realm.NewTypeError("Array.prototype." + method + " called on null or undefined")
		}
		return holder, nil
	}

	// Array.prototype.push(...items)
	arrayProto.SetOwnNonEnumerable("push", vm.NewNativeFunction(1, true, "push", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "push")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		for _, arg := range args {
			if !holder.SetOwn(strconv.Itoa(n), arg) {
				return vm.Undefined, realm.NewTypeError("Cannot add property " + strconv.Itoa(n) + ", object is not extensible")
			}
			n++
		}
		setArrayLength(holder, n)
		return vm.IntegerValue(int32(n)), nil
	}))

	// Array.prototype.pop()
	arrayProto.SetOwnNonEnumerable("pop", vm.NewNativeFunction(0, false, "pop", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "pop")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		if n == 0 {
			return vm.Undefined, nil
		}
		key := strconv.Itoa(n - 1)
		last, _ := holder.GetOwn(key)
		holder.DeleteOwn(key)
		setArrayLength(holder, n-1)
		return last, nil
	}))

	// Array.prototype.shift()
	arrayProto.SetOwnNonEnumerable("shift", vm.NewNativeFunction(0, false, "shift", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "shift")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		if n == 0 {
			return vm.Undefined, nil
		}
		first, _ := holder.GetOwn("0")
		for i := 1; i < n; i++ {
			if v, ok := holder.GetOwn(strconv.Itoa(i)); ok {
				holder.SetOwn(strconv.Itoa(i-1), v)
			} else {
				holder.DeleteOwn(strconv.Itoa(i - 1))
			}
		}
		holder.DeleteOwn(strconv.Itoa(n - 1))
		setArrayLength(holder, n-1)
		return first, nil
	}))

	// Array.prototype.slice(start, end)
	arrayProto.SetOwnNonEnumerable("slice", vm.NewNativeFunction(2, false, "slice", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "slice")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		start := relativeIndex(argAt(args, 0), 0, n)
		end := relativeIndex(argAt(args, 1), n, n)
		var elems []vm.Value
		for i := start; i < end; i++ {
			v, _ := holder.GetOwn(strconv.Itoa(i))
			elems = append(elems, v)
		}
		return newArrayValue(realm, elems), nil
	}))

	// Array.prototype.concat(...items)
	arrayProto.SetOwnNonEnumerable("concat", vm.NewNativeFunction(1, true, "concat", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "concat")
		if err != nil {
			return vm.Undefined, err
		}
		var elems []vm.Value
		appendFrom := func(src *vm.PlainObject) {
			n := arrayLength(src)
			for i := 0; i < n; i++ {
				v, _ := src.GetOwn(strconv.Itoa(i))
				elems = append(elems, v)
			}
		}
		appendFrom(holder)
		for _, arg := range args {
			if isArrayValue(realm, arg) {
				appendFrom(vm.PropertyHolder(arg))
			} else {
				elems = append(elems, arg)
			}
		}
		return newArrayValue(realm, elems), nil
	}))

	// Array.prototype.indexOf(search, from)
	arrayProto.SetOwnNonEnumerable("indexOf", vm.NewNativeFunction(1, false, "indexOf", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "indexOf")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		search := argAt(args, 0)
		for i := relativeIndex(argAt(args, 1), 0, n); i < n; i++ {
			if v, ok := holder.GetOwn(strconv.Itoa(i)); ok && v.Is(search) {
				return vm.IntegerValue(int32(i)), nil
			}
		}
		return vm.IntegerValue(-1), nil
	}))

	// Array.prototype.includes(search)
	arrayProto.SetOwnNonEnumerable("includes", vm.NewNativeFunction(1, false, "includes", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "includes")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		search := argAt(args, 0)
		for i := 0; i < n; i++ {
			v, _ := holder.GetOwn(strconv.Itoa(i))
			if v.SameValue(search) || v.Is(search) {
				return vm.True, nil
			}
		}
		return vm.False, nil
	}))

	// Array.prototype.join(separator)
	arrayProto.SetOwnNonEnumerable("join", vm.NewNativeFunction(1, false, "join", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "join")
		if err != nil {
			return vm.Undefined, err
		}
		sep := ","
		if s := argAt(args, 0); !s.IsUndefined() {
			sep = s.ToString()
		}
		n := arrayLength(holder)
		parts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			v, ok := holder.GetOwn(strconv.Itoa(i))
			if !ok || v.IsUndefined() || v.IsNull() {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, v.ToString())
		}
		return vm.NewString(strings.Join(parts, sep)), nil
	}))

	// Array.prototype.toString()
	arrayProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		join, err := realm.Get(this, "join")
		if err != nil || !join.IsCallable() {
			return vm.NewString("[object Array]"), nil
		}
		return realm.Call(join, this, nil)
	}))

	// Array.prototype.at(index)
	arrayProto.SetOwnNonEnumerable("at", vm.NewNativeFunction(1, false, "at", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "at")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		idx := int(argAt(args, 0).ToFloat())
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return vm.Undefined, nil
		}
		v, _ := holder.GetOwn(strconv.Itoa(idx))
		return v, nil
	}))

	// Array.prototype.forEach(fn, thisArg)
	arrayProto.SetOwnNonEnumerable("forEach", vm.NewNativeFunction(1, false, "forEach", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "forEach")
		if err != nil {
			return vm.Undefined, err
		}
		fn := argAt(args, 0)
		if !fn.IsCallable() {
			return vm.Undefined, realm.NewTypeError(fn.Inspect() + " is not a function")
		}
		thisArg := argAt(args, 1)
		n := arrayLength(holder)
		for i := 0; i < n; i++ {
			v, ok := holder.GetOwn(strconv.Itoa(i))
			if !ok {
				continue
			}
			if _, err := realm.Call(fn, thisArg, []vm.Value{v, vm.IntegerValue(int32(i)), this}); err != nil {
				return vm.Undefined, err
			}
		}
		return vm.Undefined, nil
	}))

	// Array.prototype.map(fn, thisArg)
	arrayProto.SetOwnNonEnumerable("map", vm.NewNativeFunction(1, false, "map", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "map")
		if err != nil {
			return vm.Undefined, err
		}
		fn := argAt(args, 0)
		if !fn.IsCallable() {
			return vm.Undefined, realm.NewTypeError(fn.Inspect() + " is not a function")
		}
		thisArg := argAt(args, 1)
		n := arrayLength(holder)
		elems := make([]vm.Value, 0, n)
		for i := 0; i < n; i++ {
			v, _ := holder.GetOwn(strconv.Itoa(i))
			mapped, err := realm.Call(fn, thisArg, []vm.Value{v, vm.IntegerValue(int32(i)), this})
			if err != nil {
				return vm.Undefined, err
			}
			elems = append(elems, mapped)
		}
		return newArrayValue(realm, elems), nil
	}))

	// Array.prototype.filter(fn, thisArg)
	arrayProto.SetOwnNonEnumerable("filter", vm.NewNativeFunction(1, false, "filter", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "filter")
		if err != nil {
			return vm.Undefined, err
		}
		fn := argAt(args, 0)
		if !fn.IsCallable() {
			return vm.Undefined, realm.NewTypeError(fn.Inspect() + " is not a function")
		}
		thisArg := argAt(args, 1)
		n := arrayLength(holder)
		var elems []vm.Value
		for i := 0; i < n; i++ {
			v, _ := holder.GetOwn(strconv.Itoa(i))
			keep, err := realm.Call(fn, thisArg, []vm.Value{v, vm.IntegerValue(int32(i)), this})
			if err != nil {
				return vm.Undefined, err
			}
			if keep.ToBoolean() {
				elems = append(elems, v)
			}
		}
		return newArrayValue(realm, elems), nil
	}))

	// Array.prototype.values() and [Symbol.iterator] share one function
	// object, exactly as engines ship them.
	valuesFn := vm.NewNativeFunction(0, false, "values", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == nil {
			return vm.Undefined, realm.NewTypeError("Array.prototype.values called on null or undefined")
		}
		return newArrayIterator(realm, this), nil
	})
	arrayProto.SetOwnNonEnumerable("values", valuesFn)
	arrayProto.SetOwnNonEnumerableByKey(vm.NewSymbolKey(realm.SymbolIterator), valuesFn)

	// Array.prototype.keys()
	arrayProto.SetOwnNonEnumerable("keys", vm.NewNativeFunction(0, false, "keys", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		holder, err := requireThis(this, "keys")
		if err != nil {
			return vm.Undefined, err
		}
		n := arrayLength(holder)
		elems := make([]vm.Value, n)
		for i := range elems {
			elems[i] = vm.IntegerValue(int32(i))
		}
		return newArrayIterator(realm, newArrayValue(realm, elems)), nil
	}))

	// Array constructor: Array(), Array(len), Array(...items)
	arrayCtor := vm.NewConstructorWithProps(1, true, "Array", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) == 1 && args[0].IsNumber() {
			n := int(args[0].ToFloat())
			if n < 0 || float64(n) != args[0].ToFloat() {
				return vm.Undefined, realm.NewRangeError("Invalid array length")
			}
			arr := newArrayValue(realm, nil)
			setArrayLength(arr.AsPlainObject(), n)
			return arr, nil
		}
		return newArrayValue(realm, args), nil
	})
	ctorProps := arrayCtor.AsNativeFunction().Props()

	// Array.isArray(value)
	ctorProps.SetOwnNonEnumerable("isArray", vm.NewNativeFunction(1, false, "isArray", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(isArrayValue(realm, argAt(args, 0))), nil
	}))

	// Array.of(...items)
	ctorProps.SetOwnNonEnumerable("of", vm.NewNativeFunction(0, true, "of", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return newArrayValue(realm, args), nil
	}))

	// Array.from(arrayLike[, mapFn])
	ctorProps.SetOwnNonEnumerable("from", vm.NewNativeFunction(1, false, "from", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		src := argAt(args, 0)
		mapFn := argAt(args, 1)
		if !mapFn.IsUndefined() && !mapFn.IsCallable() {
			return vm.Undefined, realm.NewTypeError(mapFn.Inspect() + " is not a function")
		}
		var elems []vm.Value
		if src.IsString() {
			for _, r := range src.AsString() {
				elems = append(elems, vm.NewString(string(r)))
			}
		} else if holder := vm.PropertyHolder(src); holder != nil {
			n := arrayLength(holder)
			for i := 0; i < n; i++ {
				v, err := realm.Get(src, strconv.Itoa(i))
				if err != nil {
					return vm.Undefined, err
				}
				elems = append(elems, v)
			}
		} else {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		if mapFn.IsCallable() {
			for i, v := range elems {
				mapped, err := realm.Call(mapFn, vm.Undefined, []vm.Value{v, vm.IntegerValue(int32(i))})
				if err != nil {
					return vm.Undefined, err
				}
				elems[i] = mapped
			}
		}
		return newArrayValue(realm, elems), nil
	}))

	// Wire constructor <-> prototype
	ctorProps.DefineOwnProperty("prototype", realm.ArrayPrototype, &f, &f, &f)
	arrayProto.SetOwnNonEnumerable("constructor", arrayCtor)

	realm.ArrayConstructor = arrayCtor
	return ctx.DefineGlobal("Array", arrayCtor)
}

// relativeIndex clamps an ES relative index argument against length.
func relativeIndex(v vm.Value, def, length int) int {
	if v.IsUndefined() {
		return def
	}
	idx := int(v.ToFloat())
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}
