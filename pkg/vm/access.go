package vm

// Prototype-walking property access with receiver semantics (ordinary
// [[Get]] and [[Set]]). The two operations here are what the repair
// pass and the synthesized accessors are built on, so they follow the
// ordinary-object steps closely: accessors are invoked with the original
// receiver, and assignment finding a writable data property up the chain
// creates an own property on the receiver instead of mutating the holder.

// PrototypeOf returns the [[Prototype]] of any value: the holder's
// prototype link for objects (with Function.prototype substituted for a
// bare function's unset link), the boxing prototype for primitives, and
// Undefined past the end of a chain.
func (r *Realm) PrototypeOf(v Value) Value {
	h := PropertyHolder(v)
	if h == nil {
		return r.primitivePrototype(v)
	}
	proto := h.GetPrototype()
	if proto.IsUndefined() && v.typ == TypeNativeFunction {
		return r.FunctionPrototype
	}
	return proto
}

func (r *Realm) primitivePrototype(v Value) Value {
	switch v.typ {
	case TypeString:
		return r.StringPrototype
	case TypeFloatNumber, TypeIntegerNumber:
		return r.NumberPrototype
	case TypeBoolean:
		return r.BooleanPrototype
	case TypeSymbol:
		return r.SymbolPrototype
	default:
		return Undefined
	}
}

// Get reads a string-named property through the prototype chain.
func (r *Realm) Get(target Value, name string) (Value, error) {
	return r.GetV(target, keyFromString(name))
}

// GetV reads a property through the prototype chain with the original
// target as receiver. Accessor getters run with this = target. Reading
// from undefined or null is a TypeError; an absent property is Undefined.
func (r *Realm) GetV(target Value, key PropertyKey) (Value, error) {
	if target.IsUndefined() || target.IsNull() {
		return Undefined, r.NewTypeError("Cannot read properties of " + target.ToString() + " (reading '" + key.String() + "')")
	}
	if target.IsString() && key.isString() {
		if key.name == "length" {
			return IntegerValue(int32(target.StringLength())), nil
		}
		if idx, ok := isArrayIndex(key.name); ok {
			runes := []rune(target.AsString())
			if int(idx) < len(runes) {
				return NewString(string(runes[idx])), nil
			}
			return Undefined, nil
		}
	}
	cur := target
	for {
		holder := PropertyHolder(cur)
		if holder == nil {
			proto := r.primitivePrototype(cur)
			if !proto.IsObject() {
				return Undefined, nil
			}
			cur = proto
			continue
		}
		if f := holder.findOwn(key); f != nil {
			if f.accessor {
				if !f.getter.IsCallable() {
					return Undefined, nil
				}
				return r.Call(f.getter, target, nil)
			}
			return f.value, nil
		}
		proto := r.protoAfter(cur, holder)
		if !proto.IsObject() {
			return Undefined, nil
		}
		cur = proto
	}
}

// protoAfter is PrototypeOf with the holder already in hand.
func (r *Realm) protoAfter(v Value, holder *PlainObject) Value {
	proto := holder.GetPrototype()
	if proto.IsUndefined() && v.typ == TypeNativeFunction {
		return r.FunctionPrototype
	}
	return proto
}

// Set assigns a string-named property with receiver semantics.
func (r *Realm) Set(target Value, name string, value Value) error {
	return r.SetV(target, keyFromString(name), value)
}

// SetV assigns with strict-mode semantics: a setter up the chain runs
// with this = target; a writable data property up the chain makes a
// fresh own property on the target; a non-writable data property, a
// getter-only accessor, or a non-extensible target is a TypeError.
func (r *Realm) SetV(target Value, key PropertyKey, value Value) error {
	if target.IsUndefined() || target.IsNull() {
		return r.NewTypeError("Cannot set properties of " + target.ToString() + " (setting '" + key.String() + "')")
	}
	receiverHolder := PropertyHolder(target)
	cur := target
	for {
		holder := PropertyHolder(cur)
		if holder == nil {
			proto := r.primitivePrototype(cur)
			if !proto.IsObject() {
				break
			}
			cur = proto
			continue
		}
		if f := holder.findOwn(key); f != nil {
			if f.accessor {
				if !f.setter.IsCallable() {
					return r.NewTypeError("Cannot set property '" + key.String() + "' of " + target.Inspect() + " which has only a getter")
				}
				_, err := r.Call(f.setter, target, []Value{value})
				return err
			}
			if !f.writable {
				return r.NewTypeError("Cannot assign to read only property '" + key.String() + "' of " + target.TypeName())
			}
			if holder == receiverHolder {
				f.value = value
				return nil
			}
			break
		}
		proto := r.protoAfter(cur, holder)
		if !proto.IsObject() {
			break
		}
		cur = proto
	}
	if receiverHolder == nil {
		return r.NewTypeError("Cannot create property '" + key.String() + "' on " + target.TypeName() + " '" + target.ToString() + "'")
	}
	if f := receiverHolder.findOwn(key); f != nil {
		if f.accessor || !f.writable {
			return r.NewTypeError("Cannot assign to property '" + key.String() + "'")
		}
		f.value = value
		return nil
	}
	if !receiverHolder.IsExtensible() {
		return r.NewTypeError("Cannot add property " + key.String() + ", object is not extensible")
	}
	wT, eT, cT := true, true, true
	receiverHolder.DefineOwnPropertyByKey(key, value, &wT, &eT, &cT)
	return nil
}

// Call invokes a callable with an explicit this and args.
func (r *Realm) Call(fn Value, this Value, args []Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, r.NewTypeError(fn.Inspect() + " is not a function")
	}
	nf := fn.AsNativeFunction()
	if nf.Fn == nil {
		return Undefined, r.NewTypeError(nf.Name + " is not implemented")
	}
	debugPrintf("call %s this=%s args=%d\n", nf.Name, this.TypeName(), len(args))
	return nf.Fn(this, args)
}

// Construct invokes a constructor. Builtin constructors allocate their
// own instances, so this is a call that must produce an object.
func (r *Realm) Construct(ctor Value, args []Value) (Value, error) {
	if !ctor.IsCallable() {
		return Undefined, r.NewTypeError(ctor.Inspect() + " is not a constructor")
	}
	result, err := r.Call(ctor, Undefined, args)
	if err != nil {
		return Undefined, err
	}
	if !result.IsObject() {
		return Undefined, r.NewTypeError(ctor.AsNativeFunction().Name + " is not a constructor")
	}
	return result, nil
}
