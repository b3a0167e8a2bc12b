package builtins

import (
	"strconv"

	"vetro/pkg/vm"
)

// TypedArrayInitializer implements the abstract %TypedArray% intrinsic,
// its prototype, and the eight concrete element-kind constructors that
// inherit from it.
type TypedArrayInitializer struct{}

func (t *TypedArrayInitializer) Name() string {
	return "TypedArray"
}

func (t *TypedArrayInitializer) Priority() int {
	return PriorityTypedArray
}

var typedArrayKinds = []vm.TypedArrayKind{
	vm.TypedArrayInt8,
	vm.TypedArrayUint8,
	vm.TypedArrayInt16,
	vm.TypedArrayUint16,
	vm.TypedArrayInt32,
	vm.TypedArrayUint32,
	vm.TypedArrayFloat32,
	vm.TypedArrayFloat64,
}

func (t *TypedArrayInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	taProto := realm.TypedArrayPrototype.AsPlainObject()
	protoHolder := taProto

	requireTypedArray := func(this vm.Value, method string) (*vm.TypedArrayObject, error) {
		if this.IsTypedArray() {
			return this.AsTypedArray(), nil
		}
		return nil, realm.NewTypeError("TypedArray.prototype." + method + " requires that 'this' be a TypedArray")
	}

	f := false
	tr := true

	// length, byteLength, byteOffset, and buffer are accessors on the
	// abstract prototype, shared by every concrete kind.
	views := []struct {
		name string
		read func(ta *vm.TypedArrayObject) vm.Value
	}{
		{"length", func(ta *vm.TypedArrayObject) vm.Value { return vm.IntegerValue(int32(ta.Length())) }},
		{"byteLength", func(ta *vm.TypedArrayObject) vm.Value { return vm.IntegerValue(int32(ta.ByteLength())) }},
		{"byteOffset", func(ta *vm.TypedArrayObject) vm.Value { return vm.IntegerValue(int32(ta.ByteOffset())) }},
	}
	for _, view := range views {
		name := view.name
		read := view.read
		getter := vm.NewNativeFunction(0, false, "get "+name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			if vm.PropertyHolder(this) == protoHolder {
				return vm.Undefined, nil
			}
			ta, err := requireTypedArray(this, name)
			if err != nil {
				return vm.Undefined, err
			}
			return read(ta), nil
		})
		taProto.DefineAccessorProperty(name, getter, true, vm.Undefined, false, &f, &tr)
	}

	bufferGetter := vm.NewNativeFunction(0, false, "get buffer", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == protoHolder {
			return vm.Undefined, nil
		}
		ta, err := requireTypedArray(this, "buffer")
		if err != nil {
			return vm.Undefined, err
		}
		ab := ta.Buffer()
		if ab.Properties == nil {
			// Buffers allocated behind a view get their property table on
			// first escape.
			ab.Properties = vm.NewObject(realm.ArrayBufferPrototype).AsPlainObject()
		}
		return vm.ArrayBufferValue(ab), nil
	})
	taProto.DefineAccessorProperty("buffer", bufferGetter, true, vm.Undefined, false, &f, &tr)

	// The toStringTag is also an accessor here: it answers with the
	// concrete constructor name, or undefined off a typed array.
	tagGetter := vm.NewNativeFunction(0, false, "get [Symbol.toStringTag]", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if !this.IsTypedArray() {
			return vm.Undefined, nil
		}
		return vm.NewString(this.AsTypedArray().Kind().CtorName()), nil
	})
	taProto.DefineAccessorPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), tagGetter, true, vm.Undefined, false, &f, &tr)

	// TypedArray.prototype.at(index)
	taProto.SetOwnNonEnumerable("at", vm.NewNativeFunction(1, false, "at", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ta, err := requireTypedArray(this, "at")
		if err != nil {
			return vm.Undefined, err
		}
		index := int(argAt(args, 0).ToFloat())
		if index < 0 {
			index += ta.Length()
		}
		return ta.GetElement(index), nil
	}))

	// TypedArray.prototype.fill(value, start, end)
	taProto.SetOwnNonEnumerable("fill", vm.NewNativeFunction(3, false, "fill", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ta, err := requireTypedArray(this, "fill")
		if err != nil {
			return vm.Undefined, err
		}
		value := argAt(args, 0).ToFloat()
		start := relativeIndex(argAt(args, 1), 0, ta.Length())
		end := relativeIndex(argAt(args, 2), ta.Length(), ta.Length())
		for i := start; i < end; i++ {
			ta.SetElement(i, value)
		}
		return this, nil
	}))

	// TypedArray.prototype.set(source, offset)
	taProto.SetOwnNonEnumerable("set", vm.NewNativeFunction(2, false, "set", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ta, err := requireTypedArray(this, "set")
		if err != nil {
			return vm.Undefined, err
		}
		offset := int(argAt(args, 1).ToFloat())
		if offset < 0 {
			return vm.Undefined, realm.NewRangeError("offset is out of bounds")
		}
		source := argAt(args, 0)
		if source.IsTypedArray() {
			src := source.AsTypedArray()
			if offset+src.Length() > ta.Length() {
				return vm.Undefined, realm.NewRangeError("offset is out of bounds")
			}
			for i := 0; i < src.Length(); i++ {
				ta.SetElement(offset+i, src.GetElement(i).ToFloat())
			}
			return vm.Undefined, nil
		}
		holder := vm.PropertyHolder(source)
		if holder == nil {
			return vm.Undefined, realm.NewTypeError("Cannot convert undefined or null to object")
		}
		length := arrayLength(holder)
		if offset+length > ta.Length() {
			return vm.Undefined, realm.NewRangeError("offset is out of bounds")
		}
		for i := 0; i < length; i++ {
			elem, err := realm.Get(source, strconv.Itoa(i))
			if err != nil {
				return vm.Undefined, err
			}
			ta.SetElement(offset+i, elem.ToFloat())
		}
		return vm.Undefined, nil
	}))

	// TypedArray.prototype.subarray(start, end)
	taProto.SetOwnNonEnumerable("subarray", vm.NewNativeFunction(2, false, "subarray", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		ta, err := requireTypedArray(this, "subarray")
		if err != nil {
			return vm.Undefined, err
		}
		start := relativeIndex(argAt(args, 0), 0, ta.Length())
		end := relativeIndex(argAt(args, 1), ta.Length(), ta.Length())
		if end < start {
			end = start
		}
		width := ta.Kind().BytesPerElement()
		proto := ta.Properties.GetPrototype()
		return vm.NewTypedArrayView(ta.Buffer(), ta.Kind(), ta.ByteOffset()+start*width, end-start, proto), nil
	}))

	// Abstract %TypedArray% constructor: never directly constructable,
	// reachable only through the concrete kinds.
	abstractCtor := vm.NewConstructorWithProps(0, false, "TypedArray", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, realm.NewTypeError("Abstract class TypedArray not directly constructable")
	})
	abstractProps := abstractCtor.AsNativeFunction().Props()
	abstractProps.DefineOwnProperty("prototype", realm.TypedArrayPrototype, &f, &f, &f)
	taProto.SetOwnNonEnumerable("constructor", abstractCtor)
	realm.TypedArrayConstructor = abstractCtor

	// Concrete kinds: Int8Array through Float64Array.
	for _, kind := range typedArrayKinds {
		if err := initTypedArrayKind(ctx, kind); err != nil {
			return err
		}
	}
	return nil
}

// kindPrototype maps an element kind to its realm prototype value.
func kindPrototype(realm *vm.Realm, kind vm.TypedArrayKind) vm.Value {
	switch kind {
	case vm.TypedArrayInt8:
		return realm.Int8ArrayPrototype
	case vm.TypedArrayUint8:
		return realm.Uint8ArrayPrototype
	case vm.TypedArrayInt16:
		return realm.Int16ArrayPrototype
	case vm.TypedArrayUint16:
		return realm.Uint16ArrayPrototype
	case vm.TypedArrayInt32:
		return realm.Int32ArrayPrototype
	case vm.TypedArrayUint32:
		return realm.Uint32ArrayPrototype
	case vm.TypedArrayFloat32:
		return realm.Float32ArrayPrototype
	default:
		return realm.Float64ArrayPrototype
	}
}

// initTypedArrayKind wires one concrete constructor over its pre-created
// per-kind prototype.
func initTypedArrayKind(ctx *RuntimeContext, kind vm.TypedArrayKind) error {
	realm := ctx.Realm
	name := kind.CtorName()
	protoVal := kindPrototype(realm, kind)
	proto := protoVal.AsPlainObject()
	width := kind.BytesPerElement()

	ctor := vm.NewConstructorWithProps(1, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		arg := argAt(args, 0)
		switch {
		case arg.IsUndefined():
			return vm.NewTypedArray(kind, 0, protoVal), nil
		case arg.IsNumber():
			length := arg.ToFloat()
			if length < 0 || length != float64(int(length)) {
				return vm.Undefined, realm.NewRangeError("Invalid typed array length")
			}
			return vm.NewTypedArray(kind, int(length), protoVal), nil
		case arg.IsTypedArray():
			src := arg.AsTypedArray()
			dstVal := vm.NewTypedArray(kind, src.Length(), protoVal)
			dst := dstVal.AsTypedArray()
			for i := 0; i < src.Length(); i++ {
				dst.SetElement(i, src.GetElement(i).ToFloat())
			}
			return dstVal, nil
		case arg.IsArrayBuffer():
			buffer := arg.AsArrayBuffer()
			byteOffset := 0
			if off := argAt(args, 1); !off.IsUndefined() {
				byteOffset = int(off.ToFloat())
			}
			if byteOffset < 0 || byteOffset%width != 0 {
				return vm.Undefined, realm.NewRangeError("start offset of " + name + " should be a multiple of " + strconv.Itoa(width))
			}
			if byteOffset > buffer.ByteLength() {
				return vm.Undefined, realm.NewRangeError("Invalid typed array length")
			}
			length := 0
			if lv := argAt(args, 2); lv.IsUndefined() {
				remaining := buffer.ByteLength() - byteOffset
				if remaining%width != 0 {
					return vm.Undefined, realm.NewRangeError("byte length of " + name + " should be a multiple of " + strconv.Itoa(width))
				}
				length = remaining / width
			} else {
				length = int(lv.ToFloat())
				if length < 0 || byteOffset+length*width > buffer.ByteLength() {
					return vm.Undefined, realm.NewRangeError("Invalid typed array length")
				}
			}
			return vm.NewTypedArrayView(buffer, kind, byteOffset, length, protoVal), nil
		default:
			holder := vm.PropertyHolder(arg)
			if holder == nil {
				return vm.Undefined, realm.NewTypeError("Cannot convert " + arg.Inspect() + " to " + name)
			}
			length := arrayLength(holder)
			dstVal := vm.NewTypedArray(kind, length, protoVal)
			dst := dstVal.AsTypedArray()
			for i := 0; i < length; i++ {
				elem, err := realm.Get(arg, strconv.Itoa(i))
				if err != nil {
					return vm.Undefined, err
				}
				dst.SetElement(i, elem.ToFloat())
			}
			return dstVal, nil
		}
	})
	ctorProps := ctor.AsNativeFunction().Props()

	f := false
	ctorProps.DefineOwnProperty("BYTES_PER_ELEMENT", vm.IntegerValue(int32(width)), &f, &f, &f)
	ctorProps.DefineOwnProperty("prototype", protoVal, &f, &f, &f)
	proto.DefineOwnProperty("BYTES_PER_ELEMENT", vm.IntegerValue(int32(width)), &f, &f, &f)
	proto.SetOwnNonEnumerable("constructor", ctor)

	return ctx.DefineGlobal(name, ctor)
}
