package vm

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// TypedArrayKind represents the different typed array element types
type TypedArrayKind uint8

const (
	TypedArrayInt8 TypedArrayKind = iota
	TypedArrayUint8
	TypedArrayInt16
	TypedArrayUint16
	TypedArrayInt32
	TypedArrayUint32
	TypedArrayFloat32
	TypedArrayFloat64
)

// BytesPerElement returns the element width in bytes.
func (k TypedArrayKind) BytesPerElement() int {
	switch k {
	case TypedArrayInt8, TypedArrayUint8:
		return 1
	case TypedArrayInt16, TypedArrayUint16:
		return 2
	case TypedArrayInt32, TypedArrayUint32, TypedArrayFloat32:
		return 4
	case TypedArrayFloat64:
		return 8
	default:
		return 1
	}
}

// CtorName returns the constructor name for the kind, e.g. "Uint8Array".
func (k TypedArrayKind) CtorName() string {
	switch k {
	case TypedArrayInt8:
		return "Int8Array"
	case TypedArrayUint8:
		return "Uint8Array"
	case TypedArrayInt16:
		return "Int16Array"
	case TypedArrayUint16:
		return "Uint16Array"
	case TypedArrayInt32:
		return "Int32Array"
	case TypedArrayUint32:
		return "Uint32Array"
	case TypedArrayFloat32:
		return "Float32Array"
	case TypedArrayFloat64:
		return "Float64Array"
	default:
		return "TypedArray"
	}
}

// ArrayBufferObject represents a raw binary data buffer
type ArrayBufferObject struct {
	Object
	data       []byte
	detached   bool
	Properties *PlainObject // Own-property table and proto link
}

// NewArrayBuffer allocates a zeroed buffer. proto is the realm's
// ArrayBuffer.prototype.
func NewArrayBuffer(byteLength int, proto Value) Value {
	if byteLength < 0 {
		byteLength = 0
	}
	ab := &ArrayBufferObject{
		data:       make([]byte, byteLength),
		Properties: NewObject(proto).AsPlainObject(),
	}
	return Value{typ: TypeArrayBuffer, obj: unsafe.Pointer(ab)}
}

// ArrayBufferValue creates a Value from an ArrayBufferObject.
func ArrayBufferValue(ab *ArrayBufferObject) Value {
	return Value{typ: TypeArrayBuffer, obj: unsafe.Pointer(ab)}
}

// GetData returns the underlying byte slice
func (ab *ArrayBufferObject) GetData() []byte {
	return ab.data
}

// ByteLength returns the length in bytes (0 once detached).
func (ab *ArrayBufferObject) ByteLength() int {
	return len(ab.data)
}

// IsDetached returns whether the buffer has been detached
func (ab *ArrayBufferObject) IsDetached() bool {
	return ab.detached
}

// Detach detaches the ArrayBuffer, making it unusable
func (ab *ArrayBufferObject) Detach() {
	ab.detached = true
	ab.data = nil
}

// TypedArrayObject is a typed view over an ArrayBuffer.
type TypedArrayObject struct {
	Object
	kind       TypedArrayKind
	buffer     *ArrayBufferObject
	byteOffset int
	length     int
	Properties *PlainObject // Own-property table and proto link
}

// NewTypedArray allocates a typed array with a fresh backing buffer.
// proto is the per-kind prototype (e.g. the realm's Uint8Array.prototype).
func NewTypedArray(kind TypedArrayKind, length int, proto Value) Value {
	if length < 0 {
		length = 0
	}
	buffer := &ArrayBufferObject{data: make([]byte, length*kind.BytesPerElement())}
	ta := &TypedArrayObject{
		kind:       kind,
		buffer:     buffer,
		byteOffset: 0,
		length:     length,
		Properties: NewObject(proto).AsPlainObject(),
	}
	return Value{typ: TypeTypedArray, obj: unsafe.Pointer(ta)}
}

// NewTypedArrayView creates a typed array view over an existing buffer.
// Callers validate that byteOffset and length stay inside the buffer.
func NewTypedArrayView(buffer *ArrayBufferObject, kind TypedArrayKind, byteOffset, length int, proto Value) Value {
	ta := &TypedArrayObject{
		kind:       kind,
		buffer:     buffer,
		byteOffset: byteOffset,
		length:     length,
		Properties: NewObject(proto).AsPlainObject(),
	}
	return Value{typ: TypeTypedArray, obj: unsafe.Pointer(ta)}
}

func (ta *TypedArrayObject) Kind() TypedArrayKind {
	return ta.kind
}

func (ta *TypedArrayObject) Length() int {
	return ta.length
}

func (ta *TypedArrayObject) ByteLength() int {
	return ta.length * ta.kind.BytesPerElement()
}

func (ta *TypedArrayObject) ByteOffset() int {
	return ta.byteOffset
}

func (ta *TypedArrayObject) Buffer() *ArrayBufferObject {
	return ta.buffer
}

func (ta *TypedArrayObject) elemSlice(index int) []byte {
	width := ta.kind.BytesPerElement()
	start := ta.byteOffset + index*width
	return ta.buffer.data[start : start+width]
}

// GetElement reads element index as a float64. Out-of-range reads are
// Undefined per typed array semantics.
func (ta *TypedArrayObject) GetElement(index int) Value {
	if index < 0 || index >= ta.length || ta.buffer.detached {
		return Undefined
	}
	b := ta.elemSlice(index)
	switch ta.kind {
	case TypedArrayInt8:
		return IntegerValue(int32(int8(b[0])))
	case TypedArrayUint8:
		return IntegerValue(int32(b[0]))
	case TypedArrayInt16:
		return IntegerValue(int32(int16(binary.LittleEndian.Uint16(b))))
	case TypedArrayUint16:
		return IntegerValue(int32(binary.LittleEndian.Uint16(b)))
	case TypedArrayInt32:
		return IntegerValue(int32(binary.LittleEndian.Uint32(b)))
	case TypedArrayUint32:
		return NumberValue(float64(binary.LittleEndian.Uint32(b)))
	case TypedArrayFloat32:
		return NumberValue(float64(math.Float32frombits(binary.LittleEndian.Uint32(b))))
	case TypedArrayFloat64:
		return NumberValue(math.Float64frombits(binary.LittleEndian.Uint64(b)))
	default:
		return Undefined
	}
}

// SetElement writes element index with ToNumber-style coercion. Writes
// out of range are silently dropped per typed array semantics.
func (ta *TypedArrayObject) SetElement(index int, value float64) {
	if index < 0 || index >= ta.length || ta.buffer.detached {
		return
	}
	b := ta.elemSlice(index)
	switch ta.kind {
	case TypedArrayInt8, TypedArrayUint8:
		b[0] = byte(toInt32(value))
	case TypedArrayInt16, TypedArrayUint16:
		binary.LittleEndian.PutUint16(b, uint16(toInt32(value)))
	case TypedArrayInt32, TypedArrayUint32:
		binary.LittleEndian.PutUint32(b, uint32(toInt32(value)))
	case TypedArrayFloat32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(value)))
	case TypedArrayFloat64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(value))
	}
}

// toInt32 implements the ES ToInt32 conversion (modulo 2^32, NaN and
// infinities to zero).
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(int64(f))
}
