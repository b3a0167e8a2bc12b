package vm

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"unsafe"
)

type KeyKind uint8

const (
	KeyKindString KeyKind = iota
	KeyKindSymbol
)

// PropertyKey represents a property key which can be a string or a symbol
type PropertyKey struct {
	kind      KeyKind
	name      string // for string keys
	symbolVal Value  // for symbol keys (TypeSymbol)
}

func keyFromString(name string) PropertyKey {
	return PropertyKey{kind: KeyKindString, name: name}
}

func keyFromSymbol(sym Value) PropertyKey {
	return PropertyKey{kind: KeyKindSymbol, symbolVal: sym}
}

// NewStringKey constructs an exported PropertyKey for string-named properties.
func NewStringKey(name string) PropertyKey { return keyFromString(name) }

// NewSymbolKey constructs an exported PropertyKey for symbol-named properties.
func NewSymbolKey(sym Value) PropertyKey { return keyFromSymbol(sym) }

func (k PropertyKey) isString() bool { return k.kind == KeyKindString }
func (k PropertyKey) isSymbol() bool { return k.kind == KeyKindSymbol }

// IsSymbolKey reports whether the key names a symbol property.
func (k PropertyKey) IsSymbolKey() bool { return k.kind == KeyKindSymbol }

// Name returns the raw name for string keys and "" for symbols.
func (k PropertyKey) Name() string { return k.name }

// SymbolValue returns the symbol value for symbol keys and Undefined otherwise.
func (k PropertyKey) SymbolValue() Value {
	if k.kind == KeyKindSymbol {
		return k.symbolVal
	}
	return Undefined
}

// String renders the key for paths and diagnostics, e.g. "message" or
// "Symbol(Symbol.iterator)".
func (k PropertyKey) String() string {
	switch k.kind {
	case KeyKindString:
		return k.name
	case KeyKindSymbol:
		return fmt.Sprintf("Symbol(%s)", k.symbolVal.AsSymbol())
	default:
		return "<unknown-key>"
	}
}

func sameKey(a, b PropertyKey) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == KeyKindString {
		return a.name == b.name
	}
	return a.symbolVal.obj == b.symbolVal.obj
}

// field is one own-property slot. Data properties use value/writable;
// accessor properties use getter/setter and keep value as Undefined.
type field struct {
	key          PropertyKey
	value        Value
	getter       Value
	setter       Value
	writable     bool
	enumerable   bool
	configurable bool
	accessor     bool
}

type Object struct {
}

// PlainObject is an ordinary object: an insertion-ordered own-property
// table, a prototype link, and an extensible flag.
type PlainObject struct {
	Object
	prototype  Value
	fields     []field
	extensible bool
}

// NewObject creates a fresh extensible object with the given prototype
// (Null for the end of a chain).
func NewObject(proto Value) Value {
	obj := &PlainObject{prototype: proto, extensible: true}
	return Value{typ: TypeObject, obj: unsafe.Pointer(obj)}
}

func (o *PlainObject) findOwn(key PropertyKey) *field {
	for i := range o.fields {
		if sameKey(o.fields[i].key, key) {
			return &o.fields[i]
		}
	}
	return nil
}

// GetOwn looks up a direct (own) property by name. Returns (value, true) if present.
// For accessor properties the stored value slot is Undefined; callers that
// distinguish use GetOwnDataByKey or GetOwnAccessorByKey.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	return o.GetOwnByKey(keyFromString(name))
}

// GetOwnByKey looks up a direct (own) property by key. Returns (value, true) if present.
func (o *PlainObject) GetOwnByKey(key PropertyKey) (Value, bool) {
	if f := o.findOwn(key); f != nil {
		return f.value, true
	}
	return Undefined, false
}

// GetOwnDataByKey returns the value of an own data property. The second
// result is false when the property is absent or an accessor.
func (o *PlainObject) GetOwnDataByKey(key PropertyKey) (Value, bool) {
	if f := o.findOwn(key); f != nil && !f.accessor {
		return f.value, true
	}
	return Undefined, false
}

// GetOwnDescriptorByKey returns the own property's value and attributes.
// Accessor properties report (Undefined, false, enumerable, configurable, true).
func (o *PlainObject) GetOwnDescriptorByKey(key PropertyKey) (value Value, writable, enumerable, configurable, exists bool) {
	f := o.findOwn(key)
	if f == nil {
		return Undefined, false, false, false, false
	}
	if f.accessor {
		return Undefined, false, f.enumerable, f.configurable, true
	}
	return f.value, f.writable, f.enumerable, f.configurable, true
}

// GetOwnAccessorByKey returns the getter/setter pair of an own accessor
// property. exists is false for absent or data properties.
func (o *PlainObject) GetOwnAccessorByKey(key PropertyKey) (getter, setter Value, enumerable, configurable, exists bool) {
	f := o.findOwn(key)
	if f == nil || !f.accessor {
		return Undefined, Undefined, false, false, false
	}
	return f.getter, f.setter, f.enumerable, f.configurable, true
}

func (o *PlainObject) HasOwn(name string) bool {
	return o.HasOwnByKey(keyFromString(name))
}

func (o *PlainObject) HasOwnByKey(key PropertyKey) bool {
	return o.findOwn(key) != nil
}

// SetOwn assigns to an own data property, creating it with default
// attributes (writable, enumerable, configurable) when absent. Returns
// false on accessor properties, non-writable properties, and
// non-extensible objects; callers that need receiver semantics go
// through Realm.SetV instead.
func (o *PlainObject) SetOwn(name string, value Value) bool {
	return o.SetOwnByKey(keyFromString(name), value)
}

func (o *PlainObject) SetOwnByKey(key PropertyKey, value Value) bool {
	if f := o.findOwn(key); f != nil {
		if f.accessor || !f.writable {
			return false
		}
		f.value = value
		return true
	}
	if !o.extensible {
		return false
	}
	o.fields = append(o.fields, field{key: key, value: value, writable: true, enumerable: true, configurable: true})
	return true
}

// SetOwnNonEnumerable assigns like SetOwn but creates the property
// non-enumerable. This is how builtin methods are installed.
func (o *PlainObject) SetOwnNonEnumerable(name string, value Value) bool {
	return o.SetOwnNonEnumerableByKey(keyFromString(name), value)
}

func (o *PlainObject) SetOwnNonEnumerableByKey(key PropertyKey, value Value) bool {
	if f := o.findOwn(key); f != nil {
		if f.accessor || !f.writable {
			return false
		}
		f.value = value
		return true
	}
	if !o.extensible {
		return false
	}
	o.fields = append(o.fields, field{key: key, value: value, writable: true, enumerable: false, configurable: true})
	return true
}

func boolArg(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// DefineOwnProperty defines or reconfigures an own data property. Nil
// attribute pointers mean "keep current" for existing properties and the
// ES default (false) for new ones. Returns false when the define is
// rejected (non-configurable conflicts, non-extensible object).
func (o *PlainObject) DefineOwnProperty(name string, value Value, writable, enumerable, configurable *bool) bool {
	return o.DefineOwnPropertyByKey(keyFromString(name), value, writable, enumerable, configurable)
}

func (o *PlainObject) DefineOwnPropertyByKey(key PropertyKey, value Value, writable, enumerable, configurable *bool) bool {
	f := o.findOwn(key)
	if f == nil {
		if !o.extensible {
			return false
		}
		o.fields = append(o.fields, field{
			key:          key,
			value:        value,
			writable:     boolArg(writable, false),
			enumerable:   boolArg(enumerable, false),
			configurable: boolArg(configurable, false),
		})
		return true
	}
	if f.accessor {
		// accessor to data conversion requires configurability
		if !f.configurable {
			return false
		}
		f.accessor = false
		f.getter = Undefined
		f.setter = Undefined
		f.value = value
		f.writable = boolArg(writable, false)
		if enumerable != nil {
			f.enumerable = *enumerable
		}
		if configurable != nil {
			f.configurable = *configurable
		}
		return true
	}
	if !f.configurable {
		if configurable != nil && *configurable {
			return false
		}
		if enumerable != nil && *enumerable != f.enumerable {
			return false
		}
		if !f.writable {
			if writable != nil && *writable {
				return false
			}
			if !value.SameValue(f.value) {
				return false
			}
			return true
		}
		// non-configurable but writable: value updates allowed, writable may only drop
		f.value = value
		if writable != nil {
			f.writable = *writable
		}
		return true
	}
	f.value = value
	if writable != nil {
		f.writable = *writable
	}
	if enumerable != nil {
		f.enumerable = *enumerable
	}
	if configurable != nil {
		f.configurable = *configurable
	}
	return true
}

// DefineAccessorProperty defines or reconfigures an own accessor
// property. hasGetter/hasSetter distinguish "install Undefined" from
// "leave that half alone" on existing accessors.
func (o *PlainObject) DefineAccessorProperty(name string, getter Value, hasGetter bool, setter Value, hasSetter bool, enumerable, configurable *bool) bool {
	return o.DefineAccessorPropertyByKey(keyFromString(name), getter, hasGetter, setter, hasSetter, enumerable, configurable)
}

func (o *PlainObject) DefineAccessorPropertyByKey(key PropertyKey, getter Value, hasGetter bool, setter Value, hasSetter bool, enumerable, configurable *bool) bool {
	f := o.findOwn(key)
	if f == nil {
		if !o.extensible {
			return false
		}
		g, s := Undefined, Undefined
		if hasGetter {
			g = getter
		}
		if hasSetter {
			s = setter
		}
		o.fields = append(o.fields, field{
			key:          key,
			accessor:     true,
			value:        Undefined,
			getter:       g,
			setter:       s,
			enumerable:   boolArg(enumerable, false),
			configurable: boolArg(configurable, false),
		})
		return true
	}
	if !f.accessor {
		// data to accessor conversion requires configurability
		if !f.configurable {
			return false
		}
		f.accessor = true
		f.value = Undefined
		f.writable = false
		f.getter = Undefined
		f.setter = Undefined
		if hasGetter {
			f.getter = getter
		}
		if hasSetter {
			f.setter = setter
		}
		if enumerable != nil {
			f.enumerable = *enumerable
		}
		if configurable != nil {
			f.configurable = *configurable
		}
		return true
	}
	if !f.configurable {
		if configurable != nil && *configurable {
			return false
		}
		if enumerable != nil && *enumerable != f.enumerable {
			return false
		}
		if hasGetter && !getter.Is(f.getter) {
			return false
		}
		if hasSetter && !setter.Is(f.setter) {
			return false
		}
		return true
	}
	if hasGetter {
		f.getter = getter
	}
	if hasSetter {
		f.setter = setter
	}
	if enumerable != nil {
		f.enumerable = *enumerable
	}
	if configurable != nil {
		f.configurable = *configurable
	}
	return true
}

// DeleteOwn removes an own property. Returns false for non-configurable
// properties, true otherwise (including when the property was absent).
func (o *PlainObject) DeleteOwn(name string) bool {
	return o.DeleteOwnByKey(keyFromString(name))
}

func (o *PlainObject) DeleteOwnByKey(key PropertyKey) bool {
	for i := range o.fields {
		if sameKey(o.fields[i].key, key) {
			if !o.fields[i].configurable {
				return false
			}
			o.fields = append(o.fields[:i], o.fields[i+1:]...)
			return true
		}
	}
	return true
}

// isArrayIndex reports whether name is a canonical array index
// ("0".."4294967294" with no leading zeros).
func isArrayIndex(name string) (uint32, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// OwnPropertyNames returns all own string-keyed names: integer-like keys
// first in ascending numeric order, then the rest in insertion order.
func (o *PlainObject) OwnPropertyNames() []string {
	type idxName struct {
		idx  uint32
		name string
	}
	var indexed []idxName
	var named []string
	for i := range o.fields {
		f := &o.fields[i]
		if !f.key.isString() {
			continue
		}
		if idx, ok := isArrayIndex(f.key.name); ok {
			indexed = append(indexed, idxName{idx, f.key.name})
		} else {
			named = append(named, f.key.name)
		}
	}
	sort.Slice(indexed, func(a, b int) bool { return indexed[a].idx < indexed[b].idx })
	out := make([]string, 0, len(indexed)+len(named))
	for _, e := range indexed {
		out = append(out, e.name)
	}
	return append(out, named...)
}

// OwnKeys returns enumerable own string-keyed names in the same order as
// OwnPropertyNames.
func (o *PlainObject) OwnKeys() []string {
	names := o.OwnPropertyNames()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if f := o.findOwn(keyFromString(name)); f != nil && f.enumerable {
			out = append(out, name)
		}
	}
	return out
}

// OwnSymbolKeys returns own symbol keys in insertion order.
func (o *PlainObject) OwnSymbolKeys() []Value {
	var out []Value
	for i := range o.fields {
		if o.fields[i].key.isSymbol() {
			out = append(out, o.fields[i].key.symbolVal)
		}
	}
	return out
}

// OwnPropertyKeys returns every own key in ordinary own-key order:
// integer-like strings ascending, other strings in insertion order, then
// symbols in insertion order.
func (o *PlainObject) OwnPropertyKeys() []PropertyKey {
	names := o.OwnPropertyNames()
	out := make([]PropertyKey, 0, len(o.fields))
	for _, name := range names {
		out = append(out, keyFromString(name))
	}
	for i := range o.fields {
		if o.fields[i].key.isSymbol() {
			out = append(out, o.fields[i].key)
		}
	}
	return out
}

func (o *PlainObject) GetPrototype() Value {
	return o.prototype
}

// SetPrototype changes the prototype link. Rejects non-object non-null
// targets, changes on non-extensible objects, and prototype cycles.
func (o *PlainObject) SetPrototype(proto Value) bool {
	if !proto.IsNull() && !proto.IsObject() {
		return false
	}
	if !o.extensible {
		return proto.Is(o.prototype)
	}
	p := proto
	for p.IsObject() {
		h := PropertyHolder(p)
		if h == nil {
			break
		}
		if h == o {
			return false
		}
		p = h.GetPrototype()
	}
	o.prototype = proto
	return true
}

func (o *PlainObject) IsExtensible() bool {
	return o.extensible
}

func (o *PlainObject) SetExtensible(extensible bool) {
	o.extensible = extensible
}

// Freeze makes the object non-extensible and every own property
// non-configurable (data properties also become non-writable).
func (o *PlainObject) Freeze() {
	o.extensible = false
	for i := range o.fields {
		o.fields[i].configurable = false
		if !o.fields[i].accessor {
			o.fields[i].writable = false
		}
	}
}

func (o *PlainObject) IsFrozen() bool {
	if o.extensible {
		return false
	}
	for i := range o.fields {
		if o.fields[i].configurable {
			return false
		}
		if !o.fields[i].accessor && o.fields[i].writable {
			return false
		}
	}
	return true
}

// PropertyHolder returns the own-property table backing any object-like
// value: the object itself for plain objects, the property bag for
// native functions and wrapper objects. Returns nil for primitives.
func PropertyHolder(v Value) *PlainObject {
	switch v.typ {
	case TypeObject:
		return (*PlainObject)(v.obj)
	case TypeNativeFunction:
		return (*NativeFunctionObject)(v.obj).Props()
	case TypeRegExp:
		return (*RegExpObject)(v.obj).Properties
	case TypeArrayBuffer:
		return (*ArrayBufferObject)(v.obj).Properties
	case TypeTypedArray:
		return (*TypedArrayObject)(v.obj).Properties
	default:
		return nil
	}
}
