package vm

import (
	"testing"
)

func TestPlainObjectBasic(t *testing.T) {
	poVal := NewObject(Null)
	po := poVal.AsPlainObject()
	// No properties initially
	if po.HasOwn("foo") {
		t.Errorf("expected HasOwn(\"foo\") to be false on new object")
	}
	if v, ok := po.GetOwn("foo"); ok {
		t.Errorf("expected GetOwn(\"foo\") ok=false, got ok=true, v=%v", v)
	}
	// Define a property
	po.SetOwn("foo", IntegerValue(42))
	if !po.HasOwn("foo") {
		t.Errorf("expected HasOwn(\"foo\") true after SetOwn")
	}
	v, ok := po.GetOwn("foo")
	if !ok {
		t.Fatalf("expected GetOwn(\"foo\") ok=true after SetOwn")
	}
	if v.AsInteger() != 42 {
		t.Errorf("expected GetOwn to return 42, got %d", v.AsInteger())
	}
	// Overwrite existing property
	po.SetOwn("foo", IntegerValue(7))
	v2, ok2 := po.GetOwn("foo")
	if !ok2 || v2.AsInteger() != 7 {
		t.Errorf("expected overwritten value 7, got %v (ok=%v)", v2, ok2)
	}
	// OwnKeys should list "foo"
	keys := po.OwnKeys()
	if len(keys) != 1 || keys[0] != "foo" {
		t.Errorf("OwnKeys mismatch, expected [foo], got %v", keys)
	}
}

func TestPlainObjectDescriptors(t *testing.T) {
	po := NewObject(Null).AsPlainObject()
	po.SetOwn("plain", IntegerValue(1))
	po.SetOwnNonEnumerable("method", NewString("m"))

	// SetOwn creates fully loose properties
	_, w, e, c, exists := po.GetOwnDescriptorByKey(NewStringKey("plain"))
	if !exists || !w || !e || !c {
		t.Errorf("SetOwn descriptor mismatch: w=%v e=%v c=%v exists=%v", w, e, c, exists)
	}
	// SetOwnNonEnumerable matches the builtin-install shape
	_, w, e, c, exists = po.GetOwnDescriptorByKey(NewStringKey("method"))
	if !exists || !w || e || !c {
		t.Errorf("SetOwnNonEnumerable descriptor mismatch: w=%v e=%v c=%v exists=%v", w, e, c, exists)
	}

	// Explicit define with pinned-down flags
	f := false
	if !po.DefineOwnProperty("pinned", IntegerValue(9), &f, &f, &f) {
		t.Fatalf("DefineOwnProperty of fresh property failed")
	}
	_, w, e, c, exists = po.GetOwnDescriptorByKey(NewStringKey("pinned"))
	if !exists || w || e || c {
		t.Errorf("pinned descriptor mismatch: w=%v e=%v c=%v exists=%v", w, e, c, exists)
	}
	// Non-configurable, non-writable rejects value changes and flag raises
	if po.DefineOwnProperty("pinned", IntegerValue(10), nil, nil, nil) {
		t.Errorf("expected value change on non-writable non-configurable property to be rejected")
	}
	tr := true
	if po.DefineOwnProperty("pinned", IntegerValue(9), &tr, nil, nil) {
		t.Errorf("expected writable=true on non-configurable property to be rejected")
	}
	// Same value is accepted as a no-op
	if !po.DefineOwnProperty("pinned", IntegerValue(9), nil, nil, nil) {
		t.Errorf("expected same-value define on non-writable property to succeed")
	}
}

func TestAccessorDefineAndConvert(t *testing.T) {
	po := NewObject(Null).AsPlainObject()
	getter := NewNativeFunction(0, false, "get x", func(this Value, args []Value) (Value, error) {
		return IntegerValue(5), nil
	})
	eT, cT := true, true
	if !po.DefineAccessorProperty("x", getter, true, Undefined, true, &eT, &cT) {
		t.Fatalf("DefineAccessorProperty failed")
	}
	g, s, e, c, isAcc := po.GetOwnAccessorByKey(NewStringKey("x"))
	if !isAcc {
		t.Fatalf("expected x to be an accessor")
	}
	if !g.Is(getter) || !s.IsUndefined() || !e || !c {
		t.Errorf("accessor pieces mismatch: setter=%v e=%v c=%v", s, e, c)
	}
	// Data view of an accessor reports no data value
	if _, ok := po.GetOwnDataByKey(NewStringKey("x")); ok {
		t.Errorf("GetOwnDataByKey should not report accessor properties")
	}
	// Configurable accessor converts back to data
	wT := true
	if !po.DefineOwnProperty("x", IntegerValue(1), &wT, nil, nil) {
		t.Fatalf("accessor to data conversion failed on configurable property")
	}
	if v, ok := po.GetOwnDataByKey(NewStringKey("x")); !ok || v.AsInteger() != 1 {
		t.Errorf("expected data value 1 after conversion, got %v (ok=%v)", v, ok)
	}
	// Pin it down and check the conversion is now rejected
	fF := false
	po.DefineOwnProperty("x", IntegerValue(1), nil, nil, &fF)
	if po.DefineAccessorProperty("x", getter, true, Undefined, false, nil, nil) {
		t.Errorf("expected data to accessor conversion on non-configurable property to be rejected")
	}
}

func TestOwnKeyOrdering(t *testing.T) {
	po := NewObject(Null).AsPlainObject()
	po.SetOwn("b", IntegerValue(1))
	po.SetOwn("2", IntegerValue(2))
	po.SetOwn("a", IntegerValue(3))
	po.SetOwn("0", IntegerValue(4))
	sym := NewSymbol("tag")
	po.SetOwnNonEnumerableByKey(NewSymbolKey(sym), NewString("t"))

	names := po.OwnPropertyNames()
	want := []string{"0", "2", "b", "a"}
	if len(names) != len(want) {
		t.Fatalf("OwnPropertyNames length mismatch: got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("OwnPropertyNames[%d] = %q, want %q (full: %v)", i, names[i], want[i], names)
		}
	}
	syms := po.OwnSymbolKeys()
	if len(syms) != 1 || !syms[0].Is(sym) {
		t.Errorf("OwnSymbolKeys mismatch: %v", syms)
	}
	all := po.OwnPropertyKeys()
	if len(all) != 5 || all[4].String() != "Symbol(tag)" {
		t.Errorf("OwnPropertyKeys should end with the symbol, got %v", all)
	}
}

func TestDeleteAndExtensible(t *testing.T) {
	po := NewObject(Null).AsPlainObject()
	po.SetOwn("x", IntegerValue(1))
	if !po.DeleteOwn("x") || po.HasOwn("x") {
		t.Errorf("expected delete of configurable property to succeed")
	}
	f := false
	po.DefineOwnProperty("y", IntegerValue(2), nil, nil, &f)
	if po.DeleteOwn("y") {
		t.Errorf("expected delete of non-configurable property to be rejected")
	}
	po.SetExtensible(false)
	if po.SetOwn("z", IntegerValue(3)) {
		t.Errorf("expected SetOwn on non-extensible object to fail")
	}
	if po.DefineOwnProperty("z", IntegerValue(3), nil, nil, nil) {
		t.Errorf("expected DefineOwnProperty on non-extensible object to fail")
	}
	// Existing writable property still assignable
	if v, _ := po.GetOwn("y"); v.AsInteger() != 2 {
		t.Errorf("existing property disturbed by SetExtensible(false)")
	}
}

func TestFreeze(t *testing.T) {
	po := NewObject(Null).AsPlainObject()
	po.SetOwn("a", IntegerValue(1))
	getter := NewNativeFunction(0, false, "get g", func(this Value, args []Value) (Value, error) {
		return IntegerValue(2), nil
	})
	tr := true
	po.DefineAccessorProperty("g", getter, true, Undefined, false, &tr, &tr)
	po.Freeze()
	if !po.IsFrozen() {
		t.Fatalf("expected IsFrozen after Freeze")
	}
	if po.SetOwn("a", IntegerValue(9)) {
		t.Errorf("expected assignment to frozen data property to fail")
	}
	// Accessor survives freezing as an accessor
	if _, _, _, _, isAcc := po.GetOwnAccessorByKey(NewStringKey("g")); !isAcc {
		t.Errorf("accessor property lost by Freeze")
	}
}

func TestSetPrototypeRejectsCycles(t *testing.T) {
	a := NewObject(Null)
	b := NewObject(a)
	if a.AsPlainObject().SetPrototype(b) {
		t.Errorf("expected prototype cycle to be rejected")
	}
	if !a.AsPlainObject().SetPrototype(Null) {
		t.Errorf("expected setting null prototype to succeed")
	}
}

func TestPropertyHolderForFunctions(t *testing.T) {
	fn := NewNativeFunction(0, false, "f", func(this Value, args []Value) (Value, error) {
		return Undefined, nil
	})
	holder := PropertyHolder(fn)
	if holder == nil {
		t.Fatalf("expected functions to expose a property holder")
	}
	holder.SetOwnNonEnumerable("tag", IntegerValue(7))
	if v, ok := fn.AsNativeFunction().Props().GetOwn("tag"); !ok || v.AsInteger() != 7 {
		t.Errorf("holder and Props() should be the same table")
	}
	if PropertyHolder(IntegerValue(1)) != nil {
		t.Errorf("primitives must not expose a property holder")
	}
}
