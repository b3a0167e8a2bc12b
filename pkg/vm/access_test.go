package vm

import (
	"strings"
	"testing"
)

func newTestRealm() *Realm {
	return NewRealm()
}

func TestGetVWalksPrototypeChain(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	proto.AsPlainObject().SetOwn("inherited", IntegerValue(11))
	obj := NewObject(proto)

	v, err := r.Get(obj, "inherited")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v.AsInteger() != 11 {
		t.Errorf("expected inherited value 11, got %v", v)
	}
	v, err = r.Get(obj, "missing")
	if err != nil || !v.IsUndefined() {
		t.Errorf("expected Undefined for missing property, got %v (err=%v)", v, err)
	}
}

func TestGetVInvokesGetterWithReceiver(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	var seenThis Value
	getter := NewNativeFunction(0, false, "get tag", func(this Value, args []Value) (Value, error) {
		seenThis = this
		return NewString("from getter"), nil
	})
	eT, cT := true, true
	proto.AsPlainObject().DefineAccessorProperty("tag", getter, true, Undefined, false, &eT, &cT)

	obj := NewObject(proto)
	v, err := r.Get(obj, "tag")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if v.ToString() != "from getter" {
		t.Errorf("getter result mismatch: %v", v)
	}
	if !seenThis.Is(obj) {
		t.Errorf("getter must run with this = receiver, got %v", seenThis.Inspect())
	}
}

func TestSetVCreatesOwnShadowOverWritableData(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	proto.AsPlainObject().SetOwn("x", IntegerValue(1))
	obj := NewObject(proto)

	if err := r.Set(obj, "x", IntegerValue(2)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	// Own shadow on the receiver, prototype untouched
	if v, ok := obj.AsPlainObject().GetOwn("x"); !ok || v.AsInteger() != 2 {
		t.Errorf("expected own shadow 2 on receiver, got %v (ok=%v)", v, ok)
	}
	if v, _ := proto.AsPlainObject().GetOwn("x"); v.AsInteger() != 1 {
		t.Errorf("prototype value must stay 1, got %v", v)
	}
}

func TestSetVRejectsReadOnlyProtoData(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	f := false
	tr := true
	proto.AsPlainObject().DefineOwnProperty("x", IntegerValue(1), &f, &tr, &tr)
	obj := NewObject(proto)

	err := r.Set(obj, "x", IntegerValue(2))
	if err == nil {
		t.Fatalf("expected TypeError assigning over read-only prototype data property")
	}
	if !IsTypeError(err) {
		t.Errorf("expected TypeError, got %v", err)
	}
	if obj.AsPlainObject().HasOwn("x") {
		t.Errorf("failed assignment must not create an own property")
	}
}

func TestSetVInvokesSetterWithReceiver(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	var seenThis, seenValue Value
	setter := NewNativeFunction(1, false, "set x", func(this Value, args []Value) (Value, error) {
		seenThis = this
		if len(args) > 0 {
			seenValue = args[0]
		}
		return Undefined, nil
	})
	eT, cT := true, true
	proto.AsPlainObject().DefineAccessorProperty("x", Undefined, false, setter, true, &eT, &cT)
	obj := NewObject(proto)

	if err := r.Set(obj, "x", IntegerValue(9)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if !seenThis.Is(obj) {
		t.Errorf("setter must run with this = receiver")
	}
	if seenValue.AsInteger() != 9 {
		t.Errorf("setter must receive the assigned value, got %v", seenValue)
	}
}

func TestSetVGetterOnlyAccessorIsTypeError(t *testing.T) {
	r := newTestRealm()
	proto := NewObject(Null)
	getter := NewNativeFunction(0, false, "get x", func(this Value, args []Value) (Value, error) {
		return IntegerValue(1), nil
	})
	eT, cT := true, true
	proto.AsPlainObject().DefineAccessorProperty("x", getter, true, Undefined, false, &eT, &cT)
	obj := NewObject(proto)

	err := r.Set(obj, "x", IntegerValue(2))
	if err == nil || !IsTypeError(err) {
		t.Errorf("expected TypeError for getter-only assignment, got %v", err)
	}
}

func TestSetVNonExtensibleReceiver(t *testing.T) {
	r := newTestRealm()
	obj := NewObject(Null)
	obj.AsPlainObject().SetExtensible(false)
	err := r.Set(obj, "fresh", IntegerValue(1))
	if err == nil || !IsTypeError(err) {
		t.Errorf("expected TypeError adding to non-extensible object, got %v", err)
	}
}

func TestGetVOnPrimitives(t *testing.T) {
	r := newTestRealm()
	s := NewString("héllo")
	v, err := r.Get(s, "length")
	if err != nil {
		t.Fatalf("Get on string returned error: %v", err)
	}
	if v.AsInteger() != 5 {
		t.Errorf("string length mismatch: got %v", v)
	}
	v, err = r.Get(s, "1")
	if err != nil || v.ToString() != "é" {
		t.Errorf("string index read mismatch: got %v (err=%v)", v, err)
	}
	if _, err := r.Get(Undefined, "x"); err == nil {
		t.Errorf("expected TypeError reading from undefined")
	}
}

func TestFunctionsInheritFromFunctionPrototype(t *testing.T) {
	r := newTestRealm()
	r.FunctionPrototype.AsPlainObject().SetOwnNonEnumerable("marker", IntegerValue(3))
	fn := NewNativeFunction(0, false, "f", func(this Value, args []Value) (Value, error) {
		return Undefined, nil
	})
	v, err := r.Get(fn, "marker")
	if err != nil || v.AsInteger() != 3 {
		t.Errorf("function should inherit through Function.prototype, got %v (err=%v)", v, err)
	}
}

func TestCallReportsNonCallable(t *testing.T) {
	r := newTestRealm()
	_, err := r.Call(IntegerValue(4), Undefined, nil)
	if err == nil {
		t.Fatalf("expected error calling a number")
	}
	if !strings.Contains(err.Error(), "is not a function") {
		t.Errorf("error message mismatch: %v", err)
	}
}
