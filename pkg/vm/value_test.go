package vm

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

// Helper function to check for panics using standard library
func expectPanic(t *testing.T, fn func(), containsMsg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected a panic, but function did not panic")
			return
		}
		if containsMsg != "" {
			var panicMsg string
			switch v := r.(type) {
			case string:
				panicMsg = v
			case error:
				panicMsg = v.Error()
			default:
				panicMsg = fmt.Sprintf("%v", r)
			}
			if !strings.Contains(panicMsg, containsMsg) {
				t.Errorf("Panic message mismatch.\nExpected to contain: %q\nActual: %q", containsMsg, panicMsg)
			}
		}
	}()
	fn()
}

func TestUndefinedAndNull(t *testing.T) {
	if !Undefined.IsUndefined() || Undefined.Type() != TypeUndefined {
		t.Error("Undefined has wrong type")
	}
	if !Null.IsNull() || Null.Type() != TypeNull {
		t.Error("Null has wrong type")
	}
	if Undefined.ToBoolean() || Null.ToBoolean() {
		t.Error("undefined and null must be falsy")
	}
	if Undefined.ToString() != "undefined" || Null.ToString() != "null" {
		t.Errorf("ToString: got %q and %q", Undefined.ToString(), Null.ToString())
	}
	if !math.IsNaN(Undefined.ToFloat()) {
		t.Error("undefined must coerce to NaN")
	}
	if Null.ToFloat() != 0 {
		t.Error("null must coerce to 0")
	}
	if Undefined.TypeName() != "undefined" || Null.TypeName() != "null" {
		t.Error("wrong TypeName")
	}
}

func TestBooleanValues(t *testing.T) {
	if !True.AsBoolean() || False.AsBoolean() {
		t.Error("True/False payloads inverted")
	}
	if !BooleanValue(true).Is(True) || !BooleanValue(false).Is(False) {
		t.Error("BooleanValue does not return the canonical values")
	}
	if True.ToFloat() != 1 || False.ToFloat() != 0 {
		t.Error("boolean numeric coercion wrong")
	}
	if True.ToString() != "true" || False.ToString() != "false" {
		t.Error("boolean ToString wrong")
	}
	expectPanic(t, func() { True.AsInteger() }, "not an integer")
	expectPanic(t, func() { False.AsString() }, "not a string")
}

func TestIntegerValues(t *testing.T) {
	v := IntegerValue(-42)
	if !v.IsNumber() || !v.IsIntegerNumber() || v.IsFloatNumber() {
		t.Error("integer value has wrong type predicates")
	}
	if v.AsInteger() != -42 {
		t.Errorf("AsInteger: got %d", v.AsInteger())
	}
	if v.ToFloat() != -42 {
		t.Errorf("ToFloat: got %v", v.ToFloat())
	}
	if v.ToString() != "-42" {
		t.Errorf("ToString: got %q", v.ToString())
	}
	if !IntegerValue(0).IsNumber() || IntegerValue(0).ToBoolean() {
		t.Error("integer zero must be a falsy number")
	}
	expectPanic(t, func() { v.AsFloat() }, "not a float")
	expectPanic(t, func() { v.AsBoolean() }, "not a boolean")
}

func TestFloatValues(t *testing.T) {
	v := NumberValue(3.25)
	if !v.IsNumber() || !v.IsFloatNumber() {
		t.Error("float value has wrong type predicates")
	}
	if v.AsFloat() != 3.25 {
		t.Errorf("AsFloat: got %v", v.AsFloat())
	}
	if !NaN.IsNumber() || NaN.ToBoolean() {
		t.Error("NaN must be a falsy number")
	}
	if !math.IsNaN(NaN.AsFloat()) {
		t.Error("NaN payload lost")
	}
	expectPanic(t, func() { v.AsInteger() }, "not an integer")
	expectPanic(t, func() { v.AsSymbol() }, "not a symbol")
}

func TestFloatFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{123, "123"},
		{1.5, "1.5"},
		{-0.125, "-0.125"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{2.5e-8, "2.5e-8"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := NumberValue(tt.in).ToString(); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStringValues(t *testing.T) {
	v := NewString("héllo")
	if !v.IsString() || v.TypeName() != "string" {
		t.Error("string value has wrong type predicates")
	}
	if v.AsString() != "héllo" {
		t.Errorf("AsString: got %q", v.AsString())
	}
	if v.StringLength() != 5 {
		t.Errorf("StringLength counts runes: got %d", v.StringLength())
	}
	if NewString("").ToBoolean() || !v.ToBoolean() {
		t.Error("string truthiness wrong")
	}
	if got := NewString("  42.5 ").ToFloat(); got != 42.5 {
		t.Errorf("numeric string coercion: got %v", got)
	}
	if got := NewString("").ToFloat(); got != 0 {
		t.Errorf("empty string must coerce to 0, got %v", got)
	}
	if !math.IsNaN(NewString("abc").ToFloat()) {
		t.Error("non-numeric string must coerce to NaN")
	}
	expectPanic(t, func() { v.AsInteger() }, "not an integer")
}

func TestSymbolValues(t *testing.T) {
	a := NewSymbol("tag")
	b := NewSymbol("tag")
	if !a.IsSymbol() || a.TypeName() != "symbol" {
		t.Error("symbol value has wrong type predicates")
	}
	if a.AsSymbol() != "tag" {
		t.Errorf("AsSymbol: got %q", a.AsSymbol())
	}
	if a.Is(b) {
		t.Error("symbols with equal descriptions must still be distinct")
	}
	if !a.Is(a) {
		t.Error("a symbol must equal itself")
	}
	if a.ToString() != "Symbol(tag)" {
		t.Errorf("ToString: got %q", a.ToString())
	}
	expectPanic(t, func() { a.AsString() }, "not a string")
}

func TestIsAndSameValue(t *testing.T) {
	obj := NewObject(Undefined)
	tests := []struct {
		name      string
		a, b      Value
		is        bool
		sameValue bool
	}{
		{"integer vs equal float", IntegerValue(1), NumberValue(1), true, true},
		{"NaN vs NaN", NaN, NumberValue(math.NaN()), false, true},
		{"+0 vs -0", NumberValue(0), NumberValue(math.Copysign(0, -1)), true, false},
		{"equal strings", NewString("x"), NewString("x"), true, true},
		{"different strings", NewString("x"), NewString("y"), false, false},
		{"same object", obj, obj, true, true},
		{"distinct objects", NewObject(Undefined), NewObject(Undefined), false, false},
		{"null vs undefined", Null, Undefined, false, false},
		{"number vs numeric string", IntegerValue(1), NewString("1"), false, false},
	}
	for _, tt := range tests {
		if got := tt.a.Is(tt.b); got != tt.is {
			t.Errorf("%s: Is = %v, want %v", tt.name, got, tt.is)
		}
		if got := tt.a.SameValue(tt.b); got != tt.sameValue {
			t.Errorf("%s: SameValue = %v, want %v", tt.name, got, tt.sameValue)
		}
	}
}

func TestNativeFunctionValues(t *testing.T) {
	fn := NewNativeFunction(2, false, "add", func(this Value, args []Value) (Value, error) {
		return NumberValue(args[0].ToFloat() + args[1].ToFloat()), nil
	})
	if !fn.IsCallable() || !fn.IsNativeFunction() {
		t.Error("native function must be callable")
	}
	if fn.TypeName() != "function" {
		t.Errorf("TypeName: got %q", fn.TypeName())
	}
	if !fn.IsObject() {
		t.Error("functions are objects")
	}
	if fn.ToString() != "<native function add>" {
		t.Errorf("ToString: got %q", fn.ToString())
	}
	nf := fn.AsNativeFunction()
	if nf.Name != "add" || nf.Arity != 2 {
		t.Errorf("function metadata: got %q/%d", nf.Name, nf.Arity)
	}
	expectPanic(t, func() { fn.AsPlainObject() }, "not an object")
}

func TestObjectValues(t *testing.T) {
	v := NewObject(Undefined)
	if !v.IsObject() || v.TypeName() != "object" {
		t.Error("object value has wrong type predicates")
	}
	if !v.ToBoolean() {
		t.Error("objects are truthy")
	}
	if v.ToString() != "[object Object]" {
		t.Errorf("ToString: got %q", v.ToString())
	}
	if !math.IsNaN(v.ToFloat()) {
		t.Error("plain object must coerce to NaN")
	}
	obj := v.AsPlainObject()
	if obj == nil {
		t.Fatal("AsPlainObject returned nil")
	}
	if !obj.GetPrototype().IsUndefined() {
		t.Error("prototype must be the one passed to NewObject")
	}
}

func TestInspect(t *testing.T) {
	if got := NewString("a\"b").Inspect(); got != `"a\"b"` {
		t.Errorf("string Inspect: got %s", got)
	}
	empty := NewObject(Undefined)
	if got := empty.Inspect(); got != "{}" {
		t.Errorf("empty object Inspect: got %s", got)
	}
	obj := NewObject(Undefined).AsPlainObject()
	obj.SetOwn("n", IntegerValue(7))
	obj.SetOwn("s", NewString("hi"))
	obj.SetOwn("o", NewObject(Undefined))
	want := `{n: 7, s: "hi", o: {...}}`
	if got := NewValueFromPlainObject(obj).Inspect(); got != want {
		t.Errorf("Inspect: got %s, want %s", got, want)
	}
}
