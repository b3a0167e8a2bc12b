package builtins

import (
	"testing"

	"vetro/pkg/vm"
)

func TestErrorPrototypeDefaults(t *testing.T) {
	realm := newBuiltinsRealm(t)

	protos := []struct {
		name  string
		proto vm.Value
	}{
		{"Error", realm.ErrorPrototype},
		{"TypeError", realm.TypeErrorPrototype},
		{"RangeError", realm.RangeErrorPrototype},
		{"SyntaxError", realm.SyntaxErrorPrototype},
		{"ReferenceError", realm.ReferenceErrorPrototype},
		{"URIError", realm.URIErrorPrototype},
		{"EvalError", realm.EvalErrorPrototype},
	}
	for _, tc := range protos {
		obj := tc.proto.AsPlainObject()
		name, ok := obj.GetOwn("name")
		if !ok || name.ToString() != tc.name {
			t.Errorf("%s.prototype.name = %v, want %q", tc.name, name.Inspect(), tc.name)
		}
		msg, ok := obj.GetOwn("message")
		if !ok || msg.ToString() != "" {
			t.Errorf("%s.prototype.message = %v, want empty string", tc.name, msg.Inspect())
		}
	}

	// Subclass prototypes chain to Error.prototype, so toString is shared.
	for _, tc := range protos[1:] {
		proto := tc.proto.AsPlainObject()
		if proto.HasOwn("toString") {
			t.Errorf("%s.prototype should inherit toString, found own copy", tc.name)
		}
		if !proto.GetPrototype().Is(realm.ErrorPrototype) {
			t.Errorf("%s.prototype does not chain to Error.prototype", tc.name)
		}
	}
}

func TestErrorConstructorInstanceShape(t *testing.T) {
	realm := newBuiltinsRealm(t)
	ctor := mustGlobal(t, realm, "Error")

	bare, err := realm.Construct(ctor, nil)
	if err != nil {
		t.Fatalf("new Error() failed: %v", err)
	}
	inst := bare.AsPlainObject()
	if name, ok := inst.GetOwn("name"); !ok || name.ToString() != "Error" {
		t.Errorf("instance own name = %v, want \"Error\"", name.Inspect())
	}
	if inst.HasOwn("message") {
		t.Error("no-argument instance should not carry an own message")
	}
	// The inherited default is still readable through the chain.
	if msg := mustGet(t, realm, bare, "message"); msg.ToString() != "" {
		t.Errorf("inherited message = %q, want empty string", msg.ToString())
	}

	withMsg, err := realm.Construct(ctor, []vm.Value{vm.NewString("boom")})
	if err != nil {
		t.Fatalf("new Error(\"boom\") failed: %v", err)
	}
	if msg, ok := withMsg.AsPlainObject().GetOwn("message"); !ok || msg.ToString() != "boom" {
		t.Errorf("own message = %v, want \"boom\"", msg.Inspect())
	}
}

func TestErrorToString(t *testing.T) {
	realm := newBuiltinsRealm(t)
	ctor := mustGlobal(t, realm, "Error")

	tests := []struct {
		name string
		args []vm.Value
		want string
	}{
		{"no message", nil, "Error"},
		{"with message", []vm.Value{vm.NewString("boom")}, "Error: boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inst, err := realm.Construct(ctor, tc.args)
			if err != nil {
				t.Fatalf("construct failed: %v", err)
			}
			if got := mustCall(t, realm, inst, "toString"); got.ToString() != tc.want {
				t.Errorf("toString() = %q, want %q", got.ToString(), tc.want)
			}
		})
	}

	// A renamed error reports under its new name.
	inst, err := realm.Construct(ctor, []vm.Value{vm.NewString("oops")})
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	inst.AsPlainObject().SetOwn("name", vm.NewString("CustomError"))
	if got := mustCall(t, realm, inst, "toString"); got.ToString() != "CustomError: oops" {
		t.Errorf("toString() after rename = %q, want \"CustomError: oops\"", got.ToString())
	}
}

func TestErrorSubclassInstances(t *testing.T) {
	realm := newBuiltinsRealm(t)

	tests := []struct {
		ctorName string
		proto    vm.Value
	}{
		{"TypeError", realm.TypeErrorPrototype},
		{"RangeError", realm.RangeErrorPrototype},
		{"SyntaxError", realm.SyntaxErrorPrototype},
	}
	for _, tc := range tests {
		t.Run(tc.ctorName, func(t *testing.T) {
			ctor := mustGlobal(t, realm, tc.ctorName)
			inst, err := realm.Construct(ctor, []vm.Value{vm.NewString("nope")})
			if err != nil {
				t.Fatalf("construct failed: %v", err)
			}
			obj := inst.AsPlainObject()
			if !obj.GetPrototype().Is(tc.proto) {
				t.Errorf("instance prototype is not %s.prototype", tc.ctorName)
			}
			if name, ok := obj.GetOwn("name"); !ok || name.ToString() != tc.ctorName {
				t.Errorf("own name = %v, want %q", name.Inspect(), tc.ctorName)
			}
			want := tc.ctorName + ": nope"
			if got := mustCall(t, realm, inst, "toString"); got.ToString() != want {
				t.Errorf("toString() = %q, want %q", got.ToString(), want)
			}
		})
	}
}

func TestErrorIsError(t *testing.T) {
	realm := newBuiltinsRealm(t)
	errorCtor := mustGlobal(t, realm, "Error")
	typeErrorCtor := mustGlobal(t, realm, "TypeError")

	plainErr, err := realm.Construct(errorCtor, nil)
	if err != nil {
		t.Fatalf("new Error() failed: %v", err)
	}
	typeErr, err := realm.Construct(typeErrorCtor, nil)
	if err != nil {
		t.Fatalf("new TypeError() failed: %v", err)
	}

	tests := []struct {
		name string
		arg  vm.Value
		want bool
	}{
		{"error instance", plainErr, true},
		{"subclass instance", typeErr, true},
		{"plain object", vm.NewObject(realm.ObjectPrototype), false},
		{"number", vm.NumberValue(42), false},
		{"undefined", vm.Undefined, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustCall(t, realm, errorCtor, "isError", tc.arg)
			if got.ToBoolean() != tc.want {
				t.Errorf("Error.isError(%s) = %v, want %v", tc.arg.Inspect(), got.ToBoolean(), tc.want)
			}
		})
	}
}

func TestRealmErrorsUseConstructors(t *testing.T) {
	realm := newBuiltinsRealm(t)

	err := realm.NewTypeError("bad thing")
	if !vm.IsTypeError(err) {
		t.Fatalf("realm.NewTypeError did not produce a TypeError: %v", err)
	}
	ex, ok := vm.Thrown(err)
	if !ok {
		t.Fatal("realm.NewTypeError did not wrap a thrown exception")
	}
	obj := ex.AsPlainObject()
	if name, ok := obj.GetOwn("name"); !ok || name.ToString() != "TypeError" {
		t.Errorf("thrown name = %v, want \"TypeError\"", name.Inspect())
	}
	if msg, ok := obj.GetOwn("message"); !ok || msg.ToString() != "bad thing" {
		t.Errorf("thrown message = %v, want \"bad thing\"", msg.Inspect())
	}
	if !obj.GetPrototype().Is(realm.TypeErrorPrototype) {
		t.Error("thrown TypeError does not inherit from TypeError.prototype")
	}

	rangeErr := realm.NewRangeError("out of range")
	rex, ok := vm.Thrown(rangeErr)
	if !ok {
		t.Fatal("realm.NewRangeError did not wrap a thrown exception")
	}
	if !rex.AsPlainObject().GetPrototype().Is(realm.RangeErrorPrototype) {
		t.Error("thrown RangeError does not inherit from RangeError.prototype")
	}
}
