package builtins

import (
	"vetro/pkg/vm"
)

// ErrorInitializer implements the Error constructor, Error.prototype, and
// the six standard subclasses that share its shape.
type ErrorInitializer struct{}

func (e *ErrorInitializer) Name() string {
	return "Error"
}

func (e *ErrorInitializer) Priority() int {
	return PriorityError
}

func (e *ErrorInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	errorProto := realm.ErrorPrototype.AsPlainObject()

	// Error.prototype carries the inherited defaults for name and message.
	errorProto.SetOwnNonEnumerable("name", vm.NewString("Error"))
	errorProto.SetOwnNonEnumerable("message", vm.NewString(""))

	// Error.prototype.toString()
	errorProto.SetOwnNonEnumerable("toString", vm.NewNativeFunction(0, false, "toString", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if vm.PropertyHolder(this) == nil {
			return vm.Undefined, realm.NewTypeError("Error.prototype.toString requires that 'this' be an Object")
		}
		name := "Error"
		nv, err := realm.Get(this, "name")
		if err != nil {
			return vm.Undefined, err
		}
		if !nv.IsUndefined() {
			name = nv.ToString()
		}
		message := ""
		mv, err := realm.Get(this, "message")
		if err != nil {
			return vm.Undefined, err
		}
		if !mv.IsUndefined() {
			message = mv.ToString()
		}
		if message == "" {
			return vm.NewString(name), nil
		}
		return vm.NewString(name + ": " + message), nil
	}))

	errorCtor := newErrorConstructor(realm, "Error", realm.ErrorPrototype)
	ctorProps := errorCtor.AsNativeFunction().Props()

	// Error.isError(value)
	ctorProps.SetOwnNonEnumerable("isError", vm.NewNativeFunction(1, false, "isError", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.BooleanValue(isErrorValue(realm, argAt(args, 0))), nil
	}))

	errorProto.SetOwnNonEnumerable("constructor", errorCtor)
	realm.ErrorConstructor = errorCtor
	if err := ctx.DefineGlobal("Error", errorCtor); err != nil {
		return err
	}

	subclasses := []struct {
		name  string
		proto vm.Value
	}{
		{"TypeError", realm.TypeErrorPrototype},
		{"RangeError", realm.RangeErrorPrototype},
		{"SyntaxError", realm.SyntaxErrorPrototype},
		{"ReferenceError", realm.ReferenceErrorPrototype},
		{"URIError", realm.URIErrorPrototype},
		{"EvalError", realm.EvalErrorPrototype},
	}
	for _, sub := range subclasses {
		if err := initErrorSubclass(ctx, sub.name, sub.proto); err != nil {
			return err
		}
	}
	return nil
}

// initErrorSubclass wires one Error subclass over its pre-created
// prototype, which already inherits from Error.prototype.
func initErrorSubclass(ctx *RuntimeContext, name string, protoVal vm.Value) error {
	proto := protoVal.AsPlainObject()
	proto.SetOwnNonEnumerable("name", vm.NewString(name))
	proto.SetOwnNonEnumerable("message", vm.NewString(""))

	ctor := newErrorConstructor(ctx.Realm, name, protoVal)
	proto.SetOwnNonEnumerable("constructor", ctor)
	return ctx.DefineGlobal(name, ctor)
}

// newErrorConstructor builds an error constructor producing instances
// that inherit from protoVal. Instances carry an own message only when
// one is supplied, so the inherited default stays visible on fresh
// no-argument instances.
func newErrorConstructor(realm *vm.Realm, name string, protoVal vm.Value) vm.Value {
	ctor := vm.NewConstructorWithProps(1, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		inst := vm.NewObject(protoVal).AsPlainObject()
		inst.SetOwnNonEnumerable("name", vm.NewString(name))
		if msg := argAt(args, 0); !msg.IsUndefined() {
			inst.SetOwnNonEnumerable("message", vm.NewString(msg.ToString()))
		}
		return vm.NewValueFromPlainObject(inst), nil
	})
	f := false
	ctor.AsNativeFunction().Props().DefineOwnProperty("prototype", protoVal, &f, &f, &f)
	return ctor
}

// isErrorValue reports whether val has Error.prototype somewhere on its
// prototype chain.
func isErrorValue(realm *vm.Realm, val vm.Value) bool {
	errorProto := realm.ErrorPrototype.AsPlainObject()
	holder := vm.PropertyHolder(val)
	if holder == nil {
		return false
	}
	proto := holder.GetPrototype()
	for {
		next := vm.PropertyHolder(proto)
		if next == nil {
			return false
		}
		if next == errorProto {
			return true
		}
		proto = next.GetPrototype()
	}
}
