package repair

import (
	"vetro/pkg/vm"
)

// repairProperty examines one own property of holder and converts it to
// an accessor pair when it is a configurable data property. Every other
// shape is reported and left untouched.
func (e *Engine) repairProperty(holder *vm.PlainObject, key vm.PropertyKey) Result {
	if _, _, _, _, isAccessor := holder.GetOwnAccessorByKey(key); isAccessor {
		return AlreadyAccessor
	}
	value, _, enumerable, configurable, exists := holder.GetOwnDescriptorByKey(key)
	if !exists {
		return PropertyAbsent
	}
	if !configurable {
		return NonConfigurable
	}

	getter, setter := e.makeAccessorPair(holder, key, value, enumerable)
	en, cfg := enumerable, true
	holder.DefineAccessorPropertyByKey(key, getter, true, setter, true, &en, &cfg)
	debugPrintf("repairProperty: converted %s on %p\n", key.String(), holder)
	return Repaired
}

// makeAccessorPair builds the getter/setter that stand in for a
// repaired data property. The getter serves the captured default to the
// owner and its inheritors until an inheritor assigns, at which point
// the setter plants an own data shadow on the receiver. Assignment
// through the pair therefore behaves like assignment over a writable
// inherited data property even after the owner is frozen.
func (e *Engine) makeAccessorPair(owner *vm.PlainObject, key vm.PropertyKey, defaultValue vm.Value, enumerable bool) (vm.Value, vm.Value) {
	label := key.String()

	getter := vm.NewNativeFunction(0, false, "get "+label, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if receiver := vm.PropertyHolder(this); receiver != nil && receiver != owner {
			if shadow, ok := receiver.GetOwnDataByKey(key); ok {
				return shadow, nil
			}
		}
		return defaultValue, nil
	})
	// The pre-repair value stays reachable for auditors that walk the
	// object graph after freezing.
	f := false
	getter.AsNativeFunction().Props().DefineOwnProperty("originalValue", defaultValue, &f, &f, &f)

	setter := vm.NewNativeFunction(1, false, "set "+label, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		assigned := vm.Undefined
		if len(args) > 0 {
			assigned = args[0]
		}
		receiver := vm.PropertyHolder(this)
		if receiver == nil {
			return vm.Undefined, e.realm.NewTypeError("Cannot create property '" + label + "' on " + this.TypeName())
		}
		if !receiver.IsExtensible() && !receiver.HasOwnByKey(key) {
			return vm.Undefined, e.realm.NewTypeError("Cannot define property " + label + ", object is not extensible")
		}
		w, en, cfg := true, enumerable, true
		if !receiver.DefineOwnPropertyByKey(key, assigned, &w, &en, &cfg) {
			return vm.Undefined, e.realm.NewTypeError("Cannot redefine property: " + label)
		}
		return vm.Undefined, nil
	})

	return getter, setter
}

// RepairProperty converts a single own property of owner, outside any
// plan walk. The outcome path is the bare property key.
func (e *Engine) RepairProperty(owner vm.Value, key vm.PropertyKey) Outcome {
	holder := vm.PropertyHolder(owner)
	if holder == nil {
		return Outcome{Path: key.String(), Result: RootAbsent}
	}
	return Outcome{Path: key.String(), Result: e.repairProperty(holder, key)}
}
