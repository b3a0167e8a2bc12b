package intrinsics

import (
	"vetro/pkg/vm"
)

// Named builds the namedIntrinsics table from the global object's own
// property names. Only object-like bindings go in: primitive globals
// like NaN or Infinity have no own properties to repair.
func Named(realm *vm.Realm) map[string]vm.Value {
	table := make(map[string]vm.Value)
	for _, name := range realm.GlobalObject.OwnPropertyNames() {
		value, ok := realm.GlobalObject.GetOwn(name)
		if !ok || vm.PropertyHolder(value) == nil {
			continue
		}
		table[name] = value
	}
	return table
}
