package builtins

import (
	"fmt"
	"sort"

	"vetro/pkg/vm"
)

// GetStandardInitializers returns all built-in initializers sorted by priority
func GetStandardInitializers() []Initializer {
	var initializers []Initializer

	// Core builtins
	initializers = append(initializers, &ObjectInitializer{})
	initializers = append(initializers, &FunctionInitializer{})
	initializers = append(initializers, &IteratorInitializer{})
	initializers = append(initializers, &ArrayInitializer{})
	initializers = append(initializers, &GeneratorInitializer{})
	initializers = append(initializers, &AsyncInitializer{})

	// Primitive wrappers
	initializers = append(initializers, &StringInitializer{})
	initializers = append(initializers, &NumberInitializer{})
	initializers = append(initializers, &BooleanInitializer{})
	initializers = append(initializers, &SymbolInitializer{})

	// Error family
	initializers = append(initializers, &ErrorInitializer{})

	// Exotic objects
	initializers = append(initializers, &RegExpInitializer{})
	initializers = append(initializers, &ArrayBufferInitializer{})
	initializers = append(initializers, &TypedArrayInitializer{})
	initializers = append(initializers, &PromiseInitializer{})
	initializers = append(initializers, &DateInitializer{})

	// Namespaces and loose globals
	initializers = append(initializers, &MathInitializer{})
	initializers = append(initializers, &JSONInitializer{})
	initializers = append(initializers, &GlobalsInitializer{})

	// Sort by priority (lower numbers first)
	sort.Slice(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})

	return initializers
}

// InitializeRuntime runs every standard initializer against the realm
// and marks it initialized. The realm's prototype objects must already
// exist (NewRealm does that); this pass fills them in and installs the
// global bindings.
func InitializeRuntime(realm *vm.Realm) error {
	ctx := &RuntimeContext{
		Realm: realm,
		DefineGlobal: func(name string, value vm.Value) error {
			return realm.DefineGlobal(name, value)
		},
	}
	for _, init := range GetStandardInitializers() {
		if err := init.Init(ctx); err != nil {
			return fmt.Errorf("builtin %s: %w", init.Name(), err)
		}
	}
	realm.MarkInitialized()
	return nil
}
