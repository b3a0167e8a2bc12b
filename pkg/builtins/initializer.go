package builtins

import (
	"vetro/pkg/vm"
)

// Initializer is implemented by each builtin module
type Initializer interface {
	// Name returns the module name (e.g., "Array", "String", "Math")
	Name() string

	// Priority returns initialization order (lower = earlier)
	Priority() int

	// Init populates the realm's prototypes and globals for this module
	Init(ctx *RuntimeContext) error
}

// RuntimeContext provides everything needed for runtime initialization
type RuntimeContext struct {
	// The realm being populated
	Realm *vm.Realm

	// Define a global value
	DefineGlobal func(name string, value vm.Value) error
}

// Priority constants for initialization order
const (
	PriorityObject         = 0 // Object must be first (base prototype)
	PriorityFunction       = 1 // Function second (inherits from Object)
	PriorityIterator       = 2 // Iterator protocols (needed for iterables)
	PriorityArray          = 3 // Array third (inherits from Object, iterable)
	PriorityGenerator      = 5 // Generator objects (iterable)
	PriorityAsyncGenerator = 6 // AsyncGenerator objects (like Generator but promise-shaped)
	PriorityString         = 10
	PriorityNumber         = 11
	PriorityBoolean        = 12
	PrioritySymbol         = 13
	PriorityError          = 20  // Error family (prototype chain shared by subtypes)
	PriorityRegExp         = 30  // RegExp constructor
	PriorityArrayBuffer    = 40  // ArrayBuffer before the typed array views
	PriorityTypedArray     = 41  // %TypedArray% and the eight element kinds
	PriorityPromise        = 50  // Promise constructor
	PriorityDate           = 60  // Date constructor
	PriorityMath           = 100 // Math namespace
	PriorityJSON           = 101 // JSON namespace
	PriorityGlobals        = 110 // globalThis, NaN, parseInt, ...
)
