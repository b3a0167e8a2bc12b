package vm

// Realm represents an isolated JavaScript-style environment: a global
// object, the built-in prototypes, and the intrinsics hanging off them.
// Host code drives it directly through Go calls; there is no script
// execution surface.
type Realm struct {
	// Global environment
	GlobalObject *PlainObject

	// Built-in prototypes
	ObjectPrototype         Value
	FunctionPrototype       Value
	ArrayPrototype          Value
	StringPrototype         Value
	NumberPrototype         Value
	BooleanPrototype        Value
	SymbolPrototype         Value
	RegExpPrototype         Value
	DatePrototype           Value
	PromisePrototype        Value
	ErrorPrototype          Value
	TypeErrorPrototype      Value
	ReferenceErrorPrototype Value
	SyntaxErrorPrototype    Value
	RangeErrorPrototype     Value
	URIErrorPrototype       Value
	EvalErrorPrototype      Value

	// Iterator prototypes
	IteratorPrototype      Value // %Iterator.prototype% - base for all iterators
	AsyncIteratorPrototype Value
	ArrayIteratorPrototype Value

	// Generator and async-function prototypes
	GeneratorPrototype              Value
	AsyncGeneratorPrototype         Value
	GeneratorFunctionPrototype      Value // %GeneratorFunction.prototype%
	AsyncGeneratorFunctionPrototype Value // %AsyncGeneratorFunction.prototype%
	AsyncFunctionPrototype          Value

	// TypedArray prototypes
	TypedArrayPrototype   Value // Abstract %TypedArray%.prototype
	Int8ArrayPrototype    Value
	Uint8ArrayPrototype   Value
	Int16ArrayPrototype   Value
	Uint16ArrayPrototype  Value
	Int32ArrayPrototype   Value
	Uint32ArrayPrototype  Value
	Float32ArrayPrototype Value
	Float64ArrayPrototype Value
	ArrayBufferPrototype  Value

	// Constructors (cached for error creation and anonymous intrinsics;
	// the generator/async constructors are reachable only from here and
	// from instance prototype chains, never from a global name)
	ObjectConstructor                 Value
	FunctionConstructor               Value
	ArrayConstructor                  Value
	ErrorConstructor                  Value
	TypedArrayConstructor             Value // Abstract %TypedArray% constructor
	GeneratorFunctionConstructor      Value
	AsyncFunctionConstructor          Value
	AsyncGeneratorFunctionConstructor Value

	// Well-known symbols
	SymbolIterator      Value
	SymbolAsyncIterator Value
	SymbolToStringTag   Value
	SymbolHasInstance   Value
	SymbolSpecies       Value

	// Symbol registry for Symbol.for()
	SymbolRegistry map[string]Value

	// Initialization state
	initialized bool
}

// NewRealm creates a realm with its prototype graph and well-known
// symbols in place. The prototypes are still bare: run the builtin
// initializers to populate them.
func NewRealm() *Realm {
	r := &Realm{
		SymbolRegistry: make(map[string]Value),
	}
	r.InitializeSymbols()
	r.InitializePrototypes()
	return r
}

// InitializePrototypes creates the prototype chain for this realm.
// This sets up the inheritance hierarchy for all built-in types.
func (r *Realm) InitializePrototypes() {
	// Object.prototype is the root (inherits from null)
	r.ObjectPrototype = NewObject(Null)

	// Core prototypes inherit from Object.prototype
	r.FunctionPrototype = NewObject(r.ObjectPrototype)
	r.ArrayPrototype = NewObject(r.ObjectPrototype)
	r.StringPrototype = NewObject(r.ObjectPrototype)
	r.NumberPrototype = NewObject(r.ObjectPrototype)
	r.BooleanPrototype = NewObject(r.ObjectPrototype)
	r.SymbolPrototype = NewObject(r.ObjectPrototype)
	r.RegExpPrototype = NewObject(r.ObjectPrototype)
	r.DatePrototype = NewObject(r.ObjectPrototype)
	r.PromisePrototype = NewObject(r.ObjectPrototype)
	r.ArrayBufferPrototype = NewObject(r.ObjectPrototype)

	// Error prototypes
	r.ErrorPrototype = NewObject(r.ObjectPrototype)
	r.TypeErrorPrototype = NewObject(r.ErrorPrototype)
	r.ReferenceErrorPrototype = NewObject(r.ErrorPrototype)
	r.SyntaxErrorPrototype = NewObject(r.ErrorPrototype)
	r.RangeErrorPrototype = NewObject(r.ErrorPrototype)
	r.URIErrorPrototype = NewObject(r.ErrorPrototype)
	r.EvalErrorPrototype = NewObject(r.ErrorPrototype)

	// TypedArray prototypes share the abstract %TypedArray%.prototype
	r.TypedArrayPrototype = NewObject(r.ObjectPrototype)
	r.Int8ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Uint8ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Int16ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Uint16ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Int32ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Uint32ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Float32ArrayPrototype = NewObject(r.TypedArrayPrototype)
	r.Float64ArrayPrototype = NewObject(r.TypedArrayPrototype)

	// Iterator prototypes
	r.IteratorPrototype = NewObject(r.ObjectPrototype)
	r.AsyncIteratorPrototype = NewObject(r.ObjectPrototype)
	r.ArrayIteratorPrototype = NewObject(r.IteratorPrototype)

	// Generator and async-function prototypes
	r.GeneratorPrototype = NewObject(r.IteratorPrototype)
	r.AsyncGeneratorPrototype = NewObject(r.AsyncIteratorPrototype)
	r.GeneratorFunctionPrototype = NewObject(r.FunctionPrototype)
	r.AsyncGeneratorFunctionPrototype = NewObject(r.FunctionPrototype)
	r.AsyncFunctionPrototype = NewObject(r.FunctionPrototype)

	// Create global object with ObjectPrototype in chain
	r.GlobalObject = NewObject(r.ObjectPrototype).AsPlainObject()
}

// InitializeSymbols creates well-known symbols for this realm.
// Each realm has its own set of symbols.
func (r *Realm) InitializeSymbols() {
	r.SymbolIterator = NewSymbol("Symbol.iterator")
	r.SymbolAsyncIterator = NewSymbol("Symbol.asyncIterator")
	r.SymbolToStringTag = NewSymbol("Symbol.toStringTag")
	r.SymbolHasInstance = NewSymbol("Symbol.hasInstance")
	r.SymbolSpecies = NewSymbol("Symbol.species")
}

// SymbolFor returns the registry symbol for key, creating it on first use.
func (r *Realm) SymbolFor(key string) Value {
	if sym, ok := r.SymbolRegistry[key]; ok {
		return sym
	}
	sym := NewSymbol(key)
	r.SymbolRegistry[key] = sym
	return sym
}

// GetGlobal retrieves a global binding by name from this realm.
func (r *Realm) GetGlobal(name string) (Value, bool) {
	return r.GlobalObject.GetOwn(name)
}

// SetGlobal assigns a global binding in this realm.
func (r *Realm) SetGlobal(name string, value Value) {
	r.GlobalObject.SetOwn(name, value)
}

// DefineGlobal defines a global the way engines install built-ins:
// writable and configurable but not enumerable.
func (r *Realm) DefineGlobal(name string, value Value) error {
	if !r.GlobalObject.SetOwnNonEnumerable(name, value) {
		return r.NewTypeError("cannot define global '" + name + "'")
	}
	return nil
}

// MarkInitialized marks this realm as fully initialized.
func (r *Realm) MarkInitialized() {
	r.initialized = true
}

// IsInitialized returns true if this realm has been fully initialized.
func (r *Realm) IsInitialized() bool {
	return r.initialized
}
