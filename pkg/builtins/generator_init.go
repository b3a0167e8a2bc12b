package builtins

import (
	"vetro/pkg/vm"
)

// GeneratorInitializer wires the generator function family:
// %GeneratorFunction% -> %Generator% -> %GeneratorPrototype%. None of
// these have a global name; hosts reach them through the realm, real
// scripts through instance prototype chains. Without a compiler there
// are no live generator objects, so the prototype methods reject every
// receiver, but the graph itself is complete and repairable.
type GeneratorInitializer struct{}

func (g *GeneratorInitializer) Name() string {
	return "Generator"
}

func (g *GeneratorInitializer) Priority() int {
	return PriorityGenerator
}

func (g *GeneratorInitializer) Init(ctx *RuntimeContext) error {
	realm := ctx.Realm
	f := false
	tr := true

	ctor := vm.NewConstructorWithProps(1, true, "GeneratorFunction", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, realm.NewTypeError("GeneratorFunction constructor is not available in this runtime")
	})
	ctor.AsNativeFunction().Props().DefineOwnProperty("prototype", realm.GeneratorFunctionPrototype, &f, &f, &tr)
	realm.GeneratorFunctionConstructor = ctor

	// %Generator% (= GeneratorFunction.prototype)
	generator := realm.GeneratorFunctionPrototype.AsPlainObject()
	generator.DefineOwnProperty("constructor", ctor, &f, &f, &tr)
	generator.DefineOwnProperty("prototype", realm.GeneratorPrototype, &f, &f, &tr)
	generator.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("GeneratorFunction"), &f, &f, &tr)

	// %GeneratorPrototype%
	generatorProto := realm.GeneratorPrototype.AsPlainObject()
	generatorProto.DefineOwnProperty("constructor", realm.GeneratorFunctionPrototype, &f, &f, &tr)
	for _, method := range []string{"next", "return", "throw"} {
		name := method
		generatorProto.SetOwnNonEnumerable(name, vm.NewNativeFunction(1, false, name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
			return vm.Undefined, realm.NewTypeError("Generator.prototype." + name + " called on incompatible receiver")
		}))
	}
	generatorProto.DefineOwnPropertyByKey(vm.NewSymbolKey(realm.SymbolToStringTag), vm.NewString("Generator"), &f, &f, &tr)

	return nil
}
