package repair

import (
	"testing"

	"vetro/pkg/vm"
)

// buildErrorFamily wires a minimal constructor/prototype pair with the
// usual mutual references, the shape the engine sees in a real realm.
func buildErrorFamily() (ctor, proto vm.Value) {
	proto = vm.NewObject(vm.Null)
	po := proto.AsPlainObject()
	po.SetOwnNonEnumerable("message", vm.NewString(""))
	po.SetOwnNonEnumerable("name", vm.NewString("Error"))
	ctor = vm.NewNativeFunction(1, false, "Error", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.Undefined, nil
	})
	ctor.AsNativeFunction().Props().SetOwnNonEnumerable("prototype", proto)
	po.SetOwnNonEnumerable("constructor", ctor)
	return ctor, proto
}

func TestRepairPlanWalk(t *testing.T) {
	eng, _ := newTestEngine()
	ctor, proto := buildErrorFamily()
	roots := Roots{"namedIntrinsics": {"Error": ctor}}

	plan := Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("Error", Subtree().
			AddChild("prototype", Subtree().
				AddChild("message", RepairLeaf()).
				AddChild("name", RepairLeaf()).
				AddChild("stack", RepairLeaf()))))

	outcomes := eng.Repair(roots, plan)
	want := []Outcome{
		{Path: "namedIntrinsics.Error.prototype.message", Result: Repaired},
		{Path: "namedIntrinsics.Error.prototype.name", Result: Repaired},
		{Path: "namedIntrinsics.Error.prototype.stack", Result: PropertyAbsent},
	}
	if len(outcomes) != len(want) {
		t.Fatalf("expected %d outcomes, got %d: %v", len(want), len(outcomes), outcomes)
	}
	for i, w := range want {
		if outcomes[i] != w {
			t.Errorf("outcome %d: expected %+v, got %+v", i, w, outcomes[i])
		}
	}

	if _, _, _, _, isAccessor := proto.AsPlainObject().GetOwnAccessorByKey(vm.NewStringKey("message")); !isAccessor {
		t.Errorf("plan walk should have converted Error.prototype.message")
	}
}

func TestRepairPlanWildcard(t *testing.T) {
	eng, _ := newTestEngine()
	obj := vm.NewObject(vm.Null)
	po := obj.AsPlainObject()
	po.SetOwn("b", vm.IntegerValue(1))
	po.SetOwn("0", vm.IntegerValue(2))
	po.SetOwn("a", vm.IntegerValue(3))
	sym := vm.NewSymbol("Symbol.iterator")
	po.SetOwnByKey(vm.NewSymbolKey(sym), vm.IntegerValue(4))

	plan := Subtree().AddChild("anonIntrinsics", Subtree().
		AddChild("IteratorPrototype", WildcardLeaf()))
	outcomes := eng.Repair(Roots{"anonIntrinsics": {"IteratorPrototype": obj}}, plan)

	// Integer-like keys first, then insertion order, then symbols.
	wantPaths := []string{
		"anonIntrinsics.IteratorPrototype.0",
		"anonIntrinsics.IteratorPrototype.b",
		"anonIntrinsics.IteratorPrototype.a",
		"anonIntrinsics.IteratorPrototype.Symbol(Symbol.iterator)",
	}
	if len(outcomes) != len(wantPaths) {
		t.Fatalf("expected %d outcomes, got %d: %v", len(wantPaths), len(outcomes), outcomes)
	}
	for i, path := range wantPaths {
		if outcomes[i].Path != path {
			t.Errorf("outcome %d: expected path %q, got %q", i, path, outcomes[i].Path)
		}
		if outcomes[i].Result != Repaired {
			t.Errorf("outcome %d: expected Repaired, got %v", i, outcomes[i].Result)
		}
	}
}

func TestRepairMissingRoots(t *testing.T) {
	eng, _ := newTestEngine()
	ctor, _ := buildErrorFamily()
	roots := Roots{"namedIntrinsics": {"Error": ctor}}

	plan := Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("WeakRef", Subtree().AddChild("prototype", WildcardLeaf())).
		AddChild("Error", Subtree().
			AddChild("notAnObject", Subtree().AddChild("x", RepairLeaf()))))

	outcomes := eng.Repair(roots, plan)
	want := []Outcome{
		{Path: "namedIntrinsics.WeakRef", Result: RootAbsent},
		{Path: "namedIntrinsics.Error.notAnObject", Result: RootAbsent},
	}
	if len(outcomes) != len(want) {
		t.Fatalf("expected %d outcomes, got %d: %v", len(want), len(outcomes), outcomes)
	}
	for i, w := range want {
		if outcomes[i] != w {
			t.Errorf("outcome %d: expected %+v, got %+v", i, w, outcomes[i])
		}
	}
}

func TestRepairMissingCategory(t *testing.T) {
	eng, _ := newTestEngine()
	plan := Subtree().AddChild("anonIntrinsics", Subtree().
		AddChild("TypedArray", WildcardLeaf()))
	outcomes := eng.Repair(Roots{}, plan)
	if len(outcomes) != 1 || outcomes[0].Result != RootAbsent {
		t.Fatalf("expected a single RootAbsent for a missing category entry, got %v", outcomes)
	}
	if outcomes[0].Path != "anonIntrinsics.TypedArray" {
		t.Errorf("expected path 'anonIntrinsics.TypedArray', got %q", outcomes[0].Path)
	}
}

func TestRepairPlanShapeRules(t *testing.T) {
	eng, _ := newTestEngine()
	ctor, _ := buildErrorFamily()
	roots := Roots{"namedIntrinsics": {"Error": ctor}}

	// A non-subtree plan root repairs nothing.
	if out := eng.Repair(roots, RepairLeaf()); out != nil {
		t.Errorf("non-subtree plan root should yield nil, got %v", out)
	}
	if out := eng.Repair(roots, nil); out != nil {
		t.Errorf("nil plan should yield nil, got %v", out)
	}

	// A non-subtree category is ignored: a category is a table, not an object.
	plan := Subtree().AddChild("namedIntrinsics", WildcardLeaf())
	if out := eng.Repair(roots, plan); len(out) != 0 {
		t.Errorf("wildcard category should be ignored, got %v", out)
	}

	// A repair leaf at intrinsic level has no owner object behind it.
	plan = Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("Error", RepairLeaf()).
		AddChild("Absent", RepairLeaf()))
	if out := eng.Repair(roots, plan); len(out) != 0 {
		t.Errorf("repair leaves under a category should be skipped, got %v", out)
	}
}

func TestRepairCyclicObjectGraph(t *testing.T) {
	eng, _ := newTestEngine()
	ctor, _ := buildErrorFamily()
	roots := Roots{"namedIntrinsics": {"Error": ctor}}

	// prototype.constructor leads back to the root; a finite plan just
	// walks the loop as far as it specifies.
	plan := Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("Error", Subtree().
			AddChild("prototype", Subtree().
				AddChild("constructor", Subtree().
					AddChild("prototype", Subtree().
						AddChild("message", RepairLeaf()))))))
	outcomes := eng.Repair(roots, plan)
	if len(outcomes) != 1 || outcomes[0].Result != Repaired {
		t.Fatalf("expected one Repaired through the cycle, got %v", outcomes)
	}
	wantPath := "namedIntrinsics.Error.prototype.constructor.prototype.message"
	if outcomes[0].Path != wantPath {
		t.Errorf("expected path %q, got %q", wantPath, outcomes[0].Path)
	}
}

func TestRepairCyclicPlanTerminates(t *testing.T) {
	eng, _ := newTestEngine()
	obj := vm.NewObject(vm.Null)
	obj.AsPlainObject().SetOwn("self", obj)
	obj.AsPlainObject().SetOwn("value", vm.IntegerValue(1))

	// A self-referential plan over a self-referential object must stop
	// once the (object, node) pair repeats.
	loop := Subtree().AddChild("value", RepairLeaf())
	loop.AddChild("self", loop)
	plan := Subtree().AddChild("namedIntrinsics", Subtree().AddChild("knot", loop))

	outcomes := eng.Repair(Roots{"namedIntrinsics": {"knot": obj}}, plan)
	if len(outcomes) != 1 {
		t.Fatalf("expected exactly one outcome from the cyclic walk, got %d: %v", len(outcomes), outcomes)
	}
	if outcomes[0].Path != "namedIntrinsics.knot.value" || outcomes[0].Result != Repaired {
		t.Errorf("unexpected outcome %+v", outcomes[0])
	}
}

func TestRepairSharedObjectAcrossRoots(t *testing.T) {
	eng, _ := newTestEngine()
	obj := vm.NewObject(vm.Null)
	obj.AsPlainObject().SetOwn("x", vm.IntegerValue(1))

	// The same object registered under two names is expanded once per pass.
	plan := Subtree().AddChild("anonIntrinsics", Subtree().
		AddChild("first", WildcardLeaf()).
		AddChild("second", WildcardLeaf()))
	outcomes := eng.Repair(Roots{"anonIntrinsics": {"first": obj, "second": obj}}, plan)
	if len(outcomes) != 1 {
		t.Fatalf("expected one outcome for the aliased object, got %d: %v", len(outcomes), outcomes)
	}
	if outcomes[0].Path != "anonIntrinsics.first.x" {
		t.Errorf("expected expansion under the first alias, got %q", outcomes[0].Path)
	}
}

func TestRepairSecondPassIsInert(t *testing.T) {
	eng, realm := newTestEngine()
	ctor, proto := buildErrorFamily()
	roots := Roots{"namedIntrinsics": {"Error": ctor}}
	plan := Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("Error", Subtree().
			AddChild("prototype", WildcardLeaf())))

	first := eng.Repair(roots, plan)
	second := eng.Repair(roots, plan)
	if len(first) != len(second) {
		t.Fatalf("passes disagree on outcome count: %d vs %d", len(first), len(second))
	}
	for i, o := range second {
		if o.Result == Repaired {
			t.Errorf("second pass repaired %q again", o.Path)
		}
		if o.Path != first[i].Path {
			t.Errorf("outcome %d: paths diverged between passes: %q vs %q", i, first[i].Path, o.Path)
		}
	}
	if v, err := realm.Get(proto, "name"); err != nil || v.AsString() != "Error" {
		t.Errorf("reads should be stable across passes, got %s (err=%v)", v.Inspect(), err)
	}
}

func TestRepairResolvesThroughAccessorPath(t *testing.T) {
	eng, _ := newTestEngine()
	inner := vm.NewObject(vm.Null)
	inner.AsPlainObject().SetOwn("value", vm.IntegerValue(7))
	outer := vm.NewObject(vm.Null)
	tr := true
	getter := vm.NewNativeFunction(0, false, "get indirect", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return inner, nil
	})
	outer.AsPlainObject().DefineAccessorProperty("indirect", getter, true, vm.Undefined, false, &tr, &tr)

	plan := Subtree().AddChild("namedIntrinsics", Subtree().
		AddChild("Outer", Subtree().
			AddChild("indirect", Subtree().
				AddChild("value", RepairLeaf()))))
	outcomes := eng.Repair(Roots{"namedIntrinsics": {"Outer": outer}}, plan)
	if len(outcomes) != 1 || outcomes[0].Result != Repaired {
		t.Fatalf("expected the walk to cross the getter, got %v", outcomes)
	}
	if _, _, _, _, isAccessor := inner.AsPlainObject().GetOwnAccessorByKey(vm.NewStringKey("value")); !isAccessor {
		t.Errorf("inner.value should have been repaired through the accessor path")
	}
}

func TestOutcomeHelpers(t *testing.T) {
	outcomes := []Outcome{
		{Path: "a", Result: Repaired},
		{Path: "b", Result: NonConfigurable},
		{Path: "c", Result: Repaired},
		{Path: "d", Result: RootAbsent},
	}
	repaired := Filter(outcomes, Repaired)
	if len(repaired) != 2 || repaired[0].Path != "a" || repaired[1].Path != "c" {
		t.Errorf("Filter(Repaired) wrong: %v", repaired)
	}
	counts := CountByResult(outcomes)
	if counts[Repaired] != 2 || counts[NonConfigurable] != 1 || counts[RootAbsent] != 1 {
		t.Errorf("CountByResult wrong: %v", counts)
	}
	if !HasBlocked(outcomes) {
		t.Errorf("HasBlocked should see the NonConfigurable outcome")
	}
	if HasBlocked(repaired) {
		t.Errorf("HasBlocked should be false without NonConfigurable outcomes")
	}
}

func TestResultString(t *testing.T) {
	tests := []struct {
		result Result
		want   string
	}{
		{Repaired, "repaired"},
		{AlreadyAccessor, "already-accessor"},
		{PropertyAbsent, "property-absent"},
		{NonConfigurable, "non-configurable"},
		{RootAbsent, "root-absent"},
		{Result(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.result.String(); got != tt.want {
			t.Errorf("Result(%d).String(): expected %q, got %q", tt.result, tt.want, got)
		}
	}
}
