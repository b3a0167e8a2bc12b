package driver

import (
	"testing"

	"vetro/pkg/intrinsics"
	"vetro/pkg/repair"
	"vetro/pkg/vm"
)

func newSession(t *testing.T) *Vetro {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return v
}

func TestNewSession(t *testing.T) {
	v := newSession(t)
	realm := v.Realm()
	if realm == nil {
		t.Fatal("session has no realm")
	}
	if _, ok := realm.GetGlobal("Object"); !ok {
		t.Error("session realm has no Object global")
	}
	roots := v.Roots()
	if len(roots[intrinsics.NamedCategory]) == 0 || len(roots[intrinsics.AnonymousCategory]) == 0 {
		t.Error("session roots are missing a category")
	}
}

func TestDefaultPlanShape(t *testing.T) {
	plan := DefaultPlan()
	if plan == nil || plan.Kind() != repair.KindSubtree {
		t.Fatal("default plan did not decode to a subtree")
	}

	named, ok := plan.Child(intrinsics.NamedCategory)
	if !ok {
		t.Fatal("default plan has no namedIntrinsics category")
	}
	objectNode, ok := named.Child("Object")
	if !ok {
		t.Fatal("default plan does not cover Object")
	}
	if proto, ok := objectNode.Child("prototype"); !ok || proto.Kind() != repair.KindWildcard {
		t.Error("Object.prototype should be a wildcard")
	}
	errorNode, ok := named.Child("Error")
	if !ok {
		t.Fatal("default plan does not cover Error")
	}
	errorProto, ok := errorNode.Child("prototype")
	if !ok || errorProto.Kind() != repair.KindSubtree {
		t.Fatal("Error.prototype should be a subtree")
	}
	if leaf, ok := errorProto.Child("message"); !ok || leaf.Kind() != repair.KindRepair {
		t.Error("Error.prototype.message should be a repair leaf")
	}

	anon, ok := plan.Child(intrinsics.AnonymousCategory)
	if !ok {
		t.Fatal("default plan has no anonIntrinsics category")
	}
	if iter, ok := anon.Child("IteratorPrototype"); !ok || iter.Kind() != repair.KindWildcard {
		t.Error("IteratorPrototype should be a wildcard")
	}
}

func TestRepairDefaults(t *testing.T) {
	v := newSession(t)
	outcomes := v.Repair()
	if len(outcomes) == 0 {
		t.Fatal("default repair produced no outcomes")
	}

	byPath := make(map[string]repair.Result, len(outcomes))
	for _, o := range outcomes {
		byPath[o.Path] = o.Result
	}

	expected := map[string]repair.Result{
		"namedIntrinsics.Error.prototype.message":  repair.Repaired,
		"namedIntrinsics.Error.prototype.toString": repair.Repaired,
		// No stack traces in this runtime, so the entry only reports.
		"namedIntrinsics.Error.prototype.stack": repair.PropertyAbsent,
		// Array.prototype.length is non-configurable, as in every real
		// engine; the wildcard records it and moves on.
		"namedIntrinsics.Array.prototype.length":                 repair.NonConfigurable,
		"namedIntrinsics.Promise.prototype.constructor":          repair.Repaired,
		"anonIntrinsics.GeneratorFunction.prototype.constructor": repair.Repaired,
	}
	for path, want := range expected {
		got, ok := byPath[path]
		if !ok {
			t.Errorf("no outcome recorded for %s", path)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s, want %s", path, got, want)
		}
	}

	// Every root the default plan names exists in a full realm.
	for _, o := range outcomes {
		if o.Result == repair.RootAbsent {
			t.Errorf("unexpected absent root at %s", o.Path)
		}
	}
	if !repair.HasBlocked(outcomes) {
		t.Error("expected the Array.prototype.length outcome to count as blocked")
	}

	// The repaired property is now an own accessor on Error.prototype.
	holder := vm.PropertyHolder(v.Realm().ErrorPrototype)
	if _, _, _, _, isAccessor := holder.GetOwnAccessorByKey(vm.NewStringKey("message")); !isAccessor {
		t.Error("Error.prototype.message is not an accessor after repair")
	}
}

func TestRepairTwiceIsIdempotent(t *testing.T) {
	v := newSession(t)
	first := v.Repair()
	second := v.Repair()

	if len(first) != len(second) {
		t.Errorf("outcome count changed between runs: %d then %d", len(first), len(second))
	}
	if repaired := repair.Filter(second, repair.Repaired); len(repaired) != 0 {
		t.Errorf("second run repaired %d properties again, want 0", len(repaired))
	}
	if already := repair.Filter(second, repair.AlreadyAccessor); len(already) == 0 {
		t.Error("second run should see the first run's accessors")
	}
}

func TestRepairWithCustomPlan(t *testing.T) {
	v := newSession(t)
	plan := repair.FromGeneric(map[string]interface{}{
		intrinsics.NamedCategory: map[string]interface{}{
			"Math": "*",
		},
	})

	outcomes := v.RepairWith(plan)
	if len(repair.Filter(outcomes, repair.Repaired)) == 0 {
		t.Fatal("custom plan repaired nothing under Math")
	}

	// Values still read through after the rewrite to accessors.
	realm := v.Realm()
	mathObj, _ := realm.GetGlobal("Math")
	floor, err := realm.Get(mathObj, "floor")
	if err != nil {
		t.Fatalf("reading Math.floor after repair: %v", err)
	}
	if !floor.IsCallable() {
		t.Error("Math.floor no longer callable after repair")
	}
	pi, err := realm.Get(mathObj, "PI")
	if err != nil || pi.ToFloat() < 3.14 || pi.ToFloat() > 3.15 {
		t.Errorf("Math.PI read %s after repair (err=%v)", pi.Inspect(), err)
	}
}
