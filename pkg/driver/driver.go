// Package driver provides the embedding entry point: a session that
// owns a realm, knows the default repair plan, and runs repairs over
// the realm's discovered intrinsic roots.
package driver

import (
	_ "embed"
	"fmt"

	"vetro/pkg/builtins"
	"vetro/pkg/intrinsics"
	"vetro/pkg/repair"
	"vetro/pkg/vm"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

//go:embed enablements.yaml
var defaultEnablements []byte

// Vetro is a persistent embedding session. It maintains one realm with
// initialized builtins, so repairs and subsequent host reads all see
// the same primordial graph.
type Vetro struct {
	realm  *vm.Realm
	engine *repair.Engine
}

// New creates a session with a fresh realm and all standard builtins.
func New() (*Vetro, error) {
	realm := vm.NewRealm()
	if err := builtins.InitializeRuntime(realm); err != nil {
		return nil, fmt.Errorf("initializing realm builtins: %w", err)
	}
	return &Vetro{realm: realm, engine: repair.New(realm)}, nil
}

// Realm exposes the session realm for host embedding.
func (v *Vetro) Realm() *vm.Realm { return v.realm }

// Roots discovers the session realm's intrinsic root mapping.
func (v *Vetro) Roots() repair.Roots { return intrinsics.Roots(v.realm) }

// DefaultPlan decodes the embedded default enablements document: the
// data properties popular packages are known to assign through
// inheriting objects. The shipped document always decodes cleanly;
// diagnostics can only come from hand-edited copies.
func DefaultPlan() *repair.Node {
	plan, diags := repair.DecodeYAML(defaultEnablements)
	for _, d := range diags {
		debugPrintf("default plan diagnostic: %v\n", d)
	}
	return plan
}

// Repair runs the default plan over the session realm.
func (v *Vetro) Repair() []repair.Outcome {
	return v.RepairWith(DefaultPlan())
}

// RepairWith runs a caller-supplied plan over the session realm.
func (v *Vetro) RepairWith(plan *repair.Node) []repair.Outcome {
	return v.engine.Repair(v.Roots(), plan)
}
