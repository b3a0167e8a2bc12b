package repair

import (
	"vetro/pkg/vm"
)

// Roots maps category names to tables of intrinsic root values. The
// two conventional categories are "namedIntrinsics" (keyed by global
// binding name) and "anonIntrinsics" (keyed by agreed label for
// intrinsics with no global binding, like "TypedArray").
type Roots map[string]map[string]vm.Value

// Engine applies repair plans to objects of a single realm. Lookups
// inside a plan walk use the realm's full property access semantics,
// so a plan path can cross getters and prototype chains the same way
// script code would.
type Engine struct {
	realm *vm.Realm
}

func New(realm *vm.Realm) *Engine {
	return &Engine{realm: realm}
}

// Repair drives plan over roots and returns one outcome per examined
// property or unresolvable path. It never fails: missing roots,
// non-object path steps and non-configurable properties are all
// reported in the outcome list, and the walk continues past them.
//
// The plan root must be a subtree of categories, each category child a
// subtree keyed by intrinsic name. Anything else at those two levels
// is ignored: a category is a lookup table, not a repairable object.
func (e *Engine) Repair(roots Roots, plan *Node) []Outcome {
	if plan == nil || plan.Kind() != KindSubtree {
		return nil
	}
	guard := newVisitGuard()
	var outcomes []Outcome
	for _, category := range plan.ChildNames() {
		node, _ := plan.Child(category)
		if node.Kind() != KindSubtree {
			continue
		}
		outcomes = e.repairCategory(outcomes, guard, category, roots[category], node)
	}
	return outcomes
}

func (e *Engine) repairCategory(outcomes []Outcome, guard *visitGuard, category string, table map[string]vm.Value, node *Node) []Outcome {
	for _, name := range node.ChildNames() {
		child, _ := node.Child(name)
		if child.Kind() == KindSkip || child.Kind() == KindRepair {
			// A bare repair leaf at this level would target the table
			// itself, which is not an object.
			continue
		}
		path := joinPath(category, name)
		root, ok := table[name]
		if !ok || vm.PropertyHolder(root) == nil {
			outcomes = append(outcomes, Outcome{Path: path, Result: RootAbsent})
			continue
		}
		if child.Kind() == KindWildcard {
			outcomes = e.expandWildcard(outcomes, guard, path, root)
		} else {
			outcomes = e.walkSubtree(outcomes, guard, path, root, child)
		}
	}
	return outcomes
}

// walkSubtree processes node's children against owner. Repair leaves
// act on owner's own properties directly; wildcard and subtree children
// resolve their name through the realm first and then descend.
func (e *Engine) walkSubtree(outcomes []Outcome, guard *visitGuard, path string, owner vm.Value, node *Node) []Outcome {
	holder := vm.PropertyHolder(owner)
	if !guard.enterSubtree(holder, node) {
		debugPrintf("walkSubtree: %s already walked under this node\n", path)
		return outcomes
	}
	for _, name := range node.ChildNames() {
		child, _ := node.Child(name)
		if child.Kind() == KindSkip {
			continue
		}
		childPath := joinPath(path, name)
		if child.Kind() == KindRepair {
			outcomes = append(outcomes, Outcome{
				Path:   childPath,
				Result: e.repairProperty(holder, vm.NewStringKey(name)),
			})
			continue
		}
		value, err := e.realm.Get(owner, name)
		if err != nil || vm.PropertyHolder(value) == nil {
			debugPrintf("walkSubtree: %s did not resolve to an object (err=%v)\n", childPath, err)
			outcomes = append(outcomes, Outcome{Path: childPath, Result: RootAbsent})
			continue
		}
		if child.Kind() == KindWildcard {
			outcomes = e.expandWildcard(outcomes, guard, childPath, value)
		} else {
			outcomes = e.walkSubtree(outcomes, guard, childPath, value, child)
		}
	}
	return outcomes
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
