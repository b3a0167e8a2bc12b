package repair

import (
	"vetro/pkg/vm"
)

type subtreeKey struct {
	holder *vm.PlainObject
	node   *Node
}

// visitGuard keeps one pass from expanding the same object twice.
// Aliased intrinsics (Object.prototype reachable both as a named root
// and via constructor.prototype) and cyclic plans would otherwise loop
// or duplicate outcomes. A fresh guard is made per Repair call so
// repeated passes stay idempotent at the property level, not blocked
// at the object level.
type visitGuard struct {
	wildcards map[*vm.PlainObject]struct{}
	subtrees  map[subtreeKey]struct{}
}

func newVisitGuard() *visitGuard {
	return &visitGuard{
		wildcards: make(map[*vm.PlainObject]struct{}),
		subtrees:  make(map[subtreeKey]struct{}),
	}
}

// enterWildcard reports whether this holder still needs a wildcard
// expansion, marking it visited either way.
func (g *visitGuard) enterWildcard(holder *vm.PlainObject) bool {
	if _, seen := g.wildcards[holder]; seen {
		return false
	}
	g.wildcards[holder] = struct{}{}
	return true
}

// enterSubtree reports whether this (holder, plan node) pair still
// needs walking. The node is part of the key: two plan branches may
// legitimately reach the same object with different child sets.
func (g *visitGuard) enterSubtree(holder *vm.PlainObject, node *Node) bool {
	key := subtreeKey{holder: holder, node: node}
	if _, seen := g.subtrees[key]; seen {
		return false
	}
	g.subtrees[key] = struct{}{}
	return true
}
