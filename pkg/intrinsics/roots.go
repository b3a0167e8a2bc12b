// Package intrinsics locates the repairable roots of a realm. Plans
// address intrinsics through two tables: named intrinsics sit on the
// global object under their own names, anonymous intrinsics have no
// global binding and are found the way sandbox code finds them, by
// constructing a throwaway instance and walking its prototype chain.
package intrinsics

import (
	"vetro/pkg/repair"
	"vetro/pkg/vm"
)

// Category names plans use at their top level.
const (
	NamedCategory     = "namedIntrinsics"
	AnonymousCategory = "anonIntrinsics"
)

// Roots assembles both intrinsic tables in the repair engine's root
// mapping shape.
func Roots(realm *vm.Realm) repair.Roots {
	return repair.Roots{
		NamedCategory:     Named(realm),
		AnonymousCategory: Anonymous(realm),
	}
}
