package repair

import (
	"vetro/pkg/vm"
)

// expandWildcard repairs every own property of target. The key list is
// snapshotted up front, so shadows planted by setters during the pass
// (or any other mutation) do not extend the walk.
func (e *Engine) expandWildcard(outcomes []Outcome, guard *visitGuard, path string, target vm.Value) []Outcome {
	holder := vm.PropertyHolder(target)
	if holder == nil {
		return append(outcomes, Outcome{Path: path, Result: RootAbsent})
	}
	if !guard.enterWildcard(holder) {
		debugPrintf("expandWildcard: %s already expanded\n", path)
		return outcomes
	}
	for _, key := range holder.OwnPropertyKeys() {
		outcomes = append(outcomes, Outcome{
			Path:   joinPath(path, key.String()),
			Result: e.repairProperty(holder, key),
		})
	}
	return outcomes
}

// RepairWildcard repairs every own property of obj, outside any plan
// walk. Outcome paths are the bare property keys.
func (e *Engine) RepairWildcard(obj vm.Value) []Outcome {
	if vm.PropertyHolder(obj) == nil {
		return []Outcome{{Path: "*", Result: RootAbsent}}
	}
	return e.expandWildcard(nil, newVisitGuard(), "", obj)
}
