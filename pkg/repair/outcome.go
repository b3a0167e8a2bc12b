package repair

// Result classifies what happened to one examined property or root.
type Result uint8

const (
	// Repaired: the data property was converted to an accessor pair.
	Repaired Result = iota
	// AlreadyAccessor: the property was an accessor before this pass.
	AlreadyAccessor
	// PropertyAbsent: no own property with that key.
	PropertyAbsent
	// NonConfigurable: the data property cannot be converted; recorded
	// and left alone.
	NonConfigurable
	// RootAbsent: a named intrinsic or wildcard target does not exist
	// on this runtime.
	RootAbsent
)

func (r Result) String() string {
	switch r {
	case Repaired:
		return "repaired"
	case AlreadyAccessor:
		return "already-accessor"
	case PropertyAbsent:
		return "property-absent"
	case NonConfigurable:
		return "non-configurable"
	case RootAbsent:
		return "root-absent"
	default:
		return "unknown"
	}
}

// Outcome records one examined property (or missing root) by its dotted
// path from the category root.
type Outcome struct {
	Path   string
	Result Result
}

// Filter returns the outcomes with the given result, preserving order.
func Filter(outcomes []Outcome, result Result) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Result == result {
			out = append(out, o)
		}
	}
	return out
}

// CountByResult tallies outcomes per result.
func CountByResult(outcomes []Outcome) map[Result]int {
	counts := make(map[Result]int)
	for _, o := range outcomes {
		counts[o.Result]++
	}
	return counts
}

// HasBlocked reports whether any property could not be converted. This
// is the one result a freeze-everything caller may want to treat as
// fatal; the engine itself never does.
func HasBlocked(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Result == NonConfigurable {
			return true
		}
	}
	return false
}
