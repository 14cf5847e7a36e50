package operation

// GroupFilter decides whether an operation with the given groups takes part in an execution.
type GroupFilter func(groups []string) bool

// Always accepts every operation.
func Always() GroupFilter {
	return func([]string) bool { return true }
}

// AnyOf accepts operations sharing at least one group with want.
// With no groups it accepts everything.
func AnyOf(want ...string) GroupFilter {
	if len(want) == 0 {
		return Always()
	}

	set := toSet(want)

	return func(groups []string) bool {
		for _, g := range groups {
			if _, ok := set[g]; ok {
				return true
			}
		}

		return false
	}
}

// AllOf accepts operations carrying every group in want.
func AllOf(want ...string) GroupFilter {
	return func(groups []string) bool {
		set := toSet(groups)
		for _, g := range want {
			if _, ok := set[g]; !ok {
				return false
			}
		}

		return true
	}
}

// NoneOf accepts operations sharing no group with exclude.
func NoneOf(exclude ...string) GroupFilter {
	set := toSet(exclude)

	return func(groups []string) bool {
		for _, g := range groups {
			if _, ok := set[g]; ok {
				return false
			}
		}

		return true
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}
