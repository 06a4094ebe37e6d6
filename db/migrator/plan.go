package migrator

import (
	"fmt"
	"slices"
)

// Plan is the ordered sequence of versions to run in a single invocation.
type Plan struct {
	Direction Direction
	Versions  []string
}

// Resolve computes the plan for running scripts in the given direction.
//
// available are the versions with a script in that direction, and applied are
// the versions recorded in the ledger. When migrating, the candidates are the
// available versions that haven't been applied, in ascending order. When
// rolling back, they are the applied versions that have a rollback script, in
// descending order.
//
// If stopAt is not empty, the plan ends with that version. It must be one of
// the candidates, otherwise a StopVersionUnreachableError is returned.
func Resolve(direction Direction, available, applied []string, stopAt string) (*Plan, error) {
	var candidates []string
	switch direction {
	case Migrate:
		candidates = difference(available, applied)
	case Rollback:
		candidates = intersection(applied, available)
	default:
		return nil, fmt.Errorf("invalid direction %s", direction)
	}

	if stopAt != "" && !slices.ContainsFunc(candidates, func(v string) bool {
		return CompareVersions(v, stopAt) == 0
	}) {
		return nil, &StopVersionUnreachableError{Direction: direction, Version: stopAt}
	}

	slices.SortFunc(candidates, CompareVersions)
	if direction == Rollback {
		slices.Reverse(candidates)
	}

	if stopAt != "" {
		idx := slices.IndexFunc(candidates, func(v string) bool {
			return CompareVersions(v, stopAt) == 0
		})
		candidates = candidates[:idx+1]
	}

	return &Plan{Direction: direction, Versions: candidates}, nil
}

// difference returns the elements of a that are not in b.
func difference(a, b []string) []string {
	set := versionSet(b)
	diff := []string{}
	for _, v := range a {
		if _, ok := set[versionKey(v)]; !ok {
			diff = append(diff, v)
		}
	}

	return diff
}

// intersection returns the elements of a that are also in b.
func intersection(a, b []string) []string {
	set := versionSet(b)
	common := []string{}
	for _, v := range a {
		if _, ok := set[versionKey(v)]; ok {
			common = append(common, v)
		}
	}

	return common
}

func versionSet(versions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		set[versionKey(v)] = struct{}{}
	}

	return set
}
