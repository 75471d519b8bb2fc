package domain

// History ordering: most recent date first. Two entries on the same date are
// unordered relative to each other; either placement is valid.

// Less reports whether a sorts before b in the history view, i.e. a's date
// is strictly later.
func Less(a, b WeightEntry) bool {
	return a.Date.After(b.Date)
}

// InsertPosition returns the index at which e belongs in a date-descending
// slice: the first index whose element e strictly postdates, or len(sorted)
// when e is not later than any existing element. A linear scan is fine at
// personal-log scale.
func InsertPosition(e WeightEntry, sorted []WeightEntry) int {
	for i, existing := range sorted {
		if Less(e, existing) {
			return i
		}
	}
	return len(sorted)
}

// Insert places e into a date-descending slice, preserving the sort
// invariant without re-sorting. The backing array of sorted may be reused.
func Insert(sorted []WeightEntry, e WeightEntry) []WeightEntry {
	i := InsertPosition(e, sorted)
	sorted = append(sorted, WeightEntry{})
	copy(sorted[i+1:], sorted[i:])
	sorted[i] = e
	return sorted
}
