package step

// Placement is a step id and its ordinal within a plan.
type Placement struct {
	ID        int64
	SortOrder int
}

// InsertIndex resolves a 1-based insertion point for a plan holding count
// steps. A nil position appends; values are clamped into [1, count+1].
func InsertIndex(position *int, count int) int {
	if position == nil || *position > count+1 {
		return count + 1
	}
	if *position < 1 {
		return 1
	}
	return *position
}

// Renumber assigns ordinals 1..N in slice order and returns only the
// placements whose ordinal changed. Running it on its own output's
// ordering yields no changes.
func Renumber(ordered []Placement) []Placement {
	var changed []Placement
	for i, p := range ordered {
		want := i + 1
		if p.SortOrder != want {
			changed = append(changed, Placement{ID: p.ID, SortOrder: want})
		}
	}
	return changed
}

// Move relocates id to the 1-based position to within ordered, clamping to
// into [1, N]. It returns the new ordering and false when id is absent.
// Ordinals in the result are not yet renumbered.
func Move(ordered []Placement, id int64, to int) ([]Placement, bool) {
	from := -1
	for i, p := range ordered {
		if p.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return ordered, false
	}

	moving := ordered[from]
	rest := make([]Placement, 0, len(ordered))
	rest = append(rest, ordered[:from]...)
	rest = append(rest, ordered[from+1:]...)

	idx := to - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(rest) {
		idx = len(rest)
	}

	result := make([]Placement, 0, len(ordered))
	result = append(result, rest[:idx]...)
	result = append(result, moving)
	result = append(result, rest[idx:]...)
	return result, true
}
