package batch

// LegalTargets computes the set of statuses a drag-relocate may move a batch
// into from the given status. Active statuses may move one step back, stay put,
// or advance one step; ARCHIVED only re-enters the pipeline at IDEATION.
//
// The returned slice follows canonical order. Unknown statuses yield an empty
// set.
func LegalTargets(current Status) []Status {
	if current == StatusArchived {
		return []Status{StatusIdeation}
	}
	idx, err := OrderIndex(current)
	if err != nil {
		return nil
	}
	targets := make([]Status, 0, 3)
	if idx > 0 {
		targets = append(targets, canonicalOrder[idx-1])
	}
	targets = append(targets, canonicalOrder[idx])
	if idx < len(canonicalOrder)-1 {
		targets = append(targets, canonicalOrder[idx+1])
	}
	return targets
}

// CanMove reports whether a drop from one status onto another is legal.
// Dropping onto ARCHIVED is always legal regardless of adjacency; it is the
// archival escape valve.
func CanMove(from, to Status) bool {
	if !IsValidStatus(from) || !IsValidStatus(to) {
		return false
	}
	if to == StatusArchived {
		return true
	}
	for _, target := range LegalTargets(from) {
		if target == to {
			return true
		}
	}
	return false
}
