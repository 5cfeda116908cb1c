package services

// DiffIDs compares a previous id snapshot with the current one. Added
// ids keep current-list order, removed ids keep previous-list order.
// Both empty means no change.
func DiffIDs(previous, current []string) (added, removed []string) {
	prevSet := make(map[string]struct{}, len(previous))
	for _, id := range previous {
		prevSet[id] = struct{}{}
	}
	currSet := make(map[string]struct{}, len(current))
	for _, id := range current {
		currSet[id] = struct{}{}
	}

	for _, id := range current {
		if _, ok := prevSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range previous {
		if _, ok := currSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}
