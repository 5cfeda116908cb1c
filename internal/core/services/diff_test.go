package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffIDs(t *testing.T) {
	tests := []struct {
		name        string
		previous    []string
		current     []string
		wantAdded   []string
		wantRemoved []string
	}{
		{
			name:        "snapshot swap",
			previous:    []string{"m2"},
			current:     []string{"m1"},
			wantAdded:   []string{"m1"},
			wantRemoved: []string{"m2"},
		},
		{
			name:     "no change",
			previous: []string{"m1", "m2"},
			current:  []string{"m1", "m2"},
		},
		{
			name:      "all new",
			previous:  nil,
			current:   []string{"a", "b"},
			wantAdded: []string{"a", "b"},
		},
		{
			name:        "all gone",
			previous:    []string{"a", "b"},
			current:     nil,
			wantRemoved: []string{"a", "b"},
		},
		{
			name:        "order follows source sequences",
			previous:    []string{"z", "a", "m"},
			current:     []string{"c", "a", "b"},
			wantAdded:   []string{"c", "b"},
			wantRemoved: []string{"z", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := DiffIDs(tt.previous, tt.current)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)

			// added and removed are disjoint
			for _, a := range added {
				assert.NotContains(t, removed, a)
			}
			// added ∪ (curr ∩ prev) == curr, removed ∪ (curr ∩ prev) == prev
			assert.ElementsMatch(t, tt.current, union(added, intersect(tt.current, tt.previous)))
			assert.ElementsMatch(t, tt.previous, union(removed, intersect(tt.current, tt.previous)))
		})
	}
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func union(a, b []string) []string {
	out := append([]string{}, a...)
	return append(out, b...)
}
