package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff // nil means no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &Snapshot{RunID: "run-1", Time: 0, Events: 0, Occupancy: map[string]int{"intake": 10}},
			wantDiff: &SnapshotDiff{
				RunID:     "run-1",
				Time:      ptr(0.0),
				Occupancy: map[string]int{"intake": 10},
			},
		},
		{
			name:     "No Changes",
			old:      &Snapshot{RunID: "run-1", Time: 3, Events: 4, Occupancy: map[string]int{"a": 1}},
			new:      &Snapshot{RunID: "run-1", Time: 3, Events: 4, Occupancy: map[string]int{"a": 1}},
			wantDiff: nil,
		},
		{
			name: "Agents Moved",
			old:  &Snapshot{RunID: "run-1", Time: 3, Events: 4, Occupancy: map[string]int{"a": 2, "b": 0}},
			new:  &Snapshot{RunID: "run-1", Time: 5, Events: 6, Occupancy: map[string]int{"a": 0, "b": 2}},
			wantDiff: &SnapshotDiff{
				RunID:     "run-1",
				Time:      ptr(5.0),
				Events:    2,
				Occupancy: map[string]int{"a": 0, "b": 2},
			},
		},
		{
			name: "Bubble Dropped",
			old:  &Snapshot{Occupancy: map[string]int{"a": 1, "b": 2}},
			new:  &Snapshot{Occupancy: map[string]int{"a": 1}},
			wantDiff: &SnapshotDiff{
				Occupancy: map[string]int{"b": 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	s1 := &Snapshot{RunID: "r", Time: 1, Occupancy: map[string]int{"a": 1}}
	s2 := &Snapshot{RunID: "r", Time: 2, Occupancy: map[string]int{"a": 1}}
	diff := Diff(s1, s2)
	require.NotNil(t, diff)

	bytes, err := json.Marshal(diff)
	require.NoError(t, err)
	if strings.Contains(string(bytes), `"occupancy"`) {
		t.Errorf("JSON should not contain 'occupancy' when unchanged, got: %s", string(bytes))
	}
}

func ptr[T any](v T) *T {
	return &v
}
