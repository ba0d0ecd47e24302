package domain

// SnapshotDiff describes the occupancy changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on a client.
type SnapshotDiff struct {
	RunID string `json:"run_id"`

	// Time is set when the clock moved.
	Time *float64 `json:"time,omitempty"`

	// Occupancy holds the new count of every bubble whose count changed.
	// Bubbles that disappeared are reported with 0.
	Occupancy map[string]int `json:"occupancy,omitempty"`

	// Events is the number of events fired between the two snapshots.
	Events int `json:"events,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, the diff carries the whole of newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{RunID: newSnap.RunID}

	if oldSnap == nil || oldSnap.Time != newSnap.Time {
		t := newSnap.Time
		diff.Time = &t
	}

	if oldSnap == nil {
		diff.Events = newSnap.Events
	} else if newSnap.Events > oldSnap.Events {
		diff.Events = newSnap.Events - oldSnap.Events
	}

	diff.Occupancy = diffOccupancy(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffOccupancy(old, new *Snapshot) map[string]int {
	delta := make(map[string]int)

	if old == nil {
		for k, v := range new.Occupancy {
			delta[k] = v
		}
		return delta
	}

	for k, n := range new.Occupancy {
		if o, exists := old.Occupancy[k]; !exists || o != n {
			delta[k] = n
		}
	}
	for k := range old.Occupancy {
		if _, exists := new.Occupancy[k]; !exists {
			delta[k] = 0
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Time == nil && d.Events == 0 && len(d.Occupancy) == 0
}
