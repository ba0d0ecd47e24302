package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/pathway/pkg/domain"
)

// Recorder implements ports.TraceRecorder in memory.
// Safe for concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	entries map[string][]domain.TraceEntry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		entries: make(map[string][]domain.TraceEntry),
	}
}

// Record appends an entry to its run.
func (r *Recorder) Record(ctx context.Context, entry domain.TraceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.RunID] = append(r.entries[entry.RunID], entry)
	return nil
}

// Trace returns a copy of the run's entries ordered by sequence number.
func (r *Recorder) Trace(ctx context.Context, runID string) ([]domain.TraceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TraceEntry, len(r.entries[runID]))
	copy(out, r.entries[runID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}
