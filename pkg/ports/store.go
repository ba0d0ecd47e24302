package ports

import (
	"context"

	"github.com/aretw0/pathway/pkg/domain"
)

// SnapshotStore defines the interface for persisting occupancy snapshots.
type SnapshotStore interface {
	// Save persists the latest snapshot for a run, replacing any previous one.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// Load retrieves the latest snapshot of a run.
	// Returns domain.ErrSnapshotNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Snapshot, error)

	// Delete removes the snapshot of a run.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of stored runs.
	List(ctx context.Context) ([]string, error)
}

// TraceRecorder defines the interface for recording fired movement events.
type TraceRecorder interface {
	// Record appends one entry to the run's trace.
	Record(ctx context.Context, entry domain.TraceEntry) error

	// Trace returns the entries of a run ordered by sequence number.
	Trace(ctx context.Context, runID string) ([]domain.TraceEntry, error)
}
