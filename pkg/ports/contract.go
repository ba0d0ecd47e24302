package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSnapshotStoreContract runs a suite of tests to verify that a SnapshotStore
// implementation adheres to the defined interface contract.
func RunSnapshotStoreContract(t *testing.T, store SnapshotStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			RunID:     runID,
			Time:      12.5,
			Events:    7,
			Occupancy: map[string]int{"intake": 3, "ward": 4},
			TakenAt:   time.Now().UTC().Truncate(time.Second),
		}

		err := store.Save(ctx, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.RunID, loaded.RunID)
		assert.Equal(t, snap.Time, loaded.Time)
		assert.Equal(t, snap.Events, loaded.Events)
		assert.Equal(t, snap.Occupancy, loaded.Occupancy)
		assert.True(t, snap.TakenAt.Equal(loaded.TakenAt))
	})

	t.Run("Save Replaces", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Snapshot{RunID: runID, Time: 20, Occupancy: map[string]int{"ward": 7}}))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 20.0, loaded.Time)
		assert.Equal(t, map[string]int{"ward": 7}, loaded.Occupancy)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		loaded.Occupancy["ward"] = 999

		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 7, again.Occupancy["ward"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrSnapshotNotFound, "Load after Delete should return ErrSnapshotNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, &domain.Snapshot{RunID: id1, Occupancy: map[string]int{}})
		_ = store.Save(ctx, &domain.Snapshot{RunID: id2, Occupancy: map[string]int{}})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}

// RunTraceRecorderContract verifies that a TraceRecorder keeps entries per run
// in sequence order.
func RunTraceRecorderContract(t *testing.T, rec TraceRecorder) {
	ctx := context.Background()
	runID := "contract-trace-" + time.Now().Format("20060102150405")

	entries := []domain.TraceEntry{
		{RunID: runID, Seq: 2, Time: 1.5, AgentID: "a2", From: "intake", To: "ward", Kind: domain.KindMovement},
		{RunID: runID, Seq: 1, Time: 1, AgentID: "a1", From: "intake", To: "icu", Kind: domain.KindMovement},
		{RunID: runID + "-other", Seq: 1, Time: 0, AgentID: "a9", From: "x", To: "y", Kind: domain.KindMovement},
	}
	for _, e := range entries {
		require.NoError(t, rec.Record(ctx, e))
	}

	trace, err := rec.Trace(ctx, runID)
	require.NoError(t, err)
	require.Len(t, trace, 2)
	assert.Equal(t, entries[1], trace[0])
	assert.Equal(t, entries[0], trace[1])

	empty, err := rec.Trace(ctx, "missing-"+runID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
