/*
Package ports defines the driven ports (interfaces) of a pathway simulation.

These interfaces decouple the runner from storage backends so the same run can
persist to memory, Redis or SQLite.

# Key Interfaces

  - SnapshotStore: persists occupancy snapshots keyed by run ID.
  - TraceRecorder: appends one entry per fired movement event.

The Environment the core schedules against lives in package domain, next to
the Agent that consumes it.
*/
package ports
