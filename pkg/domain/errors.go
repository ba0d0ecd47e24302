package domain

import "errors"

// ErrRoutingPolicy is returned when an agent has no policy entry for the bubble it occupies.
var ErrRoutingPolicy = errors.New("no routing policy for bubble")

// ErrUndecidedTransition is returned when a policy resolves to an undecided transition kind.
var ErrUndecidedTransition = errors.New("undecided transition")

// ErrRouting is returned when a policy names a destination with no matching outgoing edge.
var ErrRouting = errors.New("no connected bubble")

// ErrConfiguration is returned when a distribution or policy configuration is malformed.
var ErrConfiguration = errors.New("invalid configuration")

// ErrFactoryNotReady is returned when agents are requested before an environment is attached.
var ErrFactoryNotReady = errors.New("factory has no environment attached")

// ErrNoEnvironment is returned when an agent tries to schedule without an environment.
var ErrNoEnvironment = errors.New("agent has no environment")

// ErrScheduleInPast is returned by environments when an event time is behind the clock.
var ErrScheduleInPast = errors.New("event scheduled before current time")

// ErrDuplicateSlug is returned when a topology already holds a bubble with the same slug.
var ErrDuplicateSlug = errors.New("duplicate bubble slug")

// ErrUnknownBubble is returned when a slug does not name a bubble of the topology.
var ErrUnknownBubble = errors.New("unknown bubble")

// ErrSnapshotNotFound is returned when a run ID cannot be found in the snapshot store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
