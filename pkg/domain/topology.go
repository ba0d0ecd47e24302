package domain

import (
	"fmt"
	"log/slog"
)

// Topology holds the bubbles of one simulation keyed by slug, plus the
// connections created between them. Bubbles keep insertion order.
type Topology struct {
	bubbles     map[string]*Bubble
	order       []string
	connections []*Connection
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{
		bubbles: make(map[string]*Bubble),
	}
}

// Add registers a bubble. Slugs must be unique within a topology.
func (t *Topology) Add(b *Bubble) error {
	if _, exists := t.bubbles[b.Slug]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, b.Slug)
	}
	t.bubbles[b.Slug] = b
	t.order = append(t.order, b.Slug)
	return nil
}

// Connect creates a directed Connection between two registered bubbles.
func (t *Topology) Connect(from, to string) (*Connection, error) {
	start, ok := t.bubbles[from]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBubble, from)
	}
	end, ok := t.bubbles[to]
	if !ok {
		return nil, fmt.Errorf("%w: %q (from %q)", ErrUnknownBubble, to, from)
	}
	c := NewConnection(start, end)
	t.connections = append(t.connections, c)
	return c, nil
}

// Bubble looks up a bubble by slug.
func (t *Topology) Bubble(slug string) (*Bubble, bool) {
	b, ok := t.bubbles[slug]
	return b, ok
}

// Bubbles returns all bubbles in insertion order.
func (t *Topology) Bubbles() []*Bubble {
	out := make([]*Bubble, 0, len(t.order))
	for _, slug := range t.order {
		out = append(out, t.bubbles[slug])
	}
	return out
}

// Connections returns the connections created through Connect.
func (t *Topology) Connections() []*Connection {
	out := make([]*Connection, len(t.connections))
	copy(out, t.connections)
	return out
}

// Len returns the number of bubbles.
func (t *Topology) Len() int {
	return len(t.order)
}

// Occupancy returns the occupant count of every bubble.
func (t *Topology) Occupancy() map[string]int {
	occ := make(map[string]int, len(t.order))
	for slug, b := range t.bubbles {
		occ[slug] = b.Occupancy()
	}
	return occ
}

// Observe attaches a logger and hooks to every bubble.
func (t *Topology) Observe(logger *slog.Logger, hooks Hooks) {
	for _, b := range t.bubbles {
		b.Observe(logger, hooks)
	}
}
