package domain

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Bubble represents a state or location an agent can occupy.
// It is a plain container: routing decisions live in Agent, and slug uniqueness
// is enforced by Topology (or left to the caller when bubbles are used directly).
type Bubble struct {
	ID          uuid.UUID
	Slug        string
	Description string
	Depth       int

	agents      []*Agent
	connections []*Bubble

	logger *slog.Logger
	hooks  Hooks
}

// NewBubble creates a bubble with a fresh identity and no occupants or edges.
func NewBubble(slug, description string, depth int) *Bubble {
	return &Bubble{
		ID:          uuid.New(),
		Slug:        slug,
		Description: description,
		Depth:       depth,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Observe attaches a logger and lifecycle hooks to the bubble.
// A nil logger keeps the current one.
func (b *Bubble) Observe(logger *slog.Logger, hooks Hooks) {
	if logger != nil {
		b.logger = logger
	}
	b.hooks = hooks
}

func (b *Bubble) String() string {
	return fmt.Sprintf("Bubble: %s - %s", b.Slug, b.Description)
}

// Occupancy returns the number of agents currently in the bubble.
func (b *Bubble) Occupancy() int {
	return len(b.agents)
}

// Waiting returns the number of agents queued for the bubble.
// Plain bubbles have no queue.
func (b *Bubble) Waiting() int {
	return 0
}

// Occupants returns a copy of the occupant list.
func (b *Bubble) Occupants() []*Agent {
	out := make([]*Agent, len(b.agents))
	copy(out, b.agents)
	return out
}

// AddAgent inserts the agent into the occupant set.
// Membership is not deduplicated: adding the same agent twice counts it twice.
func (b *Bubble) AddAgent(agent *Agent) {
	b.logger.Debug("adding agent", "bubble", b.Slug, "agent", agent.ID)
	b.agents = append(b.agents, agent)
}

// RemoveAgent removes the first occurrence of the agent.
// Removing an agent that is not present is reported (log + OnMembershipError)
// and otherwise ignored; occupancy is unchanged.
func (b *Bubble) RemoveAgent(agent *Agent) {
	for i, a := range b.agents {
		if a == agent {
			b.logger.Debug("removing agent", "bubble", b.Slug, "agent", agent.ID)
			b.agents = append(b.agents[:i], b.agents[i+1:]...)
			return
		}
	}

	current := "None"
	if agent.current != nil {
		current = agent.current.Slug
	}
	b.logger.Warn("attempted to remove agent not present in bubble",
		"bubble", b.Slug,
		"agent", agent.ID,
		"agent_bubble", current,
	)
	if b.hooks.OnMembershipError != nil {
		b.hooks.OnMembershipError(b, agent)
	}
}

// Connect appends an outgoing edge to other.
// Duplicate edges and self-loops are accepted.
func (b *Bubble) Connect(other *Bubble) {
	b.connections = append(b.connections, other)
}

// ConnectedBubble returns the first outgoing edge target with the given slug,
// or nil if there is none.
func (b *Bubble) ConnectedBubble(slug string) *Bubble {
	for _, c := range b.connections {
		if c.Slug == slug {
			return c
		}
	}
	return nil
}

// Connections returns a copy of the outgoing edge targets in insertion order.
func (b *Bubble) Connections() []*Bubble {
	out := make([]*Bubble, len(b.connections))
	copy(out, b.connections)
	return out
}
