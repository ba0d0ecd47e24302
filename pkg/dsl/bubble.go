package dsl

import "github.com/aretw0/pathway/pkg/policy"

// BubbleBuilder provides a fluent API for configuring a bubble.
type BubbleBuilder struct {
	slug        string
	description string
	depth       int
	edges       []string
	route       *policy.Route

	builder *Builder
}

// Describe sets the human-readable description.
func (n *BubbleBuilder) Describe(description string) *BubbleBuilder {
	n.description = description
	return n
}

// Depth sets the nesting level.
func (n *BubbleBuilder) Depth(depth int) *BubbleBuilder {
	n.depth = depth
	return n
}

// Connect adds edges without touching the routing entry.
func (n *BubbleBuilder) Connect(targets ...string) *BubbleBuilder {
	n.edges = append(n.edges, targets...)
	return n
}

// Go adds edges to targets and makes them candidate destinations of a movement.
func (n *BubbleBuilder) Go(targets ...string) *BubbleBuilder {
	n.edges = append(n.edges, targets...)
	r := n.ensureRoute()
	r.Kind = "movement"
	r.Choose = append(r.Choose, targets...)
	return n
}

// Weights sets the relative weights of the Go destinations.
func (n *BubbleBuilder) Weights(weights ...float64) *BubbleBuilder {
	n.ensureRoute().Weights = weights
	return n
}

// Delay sets the time between arriving and the next scheduled movement.
func (n *BubbleBuilder) Delay(delay float64) *BubbleBuilder {
	n.ensureRoute().Delay = delay
	return n
}

// Stay marks the bubble as terminal: agents decide to remain.
func (n *BubbleBuilder) Stay() *BubbleBuilder {
	r := n.ensureRoute()
	r.Kind = "stay"
	r.Choose = nil
	r.Weights = nil
	return n
}

// Add continues with another bubble.
func (n *BubbleBuilder) Add(slug string) *BubbleBuilder {
	return n.builder.Add(slug)
}

func (n *BubbleBuilder) ensureRoute() *policy.Route {
	if n.route == nil {
		n.route = &policy.Route{}
	}
	return n.route
}
