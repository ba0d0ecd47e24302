package dsl

import (
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/policy"
)

// Builder manages the topology construction.
type Builder struct {
	bubbles map[string]*BubbleBuilder
	order   []string
}

// New creates a new topology builder.
func New() *Builder {
	return &Builder{
		bubbles: make(map[string]*BubbleBuilder),
	}
}

// Add declares a bubble.
// If the bubble already exists, it returns the existing builder.
func (b *Builder) Add(slug string) *BubbleBuilder {
	if bb, ok := b.bubbles[slug]; ok {
		return bb
	}
	bb := &BubbleBuilder{slug: slug, builder: b}
	b.bubbles[slug] = bb
	b.order = append(b.order, slug)
	return bb
}

// Build creates the bubbles in declaration order and connects them.
// Edges to undeclared bubbles fail with domain.ErrUnknownBubble.
func (b *Builder) Build() (*domain.Topology, error) {
	topo := domain.NewTopology()
	for _, slug := range b.order {
		bb := b.bubbles[slug]
		if err := topo.Add(domain.NewBubble(slug, bb.description, bb.depth)); err != nil {
			return nil, err
		}
	}

	for _, slug := range b.order {
		for _, target := range b.bubbles[slug].edges {
			if _, err := topo.Connect(slug, target); err != nil {
				return nil, fmt.Errorf("failed to build topology: %w", err)
			}
		}
	}
	return topo, nil
}

// Routes returns the routing table of every bubble that declared one.
func (b *Builder) Routes() policy.Routes {
	routes := make(policy.Routes, len(b.bubbles))
	for slug, bb := range b.bubbles {
		if bb.route != nil {
			r := *bb.route
			r.Choose = append([]string(nil), r.Choose...)
			r.Weights = append([]float64(nil), r.Weights...)
			routes[slug] = r
		}
	}
	return routes
}
