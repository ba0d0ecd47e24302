package compiler

import (
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/dsl"
	"github.com/aretw0/pathway/pkg/factory"
	"github.com/aretw0/pathway/pkg/policy"
)

// Compiled is a project resolved into runtime values.
type Compiled struct {
	Project    *Project
	Topology   *domain.Topology
	Routes     policy.Routes
	Population factory.Config
}

// Compile builds the topology and decodes the routing table.
// It does not check reachability or policy coverage; see the validator.
func Compile(proj *Project) (*Compiled, error) {
	b := dsl.New()
	seen := make(map[string]bool, len(proj.Bubbles))
	for _, spec := range proj.Bubbles {
		if seen[spec.Slug] {
			return nil, fmt.Errorf("failed to compile %q: %w: %s", proj.Name, domain.ErrDuplicateSlug, spec.Slug)
		}
		seen[spec.Slug] = true
		b.Add(spec.Slug).
			Describe(spec.Description).
			Depth(spec.Depth).
			Connect(spec.Connections...)
	}

	topo, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", proj.Name, err)
	}

	routes, err := policy.Decode(proj.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", proj.Name, err)
	}

	population := factory.Config(proj.Population)
	if population == nil {
		population = factory.Config{}
	}

	return &Compiled{
		Project:    proj,
		Topology:   topo,
		Routes:     routes,
		Population: population,
	}, nil
}
