package policy

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/factory"
	"github.com/mitchellh/mapstructure"
)

// Route is the routing entry of one bubble.
type Route struct {
	// Choose lists candidate destination slugs.
	Choose []string `mapstructure:"choose" yaml:"choose,omitempty" json:"choose,omitempty"`
	// Weights are relative; empty means uniform.
	Weights []float64 `mapstructure:"weights" yaml:"weights,omitempty" json:"weights,omitempty"`
	// Kind is "movement", "stay" or "none". Empty infers movement when Choose is set.
	Kind  string  `mapstructure:"kind" yaml:"kind,omitempty" json:"kind,omitempty"`
	Delay float64 `mapstructure:"delay" yaml:"delay,omitempty" json:"delay,omitempty"`
}

// TransitionKind resolves the configured kind.
func (r Route) TransitionKind() (domain.TransitionKind, error) {
	if r.Kind == "" && len(r.Choose) > 0 {
		return domain.KindMovement, nil
	}
	return domain.ParseTransitionKind(r.Kind)
}

// Routes maps bubble slugs to their Route.
type Routes map[string]Route

// Decode reads a raw routing table (as produced by a YAML or JSON decoder).
// Numeric fields are converted weakly; unknown keys are rejected.
func Decode(raw any) (Routes, error) {
	var routes Routes
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &routes,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build policy decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: policy: %v", domain.ErrConfiguration, err)
	}
	if routes == nil {
		routes = Routes{}
	}
	return routes, nil
}

// Slugs returns the bubbles covered by the table, sorted.
func (rs Routes) Slugs() []string {
	slugs := make([]string, 0, len(rs))
	for slug := range rs {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Targets returns the destinations a bubble's route can produce.
// Stay and undecided routes have none.
func (rs Routes) Targets(slug string) []string {
	r, ok := rs[slug]
	if !ok {
		return nil
	}
	kind, err := r.TransitionKind()
	if err != nil || kind != domain.KindMovement {
		return nil
	}
	return r.Choose
}

// Compile validates every route and builds the Policy.
// Deciders share rng; a nil rng is seeded from the clock.
func Compile(rs Routes, rng *rand.Rand) (domain.Policy, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := make(domain.Policy, len(rs))
	for _, slug := range rs.Slugs() {
		d, err := compileRoute(slug, rs[slug], rng)
		if err != nil {
			return nil, err
		}
		p[slug] = d
	}
	return p, nil
}

func compileRoute(slug string, r Route, rng *rand.Rand) (domain.Decider, error) {
	kind, err := r.TransitionKind()
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", slug, err)
	}
	if r.Delay < 0 {
		return nil, fmt.Errorf("%w: policy %q has negative delay %g", domain.ErrConfiguration, slug, r.Delay)
	}
	if math.IsNaN(r.Delay) || math.IsInf(r.Delay, 0) {
		return nil, fmt.Errorf("%w: policy %q has non-finite delay %g", domain.ErrConfiguration, slug, r.Delay)
	}

	switch kind {
	case domain.KindStay:
		return domain.Stay, nil
	case domain.KindUndecided:
		return func() domain.Decision { return domain.Decision{} }, nil
	}

	if len(r.Choose) == 0 {
		return nil, fmt.Errorf("%w: policy %q is a movement without destinations", domain.ErrConfiguration, slug)
	}

	weights := r.Weights
	if len(weights) == 0 {
		weights = make([]float64, len(r.Choose))
		for i := range weights {
			weights[i] = 1
		}
	}
	states := make([]any, len(r.Choose))
	for i, c := range r.Choose {
		states[i] = c
	}
	dist, err := factory.NewDistribution(slug, states, weights)
	if err != nil {
		return nil, fmt.Errorf("policy %q: %w", slug, err)
	}

	delay := r.Delay
	if len(r.Choose) == 1 {
		next := r.Choose[0]
		return func() domain.Decision { return domain.MoveAfter(next, delay) }, nil
	}
	return func() domain.Decision {
		return domain.MoveAfter(dist.Sample(rng).(string), delay)
	}, nil
}
