package factory

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	// DistSuffix marks a key holding the weights of an attribute.
	DistSuffix = "_dist"
	// StatesSuffix marks a key holding the values of an attribute.
	StatesSuffix = "_states"
)

// Config is a flat key/value population configuration.
type Config map[string]any

// LoadConfig reads a YAML mapping into a Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		if err == io.EOF {
			return Config{}, nil
		}
		return nil, fmt.Errorf("failed to decode population config: %w", err)
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

// AttributeNames returns the attributes declared by "_dist" keys, sorted.
func (c Config) AttributeNames() []string {
	var names []string
	for key := range c {
		if strings.HasSuffix(key, DistSuffix) {
			names = append(names, strings.TrimSuffix(key, DistSuffix))
		}
	}
	sort.Strings(names)
	return names
}

// Distribution is a discrete distribution over the values of one attribute.
type Distribution struct {
	Name    string
	States  []any
	Weights []float64

	cumulative []float64
	total      float64
}

// NewDistribution validates the pairing of states and weights.
func NewDistribution(name string, states []any, weights []float64) (Distribution, error) {
	if len(states) != len(weights) {
		return Distribution{}, fmt.Errorf("%w: %s has %d states but %d weights",
			domain.ErrConfiguration, name, len(states), len(weights))
	}
	if len(states) == 0 {
		return Distribution{}, fmt.Errorf("%w: %s has no states", domain.ErrConfiguration, name)
	}

	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return Distribution{}, fmt.Errorf("%w: %s weight %d is negative (%g)",
				domain.ErrConfiguration, name, i, w)
		}
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return Distribution{}, fmt.Errorf("%w: %s weights sum to zero", domain.ErrConfiguration, name)
	}

	return Distribution{
		Name:       name,
		States:     states,
		Weights:    weights,
		cumulative: cum,
		total:      total,
	}, nil
}

// Sample draws one state. Each state is chosen with probability
// weight/total; states with zero weight are never chosen.
func (d Distribution) Sample(rng *rand.Rand) any {
	x := rng.Float64() * d.total
	i := sort.Search(len(d.cumulative), func(i int) bool {
		return d.cumulative[i] > x
	})
	if i >= len(d.States) {
		// Float rounding on the last bucket.
		i = len(d.States) - 1
	}
	return d.States[i]
}

// Distributions resolves every declared attribute of the config.
// A "_dist" key without its "_states" key is an ErrConfiguration.
func (c Config) Distributions() ([]Distribution, error) {
	names := c.AttributeNames()
	dists := make([]Distribution, 0, len(names))

	for _, name := range names {
		rawStates, ok := c[name+StatesSuffix]
		if !ok {
			return nil, fmt.Errorf("%w: %s%s declared without %s%s",
				domain.ErrConfiguration, name, DistSuffix, name, StatesSuffix)
		}

		var weights []float64
		if err := mapstructure.WeakDecode(c[name+DistSuffix], &weights); err != nil {
			return nil, fmt.Errorf("%w: %s%s: %v", domain.ErrConfiguration, name, DistSuffix, err)
		}

		var states []any
		if err := mapstructure.Decode(rawStates, &states); err != nil {
			return nil, fmt.Errorf("%w: %s%s: %v", domain.ErrConfiguration, name, StatesSuffix, err)
		}

		d, err := NewDistribution(name, states, weights)
		if err != nil {
			return nil, err
		}
		dists = append(dists, d)
	}

	return dists, nil
}
