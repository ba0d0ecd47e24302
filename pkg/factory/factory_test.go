package factory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEnv struct{ now float64 }

func (e *fixedEnv) Now() float64 {
	return e.now
}

func (e *fixedEnv) Schedule(ev domain.MovementEvent) error {
	return nil
}

type person struct {
	*domain.Agent
	Group string `mapstructure:"group"`
	Age   int    `mapstructure:"age"`
}

func newPerson(p factory.Params) (*person, error) {
	v := &person{Agent: domain.NewAgent(p.Bubble, p.Environment)}
	if err := p.Decode(v); err != nil {
		return nil, err
	}
	return v, nil
}

func TestFactory_DeterministicBoundary(t *testing.T) {
	cfg := factory.Config{
		"group_dist":   []any{0, 1},
		"group_states": []any{"a", "b"},
	}
	f, err := factory.New(cfg, newPerson, factory.WithSeed(7))
	require.NoError(t, err)
	f.ConnectEnvironment(&fixedEnv{})

	start := domain.NewBubble("start", "Start", 0)
	agents, err := f.CreateAgents(1000, start)
	require.NoError(t, err)
	require.Len(t, agents, 1000)

	for _, a := range agents {
		require.Equal(t, "b", a.Group)
	}
	assert.Equal(t, 1000, start.Occupancy())
}

func TestFactory_MissingStates(t *testing.T) {
	cfg := factory.Config{
		"group_dist": []any{1, 1},
	}
	built := 0
	_, err := factory.New(cfg, func(p factory.Params) (*person, error) {
		built++
		return newPerson(p)
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, built)
}

func TestFactory_InvalidDistributions(t *testing.T) {
	tests := []struct {
		name string
		cfg  factory.Config
	}{
		{
			name: "Length Mismatch",
			cfg:  factory.Config{"g_dist": []any{1, 2}, "g_states": []any{"x"}},
		},
		{
			name: "Negative Weight",
			cfg:  factory.Config{"g_dist": []any{1, -1}, "g_states": []any{"x", "y"}},
		},
		{
			name: "All Zero",
			cfg:  factory.Config{"g_dist": []any{0, 0}, "g_states": []any{"x", "y"}},
		},
		{
			name: "Non Numeric Weight",
			cfg:  factory.Config{"g_dist": []any{"heavy"}, "g_states": []any{"x"}},
		},
		{
			name: "States Not A List",
			cfg:  factory.Config{"g_dist": []any{1}, "g_states": "x"},
		},
		{
			name: "Empty",
			cfg:  factory.Config{"g_dist": []any{}, "g_states": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.New(tt.cfg, newPerson)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestFactory_NotReady(t *testing.T) {
	f, err := factory.New(factory.Config{}, newPerson)
	require.NoError(t, err)

	_, err = f.CreateAgent(domain.NewBubble("s", "", 0))
	assert.ErrorIs(t, err, domain.ErrFactoryNotReady)

	_, err = f.CreateAgents(3, domain.NewBubble("s", "", 0))
	assert.ErrorIs(t, err, domain.ErrFactoryNotReady)
}

func TestFactory_NegativeCount(t *testing.T) {
	f, err := factory.New(factory.Config{}, newPerson)
	require.NoError(t, err)
	f.ConnectEnvironment(&fixedEnv{})

	start := domain.NewBubble("s", "", 0)
	assert.NotPanics(t, func() {
		_, err = f.CreateAgents(-1, start)
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Zero(t, start.Occupancy())

	agents, err := f.CreateAgents(0, start)
	require.NoError(t, err)
	assert.Empty(t, agents)
}

func TestFactory_AgentBinding(t *testing.T) {
	cfg := factory.Config{
		"age_dist":   []any{1},
		"age_states": []any{"42"},
	}
	f, err := factory.New(cfg, newPerson)
	require.NoError(t, err)
	env := &fixedEnv{now: 3}
	f.ConnectEnvironment(env)

	start := domain.NewBubble("start", "Start", 0)
	p, err := f.CreateAgent(start)
	require.NoError(t, err)

	assert.Equal(t, 42, p.Age, "weakly decoded from string state")
	assert.Same(t, start, p.CurrentBubble())
	assert.Same(t, env, p.Environment())
	assert.Equal(t, []*domain.Agent{p.Agent}, start.Occupants())
	assert.Equal(t, []string{"age"}, f.Attributes())
}

func TestFactory_ConstructorError(t *testing.T) {
	boom := errors.New("unsupported attribute")
	f, err := factory.New(factory.Config{}, func(p factory.Params) (*person, error) {
		return nil, boom
	})
	require.NoError(t, err)
	f.ConnectEnvironment(&fixedEnv{})

	start := domain.NewBubble("start", "", 0)
	_, err = f.CreateAgent(start)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, start.Occupancy())
}

func TestFactory_SeedReproducible(t *testing.T) {
	cfg := factory.Config{
		"group_dist":   []any{1, 1, 1},
		"group_states": []any{"a", "b", "c"},
		"age_dist":     []any{0.5, 0.5},
		"age_states":   []any{30, 60},
	}

	draw := func() []string {
		f, err := factory.New(cfg, newPerson, factory.WithSeed(99))
		require.NoError(t, err)
		f.ConnectEnvironment(&fixedEnv{})
		agents, err := f.CreateAgents(50, domain.NewBubble("s", "", 0))
		require.NoError(t, err)
		out := make([]string, len(agents))
		for i, a := range agents {
			out[i] = a.Group
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}

func TestFactory_RelativeWeights(t *testing.T) {
	cfg := factory.Config{
		"group_dist":   []any{1, 3},
		"group_states": []any{"rare", "common"},
	}
	f, err := factory.New(cfg, newPerson, factory.WithSeed(1))
	require.NoError(t, err)
	f.ConnectEnvironment(&fixedEnv{})

	const n = 4000
	agents, err := f.CreateAgents(n, domain.NewBubble("s", "", 0))
	require.NoError(t, err)

	common := 0
	for _, a := range agents {
		if a.Group == "common" {
			common++
		}
	}
	share := float64(common) / n
	assert.InDelta(t, 0.75, share, 0.05)
}

func TestFactory_Hooks(t *testing.T) {
	stays := 0
	f, err := factory.New(factory.Config{}, func(p factory.Params) (*person, error) {
		v, err := newPerson(p)
		if err != nil {
			return nil, err
		}
		v.SetPolicy(domain.Policy{"s": domain.Stay})
		return v, nil
	}, factory.WithHooks(domain.Hooks{
		OnStay: func(*domain.Agent, *domain.Bubble) { stays++ },
	}))
	require.NoError(t, err)
	f.ConnectEnvironment(&fixedEnv{})

	p, err := f.CreateAgent(domain.NewBubble("s", "", 0))
	require.NoError(t, err)
	require.NoError(t, p.DecideAndSchedule())
	assert.Equal(t, 1, stays)
}

func TestLoadConfig(t *testing.T) {
	doc := `
symptom_severity_dist: [0.2, 0.5, 0.3]
symptom_severity_states: [mild, moderate, severe]
episode_duration_dist: [1, 1]
episode_duration_states: [acute, chronic]
unrelated: true
`
	cfg, err := factory.LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"episode_duration", "symptom_severity"}, cfg.AttributeNames())

	dists, err := cfg.Distributions()
	require.NoError(t, err)
	require.Len(t, dists, 2)
	assert.Equal(t, []float64{0.2, 0.5, 0.3}, dists[1].Weights)
	assert.Equal(t, []any{"mild", "moderate", "severe"}, dists[1].States)

	empty, err := factory.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)
}
