package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/pathway/pkg/adapters/memory"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds a -> b -> c where every agent moves one step per time unit
// and stays at c.
func chain(t *testing.T) (*domain.Topology, domain.Policy) {
	t.Helper()
	topo := domain.NewTopology()
	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, topo.Add(domain.NewBubble(slug, slug, 0)))
	}
	_, err := topo.Connect("a", "b")
	require.NoError(t, err)
	_, err = topo.Connect("b", "c")
	require.NoError(t, err)

	policy := domain.Policy{
		"a": func() domain.Decision { return domain.MoveAfter("b", 1) },
		"b": func() domain.Decision { return domain.MoveAfter("c", 1) },
		"c": func() domain.Decision { return domain.Stay() },
	}
	return topo, policy
}

func place(t *testing.T, topo *domain.Topology, env domain.Environment, policy domain.Policy, n int) []*domain.Agent {
	t.Helper()
	start, ok := topo.Bubble("a")
	require.True(t, ok)
	agents := make([]*domain.Agent, n)
	for i := range agents {
		agents[i] = domain.NewAgent(start, env, domain.WithPolicy(policy))
		agents[i].MoveAgent(start)
	}
	return agents
}

func TestRunner_Drains(t *testing.T) {
	topo, policy := chain(t)
	env := memory.NewEnvironment()
	store := memory.NewStore()
	rec := memory.NewRecorder()

	var moves int
	r := runner.New(env, topo,
		runner.WithRunID("run-1"),
		runner.WithStore(store),
		runner.WithRecorder(rec),
		runner.WithHooks(domain.Hooks{
			OnMove: func(domain.MovementEvent) { moves++ },
		}),
	)

	require.NoError(t, r.Start(place(t, topo, env, policy, 3)...))
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, runner.StopDrained, res.Reason)
	assert.Equal(t, 6, res.Events)
	assert.Equal(t, 6, moves)
	assert.Equal(t, 2.0, res.Time)
	assert.Equal(t, map[string]int{"a": 0, "b": 0, "c": 3}, res.Occupancy)
	assert.Empty(t, res.Failures)

	snap, err := store.Load(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Events)
	assert.Equal(t, 3, snap.Occupancy["c"])

	trace, err := rec.Trace(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, trace, 6)
	assert.Equal(t, "a", trace[0].From)
	assert.Equal(t, "b", trace[0].To)
	assert.Equal(t, 1, trace[0].Seq)
	assert.Equal(t, "c", trace[5].To)
}

func TestRunner_NeverInTwoBubbles(t *testing.T) {
	topo, policy := chain(t)
	env := memory.NewEnvironment()

	total := func() int {
		sum := 0
		for _, n := range topo.Occupancy() {
			sum += n
		}
		return sum
	}

	r := runner.New(env, topo, runner.WithHooks(domain.Hooks{
		OnMove: func(ev domain.MovementEvent) {
			assert.Equal(t, 5, total())
			assert.Same(t, ev.Destination, ev.Agent.CurrentBubble())
		},
	}))
	require.NoError(t, r.Start(place(t, topo, env, policy, 5)...))
	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, total())
}

func TestRunner_Bounds(t *testing.T) {
	t.Run("Horizon", func(t *testing.T) {
		topo, policy := chain(t)
		env := memory.NewEnvironment()
		r := runner.New(env, topo, runner.WithHorizon(1.5))

		require.NoError(t, r.Start(place(t, topo, env, policy, 2)...))
		res, err := r.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, runner.StopHorizon, res.Reason)
		assert.Equal(t, 2, res.Events)
		assert.Equal(t, 2, res.Occupancy["b"])
		assert.Equal(t, 2, env.Len(), "events past the horizon stay queued")
	})

	t.Run("MaxEvents", func(t *testing.T) {
		topo, policy := chain(t)
		env := memory.NewEnvironment()
		r := runner.New(env, topo, runner.WithMaxEvents(3))

		require.NoError(t, r.Start(place(t, topo, env, policy, 2)...))
		res, err := r.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, runner.StopMaxEvents, res.Reason)
		assert.Equal(t, 3, res.Events)
	})

	t.Run("Canceled", func(t *testing.T) {
		topo, policy := chain(t)
		env := memory.NewEnvironment()
		store := memory.NewStore()
		r := runner.New(env, topo, runner.WithRunID("cancel"), runner.WithStore(store))

		require.NoError(t, r.Start(place(t, topo, env, policy, 1)...))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := r.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, runner.StopCanceled, res.Reason)
		assert.Zero(t, res.Events)

		_, err = store.Load(context.Background(), "cancel")
		assert.NoError(t, err, "partial run should still be persisted")
	})
}

func TestRunner_SnapshotEvery(t *testing.T) {
	topo, policy := chain(t)
	env := memory.NewEnvironment()
	store := &countingStore{Store: memory.NewStore()}
	r := runner.New(env, topo, runner.WithStore(store), runner.WithSnapshotEvery(2))

	require.NoError(t, r.Start(place(t, topo, env, policy, 2)...))
	_, err := r.Run(context.Background())
	require.NoError(t, err)

	// 4 events: two periodic snapshots plus the final one.
	assert.Equal(t, 3, store.saves)
}

func TestRunner_AgentErrors(t *testing.T) {
	broken := func(t *testing.T) (*domain.Topology, domain.Policy) {
		topo, policy := chain(t)
		policy["b"] = func() domain.Decision { return domain.MoveTo("missing") }
		return topo, policy
	}

	t.Run("Abort", func(t *testing.T) {
		topo, policy := broken(t)
		env := memory.NewEnvironment()
		r := runner.New(env, topo)

		require.NoError(t, r.Start(place(t, topo, env, policy, 1)...))
		res, err := r.Run(context.Background())
		assert.ErrorIs(t, err, domain.ErrRouting)
		assert.Equal(t, runner.StopFailed, res.Reason)
	})

	t.Run("Tolerate", func(t *testing.T) {
		topo, policy := broken(t)
		env := memory.NewEnvironment()
		r := runner.New(env, topo, runner.WithTolerateAgentErrors())

		require.NoError(t, r.Start(place(t, topo, env, policy, 2)...))
		res, err := r.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, runner.StopDrained, res.Reason)
		require.Len(t, res.Failures, 2)
		assert.Equal(t, "b", res.Failures[0].Bubble)
		assert.ErrorIs(t, res.Failures[0].Err, domain.ErrRouting)
		assert.Equal(t, 2, res.Occupancy["b"])
	})

	t.Run("MissingPolicyOnStart", func(t *testing.T) {
		topo, _ := chain(t)
		env := memory.NewEnvironment()
		r := runner.New(env, topo)

		err := r.Start(place(t, topo, env, domain.Policy{}, 1)...)
		assert.ErrorIs(t, err, domain.ErrRoutingPolicy)
	})
}

func TestRunner_StoreFailure(t *testing.T) {
	topo, policy := chain(t)
	env := memory.NewEnvironment()
	r := runner.New(env, topo, runner.WithStore(failingStore{Store: memory.NewStore()}))

	require.NoError(t, r.Start(place(t, topo, env, policy, 1)...))
	res, err := r.Run(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, runner.StopFailed, res.Reason)
}

type countingStore struct {
	*memory.Store
	saves int
}

func (s *countingStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.saves++
	return s.Store.Save(ctx, snap)
}

var errStoreDown = errors.New("store down")

type failingStore struct {
	*memory.Store
}

func (failingStore) Save(context.Context, *domain.Snapshot) error {
	return errStoreDown
}
