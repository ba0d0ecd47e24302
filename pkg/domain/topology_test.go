package domain_test

import (
	"testing"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopology(t *testing.T) {
	topo := domain.NewTopology()
	require.NoError(t, topo.Add(domain.NewBubble("a", "A", 0)))
	require.NoError(t, topo.Add(domain.NewBubble("b", "B", 1)))

	t.Run("Duplicate slug", func(t *testing.T) {
		err := topo.Add(domain.NewBubble("a", "again", 0))
		assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
		assert.Equal(t, 2, topo.Len())
	})

	t.Run("Connect known bubbles", func(t *testing.T) {
		c, err := topo.Connect("a", "b")
		require.NoError(t, err)
		a, _ := topo.Bubble("a")
		b, _ := topo.Bubble("b")
		assert.Same(t, b, a.ConnectedBubble("b"))
		assert.Same(t, a, c.Start)
		assert.Len(t, topo.Connections(), 1)
	})

	t.Run("Connect unknown bubble", func(t *testing.T) {
		_, err := topo.Connect("a", "zzz")
		assert.ErrorIs(t, err, domain.ErrUnknownBubble)
		_, err = topo.Connect("zzz", "a")
		assert.ErrorIs(t, err, domain.ErrUnknownBubble)
	})

	t.Run("Insertion order and occupancy", func(t *testing.T) {
		bubbles := topo.Bubbles()
		require.Len(t, bubbles, 2)
		assert.Equal(t, "a", bubbles[0].Slug)
		assert.Equal(t, "b", bubbles[1].Slug)

		bubbles[0].AddAgent(domain.NewAgent(bubbles[0], nil))
		assert.Equal(t, map[string]int{"a": 1, "b": 0}, topo.Occupancy())
	})
}
