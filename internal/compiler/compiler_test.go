package compiler_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/pathway/internal/compiler"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const project = `
name: trd
seed: 42
horizon: 100
max_events: 500
start: intake
agents: 10
bubbles:
  - slug: intake
    description: Intake assessment
    connections: [ad, ap]
  - slug: ad
    depth: 1
    connections: [remission]
  - slug: ap
    depth: 1
    connections: [remission]
  - slug: remission
policy:
  intake: {choose: [ad, ap], weights: [2, 1], delay: 1}
  ad: {choose: [remission]}
  ap: {choose: [remission]}
  remission: {kind: stay}
population:
  severity_dist: [1, 2]
  severity_states: [mild, severe]
storage:
  redis: {addr: "localhost:6379", ttl: 1h}
  sqlite: {path: trace.db}
`

func TestParse(t *testing.T) {
	proj, err := compiler.NewParser().Parse([]byte(project))
	require.NoError(t, err)

	assert.Equal(t, "trd", proj.Name)
	require.NotNil(t, proj.Seed)
	assert.Equal(t, int64(42), *proj.Seed)
	assert.Equal(t, 100.0, proj.Horizon)
	assert.Equal(t, 500, proj.MaxEvents)
	assert.Equal(t, "intake", proj.Start)
	assert.Equal(t, 10, proj.Agents)
	require.Len(t, proj.Bubbles, 4)
	assert.Equal(t, []string{"ad", "ap"}, proj.Bubbles[0].Connections)
	require.NotNil(t, proj.Storage.Redis)
	assert.Equal(t, time.Hour, proj.Storage.Redis.TTL)
	require.NotNil(t, proj.Storage.SQLite)
	assert.Equal(t, "trace.db", proj.Storage.SQLite.Path)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Unknown Key", "name: x\nbubblez: []\n"},
		{"Missing Slug", "bubbles:\n  - description: nameless\n"},
		{"Negative Horizon", "horizon: -1\n"},
		{"Malformed", "bubbles: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compiler.NewParser().Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	proj, err := compiler.NewParser().Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, proj.Bubbles)
	assert.Nil(t, proj.Seed)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), compiler.DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(project), 0o644))

	proj, err := compiler.NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trd", proj.Name)

	_, err = compiler.NewParser().ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCompile(t *testing.T) {
	proj, err := compiler.NewParser().Parse([]byte(project))
	require.NoError(t, err)

	c, err := compiler.Compile(proj)
	require.NoError(t, err)

	assert.Equal(t, 4, c.Topology.Len())
	intake, ok := c.Topology.Bubble("intake")
	require.True(t, ok)
	assert.Equal(t, "Intake assessment", intake.Description)
	assert.NotNil(t, intake.ConnectedBubble("ap"))

	assert.Equal(t, []float64{2, 1}, c.Routes["intake"].Weights)
	assert.Equal(t, []string{"severity"}, c.Population.AttributeNames())
}

func TestCompile_Errors(t *testing.T) {
	t.Run("Duplicate Slug", func(t *testing.T) {
		_, err := compiler.Compile(&compiler.Project{
			Bubbles: []compiler.BubbleSpec{{Slug: "a"}, {Slug: "a"}},
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
	})

	t.Run("Unknown Connection", func(t *testing.T) {
		_, err := compiler.Compile(&compiler.Project{
			Bubbles: []compiler.BubbleSpec{{Slug: "a", Connections: []string{"b"}}},
		})
		assert.ErrorIs(t, err, domain.ErrUnknownBubble)
	})

	t.Run("Bad Policy", func(t *testing.T) {
		_, err := compiler.Compile(&compiler.Project{
			Bubbles: []compiler.BubbleSpec{{Slug: "a"}},
			Policy:  map[string]any{"a": map[string]any{"weights": "heavy"}},
		})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
