package observability_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	a := domain.NewBubble("a", "", 0)
	b := domain.NewBubble("b", "", 0)
	agent := domain.NewAgent(a, nil)
	m.SetOccupancy(map[string]int{"a": 2, "b": 0})

	hooks := m.Hooks()
	ev := domain.MovementEvent{Time: 1, Agent: agent, Source: a, Destination: b}
	hooks.OnSchedule(ev)
	hooks.OnMove(ev)
	hooks.OnStay(agent, b)
	hooks.OnMembershipError(a, agent)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Movements.WithLabelValues("a", "b")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Scheduled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Stays.WithLabelValues("b")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MembershipErrors.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Occupancy.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Occupancy.WithLabelValues("b")))

	expected := `
# HELP pathway_movements_total Total number of fired movement events
# TYPE pathway_movements_total counter
pathway_movements_total{from="a",to="b"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "pathway_movements_total"))
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetrics_NilRegistry(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)
	assert.NotNil(t, m.Hooks().OnMove)
}

func TestAuditHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	a := domain.NewBubble("a", "", 0)
	b := domain.NewBubble("b", "", 0)
	agent := domain.NewAgent(a, nil)

	hooks := observability.AuditHooks(logger)
	hooks.OnMove(domain.MovementEvent{Time: 3, Agent: agent, Source: a, Destination: b})
	hooks.OnMembershipError(b, agent)

	out := buf.String()
	assert.Contains(t, out, "msg=movement_fired")
	assert.Contains(t, out, "from=a")
	assert.Contains(t, out, "level=WARN msg=membership_error")
}
