package observability

import (
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "pathway"

// Metrics holds the Prometheus collectors of a simulation.
type Metrics struct {
	Movements        *prometheus.CounterVec
	Stays            *prometheus.CounterVec
	MembershipErrors *prometheus.CounterVec
	Scheduled        prometheus.Counter
	Occupancy        *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Movements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "movements_total",
				Help:      "Total number of fired movement events",
			},
			[]string{"from", "to"},
		),
		Stays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "stays_total",
				Help:      "Total number of stay decisions",
			},
			[]string{"bubble"},
		),
		MembershipErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "membership_errors_total",
				Help:      "Removals of agents that were not in the bubble",
			},
			[]string{"bubble"},
		),
		Scheduled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "scheduled_total",
				Help:      "Total number of scheduled movement events",
			},
		),
		Occupancy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "occupancy",
				Help:      "Agents currently in each bubble",
			},
			[]string{"bubble"},
		),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Movements, m.Stays, m.MembershipErrors, m.Scheduled, m.Occupancy} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// SetOccupancy overwrites the occupancy gauge with occ.
func (m *Metrics) SetOccupancy(occ map[string]int) {
	for slug, n := range occ {
		m.Occupancy.WithLabelValues(slug).Set(float64(n))
	}
}

// Hooks returns hooks that keep the collectors up to date.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStay: func(_ *domain.Agent, b *domain.Bubble) {
			m.Stays.WithLabelValues(b.Slug).Inc()
		},
		OnSchedule: func(domain.MovementEvent) {
			m.Scheduled.Inc()
		},
		OnMove: func(ev domain.MovementEvent) {
			m.Movements.WithLabelValues(ev.Source.Slug, ev.Destination.Slug).Inc()
			m.Occupancy.WithLabelValues(ev.Source.Slug).Dec()
			m.Occupancy.WithLabelValues(ev.Destination.Slug).Inc()
		},
		OnMembershipError: func(b *domain.Bubble, _ *domain.Agent) {
			m.MembershipErrors.WithLabelValues(b.Slug).Inc()
		},
	}
}
