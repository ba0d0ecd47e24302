package observability

import (
	"log/slog"

	"github.com/aretw0/pathway/pkg/domain"
)

// AuditHooks logs every lifecycle event at info level.
func AuditHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnStay: func(a *domain.Agent, b *domain.Bubble) {
			logger.Info("agent_stay", "agent", a.ID, "bubble", b.Slug)
		},
		OnSchedule: func(ev domain.MovementEvent) {
			logger.Info("movement_scheduled",
				"agent", ev.Agent.ID,
				"from", ev.Source.Slug,
				"to", ev.Destination.Slug,
				"time", ev.Time,
			)
		},
		OnMove: func(ev domain.MovementEvent) {
			logger.Info("movement_fired",
				"agent", ev.Agent.ID,
				"from", ev.Source.Slug,
				"to", ev.Destination.Slug,
				"time", ev.Time,
			)
		},
		OnMembershipError: func(b *domain.Bubble, a *domain.Agent) {
			logger.Warn("membership_error", "agent", a.ID, "bubble", b.Slug)
		},
	}
}
