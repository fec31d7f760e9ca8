package workflow

import (
	"context"
	"time"

	"scribe/internal/logging"
	"scribe/internal/store"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running  bool
	LastErr  string
	LastSync time.Time
	Meetings int
	Sessions store.HealthSummary
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	summary := StatusSummary{
		Running:  m.running,
		LastSync: m.lastSync,
		Meetings: len(m.meetings),
	}
	if m.lastErr != nil {
		summary.LastErr = m.lastErr.Error()
	}
	m.mu.RUnlock()

	sessions, err := m.store.Health(ctx)
	if err != nil {
		m.logger.Warn("failed to read session stats", logging.Error(err))
	} else {
		summary.Sessions = sessions
	}
	return summary
}
