package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"scribe/internal/logging"
	"scribe/internal/meeting"
)

// syncWindowPast bounds how far back a sync pass looks, so meetings that
// started shortly before the daemon came up are still dispatchable.
const syncWindowPast = time.Hour

// syncWindowFuture bounds how far ahead a sync pass looks.
const syncWindowFuture = 90 * 24 * time.Hour

func (m *Manager) syncOnce(ctx context.Context, logger *slog.Logger) {
	now := m.now()
	meetings, err := m.source.Meetings(ctx, now.Add(-syncWindowPast), now.Add(syncWindowFuture))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		m.setLastError(err)
		logger.Error("calendar sync failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "calendar_sync_failed"),
		)
		if m.notifier != nil {
			if nerr := m.notifier.NotifySyncError(ctx, err); nerr != nil {
				logger.Debug("sync error notification failed", logging.Error(nerr))
			}
		}
		return
	}

	byEvent := make(map[string]meeting.Meeting, len(meetings))
	for _, met := range meetings {
		byEvent[met.ID] = met
	}

	m.mu.Lock()
	m.meetings = byEvent
	m.lastSync = now
	m.lastErr = nil
	m.mu.Unlock()

	logger.Debug("calendar sync complete", logging.Int("meetings", len(meetings)))
}
