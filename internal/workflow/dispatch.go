package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"scribe/internal/botprovider"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/session"
)

// dispatchOnce sends every due scheduled session to the bot provider.
// A session is due when its meeting starts within the configured join
// lead and has not already ended.
func (m *Manager) dispatchOnce(ctx context.Context, logger *slog.Logger) error {
	pending, err := m.store.List(ctx, session.StatusScheduled)
	if err != nil {
		return fmt.Errorf("list scheduled sessions: %w", err)
	}

	now := m.now()
	for _, sess := range pending {
		met, ok := m.meetingFor(sess.CalendarEventID)
		if !ok {
			// The event may be outside the sync window or deleted from
			// the calendar. Leave the session alone until sync catches up.
			continue
		}
		if met.Start.Sub(now) > m.joinLead {
			continue
		}
		if !met.End.IsZero() && !met.End.After(now) {
			reason := "meeting ended before the bot was dispatched"
			if err := m.store.MarkFailed(ctx, sess.ID, reason); err != nil {
				logger.Warn("failed to mark missed session",
					logging.Error(err),
					logging.String(logging.FieldSessionID, sess.ID),
				)
			}
			m.notifyBotFailed(ctx, logger, m.titleFor(sess.CalendarEventID), reason)
			continue
		}

		sessCtx := services.WithSessionID(services.WithEventID(ctx, sess.CalendarEventID), sess.ID)
		sessLogger := logging.WithContext(sessCtx, logger)
		if err := m.dispatchSession(sessCtx, sessLogger, sess, met.Title); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.setLastError(err)
			sessLogger.Error("bot dispatch failed", logging.Error(err))
		}
	}
	return nil
}

func (m *Manager) dispatchSession(ctx context.Context, logger *slog.Logger, sess *session.Session, title string) error {
	created, err := m.provider.CreateSession(ctx, sess.MeetingURL,
		botprovider.Metadata{
			CalendarEventID: sess.CalendarEventID,
			OrganizationID:  sess.OrganizationID,
			ProjectID:       sess.ProjectID,
			UserID:          sess.UserID,
		},
		botprovider.BotConfig{BotName: m.cfg.BotProvider.BotName},
	)
	if err != nil {
		reason := fmt.Sprintf("provider rejected session: %v", err)
		if markErr := m.store.MarkFailed(ctx, sess.ID, reason); markErr != nil {
			logger.Warn("failed to record dispatch failure", logging.Error(markErr))
		}
		m.notifyBotFailed(ctx, logger, title, reason)
		return err
	}

	sess.ProviderID = created.ProviderID
	sess.Status = session.StatusJoining
	if created.Status != "" && created.Status != session.StatusFailed {
		sess.Status = created.Status
	}
	if err := m.store.Update(ctx, sess); err != nil {
		return fmt.Errorf("persist dispatched session: %w", err)
	}

	logger.Info("bot dispatched",
		logging.String(logging.FieldProviderID, sess.ProviderID),
		logging.String(logging.FieldStatus, string(sess.Status)),
	)
	return nil
}

func (m *Manager) notifyBotFailed(ctx context.Context, logger *slog.Logger, title, reason string) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.NotifyBotFailed(ctx, title, reason); err != nil {
		logger.Debug("bot failure notification failed", logging.Error(err))
	}
}
