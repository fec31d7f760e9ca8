package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/session"
)

// pollOnce reconciles every in-flight session against the provider's
// view of it. The provider is the source of truth once a bot has been
// dispatched.
func (m *Manager) pollOnce(ctx context.Context, logger *slog.Logger) error {
	inFlight, err := m.store.List(ctx,
		session.StatusJoining,
		session.StatusPendingConsent,
		session.StatusActive,
		session.StatusLeaving,
	)
	if err != nil {
		return fmt.Errorf("list in-flight sessions: %w", err)
	}

	for _, sess := range inFlight {
		if sess.ProviderID == "" {
			continue
		}
		sessCtx := services.WithSessionID(services.WithEventID(ctx, sess.CalendarEventID), sess.ID)
		sessLogger := logging.WithContext(sessCtx, logger)
		if err := m.pollSession(sessCtx, sessLogger, sess); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.setLastError(err)
			sessLogger.Warn("session poll failed",
				logging.Error(err),
				logging.String(logging.FieldProviderID, sess.ProviderID),
			)
		}
	}
	return nil
}

func (m *Manager) pollSession(ctx context.Context, logger *slog.Logger, sess *session.Session) error {
	report, err := m.provider.SessionStatus(ctx, sess.ProviderID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// The provider no longer knows the session, so it will never
			// progress on its own.
			reason := "provider session no longer exists"
			if markErr := m.store.MarkFailed(ctx, sess.ID, reason); markErr != nil {
				return markErr
			}
			m.notifyBotFailed(ctx, logger, m.titleFor(sess.CalendarEventID), reason)
			return nil
		}
		return err
	}

	if report.Status == session.StatusJoining && m.joinTimedOut(sess) {
		return m.failStuckJoin(ctx, logger, sess)
	}

	switch report.Status {
	case session.StatusFailed:
		reason := report.ErrorMessage
		if reason == "" {
			reason = "bot failed"
		}
		if err := m.store.MarkFailed(ctx, sess.ID, reason); err != nil {
			return err
		}
		m.notifyBotFailed(ctx, logger, m.titleFor(sess.CalendarEventID), reason)
	case session.StatusCompleted:
		sess.Status = session.StatusCompleted
		sess.RecordingID = report.RecordingID
		if err := m.store.Update(ctx, sess); err != nil {
			return err
		}
		logger.Info("session completed",
			logging.String("recording_id", sess.RecordingID),
		)
		if m.notifier != nil {
			if nerr := m.notifier.NotifyRecordingCompleted(ctx, m.titleFor(sess.CalendarEventID)); nerr != nil {
				logger.Debug("recording notification failed", logging.Error(nerr))
			}
		}
	default:
		if report.Status == sess.Status && report.RecordingID == sess.RecordingID {
			return nil
		}
		sess.Status = report.Status
		sess.RecordingID = report.RecordingID
		if err := m.store.Update(ctx, sess); err != nil {
			return err
		}
		logger.Debug("session status updated",
			logging.String(logging.FieldStatus, string(sess.Status)),
		)
	}
	return nil
}

// joinTimedOut reports whether a joining session has been stuck longer
// than the heartbeat timeout.
func (m *Manager) joinTimedOut(sess *session.Session) bool {
	if m.heartbeatTimeout <= 0 || sess.Status != session.StatusJoining {
		return false
	}
	return m.now().Sub(sess.UpdatedAt) > m.heartbeatTimeout
}

func (m *Manager) failStuckJoin(ctx context.Context, logger *slog.Logger, sess *session.Session) error {
	if err := m.provider.TerminateSession(ctx, sess.ProviderID); err != nil {
		logger.Warn("failed to terminate stuck bot",
			logging.Error(err),
			logging.String(logging.FieldProviderID, sess.ProviderID),
		)
	}
	reason := "bot failed to join before timeout"
	if err := m.store.MarkFailed(ctx, sess.ID, reason); err != nil {
		return err
	}
	m.notifyBotFailed(ctx, logger, m.titleFor(sess.CalendarEventID), reason)
	return nil
}
