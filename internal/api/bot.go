package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/services"
	"scribe/internal/session"
)

// SessionStore captures the persistence operations bot workflows need.
type SessionStore interface {
	Create(ctx context.Context, sess *session.Session) (*session.Session, error)
	GetByID(ctx context.Context, id string) (*session.Session, error)
	GetLiveByEventID(ctx context.Context, eventID string) (*session.Session, error)
	Update(ctx context.Context, sess *session.Session) error
	MarkFailed(ctx context.Context, id, reason string) error
	List(ctx context.Context, statuses ...session.Status) ([]*session.Session, error)
}

// Terminator performs remote session termination. The policy layer decides
// whether it is called.
type Terminator interface {
	TerminateSession(ctx context.Context, providerID string) error
}

// ScheduleRequest asks for a bot on a calendar event.
type ScheduleRequest struct {
	EventID        string
	MeetingTitle   string
	MeetingURL     string
	Start          time.Time
	ProjectID      string
	OrganizationID string
	UserID         string
}

// UpdateSessionRequest mutates editable session fields. Nil fields are left
// unchanged.
type UpdateSessionRequest struct {
	MeetingURL *string
	ProjectID  *string
}

// RemoveSessionOutcome reports what happened to one session during removal.
type RemoveSessionOutcome string

const (
	RemoveSessionRemoved  RemoveSessionOutcome = "removed"
	RemoveSessionNotFound RemoveSessionOutcome = "not_found"
)

// RemoveSessionResult pairs a session ID with its removal outcome.
type RemoveSessionResult struct {
	ID      string               `json:"id"`
	Outcome RemoveSessionOutcome `json:"outcome"`
}

// RemoveSessionsResult aggregates per-session removal outcomes.
type RemoveSessionsResult struct {
	RemovedCount int                   `json:"removedCount"`
	Sessions     []RemoveSessionResult `json:"sessions"`
}

// BotService owns session mutations: scheduling a bot, editing a session,
// and removing one.
type BotService struct {
	store      SessionStore
	terminator Terminator
	notifier   notifications.Service
	logger     *slog.Logger
}

// NewBotService wires a bot service. terminator and notifier may be nil
// when the daemon runs without a provider or notifications.
func NewBotService(store SessionStore, terminator Terminator, notifier notifications.Service, logger *slog.Logger) *BotService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BotService{
		store:      store,
		terminator: terminator,
		notifier:   notifier,
		logger:     logger.With(logging.String(logging.FieldComponent, "api")),
	}
}

// Schedule creates a scheduled session for a calendar event. The event may
// carry at most one live session; scheduling against an occupied event
// fails.
func (s *BotService) Schedule(ctx context.Context, req ScheduleRequest) (*SessionView, error) {
	if strings.TrimSpace(req.EventID) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "api", "schedule", "event id is required", nil)
	}
	if strings.TrimSpace(req.MeetingURL) == "" {
		return nil, services.Wrap(services.ErrInvalidInput, "api", "schedule", "meeting URL is required", nil)
	}

	created, err := s.store.Create(ctx, &session.Session{
		CalendarEventID: req.EventID,
		Status:          session.StatusScheduled,
		MeetingURL:      req.MeetingURL,
		ProjectID:       req.ProjectID,
		OrganizationID:  req.OrganizationID,
		UserID:          req.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bot scheduled",
		logging.String(logging.FieldSessionID, created.ID),
		logging.String(logging.FieldEventID, created.CalendarEventID))
	if s.notifier != nil {
		if err := s.notifier.NotifyBotScheduled(ctx, req.MeetingTitle, req.Start); err != nil {
			s.logger.Warn("schedule notification failed", logging.Error(err))
		}
	}
	return FromSession(created), nil
}

// UpdateSession mutates the editable fields of a session. Sessions outside
// the editable statuses are rejected with a NotEditable error; the caller
// must not retry.
func (s *BotService) UpdateSession(ctx context.Context, id string, req UpdateSessionRequest) (*SessionView, error) {
	sess, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "update", fmt.Sprintf("session %s not found", id), nil)
	}
	if !session.IsFieldEditable(sess.Status) {
		return nil, services.Wrap(services.ErrNotEditable, "api", "update",
			fmt.Sprintf("session %s is %s; only scheduled or failed sessions are editable", id, sess.Status), nil)
	}

	if req.MeetingURL != nil {
		sess.MeetingURL = strings.TrimSpace(*req.MeetingURL)
	}
	if req.ProjectID != nil {
		sess.ProjectID = strings.TrimSpace(*req.ProjectID)
	}
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, err
	}
	return FromSession(sess), nil
}

// RemoveSessions removes sessions one-by-one so each ID can report
// removed/not_found. Removal transitions the session to failed with a fixed
// reason; a remote termination is attempted first when the status requires
// it, but a remote failure never blocks the local transition.
func (s *BotService) RemoveSessions(ctx context.Context, ids []string) (RemoveSessionsResult, error) {
	result := RemoveSessionsResult{Sessions: make([]RemoveSessionResult, 0, len(ids))}
	for _, id := range ids {
		sess, err := s.store.GetByID(ctx, id)
		if err != nil {
			return RemoveSessionsResult{}, err
		}
		if sess == nil {
			result.Sessions = append(result.Sessions, RemoveSessionResult{ID: id, Outcome: RemoveSessionNotFound})
			continue
		}

		s.terminateIfRequired(ctx, sess)

		if err := s.store.MarkFailed(ctx, sess.ID, session.RemovedByUserReason); err != nil {
			return RemoveSessionsResult{}, err
		}
		result.RemovedCount++
		result.Sessions = append(result.Sessions, RemoveSessionResult{ID: id, Outcome: RemoveSessionRemoved})
		s.logger.Info("bot removed",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.String(logging.FieldEventID, sess.CalendarEventID))
	}
	return result, nil
}

func (s *BotService) terminateIfRequired(ctx context.Context, sess *session.Session) {
	if !session.RequiresProviderTermination(sess.Status) {
		return
	}
	if sess.ProviderID == "" {
		// Nothing to terminate remotely; the local transition proceeds.
		s.logger.Info("skipping remote termination, session has no provider id",
			logging.String(logging.FieldSessionID, sess.ID))
		return
	}
	if s.terminator == nil {
		s.logger.Warn("no terminator configured, skipping remote termination",
			logging.String(logging.FieldSessionID, sess.ID))
		return
	}
	if err := s.terminator.TerminateSession(ctx, sess.ProviderID); err != nil {
		wrapped := services.Wrap(services.ErrProviderTermination, "api", "remove", "remote termination failed", err)
		s.logger.Warn("provider termination failed, continuing with local removal",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.String(logging.FieldProviderID, sess.ProviderID),
			logging.Error(wrapped))
	}
}
