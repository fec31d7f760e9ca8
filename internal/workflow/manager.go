package workflow

import (
	"log/slog"
	"sync"
	"time"

	"scribe/internal/botprovider"
	"scribe/internal/calendar"
	"scribe/internal/config"
	"scribe/internal/meeting"
	"scribe/internal/notifications"
	"scribe/internal/store"
)

// Manager coordinates the reconciliation loops: calendar sync, bot
// dispatch, and provider status polling.
type Manager struct {
	cfg      *config.Config
	store    *store.Store
	source   calendar.Source
	provider botprovider.Client
	notifier notifications.Service
	logger   *slog.Logger

	dispatchInterval time.Duration
	pollInterval     time.Duration
	errorRetry       time.Duration
	heartbeatTimeout time.Duration
	joinLead         time.Duration

	now func() time.Time

	mu       sync.RWMutex
	running  bool
	cancel   func()
	wg       sync.WaitGroup
	lastErr  error
	lastSync time.Time
	meetings map[string]meeting.Meeting
}

// NewManager constructs a manager with the default ntfy notifier.
func NewManager(cfg *config.Config, st *store.Store, source calendar.Source, provider botprovider.Client, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, st, source, provider, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, st *store.Store, source calendar.Source, provider botprovider.Client, logger *slog.Logger, notifier notifications.Service) *Manager {
	return &Manager{
		cfg:              cfg,
		store:            st,
		source:           source,
		provider:         provider,
		notifier:         notifier,
		logger:           logger,
		dispatchInterval: time.Duration(cfg.Workflow.DispatchInterval) * time.Second,
		pollInterval:     time.Duration(cfg.Workflow.PollInterval) * time.Second,
		errorRetry:       time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		heartbeatTimeout: time.Duration(cfg.Workflow.HeartbeatTimeout) * time.Second,
		joinLead:         time.Duration(cfg.BotProvider.JoinLeadMinutes) * time.Minute,
		now:              func() time.Time { return time.Now().UTC() },
		meetings:         make(map[string]meeting.Meeting),
	}
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) snapshot() map[string]meeting.Meeting {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.meetings
}

func (m *Manager) meetingFor(eventID string) (meeting.Meeting, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	met, ok := m.meetings[eventID]
	return met, ok
}

func (m *Manager) titleFor(eventID string) string {
	if met, ok := m.meetingFor(eventID); ok && met.Title != "" {
		return met.Title
	}
	return eventID
}
