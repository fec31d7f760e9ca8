package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"scribe/internal/botprovider"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/services"
	"scribe/internal/session"
	"scribe/internal/store"
)

type fakeProvider struct {
	mu         sync.Mutex
	created    []string
	terminated []string
	createErr  error
	reports    map[string]botprovider.StatusReport
	statusErr  map[string]error
	nextID     int
}

func (f *fakeProvider) CreateSession(_ context.Context, meetingURL string, _ botprovider.Metadata, _ botprovider.BotConfig) (botprovider.Created, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return botprovider.Created{}, f.createErr
	}
	f.nextID++
	id := "prov-" + string(rune('0'+f.nextID))
	f.created = append(f.created, meetingURL)
	return botprovider.Created{ProviderID: id, Status: session.StatusJoining}, nil
}

func (f *fakeProvider) TerminateSession(_ context.Context, providerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminated = append(f.terminated, providerID)
	return nil
}

func (f *fakeProvider) SessionStatus(_ context.Context, providerID string) (botprovider.StatusReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.statusErr[providerID]; ok {
		return botprovider.StatusReport{}, err
	}
	report, ok := f.reports[providerID]
	if !ok {
		return botprovider.StatusReport{}, services.ErrNotFound
	}
	return report, nil
}

type fakeSource struct {
	mu       sync.Mutex
	meetings []meeting.Meeting
	err      error
}

func (f *fakeSource) Meetings(context.Context, time.Time, time.Time) ([]meeting.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.meetings, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	failed    []string
	completed []string
	syncErrs  int
}

func (r *recordingNotifier) NotifyBotScheduled(context.Context, string, time.Time) error { return nil }

func (r *recordingNotifier) NotifyBotFailed(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, title)
	return nil
}

func (r *recordingNotifier) NotifyRecordingCompleted(_ context.Context, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, title)
	return nil
}

func (r *recordingNotifier) NotifySyncError(context.Context, error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncErrs++
	return nil
}

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

type fixture struct {
	manager  *Manager
	store    *store.Store
	provider *fakeProvider
	source   *fakeSource
	notifier *recordingNotifier
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	st, err := store.Open(&cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	provider := &fakeProvider{reports: make(map[string]botprovider.StatusReport), statusErr: make(map[string]error)}
	source := &fakeSource{}
	notifier := &recordingNotifier{}
	manager := NewManagerWithNotifier(&cfg, st, source, provider, logging.NewNop(), notifier)
	// The store stamps rows with the wall clock, so keep the manager
	// clock anchored to it.
	now := time.Now().UTC()
	manager.now = func() time.Time { return now }
	return &fixture{manager: manager, store: st, provider: provider, source: source, notifier: notifier, now: now}
}

func (f *fixture) mustCreate(t *testing.T, sess *session.Session) *session.Session {
	t.Helper()
	created, err := f.store.Create(context.Background(), sess)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestSyncOncePopulatesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.source.meetings = []meeting.Meeting{
		{ID: "evt-1", Title: "Standup", Start: f.now.Add(time.Hour)},
	}

	f.manager.syncOnce(context.Background(), logging.NewNop())

	if _, ok := f.manager.meetingFor("evt-1"); !ok {
		t.Fatal("snapshot missing evt-1 after sync")
	}
	status := f.manager.Status(context.Background())
	if !status.LastSync.Equal(f.now) {
		t.Fatalf("LastSync = %v, want %v", status.LastSync, f.now)
	}
}

func TestSyncOnceNotifiesOnFailure(t *testing.T) {
	f := newFixture(t)
	f.source.err = errors.New("feed unreachable")

	f.manager.syncOnce(context.Background(), logging.NewNop())

	if f.notifier.syncErrs != 1 {
		t.Fatalf("sync error notifications = %d, want 1", f.notifier.syncErrs)
	}
	if status := f.manager.Status(context.Background()); status.LastErr == "" {
		t.Fatal("Status.LastErr empty after failed sync")
	}
}

func TestDispatchOnceSendsDueSessions(t *testing.T) {
	f := newFixture(t)
	f.source.meetings = []meeting.Meeting{
		{ID: "due", Title: "Planning", Start: f.now.Add(time.Minute), End: f.now.Add(time.Hour), MeetingURL: "https://meet.example.com/due"},
		{ID: "later", Title: "Review", Start: f.now.Add(3 * time.Hour), End: f.now.Add(4 * time.Hour)},
	}
	f.manager.syncOnce(context.Background(), logging.NewNop())

	due := f.mustCreate(t, &session.Session{CalendarEventID: "due", MeetingURL: "https://meet.example.com/due"})
	later := f.mustCreate(t, &session.Session{CalendarEventID: "later", MeetingURL: "https://meet.example.com/later"})

	if err := f.manager.dispatchOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("dispatchOnce: %v", err)
	}

	got, err := f.store.GetByID(context.Background(), due.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != session.StatusJoining || got.ProviderID == "" {
		t.Fatalf("due session = %s provider %q, want joining with provider id", got.Status, got.ProviderID)
	}

	untouched, err := f.store.GetByID(context.Background(), later.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if untouched.Status != session.StatusScheduled {
		t.Fatalf("later session = %s, want scheduled", untouched.Status)
	}
	if len(f.provider.created) != 1 {
		t.Fatalf("provider creations = %d, want 1", len(f.provider.created))
	}
}

func TestDispatchOnceFailsEndedMeetings(t *testing.T) {
	f := newFixture(t)
	f.source.meetings = []meeting.Meeting{
		{ID: "over", Title: "Missed", Start: f.now.Add(-2 * time.Hour), End: f.now.Add(-time.Hour)},
	}
	f.manager.syncOnce(context.Background(), logging.NewNop())
	sess := f.mustCreate(t, &session.Session{CalendarEventID: "over", MeetingURL: "https://meet.example.com/over"})

	if err := f.manager.dispatchOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("dispatchOnce: %v", err)
	}

	got, err := f.store.GetByID(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if len(f.provider.created) != 0 {
		t.Fatal("provider was called for an ended meeting")
	}
	if len(f.notifier.failed) != 1 || f.notifier.failed[0] != "Missed" {
		t.Fatalf("failure notifications = %v", f.notifier.failed)
	}
}

func TestDispatchOnceRecordsProviderRejection(t *testing.T) {
	f := newFixture(t)
	f.source.meetings = []meeting.Meeting{
		{ID: "due", Title: "Planning", Start: f.now.Add(time.Minute), End: f.now.Add(time.Hour)},
	}
	f.manager.syncOnce(context.Background(), logging.NewNop())
	f.provider.createErr = errors.New("quota exceeded")
	sess := f.mustCreate(t, &session.Session{CalendarEventID: "due", MeetingURL: "https://meet.example.com/due"})

	if err := f.manager.dispatchOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("dispatchOnce: %v", err)
	}

	got, err := f.store.GetByID(context.Background(), sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if got.ErrorMessage == "" {
		t.Fatal("rejection reason not recorded")
	}
}

func TestPollOnceAppliesProviderTruth(t *testing.T) {
	f := newFixture(t)
	f.source.meetings = []meeting.Meeting{{ID: "evt-a", Title: "Demo"}}
	f.manager.syncOnce(context.Background(), logging.NewNop())

	active := f.mustCreate(t, &session.Session{CalendarEventID: "evt-a", MeetingURL: "https://meet.example.com/a", Status: session.StatusJoining, ProviderID: "prov-a"})
	done := f.mustCreate(t, &session.Session{CalendarEventID: "evt-b", MeetingURL: "https://meet.example.com/b", Status: session.StatusActive, ProviderID: "prov-b"})
	broken := f.mustCreate(t, &session.Session{CalendarEventID: "evt-c", MeetingURL: "https://meet.example.com/c", Status: session.StatusActive, ProviderID: "prov-c"})

	f.provider.reports["prov-a"] = botprovider.StatusReport{ProviderID: "prov-a", Status: session.StatusActive}
	f.provider.reports["prov-b"] = botprovider.StatusReport{ProviderID: "prov-b", Status: session.StatusCompleted, RecordingID: "rec-9"}
	f.provider.reports["prov-c"] = botprovider.StatusReport{ProviderID: "prov-c", Status: session.StatusFailed, ErrorMessage: "kicked from meeting"}

	if err := f.manager.pollOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("pollOnce: %v", err)
	}

	got, _ := f.store.GetByID(context.Background(), active.ID)
	if got.Status != session.StatusActive {
		t.Fatalf("active session = %s, want active", got.Status)
	}
	got, _ = f.store.GetByID(context.Background(), done.ID)
	if got.Status != session.StatusCompleted || got.RecordingID != "rec-9" {
		t.Fatalf("completed session = %s recording %q", got.Status, got.RecordingID)
	}
	got, _ = f.store.GetByID(context.Background(), broken.ID)
	if got.Status != session.StatusFailed || got.ErrorMessage != "kicked from meeting" {
		t.Fatalf("failed session = %s reason %q", got.Status, got.ErrorMessage)
	}
	if len(f.notifier.completed) != 1 {
		t.Fatalf("completion notifications = %d, want 1", len(f.notifier.completed))
	}
	if len(f.notifier.failed) != 1 {
		t.Fatalf("failure notifications = %d, want 1", len(f.notifier.failed))
	}
}

func TestPollOnceFailsMissingProviderSession(t *testing.T) {
	f := newFixture(t)
	sess := f.mustCreate(t, &session.Session{CalendarEventID: "evt-x", MeetingURL: "https://meet.example.com/x", Status: session.StatusActive, ProviderID: "prov-gone"})

	if err := f.manager.pollOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("pollOnce: %v", err)
	}

	got, _ := f.store.GetByID(context.Background(), sess.ID)
	if got.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
}

func TestPollOnceTerminatesStuckJoin(t *testing.T) {
	f := newFixture(t)
	sess := f.mustCreate(t, &session.Session{CalendarEventID: "evt-stuck", MeetingURL: "https://meet.example.com/s", Status: session.StatusJoining, ProviderID: "prov-stuck"})
	f.provider.reports["prov-stuck"] = botprovider.StatusReport{ProviderID: "prov-stuck", Status: session.StatusJoining}

	// The store stamps UpdatedAt with the wall clock, so advance the
	// manager clock relative to it to get past the heartbeat timeout.
	f.manager.now = func() time.Time { return time.Now().UTC().Add(24 * time.Hour) }

	if err := f.manager.pollOnce(context.Background(), logging.NewNop()); err != nil {
		t.Fatalf("pollOnce: %v", err)
	}

	got, _ := f.store.GetByID(context.Background(), sess.ID)
	if got.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
	if len(f.provider.terminated) != 1 || f.provider.terminated[0] != "prov-stuck" {
		t.Fatalf("terminated = %v, want [prov-stuck]", f.provider.terminated)
	}
}

func TestStartStop(t *testing.T) {
	f := newFixture(t)
	f.manager.now = time.Now

	if err := f.manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.manager.Start(context.Background()); err == nil {
		t.Fatal("second Start succeeded")
	}
	status := f.manager.Status(context.Background())
	if !status.Running {
		t.Fatal("Status.Running = false after Start")
	}

	f.manager.Stop()
	if status := f.manager.Status(context.Background()); status.Running {
		t.Fatal("Status.Running = true after Stop")
	}
}
