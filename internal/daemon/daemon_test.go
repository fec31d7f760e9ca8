package daemon

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scribe/internal/botprovider"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/session"
	"scribe/internal/store"
	"scribe/internal/workflow"
)

type emptySource struct{}

func (emptySource) Meetings(context.Context, time.Time, time.Time) ([]meeting.Meeting, error) {
	return nil, nil
}

type idleProvider struct{}

func (idleProvider) CreateSession(context.Context, string, botprovider.Metadata, botprovider.BotConfig) (botprovider.Created, error) {
	return botprovider.Created{ProviderID: "prov-idle", Status: session.StatusJoining}, nil
}

func (idleProvider) TerminateSession(context.Context, string) error { return nil }

func (idleProvider) SessionStatus(context.Context, string) (botprovider.StatusReport, error) {
	return botprovider.StatusReport{}, nil
}

func newTestDaemon(t *testing.T) (*Daemon, *config.Config) {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	st, err := store.Open(&cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	wf := workflow.NewManager(&cfg, st, emptySource{}, idleProvider{}, logging.NewNop())
	d, err := New(&cfg, st, logging.NewNop(), wf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, &cfg
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	status := d.Status(context.Background())
	if !status.Running {
		t.Fatal("Status.Running = false after Start")
	}
	if status.PID == 0 {
		t.Fatal("Status.PID = 0")
	}

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second Start succeeded")
	}

	d.Stop()
	if d.Status(context.Background()).Running {
		t.Fatal("Status.Running = true after Stop")
	}
}

func TestDaemonLockExcludesSecondInstance(t *testing.T) {
	first, cfg := newTestDaemon(t)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	wf := workflow.NewManager(cfg, st, emptySource{}, idleProvider{}, logging.NewNop())
	second, err := New(cfg, st, logging.NewNop(), wf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon acquired the lock")
	}
}

func TestDaemonSessionAccessors(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	created, err := d.store.Create(ctx, &session.Session{
		CalendarEventID: "evt-1",
		MeetingURL:      "https://meet.example.com/x",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sessions, err := d.ListSessions(ctx, nil)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}

	got, err := d.DescribeSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("DescribeSession: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("DescribeSession = %+v", got)
	}

	health, err := d.SessionsHealth(ctx)
	if err != nil {
		t.Fatalf("SessionsHealth: %v", err)
	}
	if health.Total != 1 || health.Scheduled != 1 {
		t.Fatalf("health = %+v", health)
	}
}
