package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"scribe/internal/api"
	"scribe/internal/botprovider"
	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/ipc"
	"scribe/internal/logging"
	"scribe/internal/meeting"
	"scribe/internal/session"
	"scribe/internal/store"
	"scribe/internal/testsupport"
	"scribe/internal/workflow"
)

type cliSource struct {
	meetings []meeting.Meeting
}

func (s cliSource) Meetings(context.Context, time.Time, time.Time) ([]meeting.Meeting, error) {
	return s.meetings, nil
}

type cliProvider struct{}

func (cliProvider) CreateSession(context.Context, string, botprovider.Metadata, botprovider.BotConfig) (botprovider.Created, error) {
	return botprovider.Created{ProviderID: "prov-1", Status: session.StatusJoining}, nil
}

func (cliProvider) TerminateSession(context.Context, string) error { return nil }

func (cliProvider) SessionStatus(context.Context, string) (botprovider.StatusReport, error) {
	return botprovider.StatusReport{}, nil
}

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
}

func setupCLITestEnv(t *testing.T, source cliSource) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	logger := logging.NewNop()
	mgr := workflow.NewManager(cfg, st, source, cliProvider{}, logger)

	d, err := daemon.New(cfg, st, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	svcs := ipc.Services{
		Meetings: api.NewMeetingService(source, st, cfg.Browse.PageSize, logger),
		Bots:     api.NewBotService(st, cliProvider{}, nil, logger),
	}
	srv, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, svcs, logger)
	if err != nil {
		cancel()
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
		st.Close()
	})

	return &cliTestEnv{
		cfg:        cfg,
		store:      st,
		daemon:     d,
		server:     srv,
		socketPath: cfg.Paths.SocketPath,
		configPath: configPath,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIBotLifecycle(t *testing.T) {
	start := time.Now().UTC().Add(2 * time.Hour)
	env := setupCLITestEnv(t, cliSource{meetings: []meeting.Meeting{
		{ID: "evt-1", Title: "Weekly Sync", Start: start, End: start.Add(time.Hour), MeetingURL: "https://meet.example.com/ws"},
	}})

	stdout, _, err := runCLI(t, []string{
		"bot", "add", "evt-1",
		"--title", "Weekly Sync",
		"--url", "https://meet.example.com/ws",
		"--start", start.Format(time.RFC3339),
		"--json",
	}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("bot add: %v", err)
	}

	var created api.SessionView
	if err := json.Unmarshal([]byte(stdout), &created); err != nil {
		t.Fatalf("decode bot add output: %v", err)
	}
	if created.Status != string(session.StatusScheduled) {
		t.Fatalf("created status = %q, want %q", created.Status, session.StatusScheduled)
	}

	stdout, _, err = runCLI(t, []string{"sessions", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("sessions list: %v", err)
	}
	if !strings.Contains(stdout, "evt-1") || !strings.Contains(stdout, "Scheduled") {
		t.Fatalf("sessions list output missing session: %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"bot", "show", created.ID}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("bot show: %v", err)
	}
	if !strings.Contains(stdout, "Scheduled") || !strings.Contains(stdout, "evt-1") {
		t.Fatalf("bot show output = %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"bot", "update", created.ID, "--url", "https://meet.example.com/moved"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("bot update: %v", err)
	}
	if !strings.Contains(stdout, "updated") {
		t.Fatalf("bot update output = %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"bot", "remove", created.ID, "ghost"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("bot remove: %v", err)
	}
	if !strings.Contains(stdout, "bot removed") {
		t.Fatalf("bot remove output missing removal: %q", stdout)
	}
	if !strings.Contains(stdout, "ghost not found") {
		t.Fatalf("bot remove output missing not-found line: %q", stdout)
	}
	if !strings.Contains(stdout, "Removed 1 bot(s)") {
		t.Fatalf("bot remove output missing count: %q", stdout)
	}

	sess, err := env.store.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if sess == nil || sess.Status != session.StatusFailed {
		t.Fatalf("removed session status = %+v, want failed", sess)
	}
}

func TestCLIMeetingsList(t *testing.T) {
	start := time.Now().UTC().Add(3 * time.Hour)
	env := setupCLITestEnv(t, cliSource{meetings: []meeting.Meeting{
		{ID: "evt-9", Title: "Planning", Start: start, End: start.Add(time.Hour)},
	}})

	stdout, _, err := runCLI(t, []string{"meetings", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("meetings list: %v", err)
	}
	if !strings.Contains(stdout, "Planning") {
		t.Fatalf("meetings list output missing meeting: %q", stdout)
	}
	if !strings.Contains(stdout, "No Bot") {
		t.Fatalf("meetings list output missing effective status: %q", stdout)
	}
	if !strings.Contains(stdout, "Page 1 of 1 (1 meetings)") {
		t.Fatalf("meetings list output missing pagination: %q", stdout)
	}
}

func TestCLISessionsHealth(t *testing.T) {
	env := setupCLITestEnv(t, cliSource{})

	stdout, _, err := runCLI(t, []string{"sessions", "health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("sessions health: %v", err)
	}
	if !strings.Contains(stdout, "Total") || !strings.Contains(stdout, "Database") {
		t.Fatalf("sessions health output = %q", stdout)
	}
}

func TestCLISessionsClearRequiresFlag(t *testing.T) {
	env := setupCLITestEnv(t, cliSource{})

	_, _, err := runCLI(t, []string{"sessions", "clear"}, env.socketPath, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Fatalf("sessions clear error = %v", err)
	}
}

func TestCLIRecurrenceBuild(t *testing.T) {
	stdout, _, err := runCLI(t, []string{
		"recurrence", "build",
		"--freq", "weekly",
		"--interval", "2",
		"--byday", "mon",
		"--end", "after",
		"--count", "3",
		"--anchor", "2026-03-02T09:00:00Z",
	}, filepath.Join(t.TempDir(), "none.sock"), "")
	if err != nil {
		t.Fatalf("recurrence build: %v", err)
	}
	want := "RRULE:FREQ=WEEKLY;INTERVAL=2;BYDAY=MO;COUNT=3"
	if !strings.Contains(stdout, want) {
		t.Fatalf("recurrence build output = %q, want %q", stdout, want)
	}
}

func TestCLIRecurrencePreviewCountsOccurrences(t *testing.T) {
	stdout, _, err := runCLI(t, []string{
		"recurrence", "preview",
		"--freq", "daily",
		"--anchor", "2026-03-02T09:00:00Z",
		"--limit", "3",
	}, filepath.Join(t.TempDir(), "none.sock"), "")
	if err != nil {
		t.Fatalf("recurrence preview: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("preview lines = %d, want 4 (rule + 3 occurrences): %q", len(lines), stdout)
	}
	if lines[1] != "2026-03-02 09:00 UTC" {
		t.Fatalf("first occurrence = %q", lines[1])
	}
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, filepath.Join(t.TempDir(), "none.sock"), "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, "Wrote sample configuration") {
		t.Fatalf("config init output = %q", stdout)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("stat sample config: %v", err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, filepath.Join(t.TempDir(), "none.sock"), "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second config init error = %v", err)
	}
}

func TestCLIMeetingsRequiresDaemon(t *testing.T) {
	env := setupCLITestEnv(t, cliSource{})

	_, _, err := runCLI(t, []string{"meetings", "list"}, filepath.Join(t.TempDir(), "gone.sock"), env.configPath)
	if err == nil || !strings.Contains(err.Error(), "scribe start") {
		t.Fatalf("meetings list without daemon error = %v", err)
	}
}
