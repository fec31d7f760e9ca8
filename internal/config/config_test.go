package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for missing file")
	}
	if resolved == "" {
		t.Fatal("resolved path is empty")
	}
	if cfg.Browse.PageSize != defaultBrowsePageSize {
		t.Fatalf("browse.page_size = %d, want %d", cfg.Browse.PageSize, defaultBrowsePageSize)
	}
	if cfg.Calendar.SyncSchedule != defaultCalendarSyncSchedule {
		t.Fatalf("calendar.sync_schedule = %q, want %q", cfg.Calendar.SyncSchedule, defaultCalendarSyncSchedule)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("logging.format = %q, want console", cfg.Logging.Format)
	}
}

func TestLoadExpandsPaths(t *testing.T) {
	path := writeConfig(t, `
[paths]
data_dir = "~/scribe-data"
log_dir = "~/scribe-logs"
`)

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for present file")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("home dir: %v", err)
	}
	if want := filepath.Join(home, "scribe-data"); cfg.Paths.DataDir != want {
		t.Fatalf("data_dir = %q, want %q", cfg.Paths.DataDir, want)
	}
	if !filepath.IsAbs(cfg.Paths.SocketPath) {
		t.Fatalf("socket_path %q is not absolute", cfg.Paths.SocketPath)
	}
}

func TestLoadRejectsBadSyncSchedule(t *testing.T) {
	path := writeConfig(t, `
[calendar]
sync_schedule = "every five minutes"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "sync_schedule") {
		t.Fatalf("Load error = %v, want sync_schedule complaint", err)
	}
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	path := writeConfig(t, `
[calendar]
timezone = "Mars/Olympus_Mons"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "timezone") {
		t.Fatalf("Load error = %v, want timezone complaint", err)
	}
}

func TestLoadRequiresProviderToken(t *testing.T) {
	t.Setenv("SCRIBE_BOT_API_TOKEN", "")
	path := writeConfig(t, `
[bot_provider]
base_url = "https://bots.example.com"
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "api_token") {
		t.Fatalf("Load error = %v, want api_token complaint", err)
	}
}

func TestLoadProviderTokenFromEnv(t *testing.T) {
	t.Setenv("SCRIBE_BOT_API_TOKEN", "env-token")
	path := writeConfig(t, `
[bot_provider]
base_url = "https://bots.example.com"
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotProvider.APIToken != "env-token" {
		t.Fatalf("api_token = %q, want env-token", cfg.BotProvider.APIToken)
	}
}

func TestLoadRejectsNonPositivePageSize(t *testing.T) {
	path := writeConfig(t, `
[browse]
page_size = -1
`)

	// normalize replaces non-positive sizes with the default before
	// validation runs.
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browse.PageSize != defaultBrowsePageSize {
		t.Fatalf("page_size = %d, want %d", cfg.Browse.PageSize, defaultBrowsePageSize)
	}
}

func TestLoadRejectsHeartbeatTimeoutBelowInterval(t *testing.T) {
	path := writeConfig(t, `
[workflow]
heartbeat_interval = 30
heartbeat_timeout = 20
`)

	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "heartbeat_timeout") {
		t.Fatalf("Load error = %v, want heartbeat_timeout complaint", err)
	}
}

func TestLoadNormalizesLogging(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "FANCY"
level = " DEBUG "
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("format = %q, want console", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got := cfg.DatabasePath(); filepath.Dir(got) != cfg.Paths.DataDir {
		t.Fatalf("DatabasePath %q not inside data dir %q", got, cfg.Paths.DataDir)
	}
	if got := cfg.LockPath(); filepath.Dir(got) != cfg.Paths.DataDir {
		t.Fatalf("LockPath %q not inside data dir %q", got, cfg.Paths.DataDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[bot_provider]") {
		t.Fatal("sample config missing [bot_provider] section")
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if cfg.BotProvider.BotName != defaultProviderBotName {
		t.Fatalf("bot_name = %q, want %q", cfg.BotProvider.BotName, defaultProviderBotName)
	}
}
