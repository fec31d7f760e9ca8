// Package daemonrun assembles and runs the scribe daemon process: store,
// calendar feed, bot provider, workflow manager, HTTP API, and IPC socket.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"scribe/internal/api"
	"scribe/internal/botprovider"
	"scribe/internal/calendar"
	"scribe/internal/config"
	"scribe/internal/daemon"
	"scribe/internal/ipc"
	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/store"
	"scribe/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel   string
	SocketPath string
}

// Run starts the scribe daemon runtime loop and blocks until the process
// receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	loggerOpts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if opts.LogLevel != "" {
		loggerOpts.Level = opts.LogLevel
	}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		loggerOpts.OutputPaths = []string{"stdout", filepath.Join(cfg.Paths.LogDir, "scribe.log")}
	}
	logger, err := logging.New(loggerOpts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "scribed.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open session store", logging.Error(err))
		return err
	}
	defer st.Close()

	var source calendar.Source = calendar.Empty{}
	if strings.TrimSpace(cfg.Calendar.FeedURL) != "" {
		feed, err := calendar.NewFeed(cfg, logger)
		if err != nil {
			return fmt.Errorf("configure calendar feed: %w", err)
		}
		source = feed
	} else {
		logger.Warn("calendar feed not configured; meeting sync disabled")
	}

	provider := botprovider.NewClient(cfg, logger)
	notifier := notifications.NewService(cfg)

	manager := workflow.NewManagerWithNotifier(cfg, st, source, provider, logger, notifier)

	d, err := daemon.New(cfg, st, logger, manager)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	meetings := api.NewMeetingService(source, st, cfg.Browse.PageSize, logger)
	d.AttachAPI(meetings, logger)

	socketPath, err := resolveSocketPath(cfg, opts.SocketPath)
	if err != nil {
		return err
	}
	services := ipc.Services{
		Meetings: meetings,
		Bots:     api.NewBotService(st, provider, notifier, logger),
	}
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, services, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
		)
	}

	<-signalCtx.Done()
	logger.Info("scribe daemon shutting down")
	return nil
}

func resolveSocketPath(cfg *config.Config, override string) (string, error) {
	value := override
	if value == "" {
		value = cfg.Paths.SocketPath
	}
	if value == "" {
		return "", fmt.Errorf("socket path is not configured")
	}
	expanded, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("resolve socket path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create socket directory: %w", err)
	}
	return expanded, nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
