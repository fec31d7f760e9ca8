package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"scribe/internal/api"
	"scribe/internal/daemon"
	"scribe/internal/logging"
	"scribe/internal/session"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Services bundles the daemon-side service layer the IPC surface fronts.
type Services struct {
	Meetings daemon.MeetingBrowser
	Bots     *api.BotService
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, svcs Services, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, meetings: svcs.Meetings, bots: svcs.Bots, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Scribe", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
				)
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
		)
	}
}

type service struct {
	daemon   *daemon.Daemon
	meetings daemon.MeetingBrowser
	bots     *api.BotService
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return logging.NewComponentLogger(s.logger, "ipc")
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.log().Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.log().Info("daemon started via IPC",
		logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.DBPath = status.DBPath
	resp.LockPath = status.LockFilePath
	resp.PID = status.PID
	resp.LastError = status.Workflow.LastErr
	resp.Meetings = status.Workflow.Meetings
	if !status.Workflow.LastSync.IsZero() {
		resp.LastSync = status.Workflow.LastSync.Format(time.RFC3339)
	}
	health := status.Workflow.Sessions
	resp.SessionStats = map[string]int{
		"total":           health.Total,
		"scheduled":       health.Scheduled,
		"in_flight":       health.InFlight,
		"pending_consent": health.PendingConsent,
		"completed":       health.Completed,
		"failed":          health.Failed,
	}
	return nil
}

func (s *service) MeetingList(req MeetingListRequest, resp *MeetingListResponse) error {
	if s.meetings == nil {
		return errors.New("meeting service unavailable")
	}
	page, err := s.meetings.Browse(s.ctx, api.BrowseRequest{
		Status:   req.Status,
		Period:   req.Period,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return err
	}
	resp.Page = page
	return nil
}

func (s *service) SessionList(req SessionListRequest, resp *SessionListResponse) error {
	statuses := make([]session.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := session.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	sessions, err := s.daemon.ListSessions(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Sessions = make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		if view := api.FromSession(sess); view != nil {
			resp.Sessions = append(resp.Sessions, *view)
		}
	}
	return nil
}

func (s *service) SessionDescribe(req SessionDescribeRequest, resp *SessionDescribeResponse) error {
	if req.ID == "" {
		return errors.New("session id is required")
	}
	sess, err := s.daemon.DescribeSession(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session %s not found", req.ID)
	}
	if view := api.FromSession(sess); view != nil {
		resp.Session = *view
	}
	return nil
}

func (s *service) BotSchedule(req BotScheduleRequest, resp *BotScheduleResponse) error {
	if s.bots == nil {
		return errors.New("bot service unavailable")
	}
	s.log().Debug("bot schedule requested", logging.String(logging.FieldEventID, req.EventID))
	view, err := s.bots.Schedule(s.ctx, api.ScheduleRequest{
		EventID:        req.EventID,
		MeetingTitle:   req.MeetingTitle,
		MeetingURL:     req.MeetingURL,
		Start:          req.Start,
		ProjectID:      req.ProjectID,
		OrganizationID: req.OrganizationID,
		UserID:         req.UserID,
	})
	if err != nil {
		return err
	}
	resp.Session = *view
	return nil
}

func (s *service) BotUpdate(req BotUpdateRequest, resp *BotUpdateResponse) error {
	if s.bots == nil {
		return errors.New("bot service unavailable")
	}
	if req.ID == "" {
		return errors.New("session id is required")
	}
	view, err := s.bots.UpdateSession(s.ctx, req.ID, api.UpdateSessionRequest{
		MeetingURL: req.MeetingURL,
		ProjectID:  req.ProjectID,
	})
	if err != nil {
		return err
	}
	resp.Session = *view
	return nil
}

func (s *service) BotRemove(req BotRemoveRequest, resp *BotRemoveResponse) error {
	if s.bots == nil {
		return errors.New("bot service unavailable")
	}
	if len(req.IDs) == 0 {
		return errors.New("bot remove requires at least one id")
	}
	s.log().Debug("bot remove requested", logging.Int("session_count", len(req.IDs)))
	result, err := s.bots.RemoveSessions(s.ctx, req.IDs)
	if err != nil {
		return err
	}
	resp.RemovedCount = result.RemovedCount
	resp.Sessions = result.Sessions
	s.log().Info("bots removed",
		logging.String(logging.FieldEventType, "bot_remove"),
		logging.Int("removed_count", result.RemovedCount))
	return nil
}

func (s *service) SessionsClearCompleted(_ SessionsClearRequest, resp *SessionsClearResponse) error {
	removed, err := s.daemon.ClearCompleted(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("completed sessions cleared",
		logging.String(logging.FieldEventType, "sessions_clear_completed"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) SessionsClearFailed(_ SessionsClearRequest, resp *SessionsClearResponse) error {
	removed, err := s.daemon.ClearFailed(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("failed sessions cleared",
		logging.String(logging.FieldEventType, "sessions_clear_failed"),
		logging.Int64("removed_count", removed))
	return nil
}

func (s *service) SessionsHealth(_ SessionsHealthRequest, resp *SessionsHealthResponse) error {
	health, err := s.daemon.SessionsHealth(s.ctx)
	if err != nil {
		return err
	}
	resp.Total = health.Total
	resp.Scheduled = health.Scheduled
	resp.InFlight = health.InFlight
	resp.PendingConsent = health.PendingConsent
	resp.Completed = health.Completed
	resp.Failed = health.Failed
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.TableExists = health.TableExists
	resp.ColumnsPresent = append(resp.ColumnsPresent, health.ColumnsPresent...)
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalSessions = health.TotalSessions
	resp.Error = health.Error
	if err != nil {
		return err
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
