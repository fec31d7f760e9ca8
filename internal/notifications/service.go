package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"scribe/internal/config"
)

const userAgent = "Scribe-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyBotScheduled(ctx context.Context, meetingTitle string, start time.Time) error
	NotifyBotFailed(ctx context.Context, meetingTitle, reason string) error
	NotifyRecordingCompleted(ctx context.Context, meetingTitle string) error
	NotifySyncError(ctx context.Context, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		settings:    cfg.Notifications,
		dedupWindow: time.Duration(cfg.Notifications.DedupWindowSeconds) * time.Second,
		lastSent:    make(map[string]time.Time),
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	settings config.Notifications

	dedupWindow time.Duration
	mu          sync.Mutex
	lastSent    map[string]time.Time
}

func (n *ntfyService) NotifyBotScheduled(ctx context.Context, meetingTitle string, start time.Time) error {
	if !n.settings.BotScheduled {
		return nil
	}
	meetingTitle = strings.TrimSpace(meetingTitle)
	data := payload{
		title:   "Scribe - Bot Scheduled",
		message: fmt.Sprintf("Bot scheduled for %s at %s", meetingTitle, start.Format(time.RFC1123)),
		tags:    []string{"scribe", "bot", "scheduled"},
	}
	return n.send(ctx, "scheduled:"+meetingTitle, data)
}

func (n *ntfyService) NotifyBotFailed(ctx context.Context, meetingTitle, reason string) error {
	if !n.settings.BotFailed {
		return nil
	}
	meetingTitle = strings.TrimSpace(meetingTitle)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unknown"
	}
	data := payload{
		title:    "Scribe - Bot Failed",
		message:  fmt.Sprintf("Bot for %s failed: %s", meetingTitle, reason),
		tags:     []string{"scribe", "bot", "failed"},
		priority: "high",
	}
	return n.send(ctx, "failed:"+meetingTitle, data)
}

func (n *ntfyService) NotifyRecordingCompleted(ctx context.Context, meetingTitle string) error {
	if !n.settings.RecordingCompleted {
		return nil
	}
	meetingTitle = strings.TrimSpace(meetingTitle)
	data := payload{
		title:   "Scribe - Recording Ready",
		message: fmt.Sprintf("Recording complete: %s", meetingTitle),
		tags:    []string{"scribe", "recording", "completed"},
	}
	return n.send(ctx, "recording:"+meetingTitle, data)
}

func (n *ntfyService) NotifySyncError(ctx context.Context, err error) error {
	if !n.settings.SyncErrors {
		return nil
	}
	detail := "unknown"
	if err != nil {
		detail = strings.TrimSpace(err.Error())
	}
	data := payload{
		title:    "Scribe - Sync Error",
		message:  fmt.Sprintf("Calendar sync failed: %s", detail),
		tags:     []string{"scribe", "sync", "error"},
		priority: "high",
	}
	return n.send(ctx, "sync-error", data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Scribe - Test",
		message:  "Notification system test",
		tags:     []string{"scribe", "test"},
		priority: "low",
	}
	return n.send(ctx, "", data)
}

// send posts a payload to ntfy unless an identical dedup key was sent
// inside the configured window. An empty key disables deduplication for
// that message.
func (n *ntfyService) send(ctx context.Context, dedupKey string, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}
	if dedupKey != "" && n.dedupWindow > 0 {
		now := time.Now()
		n.mu.Lock()
		if sent, ok := n.lastSent[dedupKey]; ok && now.Sub(sent) < n.dedupWindow {
			n.mu.Unlock()
			return nil
		}
		n.lastSent[dedupKey] = now
		n.mu.Unlock()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBotScheduled(context.Context, string, time.Time) error { return nil }
func (noopService) NotifyBotFailed(context.Context, string, string) error       { return nil }
func (noopService) NotifyRecordingCompleted(context.Context, string) error      { return nil }
func (noopService) NotifySyncError(context.Context, error) error                { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
