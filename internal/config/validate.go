package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCalendar(); err != nil {
		return err
	}
	if err := c.validateBotProvider(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	if err := c.validateBrowse(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if c.Calendar.FeedURL != "" {
		if err := ensureHTTPURL("calendar.feed_url", c.Calendar.FeedURL); err != nil {
			return err
		}
	}
	if _, err := cron.ParseStandard(c.Calendar.SyncSchedule); err != nil {
		return fmt.Errorf("calendar.sync_schedule %q is not a valid cron expression: %w", c.Calendar.SyncSchedule, err)
	}
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("calendar.timezone %q is not a recognized timezone: %w", c.Calendar.Timezone, err)
	}
	if c.Calendar.RequestTimeout <= 0 {
		return errors.New("calendar.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateBotProvider() error {
	if c.BotProvider.BaseURL == "" {
		// The provider is optional; daemon runs in browse-only mode.
		return nil
	}
	if err := ensureHTTPURL("bot_provider.base_url", c.BotProvider.BaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.BotProvider.APIToken) == "" {
		return errors.New("bot_provider.api_token must be set when bot_provider.base_url is set (or set SCRIBE_BOT_API_TOKEN)")
	}
	if c.BotProvider.RequestTimeout <= 0 {
		return errors.New("bot_provider.request_timeout must be positive (seconds)")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.dispatch_interval":    c.Workflow.DispatchInterval,
		"workflow.poll_interval":        c.Workflow.PollInterval,
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
	}); err != nil {
		return err
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		return errors.New("workflow.heartbeat_interval must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		return errors.New("workflow.heartbeat_timeout must be positive")
	}
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must be greater than workflow.heartbeat_interval")
	}
	return nil
}

func (c *Config) validateBrowse() error {
	if c.Browse.PageSize < 1 {
		return errors.New("browse.page_size must be at least 1")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive (seconds)")
	}
	if c.Notifications.DedupWindowSeconds < 0 {
		return errors.New("notifications.dedup_window_seconds must be >= 0")
	}
	return nil
}

func ensureHTTPURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", key)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
