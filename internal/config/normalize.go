package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCalendar()
	c.normalizeBotProvider()
	c.normalizeNotifications()
	c.normalizeBrowse()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = defaultSocketPath
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeCalendar() {
	c.Calendar.FeedURL = strings.TrimSpace(c.Calendar.FeedURL)
	c.Calendar.CalendarID = strings.TrimSpace(c.Calendar.CalendarID)
	c.Calendar.SyncSchedule = strings.TrimSpace(c.Calendar.SyncSchedule)
	if c.Calendar.SyncSchedule == "" {
		c.Calendar.SyncSchedule = defaultCalendarSyncSchedule
	}
	c.Calendar.Timezone = strings.TrimSpace(c.Calendar.Timezone)
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = defaultCalendarTimezone
	}
	if c.Calendar.RequestTimeout <= 0 {
		c.Calendar.RequestTimeout = defaultCalendarRequestTimeout
	}
}

func (c *Config) normalizeBotProvider() {
	c.BotProvider.BaseURL = strings.TrimSpace(c.BotProvider.BaseURL)
	c.BotProvider.APIToken = strings.TrimSpace(c.BotProvider.APIToken)
	if c.BotProvider.APIToken == "" {
		if value, ok := os.LookupEnv("SCRIBE_BOT_API_TOKEN"); ok {
			c.BotProvider.APIToken = strings.TrimSpace(value)
		}
	}
	if c.BotProvider.RequestTimeout <= 0 {
		c.BotProvider.RequestTimeout = defaultProviderRequestTimeout
	}
	if c.BotProvider.JoinLeadMinutes < 0 {
		c.BotProvider.JoinLeadMinutes = defaultProviderJoinLeadMinutes
	}
	c.BotProvider.BotName = strings.TrimSpace(c.BotProvider.BotName)
	if c.BotProvider.BotName == "" {
		c.BotProvider.BotName = defaultProviderBotName
	}
	c.BotProvider.OrganizationID = strings.TrimSpace(c.BotProvider.OrganizationID)
	c.BotProvider.ProjectID = strings.TrimSpace(c.BotProvider.ProjectID)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	if c.Notifications.DedupWindowSeconds < 0 {
		c.Notifications.DedupWindowSeconds = 0
	}
}

func (c *Config) normalizeBrowse() {
	if c.Browse.PageSize <= 0 {
		c.Browse.PageSize = defaultBrowsePageSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// Location resolves the configured calendar timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone: %w", err)
	}
	return loc, nil
}
