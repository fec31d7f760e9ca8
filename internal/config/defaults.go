package config

const (
	defaultDataDir                  = "~/.local/share/scribe"
	defaultLogDir                   = "~/.local/share/scribe/logs"
	defaultSocketPath               = "~/.local/share/scribe/scribed.sock"
	defaultAPIBind                  = "127.0.0.1:7519"
	defaultCalendarSyncSchedule     = "*/5 * * * *"
	defaultCalendarTimezone         = "UTC"
	defaultCalendarRequestTimeout   = 30
	defaultProviderRequestTimeout   = 30
	defaultProviderJoinLeadMinutes  = 2
	defaultProviderBotName          = "Scribe Notetaker"
	defaultNotifyRequestTimeout     = 10
	defaultNotifyDedupWindowSeconds = 600
	defaultBrowsePageSize           = 20
	defaultDispatchInterval         = 30
	defaultPollInterval             = 60
	defaultErrorRetryInterval       = 120
	defaultHeartbeatInterval        = 15
	defaultHeartbeatTimeout         = 120
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
	defaultLogRetentionDays         = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
			APIBind:    defaultAPIBind,
		},
		Calendar: Calendar{
			SyncSchedule:   defaultCalendarSyncSchedule,
			Timezone:       defaultCalendarTimezone,
			RequestTimeout: defaultCalendarRequestTimeout,
		},
		BotProvider: BotProvider{
			RequestTimeout:  defaultProviderRequestTimeout,
			JoinLeadMinutes: defaultProviderJoinLeadMinutes,
			BotName:         defaultProviderBotName,
		},
		Notifications: Notifications{
			RequestTimeout:     defaultNotifyRequestTimeout,
			BotScheduled:       true,
			BotFailed:          true,
			RecordingCompleted: true,
			SyncErrors:         true,
			DedupWindowSeconds: defaultNotifyDedupWindowSeconds,
		},
		Browse: Browse{
			PageSize: defaultBrowsePageSize,
		},
		Workflow: Workflow{
			DispatchInterval:   defaultDispatchInterval,
			PollInterval:       defaultPollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
