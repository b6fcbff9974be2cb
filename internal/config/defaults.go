package config

const (
	defaultSourceDir          = "~/.local/share/ferry/inbox"
	defaultLogDir             = "~/.local/share/ferry/logs"
	defaultLogRetentionDays   = 60
	defaultMode               = ModeTrigger
	defaultTriggerName        = "trigger.txt"
	defaultStabilityThreshold = 3
	defaultStabilityInterval  = 1
	defaultRetryCount         = 3
	defaultRetryDelay         = 2
	defaultManifestPrefix     = "manifest"
	defaultSMBPort            = 445
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			LogDir:    defaultLogDir,
		},
		Run: Run{
			Mode:        defaultMode,
			TriggerName: defaultTriggerName,
		},
		Stability: Stability{
			Enabled:      true,
			Threshold:    defaultStabilityThreshold,
			PollInterval: defaultStabilityInterval,
		},
		Transfer: Transfer{
			RetryCount: defaultRetryCount,
			RetryDelay: defaultRetryDelay,
		},
		Manifest: Manifest{
			Prefix: defaultManifestPrefix,
		},
		SMB: SMB{
			Port: defaultSMBPort,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
