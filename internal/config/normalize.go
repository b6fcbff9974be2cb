package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRun()
	c.normalizeStability()
	c.normalizeTransfer()
	c.normalizeManifest()
	c.normalizeSMB()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir == "" {
		if value, ok := os.LookupEnv("FERRY_SOURCE_DIR"); ok {
			c.Paths.SourceDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.Target == "" {
		if value, ok := os.LookupEnv("FERRY_TARGET"); ok {
			c.Paths.Target = strings.TrimSpace(value)
		}
	}
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.Target = strings.TrimSpace(c.Paths.Target)
	if c.Paths.Target != "" && !c.TargetIsRemote() {
		if c.Paths.Target, err = expandPath(c.Paths.Target); err != nil {
			return fmt.Errorf("paths.target: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeRun() {
	c.Run.Mode = strings.ToLower(strings.TrimSpace(c.Run.Mode))
	if c.Run.Mode == "" {
		c.Run.Mode = defaultMode
	}
	c.Run.TriggerName = strings.TrimSpace(c.Run.TriggerName)
	if c.Run.TriggerName == "" {
		c.Run.TriggerName = defaultTriggerName
	}
}

func (c *Config) normalizeStability() {
	if c.Stability.PollInterval <= 0 {
		c.Stability.PollInterval = defaultStabilityInterval
	}
	if c.Stability.Threshold < 0 {
		c.Stability.Threshold = 0
	}
	if c.Stability.MaxWait < 0 {
		c.Stability.MaxWait = 0
	}
}

func (c *Config) normalizeTransfer() {
	if c.Transfer.RetryCount <= 0 {
		c.Transfer.RetryCount = defaultRetryCount
	}
	if c.Transfer.RetryDelay < 0 {
		c.Transfer.RetryDelay = 0
	}
	patterns := make([]string, 0, len(c.Transfer.Ignore))
	for _, pattern := range c.Transfer.Ignore {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	c.Transfer.Ignore = patterns
}

func (c *Config) normalizeManifest() {
	c.Manifest.Prefix = strings.TrimSpace(c.Manifest.Prefix)
	if c.Manifest.Prefix == "" {
		c.Manifest.Prefix = defaultManifestPrefix
	}
}

func (c *Config) normalizeSMB() {
	if c.SMB.Username == "" {
		if value, ok := os.LookupEnv("SMB_USERNAME"); ok {
			c.SMB.Username = strings.TrimSpace(value)
		}
	}
	if c.SMB.Password == "" {
		if value, ok := os.LookupEnv("SMB_PASSWORD"); ok {
			c.SMB.Password = value
		}
	}
	if c.SMB.Domain == "" {
		if value, ok := os.LookupEnv("SMB_DOMAIN"); ok {
			c.SMB.Domain = strings.TrimSpace(value)
		}
	}
	if c.SMB.Port <= 0 {
		c.SMB.Port = defaultSMBPort
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
