package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Any error here is fatal at
// startup: no file processing begins with an invalid config.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		return errors.New("paths.source_dir is required (or set FERRY_SOURCE_DIR)")
	}
	if strings.TrimSpace(c.Paths.Target) == "" {
		return errors.New("paths.target is required (or set FERRY_TARGET)")
	}
	if c.TargetIsRemote() {
		if err := validateRemoteTarget(c.Paths.Target); err != nil {
			return err
		}
	}
	return nil
}

func validateRemoteTarget(target string) error {
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("paths.target: %w", err)
	}
	if parsed.Hostname() == "" {
		return errors.New("paths.target: smb address must include a host")
	}
	if strings.Trim(parsed.Path, "/") == "" {
		return errors.New("paths.target: smb address must include a share (smb://host/share/path)")
	}
	return nil
}

func (c *Config) validateRun() error {
	switch c.Run.Mode {
	case ModeCron, ModeTrigger:
	default:
		return fmt.Errorf("run.mode must be %q or %q, got %q", ModeCron, ModeTrigger, c.Run.Mode)
	}
	if strings.ContainsAny(c.Run.TriggerName, "/\\") {
		return errors.New("run.trigger_name must be a bare file name")
	}
	return nil
}

func (c *Config) validateTiming() error {
	if err := ensurePositiveMap(map[string]int{
		"stability.poll_interval":       c.Stability.PollInterval,
		"transfer.retry_count":          c.Transfer.RetryCount,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.Stability.Threshold < 0 {
		return errors.New("stability.threshold must be >= 0")
	}
	if c.Stability.MaxWait < 0 {
		return errors.New("stability.max_wait must be >= 0")
	}
	if c.Transfer.RetryDelay < 0 {
		return errors.New("transfer.retry_delay must be >= 0")
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
