package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Run modes accepted by [run] mode and the --mode flag.
const (
	ModeCron    = "cron"
	ModeTrigger = "trigger"
)

// Paths contains directory and destination configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	Target    string `toml:"target"`
	LogDir    string `toml:"log_dir"`
}

// Run contains run-mode and trigger configuration.
type Run struct {
	Mode        string `toml:"mode"`
	TriggerName string `toml:"trigger_name"`
}

// Stability contains size-quiescence detection settings. All values are seconds.
type Stability struct {
	Enabled      bool `toml:"enabled"`
	Threshold    int  `toml:"threshold"`
	PollInterval int  `toml:"poll_interval"`
	MaxWait      int  `toml:"max_wait"`
}

// Transfer contains retry and verification settings for the copy engine.
type Transfer struct {
	RetryCount int      `toml:"retry_count"`
	RetryDelay int      `toml:"retry_delay"`
	Verify     bool     `toml:"verify"`
	Ignore     []string `toml:"ignore"`
}

// Manifest contains manifest artifact settings.
type Manifest struct {
	Prefix string `toml:"prefix"`
}

// SMB contains optional credentials for smb:// targets.
type SMB struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Domain   string `toml:"domain"`
	Port     int    `toml:"port"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for Ferry.
//
// Configuration sections by subsystem:
//   - Paths: source directory, destination target, and log directory
//   - Run: run mode (cron or trigger) and trigger marker name
//   - Stability: file size quiescence detection timing
//   - Transfer: copy retry policy, verification, ignore patterns
//   - Manifest: manifest artifact naming
//   - SMB: credentials for smb:// destinations
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Run           Run           `toml:"run"`
	Stability     Stability     `toml:"stability"`
	Transfer      Transfer      `toml:"transfer"`
	Manifest      Manifest      `toml:"manifest"`
	SMB           SMB           `toml:"smb"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/ferry/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ferry.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories Ferry needs to run. The source
// directory is created on a best-effort basis so the daemon can start before
// the upstream producer has delivered anything.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	if strings.TrimSpace(c.Paths.SourceDir) != "" {
		_ = os.MkdirAll(c.Paths.SourceDir, 0o755)
	}
	return nil
}

// TargetIsRemote reports whether the destination target is an smb:// address.
func (c *Config) TargetIsRemote() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(c.Paths.Target)), "smb://")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
