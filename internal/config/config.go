package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix     = "TODOLIST_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	DBPath               string        `yaml:"db_path"`
	Timezone             string        `yaml:"timezone"`
	LeadWindow           time.Duration `yaml:"lead_window"`
	ScanSchedule         string        `yaml:"scan_schedule"`
	DispatchWorkers      int           `yaml:"dispatch_workers"`
	QueueSize            int           `yaml:"queue_size"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	TelegramToken        string        `yaml:"telegram_token"`
	LogLevel             string        `yaml:"log_level"`
	LogFormat            string        `yaml:"log_format"`
	// DefaultUser is the id or email used when --user is not given.
	DefaultUser string `yaml:"default_user"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "todolist.db",
		Timezone:             "Local",
		LeadWindow:           10 * time.Minute,
		ScanSchedule:         "0 * * * * *",
		DispatchWorkers:      2,
		QueueSize:            64,
		DesktopNotifications: false,
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// Path resolves the config file location: the explicit path, then
// TODOLIST_CONFIG, then todolist/config.yaml under the user config dir.
func Path(explicit string) (string, error) {
	if explicit != "" {
		return expandHomeDir(explicit), nil
	}
	if custom := strings.TrimSpace(os.Getenv(EnvConfigPath)); custom != "" {
		return expandHomeDir(custom), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("config: determine home directory: %w", homeErr)
		}
		return filepath.Join(home, ".todolist", "config.yaml"), nil
	}
	return filepath.Join(dir, "todolist", "config.yaml"), nil
}

// Load builds the runtime config from defaults, the config file and the
// environment, in that order. A missing file is only an error when it was
// named explicitly.
func Load(explicit string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	path, err := Path(explicit)
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg, err = LoadFile(cfg, path)
	if err != nil {
		if !(errors.Is(err, os.ErrNotExist) && explicit == "") {
			return RuntimeConfig{}, err
		}
		cfg = DefaultRuntimeConfig()
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on base. Keys absent from the file
// keep their base value.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString(EnvPrefix + "DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString(EnvPrefix + "TIMEZONE"); ok {
		cfg.Timezone = v
	}
	if v, ok := getEnvDuration(EnvPrefix + "LEAD_WINDOW"); ok && v > 0 {
		cfg.LeadWindow = v
	}
	if v, ok := getEnvString(EnvPrefix + "SCAN_SCHEDULE"); ok {
		cfg.ScanSchedule = v
	}
	if v, ok := getEnvInt(EnvPrefix + "DISPATCH_WORKERS"); ok && v > 0 {
		cfg.DispatchWorkers = v
	}
	if v, ok := getEnvInt(EnvPrefix + "QUEUE_SIZE"); ok && v > 0 {
		cfg.QueueSize = v
	}
	if v, ok := getEnvBool(EnvPrefix + "DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString(EnvPrefix + "TELEGRAM_TOKEN"); ok {
		cfg.TelegramToken = v
	}
	if v, ok := getEnvString(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString(EnvPrefix + "LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnvString(EnvPrefix + "USER"); ok {
		cfg.DefaultUser = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("%w: db_path is required", ErrInvalidConfig)
	}
	if c.LeadWindow <= 0 {
		return fmt.Errorf("%w: lead_window must be positive", ErrInvalidConfig)
	}
	if c.DispatchWorkers <= 0 || c.QueueSize <= 0 {
		return fmt.Errorf("%w: dispatch_workers and queue_size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// Location is the zone calendar days and deadlines are read in.
func (c RuntimeConfig) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
