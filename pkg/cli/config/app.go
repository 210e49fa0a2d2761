package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/healguard/pkg/service/clock"
	"github.com/secmon-lab/healguard/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the application configuration loaded from TOML
type AppConfig struct {
	Timezone          string `toml:"timezone"`
	HistoryLimit      int    `toml:"history_limit"`
	NotificationLimit int    `toml:"notification_limit"`
	DedupRetentionHrs int    `toml:"dedup_retention_hours"`
	HardwarePollSecs  int    `toml:"hardware_poll_seconds"`

	path string
}

// Flags returns CLI flags for app configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to TOML configuration file",
			Sources:     cli.EnvVars("HEALGUARD_CONFIG"),
			Destination: &a.path,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "Civil time zone for schedule computation (overrides the config file)",
			Sources:     cli.EnvVars("HEALGUARD_TIMEZONE"),
			Destination: &a.Timezone,
		},
	}
}

// Validate checks the loaded configuration values
func (a *AppConfig) Validate() error {
	if a.Timezone != "" {
		if _, err := time.LoadLocation(a.Timezone); err != nil {
			return goerr.Wrap(ErrInvalidConfig, "unknown timezone", goerr.V("timezone", a.Timezone))
		}
	}
	if a.HistoryLimit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "history_limit must not be negative", goerr.V("history_limit", a.HistoryLimit))
	}
	if a.NotificationLimit < 0 {
		return goerr.Wrap(ErrInvalidConfig, "notification_limit must not be negative", goerr.V("notification_limit", a.NotificationLimit))
	}
	if a.DedupRetentionHrs < 0 {
		return goerr.Wrap(ErrInvalidConfig, "dedup_retention_hours must not be negative", goerr.V("dedup_retention_hours", a.DedupRetentionHrs))
	}
	if a.HardwarePollSecs < 0 {
		return goerr.Wrap(ErrInvalidConfig, "hardware_poll_seconds must not be negative", goerr.V("hardware_poll_seconds", a.HardwarePollSecs))
	}
	return nil
}

// LoadAppConfig loads and validates the application configuration
// from a TOML file, applying defaults for anything left unset.
func LoadAppConfig(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "cannot read config", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var cfg AppConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.path = path
	cfg.applyDefaults()
	return &cfg, nil
}

// Configure loads the TOML file when a path is set and applies
// defaults for anything left unset. A timezone given by flag wins
// over the file.
func (a *AppConfig) Configure() error {
	if a.path != "" {
		tz := a.Timezone
		loaded, err := LoadAppConfig(a.path)
		if err != nil {
			return err
		}
		*a = *loaded
		if tz != "" {
			a.Timezone = tz
			return a.Validate()
		}
		return nil
	}

	if err := a.Validate(); err != nil {
		return err
	}
	a.applyDefaults()
	return nil
}

func (a *AppConfig) applyDefaults() {
	if a.Timezone == "" {
		a.Timezone = clock.DefaultTimeZone
	}
	if a.HistoryLimit == 0 {
		a.HistoryLimit = usecase.DefaultHistoryLimit
	}
	if a.NotificationLimit == 0 {
		a.NotificationLimit = usecase.DefaultNotificationLimit
	}
	if a.DedupRetentionHrs == 0 {
		a.DedupRetentionHrs = 48
	}
	if a.HardwarePollSecs == 0 {
		a.HardwarePollSecs = 30
	}
}

// DedupRetention returns the dedup retention as a duration
func (a *AppConfig) DedupRetention() time.Duration {
	return time.Duration(a.DedupRetentionHrs) * time.Hour
}

// HardwarePollInterval returns the hardware poll interval as a duration
func (a *AppConfig) HardwarePollInterval() time.Duration {
	return time.Duration(a.HardwarePollSecs) * time.Second
}

// Path returns the configured file path, if any
func (a *AppConfig) Path() string {
	return a.path
}
