package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/overlayd/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval         = 1
	defaultUpgradeStability = 5
	defaultEdgeZone         = 40.0
	defaultCommitThreshold  = 20.0
	defaultHorizontalBias   = 1.5
	defaultMaxDrag          = 300.0
	defaultDismissFraction  = 0.25
	defaultHistoryDB        = "/var/lib/overlayd/history.db"
)

// Config holds every tunable of the daemon. The gesture and tier values are
// tuning constants, not invariants: the defaults match the shipped behavior
// but may be overridden per device.
type Config struct {
	Interval int    `mapstructure:"interval"`
	LogLevel string `mapstructure:"log_level"`

	// Tier controller
	UpgradeStability int `mapstructure:"upgrade_stability"`

	// Gesture engine
	EdgeZone        float64 `mapstructure:"edge_zone"`
	CommitThreshold float64 `mapstructure:"commit_threshold"`
	HorizontalBias  float64 `mapstructure:"horizontal_bias"`
	MaxDrag         float64 `mapstructure:"max_drag"`
	DismissFraction float64 `mapstructure:"dismiss_fraction"`

	// Platform telemetry sources
	ThermalZone     string `mapstructure:"thermal_zone"`
	MemoryThreshold int64  `mapstructure:"memory_threshold"`
	NVML            bool   `mapstructure:"nvml"`

	// History recording
	History   bool   `mapstructure:"history"`
	HistoryDB string `mapstructure:"history_db"`
}

// Load reads configuration from flags, an optional TOML file and the
// environment. Precedence: flags > env > file > defaults. The config file
// is /etc/overlayd.toml unless OVERLAYD_CONFIG points elsewhere.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("upgrade_stability", defaultUpgradeStability)
	v.SetDefault("edge_zone", defaultEdgeZone)
	v.SetDefault("commit_threshold", defaultCommitThreshold)
	v.SetDefault("horizontal_bias", defaultHorizontalBias)
	v.SetDefault("max_drag", defaultMaxDrag)
	v.SetDefault("dismiss_fraction", defaultDismissFraction)
	v.SetDefault("thermal_zone", "/sys/class/thermal/thermal_zone0")
	v.SetDefault("memory_threshold", int64(0))
	v.SetDefault("nvml", false)
	v.SetDefault("history", false)
	v.SetDefault("history_db", defaultHistoryDB)

	flags := pflag.NewFlagSet("overlayd", pflag.ContinueOnError)
	flags.Int("interval", defaultInterval, "Seconds between telemetry samples")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Int("upgrade-stability", defaultUpgradeStability, "Stable samples required before a tier upgrade")
	flags.Bool("nvml", false, "Use NVML GPU temperature as the thermal source")
	flags.Bool("history", false, "Record telemetry and gesture history")
	flags.String("history-db", defaultHistoryDB, "Path to the history database")
	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix("OVERLAYD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("OVERLAYD_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("overlayd")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags win over file and env values
	flags.Visit(func(f *pflag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks value ranges. Zero-valued gesture constants would make
// every drag commit or none dismiss, so they are rejected outright.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.UpgradeStability < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, "upgrade_stability must be >= 1")
	}
	if c.EdgeZone <= 0 || c.CommitThreshold <= 0 || c.MaxDrag <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "gesture distances must be positive")
	}
	if c.HorizontalBias <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "horizontal_bias must be positive")
	}
	if c.DismissFraction <= 0 || c.DismissFraction > 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, "dismiss_fraction must be in (0, 1]")
	}
	if c.History && c.HistoryDB == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "history enabled without history_db")
	}

	return nil
}
