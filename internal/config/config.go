package config

import "github.com/spf13/viper"

// Config holds all runtime configuration for a magsweep run.
// Values are populated from .magsweep.yaml, MAGSWEEP_* env vars, and CLI flags.
type Config struct {
	Workers        int    `mapstructure:"workers"`
	PollIntervalMS int    `mapstructure:"poll_interval_ms"`
	Snapshot       bool   `mapstructure:"snapshot"`
	Archive        string `mapstructure:"archive"`
	Telemetry      string `mapstructure:"telemetry"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	// 0 means "decide at run time": the driver resolves it to hardware
	// parallelism.
	viper.SetDefault("workers", 0)
	viper.SetDefault("poll_interval_ms", 10)
	viper.SetDefault("snapshot", true)
	viper.SetDefault("archive", "")
	viper.SetDefault("telemetry", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
