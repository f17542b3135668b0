package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

// Config holds the complete application configuration
type Config struct {
	Calibration CalibrationConfig `mapstructure:"calibration" yaml:"calibration"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" yaml:"scheduler"`
	Audio       AudioConfig       `mapstructure:"audio" yaml:"audio"`
	Display     DisplayConfig     `mapstructure:"display" yaml:"display"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

// CalibrationConfig holds the initial session parameters
type CalibrationConfig struct {
	BPM      int    `mapstructure:"bpm" yaml:"bpm"`
	OffsetMs int    `mapstructure:"offset_ms" yaml:"offset_ms"`
	Pattern  string `mapstructure:"pattern" yaml:"pattern"`
}

// SchedulerConfig tunes the click scheduler, in seconds
type SchedulerConfig struct {
	Lookahead    float64 `mapstructure:"lookahead" yaml:"lookahead"`
	StartupGrace float64 `mapstructure:"startup_grace" yaml:"startup_grace"`
}

// AudioConfig defines the output device settings
type AudioConfig struct {
	SampleRate int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	Buffer     string  `mapstructure:"buffer" yaml:"buffer"`
	Volume     float64 `mapstructure:"volume" yaml:"volume"`
}

// DisplayConfig defines window and frame loop settings
type DisplayConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Fullscreen bool   `mapstructure:"fullscreen" yaml:"fullscreen"`
	TPS        int    `mapstructure:"tps" yaml:"tps"`
	Title      string `mapstructure:"title" yaml:"title"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig defines the optional Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address"`
}

// BufferDuration parses Audio.Buffer. Validated configs never fail here.
func (c *Config) BufferDuration() time.Duration {
	d, _ := time.ParseDuration(c.Audio.Buffer)
	return d
}

// PatternValue parses Calibration.Pattern, falling back to Bar.
func (c *Config) PatternValue() render.Pattern {
	p, err := render.ParsePattern(c.Calibration.Pattern)
	if err != nil {
		return render.Bar
	}
	return p
}

// Load loads configuration from file and environment variables. An empty path
// means defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	v.SetEnvPrefix("AVSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calibration.bpm", beat.DefaultBPM)
	v.SetDefault("calibration.offset_ms", 0)
	v.SetDefault("calibration.pattern", render.Bar.String())

	v.SetDefault("scheduler.lookahead", beat.DefaultLookahead)
	v.SetDefault("scheduler.startup_grace", beat.DefaultStartupGrace)

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.buffer", "10ms")
	v.SetDefault("audio.volume", 0.8)

	v.SetDefault("display.width", 960)
	v.SetDefault("display.height", 720)
	v.SetDefault("display.fullscreen", false)
	v.SetDefault("display.tps", 60)
	v.SetDefault("display.title", "avsync")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", "127.0.0.1:9464")
}

// validate validates the configuration. Out-of-range calibration values are
// clamped later, so only structurally broken settings are rejected here.
func validate(cfg *Config) error {
	if _, err := render.ParsePattern(cfg.Calibration.Pattern); err != nil {
		return fmt.Errorf("calibration.pattern: %w", err)
	}
	if cfg.Scheduler.Lookahead <= 0 || cfg.Scheduler.Lookahead > 1 {
		return fmt.Errorf("scheduler.lookahead must be in (0, 1] seconds, got %v", cfg.Scheduler.Lookahead)
	}
	if cfg.Scheduler.StartupGrace < 0 {
		return fmt.Errorf("scheduler.startup_grace must not be negative, got %v", cfg.Scheduler.StartupGrace)
	}
	if cfg.Audio.SampleRate < 8000 || cfg.Audio.SampleRate > 192000 {
		return fmt.Errorf("audio.sample_rate out of range: %d", cfg.Audio.SampleRate)
	}
	d, err := time.ParseDuration(cfg.Audio.Buffer)
	if err != nil {
		return fmt.Errorf("audio.buffer: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("audio.buffer must be positive, got %s", d)
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be in [0, 1], got %v", cfg.Audio.Volume)
	}
	if cfg.Display.Width <= 0 || cfg.Display.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.TPS <= 0 {
		return fmt.Errorf("display.tps must be positive, got %d", cfg.Display.TPS)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Address == "" {
		return fmt.Errorf("metrics.address is required when metrics are enabled")
	}
	return nil
}
