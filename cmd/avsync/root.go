package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/audio"
	"github.com/ingyamilmolinar/avsync/internal/config"
	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/metrics"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

var (
	version    = "dev"
	configPath string

	flagBPM      int
	flagOffset   int
	flagPattern  string
	flagLogLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "avsync",
	Short: "avsync - audio/visual sync calibration",
	Long: `avsync plays a metronome click against a moving visual beat indicator.
Adjust the audio offset until the click and the visual crossing line up; the
offset is then the audio/video latency difference of your setup.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the desktop window when no subcommand is provided
		return runDesktop(cmd, args)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	pf.IntVar(&flagBPM, "bpm", 0, "Initial tempo (30-120)")
	pf.IntVar(&flagOffset, "offset", 0, "Initial audio offset in ms (-500..500, positive delays audio)")
	pf.StringVar(&flagPattern, "pattern", "", "Initial pattern: bar, radar or flash")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, none")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("bpm") {
		cfg.Calibration.BPM = flagBPM
	}
	if flags.Changed("offset") {
		cfg.Calibration.OffsetMs = flagOffset
	}
	if flags.Changed("pattern") {
		if _, err := render.ParsePattern(flagPattern); err != nil {
			return nil, err
		}
		cfg.Calibration.Pattern = flagPattern
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	return cfg, nil
}

func setupLogger(cfg config.LoggingConfig, out io.Writer) *log.Logger {
	level := log.LevelFromString(cfg.Level)
	if cfg.Format == "json" {
		return log.New(out, level)
	}
	return log.NewConsole(out, level)
}

// newController wires the audio backend, timing and initial parameters.
func newController(cfg *config.Config, logger *log.Logger) *calibration.Controller {
	opts := audio.Options{
		SampleRate: cfg.Audio.SampleRate,
		Buffer:     cfg.BufferDuration(),
		Volume:     cfg.Audio.Volume,
	}
	return calibration.New(
		calibration.WithLogger(logger),
		calibration.WithClockOpener(func() (calibration.AudioClock, error) {
			c, err := audio.Open(opts)
			if err != nil {
				return nil, err
			}
			return c, nil
		}),
		calibration.WithTiming(cfg.Scheduler.Lookahead, cfg.Scheduler.StartupGrace),
		calibration.WithParams(calibration.Params{
			BPM:      cfg.Calibration.BPM,
			OffsetMs: cfg.Calibration.OffsetMs,
			Pattern:  cfg.PatternValue(),
		}),
	)
}

// startMetrics starts the Prometheus endpoint when enabled. The returned stop
// function is always safe to call.
func startMetrics(cfg config.MetricsConfig, logger *log.Logger) func() {
	if !cfg.Enabled {
		return func() {}
	}
	srv := metrics.NewServer(cfg.Address, *logger.Zerolog())
	if err := srv.Start(); err != nil {
		logger.Errorf("metrics server: %v", err)
		return func() {}
	}
	logger.Infof("metrics on http://%s/metrics", srv.Addr())
	return func() {
		if err := srv.Stop(); err != nil {
			logger.Errorf("stopping metrics server: %v", err)
		}
	}
}
