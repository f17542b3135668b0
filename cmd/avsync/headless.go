package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/avsync/core/engine"
)

var headlessDuration time.Duration

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Play the click without any display",
	Long: `Plays the metronome click through the audio device with no window, driven by
a fixed-rate tick loop. Stops after --duration, or on Ctrl-C when the duration
is zero.`,
	Example: `  avsync headless --bpm 90 --offset 40 --duration 30s`,
	RunE:    runHeadless,
}

func init() {
	headlessCmd.Flags().DurationVar(&headlessDuration, "duration", 0, "How long to play (0 = until interrupted)")
	rootCmd.AddCommand(headlessCmd)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging, os.Stderr)
	stopMetrics := startMetrics(cfg.Metrics, logger)
	defer stopMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if headlessDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, headlessDuration)
		defer cancel()
	}

	ctl := newController(cfg, logger)
	// Without audio there is nothing to play, so the visual-only fallback is
	// not useful here.
	if err := ctl.Start(); err != nil {
		ctl.Stop()
		return err
	}
	defer ctl.Stop()

	eng := engine.New(ctx, ctl,
		engine.WithInterval(time.Second/time.Duration(cfg.Display.TPS)),
		engine.WithSize(cfg.Display.Width, cfg.Display.Height),
		engine.WithLogger(logger),
	)
	defer eng.Close()

	<-eng.Done()
	if info, ok := ctl.Session(); ok {
		logger.Infof("played %d beats in %.1fs", info.Beats, info.Now)
	}
	return nil
}
