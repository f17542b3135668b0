package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/avsync/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the calibration window",
	RunE:  runDesktop,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDesktop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging, os.Stderr)
	stopMetrics := startMetrics(cfg.Metrics, logger)
	defer stopMetrics()

	ctl := newController(cfg, logger)
	logger.Infof("avsync %s: opening %dx%d window", version, cfg.Display.Width, cfg.Display.Height)
	return ui.Run(ui.New(ctl, logger), ui.WindowOptions{
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Title:      cfg.Display.Title,
		Fullscreen: cfg.Display.Fullscreen,
		TPS:        cfg.Display.TPS,
	})
}
