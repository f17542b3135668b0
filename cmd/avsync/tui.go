package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/avsync/internal/tui"
)

var tuiLogFile string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the calibration in the terminal",
	Long: `Runs the same calibration session with the pattern drawn as text. Logs go to
--log-file, or nowhere, so they do not corrupt the screen.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var out io.Writer = io.Discard
	if tuiLogFile != "" {
		f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	logger := setupLogger(cfg.Logging, out)
	stopMetrics := startMetrics(cfg.Metrics, logger)
	defer stopMetrics()

	ctl := newController(cfg, logger)
	interval := time.Second / time.Duration(cfg.Display.TPS)
	return tui.Run(cmd.Context(), ctl, interval, logger)
}
