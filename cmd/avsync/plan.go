package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/config"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

var planBeats int

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the click schedule without playing it",
	Long: `Runs the click scheduler against a simulated clock ticking at the display
rate and prints when each click would be queued and when it would sound.`,
	Example: `  avsync plan --bpm 120 --offset -30 --beats 8`,
	RunE:    runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planBeats, "beats", 8, "Number of beats to plan")
	rootCmd.AddCommand(planCmd)
}

// plannedClick is one beat of a simulated session.
type plannedClick struct {
	beat.Beat
	QueuedAt float64 // simulated time the scheduler queued the click
}

// planClicks simulates a session from time 0 with one scheduler tick per frame
// and returns the first n beats.
func planClicks(cfg *config.Config, n int) []plannedClick {
	s := beat.NewScheduler()
	s.BPM = beat.ClampBPM(cfg.Calibration.BPM)
	s.OffsetMs = calibration.ClampOffsetMs(cfg.Calibration.OffsetMs)
	s.Lookahead = cfg.Scheduler.Lookahead
	s.StartupGrace = cfg.Scheduler.StartupGrace

	frame := 1 / float64(cfg.Display.TPS)
	var now float64
	var out []plannedClick
	s.OnBeat = func(b beat.Beat) {
		if len(out) < n {
			out = append(out, plannedClick{Beat: b, QueuedAt: now})
		}
	}
	s.Start(0)
	for len(out) < n {
		s.Tick(now)
		now += frame
	}
	return out
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if planBeats <= 0 {
		return fmt.Errorf("--beats must be positive, got %d", planBeats)
	}
	cfg.Calibration.BPM = beat.ClampBPM(cfg.Calibration.BPM)
	cfg.Calibration.OffsetMs = calibration.ClampOffsetMs(cfg.Calibration.OffsetMs)
	printPlan(cmd.OutOrStdout(), cfg, planClicks(cfg, planBeats))
	return nil
}

func printPlan(w io.Writer, cfg *config.Config, clicks []plannedClick) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	offset := yellow
	if cfg.Calibration.OffsetMs == 0 {
		offset = green
	}

	cyan.Fprintf(w, "Click plan: %d bpm, interval %s, offset ", cfg.Calibration.BPM,
		time.Duration(beat.Interval(cfg.Calibration.BPM)*float64(time.Second)))
	offset.Fprintln(w, render.FormatOffset(cfg.Calibration.OffsetMs))
	fmt.Fprintf(w, "%5s  %10s  %10s  %10s  %8s\n", "beat", "visual(s)", "audio(s)", "queued(s)", "lead")

	for _, c := range clicks {
		lead := (c.Audible - c.QueuedAt) * 1000
		leadColor := green
		if lead < 0 {
			leadColor = red
		}
		fmt.Fprintf(w, "%5d  %10.4f  %10.4f  %10.4f  ", c.Index, c.Nominal, c.Audible, c.QueuedAt)
		leadColor.Fprintf(w, "%6.1fms\n", lead)
	}
}
