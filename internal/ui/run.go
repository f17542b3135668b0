package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowOptions configures the desktop window.
type WindowOptions struct {
	Width, Height int
	Title         string
	Fullscreen    bool
	TPS           int
}

// Run opens the window and blocks until it is closed. The session, if any, is
// stopped on return.
func Run(g *Game, opts WindowOptions) error {
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(opts.Fullscreen)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	ebiten.SetVsyncEnabled(true)

	defer g.ctl.Stop()
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
