package ui

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

// Game is the desktop front end. Update polls input and keeps the audio
// schedule topped up at the tick rate; Draw samples the phase and renders at the
// moment the display asks for a frame.
type Game struct {
	ctl       *calibration.Controller
	transport *Transport
	keys      *edges
	logger    *log.Logger

	winW, winH int
	frame      render.Frame
}

func New(ctl *calibration.Controller, logger *log.Logger) *Game {
	g := &Game{
		ctl:       ctl,
		transport: NewTransport(640),
		keys:      newEdges(),
		logger:    logger.With("ui"),
		winW:      640,
		winH:      480,
	}
	g.transport.Sync(ctl.Params(), ctl.Running())
	return g
}

func (g *Game) Layout(w, h int) (int, int) {
	if w != g.winW || h != g.winH {
		g.logger.Debugf("layout %dx%d", w, h)
		g.winW, g.winH = w, h
		g.transport.SetWidth(w)
	}
	return w, h
}

func (g *Game) patternHeight() int {
	if h := g.winH - barHeight; h > 0 {
		return h
	}
	return 1
}

func (g *Game) Update() error {
	for _, a := range g.transport.Update() {
		g.apply(a)
	}
	g.handleKeys()
	g.transport.Sync(g.ctl.Params(), g.ctl.Running())
	g.ctl.Schedule()
	return nil
}

func (g *Game) handleKeys() {
	p := g.ctl.Params()
	if g.keys.pressed(ebiten.KeySpace) {
		if g.ctl.Running() {
			g.apply(Action{Kind: ActStop})
		} else {
			g.apply(Action{Kind: ActStart})
		}
	}
	if g.keys.pressed(ebiten.KeyEscape) {
		g.apply(Action{Kind: ActStop})
	}
	if g.keys.pressed(ebiten.KeyArrowUp) {
		g.apply(Action{Kind: ActBPM, Value: p.BPM + beat.BPMStep})
	}
	if g.keys.pressed(ebiten.KeyArrowDown) {
		g.apply(Action{Kind: ActBPM, Value: p.BPM - beat.BPMStep})
	}
	if g.keys.pressed(ebiten.KeyArrowRight) {
		g.apply(Action{Kind: ActOffset, Value: p.OffsetMs + calibration.OffsetStepMs})
	}
	if g.keys.pressed(ebiten.KeyArrowLeft) {
		g.apply(Action{Kind: ActOffset, Value: p.OffsetMs - calibration.OffsetStepMs})
	}
	for i, k := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if g.keys.pressed(k) {
			g.apply(Action{Kind: ActPattern, Value: i})
		}
	}
	if g.keys.pressed(ebiten.Key0) {
		g.ctl.Reset()
	}
	if g.keys.pressed(ebiten.KeyF) {
		setFullscreen(!isFullscreen())
	}
}

func (g *Game) apply(a Action) {
	switch a.Kind {
	case ActStart:
		if err := g.ctl.Start(); err != nil {
			g.logger.Debugf("start: %v", err)
		}
	case ActStop:
		g.ctl.Stop()
	case ActBPM:
		g.ctl.SetBPM(a.Value)
	case ActOffset:
		g.ctl.SetOffsetMs(a.Value)
	case ActPattern:
		g.ctl.SetPattern(render.Pattern(a.Value))
	}
}

// render runs one controller frame for the pattern area.
func (g *Game) render() {
	g.frame = g.ctl.Tick(g.winW, g.patternHeight())
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render()
	area := screen.SubImage(image.Rect(0, barHeight, g.winW, g.winH)).(*ebiten.Image)
	drawFrame(area, g.frame, barHeight)
	g.transport.Draw(screen)
}

// Frame returns the frame rendered by the last Draw.
func (g *Game) Frame() render.Frame { return g.frame }
