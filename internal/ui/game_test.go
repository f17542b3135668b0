package ui

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

func newTestGame(t *testing.T) (*Game, *fakeInput) {
	t.Helper()
	in := newFakeInput(t)
	wall := time.Unix(0, 0)
	ctl := calibration.New(calibration.WithWallClock(func() time.Time { return wall }))
	t.Cleanup(ctl.Stop)
	g := New(ctl, log.Nop())
	g.Layout(960, 720)
	return g, in
}

func TestSpaceTogglesSession(t *testing.T) {
	g, in := newTestGame(t)
	in.tap(g, ebiten.KeySpace)
	assert.True(t, g.ctl.Running())
	in.tap(g, ebiten.KeySpace)
	assert.False(t, g.ctl.Running())
}

func TestEscapeStops(t *testing.T) {
	g, in := newTestGame(t)
	in.tap(g, ebiten.KeySpace)
	require.True(t, g.ctl.Running())
	in.tap(g, ebiten.KeyEscape)
	assert.False(t, g.ctl.Running())
	in.tap(g, ebiten.KeyEscape)
	assert.False(t, g.ctl.Running())
}

func TestHeldKeyActsOnce(t *testing.T) {
	g, in := newTestGame(t)
	in.keys[ebiten.KeyArrowUp] = true
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Update())
	}
	assert.Equal(t, 65, g.ctl.Params().BPM)
}

func TestArrowKeysAdjustParams(t *testing.T) {
	g, in := newTestGame(t)
	in.tap(g, ebiten.KeyArrowDown)
	in.tap(g, ebiten.KeyArrowDown)
	assert.Equal(t, 50, g.ctl.Params().BPM)

	in.tap(g, ebiten.KeyArrowRight)
	in.tap(g, ebiten.KeyArrowRight)
	in.tap(g, ebiten.KeyArrowLeft)
	assert.Equal(t, 10, g.ctl.Params().OffsetMs)
	assert.Equal(t, 10, g.transport.Offset.Value)
}

func TestBPMStaysInRange(t *testing.T) {
	g, in := newTestGame(t)
	for i := 0; i < 20; i++ {
		in.tap(g, ebiten.KeyArrowUp)
	}
	assert.Equal(t, 120, g.ctl.Params().BPM)
	for i := 0; i < 30; i++ {
		in.tap(g, ebiten.KeyArrowDown)
	}
	assert.Equal(t, 30, g.ctl.Params().BPM)
}

func TestPatternKeysAndReset(t *testing.T) {
	g, in := newTestGame(t)
	in.tap(g, ebiten.Key2)
	assert.Equal(t, render.Radar, g.ctl.Params().Pattern)
	in.tap(g, ebiten.Key3)
	assert.Equal(t, render.Flash, g.ctl.Params().Pattern)
	g.render()
	assert.Equal(t, render.Flash, g.Frame().Pattern)

	in.tap(g, ebiten.KeyArrowUp)
	in.tap(g, ebiten.KeySpace)
	in.tap(g, ebiten.Key0)
	assert.Equal(t, calibration.DefaultParams(), g.ctl.Params())
	assert.True(t, g.ctl.Running(), "reset keeps the session")
}

func TestFullscreenToggle(t *testing.T) {
	g, in := newTestGame(t)
	full := false
	oldSet, oldIs := setFullscreen, isFullscreen
	setFullscreen = func(v bool) { full = v }
	isFullscreen = func() bool { return full }
	defer func() { setFullscreen, isFullscreen = oldSet, oldIs }()

	in.tap(g, ebiten.KeyF)
	assert.True(t, full)
	in.tap(g, ebiten.KeyF)
	assert.False(t, full)
}

func TestPlayButtonStartsSession(t *testing.T) {
	g, in := newTestGame(t)
	r := g.transport.playRect
	in.click(func() { _ = g.Update() }, r.Min.X+1, r.Min.Y+1)
	assert.True(t, g.ctl.Running())
	assert.True(t, g.transport.Playing)

	r = g.transport.stopRect
	in.click(func() { _ = g.Update() }, r.Min.X+1, r.Min.Y+1)
	assert.False(t, g.ctl.Running())
}

func TestFrameExcludesControlBar(t *testing.T) {
	g, _ := newTestGame(t)
	g.render()
	f := g.Frame()
	assert.Equal(t, 960, f.Width)
	assert.Equal(t, 720-barHeight, f.Height)
}

func TestUpdateSchedulesWithoutRendering(t *testing.T) {
	g, in := newTestGame(t)
	in.tap(g, ebiten.KeySpace)
	require.True(t, g.ctl.Running())
	assert.Empty(t, g.Frame().Ops)

	g.render()
	assert.NotEmpty(t, g.Frame().Ops)
}
