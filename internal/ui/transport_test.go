package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/render"
)


func TestTransportButtonsFireOncePerPress(t *testing.T) {
	in := newFakeInput(t)
	tr := NewTransport(960)

	in.x, in.y = tr.playRect.Min.X+2, tr.playRect.Min.Y+2
	in.pressed = true
	acts := tr.Update()
	require.Len(t, acts, 1)
	assert.Equal(t, ActStart, acts[0].Kind)

	assert.Empty(t, tr.Update(), "holding the button does not repeat")

	in.pressed = false
	tr.Update()
	in.x, in.y = tr.stopRect.Min.X+2, tr.stopRect.Min.Y+2
	in.pressed = true
	acts = tr.Update()
	require.Len(t, acts, 1)
	assert.Equal(t, ActStop, acts[0].Kind)
}

func TestTransportBPMSteppersClamp(t *testing.T) {
	in := newFakeInput(t)
	tr := NewTransport(960)
	tr.Sync(calibration.Params{BPM: 120}, false)

	var got []Action
	in.click(func() { got = append(got, tr.Update()...) }, tr.bpmIncRect.Min.X+1, tr.bpmIncRect.Min.Y+1)
	require.Len(t, got, 1)
	assert.Equal(t, Action{Kind: ActBPM, Value: 120}, got[0])

	got = nil
	tr.Sync(calibration.Params{BPM: 60}, false)
	in.click(func() { got = append(got, tr.Update()...) }, tr.bpmDecRect.Min.X+1, tr.bpmDecRect.Min.Y+1)
	require.Len(t, got, 1)
	assert.Equal(t, Action{Kind: ActBPM, Value: 55}, got[0])
}

func TestTransportPatternButtons(t *testing.T) {
	in := newFakeInput(t)
	tr := NewTransport(960)
	for i, r := range tr.patternRect {
		var got []Action
		in.click(func() { got = append(got, tr.Update()...) }, r.Min.X+1, r.Min.Y+1)
		require.Len(t, got, 1)
		assert.Equal(t, Action{Kind: ActPattern, Value: i}, got[0])
	}
}

func TestTransportOffsetSlider(t *testing.T) {
	in := newFakeInput(t)
	tr := NewTransport(960)
	r := tr.Offset.Rect()

	in.x, in.y = r.Max.X-1, r.Min.Y+2
	in.pressed = true
	acts := tr.Update()
	require.Len(t, acts, 1)
	assert.Equal(t, Action{Kind: ActOffset, Value: calibration.MaxOffsetMs}, acts[0])

	// Sync while dragging leaves the knob where the user holds it.
	tr.Sync(calibration.Params{BPM: 60, OffsetMs: 0}, true)
	assert.Equal(t, calibration.MaxOffsetMs, tr.Offset.Value)

	in.pressed = false
	tr.Update()
	tr.Sync(calibration.Params{BPM: 60, OffsetMs: -30, Pattern: render.Flash}, true)
	assert.Equal(t, -30, tr.Offset.Value)
	assert.Equal(t, render.Flash, tr.Pattern)
	assert.True(t, tr.Playing)
}

func TestTransportLayoutDoesNotOverlap(t *testing.T) {
	for _, w := range []int{480, 640, 1280} {
		tr := NewTransport(w)
		s := tr.Offset.Rect()
		assert.False(t, s.Overlaps(tr.bpmIncRect), "width %d", w)
		assert.Less(t, tr.bpmIncRect.Max.X, s.Min.X, "width %d", w)
	}
}
