package ui

import (
	"image"
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

type drawCall struct {
	kind string
	rect image.Rectangle
	y    float32
	text string
	tx   int
	ty   int
}

func captureDraws(t *testing.T) *[]drawCall {
	t.Helper()
	var calls []drawCall
	oldRect, oldLine, oldCircle, oldText := drawRect, drawLine, drawCircle, drawText
	drawRect = func(_ *ebiten.Image, r image.Rectangle, _ color.Color, _ bool, _ float32) {
		calls = append(calls, drawCall{kind: "rect", rect: r})
	}
	drawLine = func(_ *ebiten.Image, _, y1, _, _, _ float32, _ color.Color) {
		calls = append(calls, drawCall{kind: "line", y: y1})
	}
	drawCircle = func(_ *ebiten.Image, _, cy, _, _ float32, _ color.Color, _ bool) {
		calls = append(calls, drawCall{kind: "circle", y: cy})
	}
	drawText = func(_ *ebiten.Image, s string, x, y, _ int, _ color.Color) {
		calls = append(calls, drawCall{kind: "text", text: s, tx: x, ty: y})
	}
	t.Cleanup(func() {
		drawRect, drawLine, drawCircle, drawText = oldRect, oldLine, oldCircle, oldText
	})
	return &calls
}

func TestDrawFrameTranslatesEveryOp(t *testing.T) {
	calls := captureDraws(t)
	f := render.Frame{Ops: []render.Op{
		{Kind: render.OpFill, Rect: image.Rect(0, 0, 10, 10)},
		{Kind: render.OpRect, Rect: image.Rect(1, 2, 3, 4)},
		{Kind: render.OpLine, Y1: 5},
		{Kind: render.OpCircle, CY: 6},
		{Kind: render.OpText, Text: "hi", X: 7, Y: 8},
	}}
	drawFrame(nil, f, 40)

	want := []drawCall{
		{kind: "rect", rect: image.Rect(0, 40, 10, 50)},
		{kind: "rect", rect: image.Rect(1, 42, 3, 44)},
		{kind: "line", y: 45},
		{kind: "circle", y: 46},
		{kind: "text", text: "hi", tx: 7, ty: 48},
	}
	if len(*calls) != len(want) {
		t.Fatalf("expected %d draw calls got %d", len(want), len(*calls))
	}
	for i, c := range *calls {
		if c != want[i] {
			t.Errorf("call %d: got %+v want %+v", i, c, want[i])
		}
	}
}

func TestDrawFrameRendersRealFrame(t *testing.T) {
	calls := captureDraws(t)
	r := render.New()
	for _, p := range render.Patterns() {
		*calls = nil
		f := r.Render(render.Input{Now: 0.3, Next: 1, Interval: 1, BPM: 60, Pattern: p, Running: true, AudioOK: true, Width: 640, Height: 480})
		drawFrame(nil, f, 0)
		if len(*calls) != len(f.Ops) {
			t.Fatalf("%s: %d ops but %d draw calls", p, len(f.Ops), len(*calls))
		}
	}
}
