package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

var white = color.RGBA{255, 255, 255, 255}

func TestCanvasPixelSize(t *testing.T) {
	cv := NewCanvas(80, 20)
	w, h := cv.PixelSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 320, h)
}

func TestCanvasFilledRect(t *testing.T) {
	cv := NewCanvas(10, 5)
	cv.Draw(render.Frame{Ops: []render.Op{
		{Kind: render.OpRect, Rect: image.Rect(8, 16, 24, 32), Filled: true, Color: white},
	}})
	assert.Equal(t, '█', cv.At(1, 1))
	assert.Equal(t, '█', cv.At(2, 1))
	assert.Equal(t, ' ', cv.At(3, 1))
	assert.Equal(t, ' ', cv.At(1, 2))
}

func TestCanvasBrightFill(t *testing.T) {
	cv := NewCanvas(4, 2)
	cv.Draw(render.Frame{Ops: []render.Op{{Kind: render.OpFill, Color: white}}})
	assert.Equal(t, "████\n████", cv.Plain())

	cv.Draw(render.Frame{Ops: []render.Op{{Kind: render.OpFill, Color: color.RGBA{10, 10, 10, 255}}}})
	assert.Equal(t, "    \n    ", cv.Plain())
}

func TestCanvasTextIsCentred(t *testing.T) {
	cv := NewCanvas(20, 3)
	// "7" at scale 10 is 60x160 px centred on (80, 24).
	cv.Draw(render.Frame{Ops: []render.Op{
		{Kind: render.OpText, Text: "7", X: 50, Y: -56, Scale: 10, Color: white},
	}})
	assert.Equal(t, '7', cv.At(10, 1))
}

func TestCanvasClipsOutside(t *testing.T) {
	cv := NewCanvas(5, 5)
	assert.NotPanics(t, func() {
		cv.Draw(render.Frame{Ops: []render.Op{
			{Kind: render.OpLine, X1: -100, Y1: -100, X2: 1000, Y2: 1000, Width: 1, Color: white},
			{Kind: render.OpCircle, CX: 20, CY: 40, R: 500, Width: 1, Color: white},
			{Kind: render.OpText, Text: "far away", X: 5000, Y: 5000, Scale: 1, Color: white},
		}})
	})
}

func TestCanvasRendersEveryPattern(t *testing.T) {
	cv := NewCanvas(80, 24)
	w, h := cv.PixelSize()
	r := render.New()
	for _, p := range render.Patterns() {
		f := r.Render(render.Input{Now: 0.5, Next: 1, Interval: 1, BPM: 60, Pattern: p, Running: true, AudioOK: true, Width: w, Height: h})
		cv.Draw(f)
		plain := cv.Plain()
		require.Len(t, strings.Split(plain, "\n"), 24)
		assert.Contains(t, plain, "OFFSET", p.String())
		assert.Contains(t, plain, "BPM 60", p.String())
	}
}

func TestCanvasStringKeepsRowCount(t *testing.T) {
	cv := NewCanvas(6, 3)
	cv.Draw(render.Frame{Ops: []render.Op{{Kind: render.OpText, Text: "ab", X: 0, Y: 0, Scale: 1, Color: white}}})
	assert.Len(t, strings.Split(cv.String(), "\n"), 3)
}

func TestCanvasNegativePixelsStayOffCanvas(t *testing.T) {
	cv := NewCanvas(4, 2)
	cv.Draw(render.Frame{Ops: []render.Op{
		{Kind: render.OpLine, X1: -7, Y1: 8, X2: -1, Y2: 8, Width: 1, Color: white},
		{Kind: render.OpRect, Rect: image.Rect(-6, -10, -1, -2), Filled: true, Color: white},
	}})
	assert.Equal(t, "    \n    ", cv.Plain())

	cv.Draw(render.Frame{Ops: []render.Op{
		{Kind: render.OpLine, X1: -7, Y1: 8, X2: 1, Y2: 8, Width: 1, Color: white},
	}})
	assert.Equal(t, '·', cv.At(0, 0))
}
