package ui

import (
	"image"
	"image/color"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

// The draw primitives are variables so tests can override them to capture
// draw calls without a graphics context.

var drawRect = func(dst *ebiten.Image, r image.Rectangle, c color.Color, filled bool, width float32) {
	if filled {
		vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
	} else {
		vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), width, c, false)
	}
}

// drawButton renders a filled rectangle with a border.
var drawButton = func(dst *ebiten.Image, r image.Rectangle, fill, border color.Color, pressed bool) {
	fc := fill
	if pressed {
		if c, ok := fill.(color.RGBA); ok {
			fc = color.RGBA{c.R / 2, c.G / 2, c.B / 2, c.A}
		}
	}
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fc, false)
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), 1, border, false)
}

var drawLine = func(dst *ebiten.Image, x1, y1, x2, y2, width float32, c color.Color) {
	vector.StrokeLine(dst, x1, y1, x2, y2, width, c, true)
}

var drawCircle = func(dst *ebiten.Image, cx, cy, r, width float32, c color.Color, filled bool) {
	if filled {
		vector.DrawFilledCircle(dst, cx, cy, r, c, true)
	} else {
		vector.StrokeCircle(dst, cx, cy, r, width, c, true)
	}
}

// drawText prints s with the debug font, scaled by an integer factor.
var drawText = func(dst *ebiten.Image, s string, x, y, scale int, c color.Color) {
	if scale < 1 {
		scale = 1
	}
	img := glyphs.get(s)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	dst.DrawImage(img, &op)
}

const glyphCacheSize = 256

// glyphCache keeps pre-rendered white text images. Scaling and tinting happen at
// draw time, so one entry serves every size and colour of a string.
type glyphCache struct {
	cache *lru.Cache[string, *ebiten.Image]
}

var glyphs = newGlyphCache(glyphCacheSize)

func newGlyphCache(size int) *glyphCache {
	c, err := lru.NewWithEvict[string, *ebiten.Image](size, func(_ string, img *ebiten.Image) {
		img.Deallocate()
	})
	if err != nil {
		panic(err)
	}
	return &glyphCache{cache: c}
}

func (g *glyphCache) get(s string) *ebiten.Image {
	if img, ok := g.cache.Get(s); ok {
		return img
	}
	w := render.TextWidth(s, 1)
	if w == 0 {
		w = 1
	}
	img := ebiten.NewImage(w, render.GlyphH)
	ebitenutil.DebugPrint(img, s)
	g.cache.Add(s, img)
	return img
}

// drawFrame executes a render.Frame onto dst, translated down by offY pixels.
func drawFrame(dst *ebiten.Image, f render.Frame, offY int) {
	oy := float32(offY)
	for _, op := range f.Ops {
		switch op.Kind {
		case render.OpFill:
			drawRect(dst, op.Rect.Add(image.Pt(0, offY)), op.Color, true, 0)
		case render.OpRect:
			drawRect(dst, op.Rect.Add(image.Pt(0, offY)), op.Color, op.Filled, op.Width)
		case render.OpLine:
			drawLine(dst, op.X1, op.Y1+oy, op.X2, op.Y2+oy, op.Width, op.Color)
		case render.OpCircle:
			drawCircle(dst, op.CX, op.CY+oy, op.R, op.Width, op.Color, op.Filled)
		case render.OpText:
			drawText(dst, op.Text, op.X, op.Y+offY, op.Scale, op.Color)
		}
	}
}
