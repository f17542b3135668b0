package render

import (
	"image"
	"image/color"
)

type OpKind int

const (
	OpFill OpKind = iota
	OpRect
	OpLine
	OpCircle
	OpText
)

// Layer tags an op with what produced it.
type Layer int

const (
	LayerPattern Layer = iota
	LayerHUD
)

// Op is one draw command. Which fields matter depends on Kind.
type Op struct {
	Kind  OpKind
	Layer Layer
	Color color.RGBA

	Rect   image.Rectangle // OpRect
	Filled bool            // OpRect, OpCircle

	X1, Y1, X2, Y2 float32 // OpLine
	CX, CY, R      float32 // OpCircle
	Width          float32 // OpLine, stroked OpRect/OpCircle

	Text  string // OpText, origin at (X, Y) top-left
	X, Y  int
	Scale int
}

// Frame is the complete picture for one display refresh, in draw order.
type Frame struct {
	Width, Height int
	Pattern       Pattern
	Phase         float64
	Delta         float64
	Ops           []Op
}

// Glyph metrics of the debug font the front ends draw text with.
const (
	GlyphW = 6
	GlyphH = 16
)

// TextWidth is the pixel width of s at scale.
func TextWidth(s string, scale int) int {
	if scale < 1 {
		scale = 1
	}
	return len([]rune(s)) * GlyphW * scale
}

type builder struct {
	f     *Frame
	layer Layer
}

func (b *builder) add(op Op) {
	op.Layer = b.layer
	b.f.Ops = append(b.f.Ops, op)
}

func (b *builder) fill(c color.RGBA) {
	b.add(Op{Kind: OpFill, Color: c, Rect: image.Rect(0, 0, b.f.Width, b.f.Height), Filled: true})
}

func (b *builder) rect(r image.Rectangle, c color.RGBA, filled bool) {
	b.add(Op{Kind: OpRect, Rect: r, Color: c, Filled: filled, Width: 1})
}

func (b *builder) line(x1, y1, x2, y2 float64, width float32, c color.RGBA) {
	b.add(Op{Kind: OpLine, X1: float32(x1), Y1: float32(y1), X2: float32(x2), Y2: float32(y2), Width: width, Color: c})
}

func (b *builder) circle(cx, cy, r float64, width float32, c color.RGBA, filled bool) {
	b.add(Op{Kind: OpCircle, CX: float32(cx), CY: float32(cy), R: float32(r), Width: width, Color: c, Filled: filled})
}

func (b *builder) text(s string, x, y, scale int, c color.RGBA) {
	b.add(Op{Kind: OpText, Text: s, X: x, Y: y, Scale: scale, Color: c})
}

// centeredText places s so its box is centred on (cx, cy).
func (b *builder) centeredText(s string, cx, cy, scale int, c color.RGBA) {
	b.text(s, cx-TextWidth(s, scale)/2, cy-GlyphH*scale/2, scale, c)
}
