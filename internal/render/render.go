package render

import (
	"fmt"
	"image"
	"math"

	"github.com/ingyamilmolinar/avsync/core/beat"
)

// Input is everything one frame depends on.
type Input struct {
	Now      float64 // current time on the session timebase
	Next     float64 // schedule cursor, the next unscheduled nominal beat
	Interval float64 // beat length in seconds
	BPM      int
	OffsetMs int
	Pattern  Pattern
	Running  bool
	AudioOK  bool
	Width    int
	Height   int
}

// encoding draws one visual representation of the beat phase.
type encoding interface {
	encode(b *builder, in Input, phase, delta float64)
}

// Renderer turns an Input into a Frame. It keeps no state between frames, so a
// pattern change shows up complete on the very next frame.
type Renderer struct {
	encodings [patternCount]encoding
}

func New() *Renderer {
	return &Renderer{
		encodings: [patternCount]encoding{
			Bar:   barEncoding{},
			Radar: radarEncoding{},
			Flash: flashEncoding{},
		},
	}
}

// Render builds the frame. Only the HUD reads OffsetMs; the patterns see the unshifted
// beat clock.
func (r *Renderer) Render(in Input) Frame {
	f := Frame{Width: in.Width, Height: in.Height, Pattern: in.Pattern}
	b := &builder{f: &f, layer: LayerPattern}

	if !in.Running || in.Interval <= 0 {
		b.fill(colBackground)
		b.centeredText("PRESS SPACE TO START", in.Width/2, in.Height/2, 2, colHUDText)
		b.layer = LayerHUD
		drawHUD(b, in)
		return f
	}

	f.Phase = beat.PhaseAt(in.Now, in.Next, in.Interval)
	f.Delta = beat.WrappedDelta(in.Now, in.Next, in.Interval)

	enc := r.encodings[Bar]
	if in.Pattern.Valid() {
		enc = r.encodings[in.Pattern]
	}
	enc.encode(b, in, f.Phase, f.Delta)

	b.layer = LayerHUD
	drawHUD(b, in)
	return f
}

var tickMs = []int{-100, -50, 50, 100}

type barEncoding struct{}

// Bar moves a marker down a vertical track. It sits above the reference line while the
// beat approaches, crosses it on the beat and continues below afterwards. Tick marks
// show where the marker is when a click offset by that many ms would be heard.
func (barEncoding) encode(b *builder, in Input, _, delta float64) {
	b.fill(colBackground)

	trackH := float64(in.Height) * 0.8
	trackW := math.Max(60, float64(in.Width)*0.15)
	left := (float64(in.Width) - trackW) / 2
	top := (float64(in.Height) - trackH) / 2
	refY := top + trackH/2
	pxPerSec := trackH / in.Interval

	b.rect(image.Rect(int(left), int(top), int(left+trackW), int(top+trackH)), colTrack, false)

	for _, ms := range tickMs {
		y := refY + float64(ms)/1000*pxPerSec
		if y < top || y > top+trackH {
			continue
		}
		b.line(left, y, left+trackW*0.25, y, 1, colTick)
		b.line(left+trackW*0.75, y, left+trackW, y, 1, colTick)
		b.text(fmt.Sprintf("%+dms", ms), int(left+trackW)+6, int(y)-GlyphH/2, 1, colTick)
	}

	b.line(left-20, refY, left+trackW+20, refY, 3, colReference)

	y := refY - delta*pxPerSec
	b.rect(image.Rect(int(left)+2, int(y)-3, int(left+trackW)-2, int(y)+3), colMarker, true)
}

type radarEncoding struct{}

// Radar sweeps a hand once around the dial per beat, starting at 12 o'clock.
func (radarEncoding) encode(b *builder, in Input, phase, _ float64) {
	b.fill(colBackground)

	cx := float64(in.Width) / 2
	cy := float64(in.Height) / 2
	r := 0.4 * math.Min(float64(in.Width), float64(in.Height))

	b.circle(cx, cy, r, 2, colTrack, false)
	b.line(cx, cy-r, cx, cy-r*0.82, 3, colReference)

	for _, ms := range tickMs {
		a := float64(ms) / (in.Interval * 1000) * 2 * math.Pi
		sx, sy := polar(cx, cy, r, a)
		ex, ey := polar(cx, cy, r*0.9, a)
		b.line(sx, sy, ex, ey, 1, colTick)
		lx, ly := polar(cx, cy, r*1.12, a)
		b.centeredText(fmt.Sprintf("%+d", ms), int(lx), int(ly), 1, colTick)
	}

	hx, hy := polar(cx, cy, r*0.95, phase*2*math.Pi)
	b.line(cx, cy, hx, hy, 3, colHand)
	b.circle(cx, cy, 4, 1, colHand, true)
}

// polar converts an angle measured clockwise from 12 o'clock.
func polar(cx, cy, r, a float64) (float64, float64) {
	return cx + r*math.Sin(a), cy - r*math.Cos(a)
}

type flashEncoding struct{}

const flashWindow = 0.05

// Flash blanks the screen white at the start of each beat and otherwise counts down.
func (flashEncoding) encode(b *builder, in Input, phase, _ float64) {
	if phase < flashWindow {
		b.fill(colFlash)
		return
	}
	b.fill(colBackground)
	n := Countdown(phase)
	b.centeredText(fmt.Sprintf("%d", n), in.Width/2, in.Height/2, 10, colCountdown)
}

// Countdown is the number shown by the flash pattern for phase.
func Countdown(phase float64) int {
	return int(math.Ceil((1 - phase) * 4))
}

func drawHUD(b *builder, in Input) {
	b.text("OFFSET", 10, 10, 1, colHUDText)
	b.text(FormatOffset(in.OffsetMs), 10, 28, 2, OffsetColor(in.OffsetMs))
	b.text(fmt.Sprintf("BPM %d  %s", in.BPM, in.Pattern), 10, 66, 1, colHUDText)
	if in.Running && !in.AudioOK {
		b.text("AUDIO UNAVAILABLE - VISUAL ONLY", 10, 84, 1, colWarning)
	}
}

// FormatOffset renders an offset with an explicit sign, e.g. "+120 ms".
func FormatOffset(ms int) string {
	if ms == 0 {
		return "0 ms"
	}
	return fmt.Sprintf("%+d ms", ms)
}
