package ui

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

// Slider is a horizontal slider over an integer range, snapped to Step.
type Slider struct {
	r        image.Rectangle
	Min, Max int
	Step     int
	Value    int
	dragging bool
}

func NewSlider(min, max, step, v int) *Slider {
	s := &Slider{Min: min, Max: max, Step: step}
	s.Set(v)
	return s
}

func (s *Slider) SetRect(r image.Rectangle) { s.r = r }

func (s *Slider) Rect() image.Rectangle { return s.r }

// Set clamps v into range and snaps it to the step grid.
func (s *Slider) Set(v int) {
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	if s.Step > 1 {
		v = s.Min + int(math.Round(float64(v-s.Min)/float64(s.Step)))*s.Step
	}
	s.Value = v
}

// Handle processes mouse interaction and reports whether the value changed.
func (s *Slider) Handle(mx, my int, pressed bool) bool {
	if pressed {
		if s.dragging || image.Pt(mx, my).In(s.r) {
			s.dragging = true
			prev := s.Value
			s.setFromX(mx)
			return s.Value != prev
		}
	} else {
		s.dragging = false
	}
	return false
}

// Dragging reports whether the knob is held.
func (s *Slider) Dragging() bool { return s.dragging }

func (s *Slider) setFromX(mx int) {
	w := s.r.Dx() - 1
	if w <= 0 {
		s.Set(s.Min)
		return
	}
	pos := float64(mx - s.r.Min.X)
	if pos < 0 {
		pos = 0
	}
	if pos > float64(w) {
		pos = float64(w)
	}
	s.Set(s.Min + int(math.Round(pos/float64(w)*float64(s.Max-s.Min))))
}

func (s *Slider) xFor(v int) int {
	if s.Max == s.Min {
		return s.r.Min.X
	}
	return s.r.Min.X + int(float64(v-s.Min)/float64(s.Max-s.Min)*float64(s.r.Dx()-1))
}

// Draw renders the track, a mark at zero, the knob and the value label.
func (s *Slider) Draw(dst *ebiten.Image) {
	trackY := s.r.Min.Y + s.r.Dy()/2 - 2
	drawRect(dst, image.Rect(s.r.Min.X, trackY, s.r.Max.X, trackY+4), colSliderTrack, true, 0)

	if s.Min < 0 && s.Max > 0 {
		zx := s.xFor(0)
		drawRect(dst, image.Rect(zx, s.r.Min.Y+2, zx+1, s.r.Max.Y-2), colSliderZero, true, 0)
	}

	kx := s.xFor(s.Value)
	drawRect(dst, image.Rect(kx-2, s.r.Min.Y, kx+2, s.r.Max.Y), colSliderKnob, true, 0)

	drawText(dst, render.FormatOffset(s.Value), s.r.Max.X+8, s.r.Min.Y+s.r.Dy()/2-render.GlyphH/2, 1, render.OffsetColor(s.Value))
}
