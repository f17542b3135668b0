package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

// barHeight is the height of the control bar above the pattern area.
const barHeight = 40

type ActionKind int

const (
	ActStart ActionKind = iota
	ActStop
	ActBPM
	ActOffset
	ActPattern
)

// Action is one user request coming from the control bar.
type Action struct {
	Kind  ActionKind
	Value int
}

// Transport is the control bar: play/stop, tempo steppers, the offset slider and
// one button per pattern.
type Transport struct {
	BPM     int
	Offset  *Slider
	Pattern render.Pattern
	Playing bool

	playRect    image.Rectangle
	stopRect    image.Rectangle
	bpmDecRect  image.Rectangle
	bpmIncRect  image.Rectangle
	patternRect [3]image.Rectangle

	edges *edges
}

func NewTransport(w int) *Transport {
	t := &Transport{
		BPM:    beat.DefaultBPM,
		Offset: NewSlider(calibration.MinOffsetMs, calibration.MaxOffsetMs, calibration.OffsetStepMs, 0),
		edges:  newEdges(),
	}
	t.SetWidth(w)
	return t
}

// SetWidth lays the controls out for a window w pixels wide.
func (t *Transport) SetWidth(w int) {
	t.playRect = image.Rect(10, 8, 40, 32)
	t.stopRect = image.Rect(46, 8, 76, 32)
	t.bpmDecRect = image.Rect(96, 8, 116, 32)
	t.bpmIncRect = image.Rect(178, 8, 198, 32)

	x := w - 3*70 - 10
	for i := range t.patternRect {
		t.patternRect[i] = image.Rect(x+i*70, 8, x+i*70+64, 32)
	}

	sliderMin := 230
	sliderMax := x - 80
	if sliderMax < sliderMin+60 {
		sliderMax = sliderMin + 60
	}
	t.Offset.SetRect(image.Rect(sliderMin, 8, sliderMax, 32))
}

// Sync copies controller state into the widgets.
func (t *Transport) Sync(p calibration.Params, running bool) {
	t.BPM = p.BPM
	t.Pattern = p.Pattern
	t.Playing = running
	if !t.Offset.Dragging() {
		t.Offset.Set(p.OffsetMs)
	}
}

// Update polls the mouse and returns the requested changes. Buttons fire once per
// press; the slider reports every change while dragged.
func (t *Transport) Update() []Action {
	x, y := cursorPosition()
	pressed := isMouseButtonPressed(ebiten.MouseButtonLeft)
	clicked := t.edges.clicked()

	var acts []Action
	if t.Offset.Handle(x, y, pressed) {
		acts = append(acts, Action{Kind: ActOffset, Value: t.Offset.Value})
	}
	if !clicked {
		return acts
	}
	switch {
	case pt(x, y, t.playRect):
		acts = append(acts, Action{Kind: ActStart})
	case pt(x, y, t.stopRect):
		acts = append(acts, Action{Kind: ActStop})
	case pt(x, y, t.bpmDecRect):
		acts = append(acts, Action{Kind: ActBPM, Value: beat.ClampBPM(t.BPM - beat.BPMStep)})
	case pt(x, y, t.bpmIncRect):
		acts = append(acts, Action{Kind: ActBPM, Value: beat.ClampBPM(t.BPM + beat.BPMStep)})
	default:
		for i, r := range t.patternRect {
			if pt(x, y, r) {
				acts = append(acts, Action{Kind: ActPattern, Value: i})
			}
		}
	}
	return acts
}

func (t *Transport) Draw(dst *ebiten.Image) {
	w := dst.Bounds().Dx()
	drawRect(dst, image.Rect(0, 0, w, barHeight), colBar, true, 0)

	drawButton(dst, t.playRect, colPlayButton, colButtonBorder, t.Playing)
	drawText(dst, ">", t.playRect.Min.X+12, t.playRect.Min.Y+4, 1, color.White)
	drawButton(dst, t.stopRect, colStopButton, colButtonBorder, !t.Playing)
	drawText(dst, "#", t.stopRect.Min.X+12, t.stopRect.Min.Y+4, 1, color.White)

	drawButton(dst, t.bpmDecRect, colStepButton, colButtonBorder, false)
	drawText(dst, "-", t.bpmDecRect.Min.X+7, t.bpmDecRect.Min.Y+4, 1, color.White)
	drawText(dst, fmt.Sprintf("%3d BPM", t.BPM), t.bpmDecRect.Max.X+6, t.bpmDecRect.Min.Y+4, 1, color.White)
	drawButton(dst, t.bpmIncRect, colStepButton, colButtonBorder, false)
	drawText(dst, "+", t.bpmIncRect.Min.X+7, t.bpmIncRect.Min.Y+4, 1, color.White)

	t.Offset.Draw(dst)

	for i, r := range t.patternRect {
		p := render.Pattern(i)
		fill := colPattern
		if p == t.Pattern {
			fill = colPatternOn
		}
		drawButton(dst, r, fill, colButtonBorder, false)
		drawText(dst, p.String(), r.Min.X+(r.Dx()-render.TextWidth(p.String(), 1))/2, r.Min.Y+4, 1, color.White)
	}
}

func pt(x, y int, r image.Rectangle) bool { return image.Pt(x, y).In(r) }
