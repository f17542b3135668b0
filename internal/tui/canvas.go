package tui

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ingyamilmolinar/avsync/internal/render"
)

// One terminal cell stands for a cellW x cellH block of frame pixels.
const (
	cellW = 8
	cellH = 16
)

type cell struct {
	r rune
	c color.RGBA
}

// Canvas rasterises a render.Frame onto a grid of terminal cells.
type Canvas struct {
	cols, rows int
	cells      []cell
}

func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
}

// PixelSize is the frame size that maps exactly onto the canvas.
func (cv *Canvas) PixelSize() (int, int) { return cv.cols * cellW, cv.rows * cellH }

func (cv *Canvas) set(col, row int, r rune, c color.RGBA) {
	if col < 0 || row < 0 || col >= cv.cols || row >= cv.rows {
		return
	}
	cv.cells[row*cv.cols+col] = cell{r: r, c: c}
}

// At returns the rune at a cell, ' ' when empty or outside.
func (cv *Canvas) At(col, row int) rune {
	if col < 0 || row < 0 || col >= cv.cols || row >= cv.rows {
		return ' '
	}
	if r := cv.cells[row*cv.cols+col].r; r != 0 {
		return r
	}
	return ' '
}

func bright(c color.RGBA) bool {
	return 0.299*float64(c.R)+0.587*float64(c.G)+0.114*float64(c.B) > 160
}

// Draw replaces the canvas content with f.
func (cv *Canvas) Draw(f render.Frame) {
	for i := range cv.cells {
		cv.cells[i] = cell{}
	}
	for _, op := range f.Ops {
		switch op.Kind {
		case render.OpFill:
			r := ' '
			if bright(op.Color) {
				r = '█'
			}
			for i := range cv.cells {
				cv.cells[i] = cell{r: r, c: op.Color}
			}
		case render.OpRect:
			cv.rect(op)
		case render.OpLine:
			ch := '·'
			if op.Width >= 3 {
				ch = '━'
				if math.Abs(float64(op.X2-op.X1)) < math.Abs(float64(op.Y2-op.Y1)) {
					ch = '┃'
				}
			}
			cv.line(float64(op.X1), float64(op.Y1), float64(op.X2), float64(op.Y2), ch, op.Color)
		case render.OpCircle:
			cv.circle(op)
		case render.OpText:
			cv.text(op)
		}
	}
}

func (cv *Canvas) rect(op render.Op) {
	c0, r0 := cellCol(float64(op.Rect.Min.X)), cellRow(float64(op.Rect.Min.Y))
	c1, r1 := cellCol(float64(op.Rect.Max.X-1)), cellRow(float64(op.Rect.Max.Y-1))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			switch {
			case op.Filled:
				cv.set(col, row, '█', op.Color)
			case row == r0 || row == r1:
				cv.set(col, row, '─', op.Color)
			case col == c0 || col == c1:
				cv.set(col, row, '│', op.Color)
			}
		}
	}
}

func (cv *Canvas) line(x1, y1, x2, y2 float64, ch rune, c color.RGBA) {
	steps := int(math.Max(math.Abs(x2-x1)/cellW, math.Abs(y2-y1)/cellH)*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x1 + (x2-x1)*t
		y := y1 + (y2-y1)*t
		cv.set(cellCol(x), cellRow(y), ch, c)
	}
}

// cellCol and cellRow map pixel coordinates to cells; negative pixels fall
// outside the canvas.
func cellCol(x float64) int { return int(math.Floor(x / cellW)) }
func cellRow(y float64) int { return int(math.Floor(y / cellH)) }

func (cv *Canvas) circle(op render.Op) {
	cx, cy, r := float64(op.CX), float64(op.CY), float64(op.R)
	if op.Filled {
		for row := cellRow(cy - r); row <= cellRow(cy+r); row++ {
			for col := cellCol(cx - r); col <= cellCol(cx+r); col++ {
				px := float64(col*cellW) + cellW/2
				py := float64(row*cellH) + cellH/2
				if math.Hypot(px-cx, py-cy) <= math.Max(r, cellW/2) {
					cv.set(col, row, '●', op.Color)
				}
			}
		}
		return
	}
	n := int(2*math.Pi*r/cellW) + 8
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		cv.set(cellCol(cx+r*math.Sin(a)), cellRow(cy-r*math.Cos(a)), '·', op.Color)
	}
}

// text keeps the centre of the pixel-space text box; terminal text has one size.
func (cv *Canvas) text(op render.Op) {
	scale := op.Scale
	if scale < 1 {
		scale = 1
	}
	cx := op.X + render.TextWidth(op.Text, scale)/2
	cy := op.Y + render.GlyphH*scale/2
	runes := []rune(op.Text)
	col := cellCol(float64(cx)) - len(runes)/2
	row := cellRow(float64(cy))
	for i, r := range runes {
		cv.set(col+i, row, r, op.Color)
	}
}

// String renders the canvas with colours, one line per row.
func (cv *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < cv.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		var runColor color.RGBA
		flush := func() {
			if len(run) == 0 {
				return
			}
			b.WriteString(styleFor(runColor).Render(string(run)))
			run = run[:0]
		}
		for col := 0; col < cv.cols; col++ {
			cl := cv.cells[row*cv.cols+col]
			r := cl.r
			if r == 0 {
				r = ' '
			}
			if cl.c != runColor && r != ' ' {
				flush()
				runColor = cl.c
			}
			run = append(run, r)
		}
		flush()
	}
	return b.String()
}

// Plain renders the canvas without styling.
func (cv *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < cv.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cv.cols; col++ {
			b.WriteRune(cv.At(col, row))
		}
	}
	return b.String()
}

var styles = map[color.RGBA]lipgloss.Style{}

func styleFor(c color.RGBA) lipgloss.Style {
	if s, ok := styles[c]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
	styles[c] = s
	return s
}
