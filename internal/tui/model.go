// Package tui is the terminal front end: a bubbletea model that draws the
// calibration frames as coloured text.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/core/calibration"
	"github.com/ingyamilmolinar/avsync/core/engine"
	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

// Controller is the part of calibration.Controller the model drives.
type Controller interface {
	Start() error
	Stop()
	Running() bool
	Params() calibration.Params
	SetBPM(int)
	SetOffsetMs(int)
	SetPattern(render.Pattern)
	Reset()
}

type frameMsg render.Frame

// framesClosedMsg means the frame source is gone.
type framesClosedMsg struct{}

var (
	colMuted  = lipgloss.Color("#a6adc8")
	colAccent = lipgloss.Color("#74c7ec")
	colHot    = lipgloss.Color("#fab387")

	statusStyle = lipgloss.NewStyle().Foreground(colMuted)
	titleStyle  = lipgloss.NewStyle().Foreground(colAccent).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colHot).Bold(true)
)

const statusRows = 2

// Model is the root bubbletea model.
type Model struct {
	ctl    Controller
	frames <-chan render.Frame
	resize func(w, h int)
	logger *log.Logger

	canvas *Canvas
	frame  render.Frame
	status string
	width  int
	height int
}

// NewModel builds a model reading frames from frames. resize is told the pixel
// size frames should have whenever the terminal changes size.
func NewModel(ctl Controller, frames <-chan render.Frame, resize func(w, h int), logger *log.Logger) Model {
	if resize == nil {
		resize = func(int, int) {}
	}
	return Model{
		ctl:    ctl,
		frames: frames,
		resize: resize,
		logger: logger.With("tui"),
		canvas: NewCanvas(80, 22),
		status: "space start/stop  ↑↓ bpm  ←→ offset  1-3 pattern  0 reset  q quit",
	}
}

func waitFrame(ch <-chan render.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg(f)
	}
}

func (m Model) Init() tea.Cmd {
	return waitFrame(m.frames)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := msg.Height - statusRows
		m.canvas = NewCanvas(msg.Width, rows)
		m.resize(m.canvas.PixelSize())
		return m, nil

	case frameMsg:
		m.frame = render.Frame(msg)
		m.canvas.Draw(m.frame)
		return m, waitFrame(m.frames)

	case framesClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.ctl.Params()
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctl.Stop()
		return m, tea.Quit
	case " ":
		if m.ctl.Running() {
			m.ctl.Stop()
		} else if err := m.ctl.Start(); err != nil {
			m.logger.Debugf("start: %v", err)
		}
	case "esc":
		m.ctl.Stop()
	case "up":
		m.ctl.SetBPM(p.BPM + beat.BPMStep)
	case "down":
		m.ctl.SetBPM(p.BPM - beat.BPMStep)
	case "right":
		m.ctl.SetOffsetMs(p.OffsetMs + calibration.OffsetStepMs)
	case "left":
		m.ctl.SetOffsetMs(p.OffsetMs - calibration.OffsetStepMs)
	case "1", "2", "3":
		m.ctl.SetPattern(render.Pattern(msg.String()[0] - '1'))
	case "0":
		m.ctl.Reset()
	}
	return m, nil
}

func (m Model) View() string {
	p := m.ctl.Params()
	state := "stopped"
	if m.ctl.Running() {
		state = "running"
	}
	head := titleStyle.Render("avsync") + " " +
		statusStyle.Render(fmt.Sprintf("%s  %d bpm  offset %s  %s", state, p.BPM, render.FormatOffset(p.OffsetMs), p.Pattern))
	if m.width > 0 && m.width < 40 {
		return errorStyle.Render("terminal too narrow")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.canvas.String(), head, statusStyle.Render(m.status))
}

// Run drives ctl from an engine tick loop and shows it in the terminal until
// the user quits.
func Run(ctx context.Context, ctl *calibration.Controller, interval time.Duration, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := engine.New(ctx, ctl, engine.WithInterval(interval), engine.WithLogger(logger))
	defer eng.Close()
	defer ctl.Stop()

	m := NewModel(ctl, eng.Frames, eng.Resize, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
