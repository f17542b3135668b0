// Package calibration owns the A/V sync session lifecycle and its live parameters.
package calibration

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ingyamilmolinar/avsync/core/beat"
	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/metrics"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

const (
	MinOffsetMs  = -500
	MaxOffsetMs  = 500
	OffsetStepMs = 10
)

// ErrClockUnavailable is returned by Start when the audio clock could not be opened.
// The session still runs, visual only.
var ErrClockUnavailable = errors.New("audio clock unavailable")

// AudioClock is the audio subsystem as seen by a session: a monotonic timeline in
// seconds that accepts clicks at absolute times on it.
type AudioClock interface {
	Now() float64
	ScheduleClick(at float64)
	Close() error
}

// ClockOpener acquires a fresh AudioClock for one session.
type ClockOpener func() (AudioClock, error)

// Params are the user-facing settings. They survive Stop and Start.
type Params struct {
	BPM      int
	OffsetMs int
	Pattern  render.Pattern
}

// DefaultParams is what Reset restores.
func DefaultParams() Params {
	return Params{BPM: beat.DefaultBPM, OffsetMs: 0, Pattern: render.Bar}
}

// session is one calibration run, from Start to Stop. It owns the audio clock.
type session struct {
	ID        uuid.UUID
	StartedAt time.Time
	AudioOK   bool

	clock AudioClock
	time  func() float64
	sched *beat.Scheduler
}

// SessionInfo is a read-only snapshot of the running session.
type SessionInfo struct {
	ID        uuid.UUID
	StartedAt time.Time
	AudioOK   bool
	Now       float64
	Cursor    float64
	Beats     int
}

// Controller mediates between a UI and the timing components. Every method is safe
// to call from any goroutine, but Tick is expected to run once per display frame.
type Controller struct {
	mu       sync.Mutex
	params   Params
	session  *session
	renderer *render.Renderer

	open      ClockOpener
	wallNow   func() time.Time
	lookahead float64
	grace     float64
	logger    *log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClockOpener sets how audio clocks are acquired. Without it every session is
// visual only.
func WithClockOpener(open ClockOpener) Option {
	return func(c *Controller) { c.open = open }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l.With("calibration") }
}

// WithParams sets the initial parameters; they are clamped like any other update.
func WithParams(p Params) Option {
	return func(c *Controller) {
		c.params = Params{
			BPM:      beat.ClampBPM(p.BPM),
			OffsetMs: ClampOffsetMs(p.OffsetMs),
			Pattern:  p.Pattern,
		}
		if !p.Pattern.Valid() {
			c.params.Pattern = render.Bar
		}
	}
}

// WithTiming overrides the scheduler lookahead and startup grace, in seconds.
func WithTiming(lookahead, grace float64) Option {
	return func(c *Controller) {
		if lookahead > 0 {
			c.lookahead = lookahead
		}
		if grace > 0 {
			c.grace = grace
		}
	}
}

// WithWallClock replaces time.Now for the visual-only timebase.
func WithWallClock(now func() time.Time) Option {
	return func(c *Controller) { c.wallNow = now }
}

func New(opts ...Option) *Controller {
	c := &Controller{
		params:    DefaultParams(),
		renderer:  render.New(),
		wallNow:   time.Now,
		lookahead: beat.DefaultLookahead,
		grace:     beat.DefaultStartupGrace,
		logger:    log.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	metrics.BPM.Set(float64(c.params.BPM))
	metrics.OffsetMs.Set(float64(c.params.OffsetMs))
	return c
}

// Start begins a new session, tearing down any previous one first. If the audio
// clock cannot be opened the session still starts on a wall-clock timebase and the
// returned error wraps ErrClockUnavailable.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	s := &session{
		ID:        uuid.New(),
		StartedAt: c.wallNow(),
		sched:     beat.NewScheduler(),
	}
	s.sched.Lookahead = c.lookahead
	s.sched.StartupGrace = c.grace
	s.sched.BPM = c.params.BPM
	s.sched.OffsetMs = c.params.OffsetMs

	var startErr error
	if c.open != nil {
		clock, err := c.open()
		if err == nil && clock == nil {
			err = errors.New("no clock returned")
		}
		if err != nil {
			startErr = fmt.Errorf("%w: %w", ErrClockUnavailable, err)
		} else {
			s.clock = clock
			s.AudioOK = true
			s.time = clock.Now
			s.sched.Clicks = clock
		}
	} else {
		startErr = fmt.Errorf("%w: no audio backend configured", ErrClockUnavailable)
	}
	if !s.AudioOK {
		started := s.StartedAt
		wall := c.wallNow
		s.time = func() float64 { return wall().Sub(started).Seconds() }
		metrics.ClockUnavailable.Inc()
		c.logger.Warnf("session %s: %v; continuing visual only", s.ID, startErr)
	}

	s.sched.OnBeat = func(b beat.Beat) {
		if s.AudioOK {
			metrics.BeatsScheduled.WithLabelValues("on").Inc()
			metrics.ClicksScheduled.Inc()
		} else {
			metrics.BeatsScheduled.WithLabelValues("off").Inc()
		}
		c.logger.Debugf("beat %d nominal=%.4f audible=%.4f", b.Index, b.Nominal, b.Audible)
	}

	s.sched.Start(s.time())
	c.session = s
	metrics.SessionsStarted.Inc()
	metrics.SessionActive.Set(1)
	c.logger.Infof("session %s started: bpm=%d offset=%dms pattern=%s audio=%t",
		s.ID, c.params.BPM, c.params.OffsetMs, c.params.Pattern, s.AudioOK)
	return startErr
}

// Stop ends the session and releases the audio clock. Calling it again is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	s := c.session
	if s == nil {
		return
	}
	c.session = nil
	beats := s.sched.Beats()
	s.sched.Stop()
	if s.clock != nil {
		if err := s.clock.Close(); err != nil {
			c.logger.Errorf("session %s: closing audio clock: %v", s.ID, err)
		}
		s.clock = nil
	}
	metrics.SessionActive.Set(0)
	c.logger.Infof("session %s stopped after %d beats", s.ID, beats)
}

// Running reports whether a session is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Params returns the current parameters.
func (c *Controller) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Session returns a snapshot of the active session, or false when stopped.
func (c *Controller) Session() (SessionInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return SessionInfo{}, false
	}
	return SessionInfo{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		AudioOK:   s.AudioOK,
		Now:       s.time(),
		Cursor:    s.sched.Cursor(),
		Beats:     s.sched.Beats(),
	}, true
}

// SetBPM clamps and stores the tempo. The next tick picks it up; the cursor is not
// moved, so the change lands on the next natural beat.
func (c *Controller) SetBPM(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clamped := beat.ClampBPM(v)
	if clamped != v {
		c.logger.Debugf("bpm %d out of range, clamped to %d", v, clamped)
	}
	c.params.BPM = clamped
	metrics.BPM.Set(float64(clamped))
}

// SetOffsetMs clamps and stores the audio offset. Positive values delay the click.
func (c *Controller) SetOffsetMs(v int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clamped := ClampOffsetMs(v)
	if clamped != v {
		c.logger.Debugf("offset %dms out of range, clamped to %dms", v, clamped)
	}
	c.params.OffsetMs = clamped
	metrics.OffsetMs.Set(float64(clamped))
}

// SetPattern switches the visual encoding; the next rendered frame uses it.
func (c *Controller) SetPattern(p render.Pattern) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !p.Valid() {
		c.logger.Debugf("ignoring unknown pattern %d", p)
		return
	}
	c.params.Pattern = p
}

// Reset restores the default parameters without stopping the session.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = DefaultParams()
	metrics.BPM.Set(float64(c.params.BPM))
	metrics.OffsetMs.Set(float64(c.params.OffsetMs))
}

// Schedule tops up the audio schedule without rendering. Front ends whose input
// loop runs apart from their draw callback call it between frames.
func (c *Controller) Schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.session; s != nil {
		c.scheduleLocked(s)
	}
}

// Tick runs one frame: audio catch-up first, then the phase sample and render, so the
// frame reflects this tick's scheduling. It never blocks and never fails.
func (c *Controller) Tick(width, height int) render.Frame {
	begin := time.Now()
	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		metrics.TickDuration.Observe(time.Since(begin).Seconds())
	}()

	in := render.Input{
		BPM:      c.params.BPM,
		OffsetMs: c.params.OffsetMs,
		Pattern:  c.params.Pattern,
		Width:    width,
		Height:   height,
	}
	s := c.session
	if s == nil {
		return c.renderer.Render(in)
	}

	in.Now = c.scheduleLocked(s)
	in.Next = s.sched.Cursor()
	in.Interval = beat.Interval(c.params.BPM)
	in.Running = true
	in.AudioOK = s.AudioOK
	return c.renderer.Render(in)
}

// scheduleLocked checks the audio clock, queues due clicks and returns the session
// time they were scheduled against.
func (c *Controller) scheduleLocked(s *session) float64 {
	if s.AudioOK {
		if f, ok := s.clock.(interface{ Err() error }); ok {
			if err := f.Err(); err != nil {
				c.degradeLocked(s, err)
			}
		}
	}

	s.sched.BPM = c.params.BPM
	s.sched.OffsetMs = c.params.OffsetMs
	now := s.time()
	if n := s.sched.Tick(now); n > 1 {
		metrics.CatchUpBeats.Add(float64(n - 1))
		c.logger.Debugf("session %s: caught up %d beats in one tick", s.ID, n)
	}
	return now
}

// degradeLocked drops audio from a running session after a playback failure. The
// timebase continues on the wall clock from the last audio time so the phase is
// continuous.
func (c *Controller) degradeLocked(s *session, cause error) {
	base := s.time()
	anchor := c.wallNow()
	wall := c.wallNow
	s.time = func() float64 { return base + wall().Sub(anchor).Seconds() }
	s.sched.Clicks = nil
	s.AudioOK = false
	if err := s.clock.Close(); err != nil {
		c.logger.Errorf("session %s: closing failed audio clock: %v", s.ID, err)
	}
	s.clock = nil
	metrics.ClockUnavailable.Inc()
	c.logger.Warnf("session %s: %v: %v; continuing visual only", s.ID, ErrClockUnavailable, cause)
}

// ClampOffsetMs limits v to [MinOffsetMs, MaxOffsetMs].
func ClampOffsetMs(v int) int {
	if v < MinOffsetMs {
		return MinOffsetMs
	}
	if v > MaxOffsetMs {
		return MaxOffsetMs
	}
	return v
}
