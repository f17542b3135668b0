package engine

import (
	"context"
	"sync"
	"time"

	"github.com/ingyamilmolinar/avsync/internal/log"
	"github.com/ingyamilmolinar/avsync/internal/render"
)

// DefaultTickInterval is roughly one 60 Hz display frame.
const DefaultTickInterval = 16 * time.Millisecond

// Ticker is the per-frame step the engine drives, normally a calibration.Controller.
type Ticker interface {
	Tick(width, height int) render.Frame
}

// Engine runs a Ticker on its own goroutine for front ends that have no frame
// callback of their own.
type Engine struct {
	// Frames receives every rendered frame. Slow readers miss frames; the loop
	// never blocks on them. It is closed when the loop exits.
	Frames chan render.Frame

	ticker   Ticker
	interval time.Duration
	logger   *log.Logger

	mu            sync.Mutex
	width, height int
	ticks         int

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Engine)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithSize sets the frame size passed to Tick.
func WithSize(width, height int) Option {
	return func(e *Engine) { e.width, e.height = width, height }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l.With("engine") }
}

// New creates an Engine and starts its run loop. The loop stops when ctx is
// cancelled or Close is called.
func New(ctx context.Context, t Ticker, opts ...Option) *Engine {
	e := &Engine{
		Frames:   make(chan render.Frame, 16),
		ticker:   t,
		interval: DefaultTickInterval,
		logger:   log.Nop(),
		width:    640,
		height:   480,
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	e.ctx, e.cancel = context.WithCancel(ctx)
	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.Frames)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	e.logger.Debugf("tick loop started, interval %s", e.interval)
	for {
		select {
		case <-ticker.C:
			e.step()
		case <-e.ctx.Done():
			e.logger.Debugf("tick loop stopped after %d ticks", e.Ticks())
			return
		}
	}
}

func (e *Engine) step() {
	e.mu.Lock()
	w, h := e.width, e.height
	e.ticks++
	e.mu.Unlock()

	f := e.ticker.Tick(w, h)
	select {
	case e.Frames <- f:
	default:
	}
}

// Resize changes the size used for subsequent frames.
func (e *Engine) Resize(width, height int) {
	e.mu.Lock()
	e.width, e.height = width, height
	e.mu.Unlock()
}

// Ticks returns how many ticks have run.
func (e *Engine) Ticks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// Done is closed once the loop has exited.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Close terminates the loop and waits for it. Safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(e.cancel)
	<-e.done
}
