package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 10 * time.Millisecond
)

// ErrUnavailable is returned when no audio output can be opened.
var ErrUnavailable = errors.New("audio output unavailable")

// oto allows a single context per process, so it is shared by every Clock.
var (
	once    sync.Once
	ctx     *oto.Context
	ctxRate int
	ctxErr  error
)

// Voice generates PCM samples in the range [-1,1].
type Voice interface {
	// Sample returns the next sample and whether the voice has finished.
	Sample() (float64, bool)
}

// Instrument constructs a new Voice instance when triggered.
type Instrument interface {
	NewVoice(sampleRate int) Voice
}

// Options configures Open.
type Options struct {
	SampleRate int
	Buffer     time.Duration
	Volume     float64
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Buffer <= 0 {
		o.Buffer = DefaultBuffer
	}
	if o.Volume <= 0 || o.Volume > 1 {
		o.Volume = 1
	}
	return o
}

func sharedContext(sampleRate int) (*oto.Context, int, error) {
	once.Do(func() {
		ctx, ctxErr = platformInitContext(sampleRate)
		ctxRate = sampleRate
	})
	return ctx, ctxRate, ctxErr
}

// Clock is one audio session: a player with its own mixer, whose timeline starts at 0
// when it is opened. Clicks are queued at absolute positions on that timeline.
type Clock struct {
	rate   int
	volume float64
	inst   Instrument
	mix    *mixer
	player *oto.Player

	closeOnce sync.Once
	closeErr  error
}

// Open starts a new audio clock. The error wraps ErrUnavailable when the platform
// refuses an output context.
func Open(opts Options) (*Clock, error) {
	opts = opts.withDefaults()
	c, rate, err := sharedContext(opts.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := c.Resume(); err != nil {
		return nil, fmt.Errorf("%w: resume: %v", ErrUnavailable, err)
	}
	m := newMixer(rate)
	p := c.NewPlayer(m)
	p.SetBufferSize(bufferBytes(rate, opts.Buffer))
	p.Play()
	return &Clock{rate: rate, volume: opts.Volume, inst: Click{}, mix: m, player: p}, nil
}

// 16-bit mono
func bufferBytes(rate int, d time.Duration) int {
	return int(float64(rate)*d.Seconds()) * 2
}

// Now returns seconds elapsed on this clock's audio timeline.
func (c *Clock) Now() float64 { return c.mix.now() }

// ScheduleClick queues one click to start at audio time at. Times already in the past
// start with the next rendered buffer.
func (c *Clock) ScheduleClick(at float64) {
	if c.mix.closed() {
		return
	}
	start := int64(math.Round(at * float64(c.rate)))
	c.mix.ScheduleAt(&scaledVoice{v: c.inst.NewVoice(c.rate), gain: c.volume}, start)
}

// Err reports a playback failure on the underlying player.
func (c *Clock) Err() error { return c.player.Err() }

// Close stops the player and drops queued clicks. Safe to call more than once.
func (c *Clock) Close() error {
	c.closeOnce.Do(func() {
		c.mix.close()
		c.player.Pause()
		c.closeErr = c.player.Close()
	})
	return c.closeErr
}

type scaledVoice struct {
	v    Voice
	gain float64
}

func (s *scaledVoice) Sample() (float64, bool) {
	f, done := s.v.Sample()
	return f * s.gain, done
}
