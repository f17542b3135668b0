package audio

import "math"

// Click envelope and sweep. The gain decays exponentially from 1 to clickFloor over
// clickDecay seconds, holds the floor, and the voice stops at clickStop.
const (
	clickStartFreq = 1500.0
	clickEndFreq   = 400.0
	clickDecay     = 0.030
	clickStop      = 0.050
	clickFloor     = 0.001
)

// Click is a short sine transient swept from high to low pitch.
type Click struct{}

// NewVoice returns one click voice for sampleRate.
func (Click) NewVoice(sampleRate int) Voice {
	sr := float64(sampleRate)
	return &clickVoice{
		n:  int(math.Round(clickStop * sr)),
		sr: sr,
	}
}

type clickVoice struct {
	i, n  int
	sr    float64
	phase float64
}

func (c *clickVoice) Sample() (float64, bool) {
	if c.i >= c.n {
		return 0, true
	}
	t := float64(c.i) / c.sr
	v := math.Sin(c.phase) * clickGain(t)
	c.phase += 2 * math.Pi * clickFreq(t) / c.sr
	c.i++
	return v, false
}

func clickGain(t float64) float64 {
	if t >= clickDecay {
		return clickFloor
	}
	return math.Pow(clickFloor, t/clickDecay)
}

func clickFreq(t float64) float64 {
	return clickStartFreq * math.Pow(clickEndFreq/clickStartFreq, t/clickStop)
}
