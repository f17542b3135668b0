package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClickStopsAt50ms(t *testing.T) {
	v := Click{}.NewVoice(testRate)
	n := 0
	for {
		_, done := v.Sample()
		if done {
			break
		}
		n++
	}
	assert.Equal(t, int(math.Round(0.05*testRate)), n)
}

func TestClickEnvelope(t *testing.T) {
	assert.InDelta(t, 1.0, clickGain(0), 1e-12)
	assert.InDelta(t, clickFloor, clickGain(clickDecay), 1e-12)
	assert.InDelta(t, clickFloor, clickGain(0.045), 1e-12)
	prev := 2.0
	for ms := 0.0; ms < 30; ms++ {
		g := clickGain(ms / 1000)
		assert.Less(t, g, prev)
		prev = g
	}
}

func TestClickSweepsHighToLow(t *testing.T) {
	assert.InDelta(t, clickStartFreq, clickFreq(0), 1e-9)
	assert.InDelta(t, clickEndFreq, clickFreq(clickStop), 1e-9)
	assert.Greater(t, clickFreq(0.01), clickFreq(0.02))
}

func TestClickIsLoudestEarly(t *testing.T) {
	v := Click{}.NewVoice(testRate)
	var early, late float64
	rate := float64(testRate)
	for i := 0; i < int(0.05*testRate); i++ {
		s, _ := v.Sample()
		if i < int(0.005*rate) {
			early = math.Max(early, math.Abs(s))
		} else if i > int(0.035*rate) {
			late = math.Max(late, math.Abs(s))
		}
	}
	assert.Greater(t, early, 0.5)
	assert.LessOrEqual(t, late, clickFloor+1e-9)
}
