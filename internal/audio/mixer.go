package audio

import (
	"sync"
	"time"
)

// mixer mixes scheduled voices into a single PCM stream and doubles as the audio
// clock: time is the number of samples handed to the player divided by the rate.
type mixer struct {
	mu     sync.Mutex
	rate   int
	voices []*voiceState
	pos    int64

	// position and wall time of the last Read, used to interpolate between pulls
	readPos  int64
	readLen  int64
	readAt   time.Time
	last     float64
	shutdown bool

	wallNow func() time.Time
}

type voiceState struct {
	start int64
	v     Voice
}

func newMixer(rate int) *mixer {
	return &mixer{rate: rate, wallNow: time.Now}
}

// ScheduleAt adds a voice that starts at the absolute sample position start.
func (m *mixer) ScheduleAt(v Voice, start int64) {
	m.mu.Lock()
	if start < m.pos {
		start = m.pos
	}
	m.voices = append(m.voices, &voiceState{start: start, v: v})
	m.mu.Unlock()
}

// now estimates the audio time currently being heard. Between pulls it advances with
// wall time, never past the end of the last buffer, and never backwards.
func (m *mixer) now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readAt.IsZero() {
		return m.last
	}
	elapsed := int64(m.wallNow().Sub(m.readAt).Seconds() * float64(m.rate))
	if elapsed > m.readLen {
		elapsed = m.readLen
	}
	t := float64(m.readPos+elapsed) / float64(m.rate)
	if t < m.last {
		return m.last
	}
	m.last = t
	return t
}

func (m *mixer) close() {
	m.mu.Lock()
	m.shutdown = true
	m.voices = nil
	m.mu.Unlock()
}

func (m *mixer) closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}

// Read implements io.Reader for oto.Player.
func (m *mixer) Read(p []byte) (int, error) {
	samples := len(p) / 2
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readPos = m.pos
	m.readLen = int64(samples)
	m.readAt = m.wallNow()
	for i := 0; i < samples; i++ {
		var sum float64
		for idx := 0; idx < len(m.voices); idx++ {
			vs := m.voices[idx]
			if m.pos >= vs.start {
				val, done := vs.v.Sample()
				sum += val
				if done {
					m.voices = append(m.voices[:idx], m.voices[idx+1:]...)
					idx--
				}
			}
		}
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		v := int16(sum * 32767)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
		m.pos++
	}
	return samples * 2, nil
}
