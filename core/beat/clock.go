package beat

const (
	MinBPM     = 30
	MaxBPM     = 120
	BPMStep    = 5
	DefaultBPM = 60
)

// phaseEpsilon absorbs float error when now lands exactly on a beat.
const phaseEpsilon = 1e-9

// Interval returns the beat length in seconds for bpm, or 0 when bpm is not positive.
func Interval(bpm int) float64 {
	if bpm <= 0 {
		return 0
	}
	return 60 / float64(bpm)
}

// ClampBPM pins bpm into [MinBPM, MaxBPM].
func ClampBPM(bpm int) int {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

// PhaseAt maps an audio-clock instant to the progress of the current beat.
//
// It is 1 - (next-now)/interval folded into [0,1): 0 at the instant a beat fires and
// approaching 1 just before the next one. The fold matters because the scheduler moves
// next one interval ahead as soon as a click enters the lookahead window, slightly
// before the beat is actually due.
func PhaseAt(now, next, interval float64) float64 {
	if interval <= 0 {
		return 0
	}
	p := 1 - (next-now)/interval
	if p < 0 && p > -phaseEpsilon {
		return 0
	}
	for p < 0 {
		p++
	}
	for p >= 1 {
		p--
	}
	return p
}

// WrappedDelta returns the signed time from now to the nearest beat, wrapped into
// [-interval/2, +interval/2). Positive values mean the beat is still approaching.
//
// The wrap steps by interval until the value lands in range, so it stays correct
// when interval changed since next was computed.
func WrappedDelta(now, next, interval float64) float64 {
	if interval <= 0 {
		return 0
	}
	d := next - now
	half := interval / 2
	for d >= half {
		d -= interval
	}
	for d < -half {
		d += interval
	}
	return d
}
