package beat

const (
	// DefaultLookahead is how far past now clicks are queued on every tick, in seconds.
	DefaultLookahead = 0.1
	// DefaultStartupGrace delays the first click so it is never scheduled in the past.
	DefaultStartupGrace = 0.5
)

// ClickScheduler queues one click at an audio-clock time.
type ClickScheduler interface {
	ScheduleClick(at float64)
}

// Beat describes one scheduled beat.
type Beat struct {
	Index   int
	Nominal float64 // cursor value, what the visual indicator crosses
	Audible float64 // Nominal shifted by the offset
}

// Scheduler is a lookahead scheduler. On every tick it queues all clicks that fall
// inside [now, now+Lookahead) on the audio clock's own timeline.
type Scheduler struct {
	BPM          int
	OffsetMs     int
	Lookahead    float64
	StartupGrace float64

	// Clicks receives the audible events. Nil means audio is unavailable: the cursor
	// still advances so the visual phase keeps running.
	Clicks ClickScheduler
	OnBeat func(b Beat)

	cursor  float64
	beats   int
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		BPM:          DefaultBPM,
		Lookahead:    DefaultLookahead,
		StartupGrace: DefaultStartupGrace,
	}
}

// Start positions the cursor one grace period after now.
func (s *Scheduler) Start(now float64) {
	s.cursor = now + s.StartupGrace
	s.beats = 0
	s.started = true
}

// Stop drops the cursor. Tick is a no-op until the next Start.
func (s *Scheduler) Stop() {
	s.cursor = 0
	s.beats = 0
	s.started = false
}

// Tick schedules every beat whose nominal time is before now+Lookahead and returns
// how many it scheduled. After a stall it catches up by scheduling each missed beat
// in turn; nothing is dropped and nothing is scheduled twice.
func (s *Scheduler) Tick(now float64) int {
	if !s.started {
		return 0
	}
	interval := Interval(s.BPM)
	if interval <= 0 {
		return 0
	}
	n := 0
	for s.cursor < now+s.Lookahead {
		b := Beat{
			Index:   s.beats,
			Nominal: s.cursor,
			Audible: s.cursor + float64(s.OffsetMs)/1000,
		}
		if s.Clicks != nil {
			s.Clicks.ScheduleClick(b.Audible)
		}
		if s.OnBeat != nil {
			s.OnBeat(b)
		}
		s.cursor += interval
		s.beats++
		n++
	}
	return n
}

// Cursor returns the nominal time of the next unscheduled beat.
func (s *Scheduler) Cursor() float64 { return s.cursor }

// Beats returns how many beats were scheduled since Start.
func (s *Scheduler) Beats() int { return s.beats }

// Running reports whether Start was called without a later Stop.
func (s *Scheduler) Running() bool { return s.started }

// Phase samples the beat phase at now from the cursor, ignoring the offset.
func (s *Scheduler) Phase(now float64) float64 {
	return PhaseAt(now, s.cursor, Interval(s.BPM))
}
