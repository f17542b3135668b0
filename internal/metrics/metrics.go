package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Scheduler metrics
	ClicksScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avsync_clicks_scheduled_total",
			Help: "Total clicks handed to the audio clock",
		},
	)

	BeatsScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avsync_beats_scheduled_total",
			Help: "Total beats passed by the schedule cursor",
		},
		[]string{"audio"},
	)

	CatchUpBeats = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avsync_catch_up_beats_total",
			Help: "Beats scheduled beyond the first in a single tick after a stalled loop",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avsync_tick_duration_seconds",
			Help:    "Time spent in one schedule-and-render tick",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .0167},
		},
	)

	// Session metrics
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avsync_sessions_started_total",
			Help: "Total calibration sessions started",
		},
	)

	ClockUnavailable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "avsync_audio_clock_unavailable_total",
			Help: "Sessions that fell back to visual-only mode",
		},
	)

	SessionActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avsync_session_active",
			Help: "1 while a calibration session is running",
		},
	)

	// Parameters
	BPM = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avsync_bpm",
			Help: "Configured tempo in beats per minute",
		},
	)

	OffsetMs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "avsync_offset_ms",
			Help: "Configured audio offset in milliseconds",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ClicksScheduled,
		BeatsScheduled,
		CatchUpBeats,
		TickDuration,
		SessionsStarted,
		ClockUnavailable,
		SessionActive,
		BPM,
		OffsetMs,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener
}

// NewServer creates a new metrics server
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Starting metrics server")
	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Stop stops the metrics server
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
