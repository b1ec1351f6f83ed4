// Package telemetry exposes the handshake's runtime state as Prometheus
// metrics, the same collector-around-a-registry shape used throughout the
// rest of the stack: a struct of pre-built vectors, registered once at
// startup, mutated through small labeled methods.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oyaguma3/go-supplicant/supplicant"
)

const (
	namespace = "supplicant"
	subsystem = "handshake"
)

const (
	labelBSSID = "bssid"
	labelState = "state"
	labelDrop  = "reason"
)

// Collector holds every Prometheus metric the handshake emits. It
// satisfies supplicant.MetricsSink without that package importing
// prometheus directly.
type Collector struct {
	// State is set to 1 for the station's current handshake state and 0
	// for the other three, labeled by bssid and state name, so a single
	// gauge query answers "what state is bssid X in" without a separate
	// metric name per station.
	State *prometheus.GaugeVec

	// FramesAccepted counts EAPOL-Key frames that passed the entry filter,
	// matched a known message shape, and were fully handled (state, nonce
	// and MIC checks passed).
	FramesAccepted *prometheus.CounterVec

	// FramesDropped counts rejected frames, labeled by the reason they
	// were dropped (malformed, replay, mic_invalid, ...).
	FramesDropped *prometheus.CounterVec

	// PMKDerivations counts completed PBKDF2 PMK derivations.
	PMKDerivations prometheus.Counter

	// PMKDerivationSeconds observes wall-clock time spent in PBKDF2,
	// useful for catching a constrained host where the cooperative yield
	// stride is too coarse.
	PMKDerivationSeconds prometheus.Histogram
}

// NewCollector builds a Collector and registers its metrics against reg.
// A nil reg registers against prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()
	reg.MustRegister(
		c.State,
		c.FramesAccepted,
		c.FramesDropped,
		c.PMKDerivations,
		c.PMKDerivationSeconds,
	)
	return c
}

func newMetrics() *Collector {
	return &Collector{
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "state",
			Help:      "1 for the station's current handshake state, 0 otherwise, labeled by bssid and state.",
		}, []string{labelBSSID, labelState}),

		FramesAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_accepted_total",
			Help:      "Total EAPOL-Key frames accepted and processed.",
		}, []string{labelBSSID}),

		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_dropped_total",
			Help:      "Total EAPOL-Key frames dropped, labeled by reason.",
		}, []string{labelBSSID, labelDrop}),

		PMKDerivations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pmk_derivations_total",
			Help:      "Total completed PBKDF2 PMK derivations.",
		}),

		PMKDerivationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pmk_derivation_seconds",
			Help:      "Wall-clock time spent deriving a PMK via PBKDF2.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

var allStates = []string{"MSG1", "MSG3", "GROUP", "RUN"}

// FrameAccepted implements supplicant.MetricsSink.
func (c *Collector) FrameAccepted(bssid string) {
	c.FramesAccepted.WithLabelValues(bssid).Inc()
}

// FrameDropped implements supplicant.MetricsSink.
func (c *Collector) FrameDropped(bssid, reason string) {
	c.FramesDropped.WithLabelValues(bssid, reason).Inc()
}

// StateChanged implements supplicant.MetricsSink. Only the four labels in
// allStates are written; a state whose String() is not one of them sets
// all four to 0 and is not itself recorded.
func (c *Collector) StateChanged(bssid string, state supplicant.State) {
	current := state.String()
	for _, s := range allStates {
		v := 0.0
		if s == current {
			v = 1.0
		}
		c.State.WithLabelValues(bssid, s).Set(v)
	}
}

// ObservePMKDerivation records one completed PBKDF2 derivation and its
// duration in seconds.
func (c *Collector) ObservePMKDerivation(seconds float64) {
	c.PMKDerivations.Inc()
	c.PMKDerivationSeconds.Observe(seconds)
}
