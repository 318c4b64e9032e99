// Package metrics exposes Prometheus instrumentation for toxicity
// checks. It implements the reflectpause.Recorder interface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaguanLabs/reflectpause"
)

// Metrics holds the Prometheus instruments for one Pauser.
type Metrics struct {
	checksTotal    *prometheus.CounterVec
	checkErrors    *prometheus.CounterVec
	cooldownsTotal *prometheus.CounterVec
	cacheHits      prometheus.Counter
	checkLatency   *prometheus.HistogramVec
}

// New creates the instruments and registers them on reg. Passing
// prometheus.DefaultRegisterer wires them into the process default.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflectpause",
			Name:      "checks_total",
			Help:      "Toxicity checks by engine and outcome.",
		}, []string{"engine", "outcome"}),
		checkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflectpause",
			Name:      "check_errors_total",
			Help:      "Failed engine attempts by engine.",
		}, []string{"engine"}),
		cooldownsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reflectpause",
			Name:      "engine_cooldowns_total",
			Help:      "Cooldown transitions by engine.",
		}, []string{"engine"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reflectpause",
			Name:      "score_cache_hits_total",
			Help:      "Checks answered from the score cache.",
		}),
		checkLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reflectpause",
			Name:      "check_duration_seconds",
			Help:      "Scoring attempt latency by engine.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"engine"}),
	}

	if reg != nil {
		reg.MustRegister(m.checksTotal, m.checkErrors, m.cooldownsTotal, m.cacheHits, m.checkLatency)
	}
	return m
}

// RecordCheck implements reflectpause.Recorder.
func (m *Metrics) RecordCheck(res reflectpause.ToxicityResult, err error) {
	engine := string(res.EngineUsed)
	if engine == "" {
		engine = "none"
	}

	if err != nil {
		m.checkErrors.WithLabelValues(engine).Inc()
		m.checkLatency.WithLabelValues(engine).Observe(res.Elapsed.Seconds())
		return
	}

	outcome := "clean"
	if res.IsToxic {
		outcome = "toxic"
	}
	m.checksTotal.WithLabelValues(engine, outcome).Inc()
	m.checkLatency.WithLabelValues(engine).Observe(res.Elapsed.Seconds())
	if res.Cached {
		m.cacheHits.Inc()
	}
}

// RecordCooldown implements reflectpause.Recorder.
func (m *Metrics) RecordCooldown(engine reflectpause.EngineKind) {
	m.cooldownsTotal.WithLabelValues(string(engine)).Inc()
}

var _ reflectpause.Recorder = (*Metrics)(nil)
