// Package metrics exposes prometheus instrumentation for the attendance
// runtime: signup action counters plus storage latency histograms wired into
// the Pebble wrapper's MetricsHook seam.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Set holds every collector the runtime registers. It implements
// pebblestore.MetricsHook.
type Set struct {
	Actions         *prometheus.CounterVec
	ActionFailures  *prometheus.CounterVec
	Promotions      prometheus.Counter
	PersistFailures prometheus.Counter
	SessionsLive    prometheus.Gauge

	storeWrites  prometheus.Histogram
	storeReads   prometheus.Histogram
	storeCommits prometheus.Histogram
}

// New builds and registers the collector set on reg. Passing
// prometheus.DefaultRegisterer wires the default /metrics handler.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attend_actions_total",
			Help: "Signup actions applied successfully, by kind.",
		}, []string{"kind"}),
		ActionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attend_action_failures_total",
			Help: "Signup actions rejected, by kind.",
		}, []string{"kind"}),
		Promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attend_promotions_total",
			Help: "Standby users promoted into attending slots.",
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attend_persist_failures_total",
			Help: "Roster mutations rolled back because the durable write failed.",
		}),
		SessionsLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attend_sessions_live",
			Help: "Sessions currently registered.",
		}),
		storeWrites: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attend_store_write_seconds",
			Help:    "Latency of single-key store writes.",
			Buckets: prometheus.DefBuckets,
		}),
		storeReads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attend_store_read_seconds",
			Help:    "Latency of store point reads.",
			Buckets: prometheus.DefBuckets,
		}),
		storeCommits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attend_store_commit_seconds",
			Help:    "Latency of batch commits, including WAL sync.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		s.Actions, s.ActionFailures, s.Promotions, s.PersistFailures,
		s.SessionsLive, s.storeWrites, s.storeReads, s.storeCommits,
	)
	return s
}

// ObserveWrite implements pebblestore.MetricsHook.
func (s *Set) ObserveWrite(elapsed time.Duration, _ int) {
	s.storeWrites.Observe(elapsed.Seconds())
}

// ObserveRead implements pebblestore.MetricsHook.
func (s *Set) ObserveRead(elapsed time.Duration, _ int) {
	s.storeReads.Observe(elapsed.Seconds())
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (s *Set) ObserveBatchCommit(elapsed time.Duration, _ int, _ int) {
	s.storeCommits.Observe(elapsed.Seconds())
}
