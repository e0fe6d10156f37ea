package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics records reconciliation and call-matching activity.
type LedgerMetrics struct {
	settlements *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	callMatches *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_settlements_total",
		Help: "Ledger settlements applied to customer aggregates, by audit action.",
	}, []string{"action"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_reconcile_duration_seconds",
		Help:    "Duration of reconciliation runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	callMatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "caller_match_total",
		Help: "Caller-ID lookups, by outcome (hit/miss/cache_hit).",
	}, []string{"outcome"})
	reg.MustRegister(settlements, duration, callMatches)
	return &LedgerMetrics{
		settlements: settlements,
		duration:    duration,
		callMatches: callMatches,
	}
}

// IncSettlement increments the settlement counter for the given action.
func (m *LedgerMetrics) IncSettlement(action string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObserveReconcile records the duration of one reconciliation run.
func (m *LedgerMetrics) ObserveReconcile(path string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(path)).Observe(duration.Seconds())
}

// IncCallMatch increments the caller-ID lookup counter for the given outcome.
func (m *LedgerMetrics) IncCallMatch(outcome string) {
	if m == nil || m.callMatches == nil {
		return
	}
	m.callMatches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
