package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestLedgerMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewLedgerMetrics(reg)
	metrics.IncSettlement("DELIVERED")
	metrics.ObserveReconcile("update", 250*time.Millisecond)
	metrics.IncCallMatch("cache_hit")
	metrics.IncCallMatch("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "ledger_settlements_total", "action", "DELIVERED"); err != nil {
		t.Fatalf("fetch settlements: %v", err)
	} else if got != 1 {
		t.Fatalf("expected settlements=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "caller_match_total", "outcome", "cache_hit"); err != nil {
		t.Fatalf("fetch call match: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cache_hit=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "caller_match_total", "outcome", "unknown"); err != nil {
		t.Fatalf("fetch empty outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected empty outcome normalized to unknown, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "ledger_reconcile_duration_seconds", "path", "update"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestLedgerMetricsNilSafe(t *testing.T) {
	var metrics *LedgerMetrics
	metrics.IncSettlement("DELIVERED")
	metrics.ObserveReconcile("create", time.Second)
	metrics.IncCallMatch("hit")

	unregistered := NewLedgerMetrics(nil)
	unregistered.IncSettlement("DELIVERED")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
