package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCheckoutMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ObserveDuration("UPI", 120*time.Millisecond)
	m.IncOrdersCreated("upi", 3)
	m.IncSupplierFailures("upi", 1)

	if got := testutil.ToFloat64(m.ordersCreated.WithLabelValues("upi")); got != 3 {
		t.Fatalf("expected 3 orders created, got %v", got)
	}
	if got := testutil.ToFloat64(m.supplierFailed.WithLabelValues("upi")); got != 1 {
		t.Fatalf("expected 1 supplier failure, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewCheckoutMetrics(nil)
	m.ObserveDuration("upi", time.Second)
	m.IncOrdersCreated("upi", 1)
	m.IncSupplierFailures("", 1)
}

func TestNormalizeLabel(t *testing.T) {
	if got := normalizeLabel("  Bank_Transfer "); got != "bank_transfer" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := normalizeLabel(""); got != "unknown" {
		t.Fatalf("unexpected label %q", got)
	}
}
