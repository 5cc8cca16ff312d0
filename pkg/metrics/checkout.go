package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout submissions and per-supplier outcomes.
type CheckoutMetrics struct {
	duration       *prometheus.HistogramVec
	ordersCreated  *prometheus.CounterVec
	supplierFailed *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"payment_type"})
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Supplier orders created by checkout.",
	}, []string{"payment_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_supplier_failures_total",
		Help: "Per-supplier order creation failures during checkout.",
	}, []string{"payment_type"})
	reg.MustRegister(duration, created, failed)
	return &CheckoutMetrics{
		duration:       duration,
		ordersCreated:  created,
		supplierFailed: failed,
	}
}

// ObserveDuration records the wall time of one checkout submission.
func (m *CheckoutMetrics) ObserveDuration(paymentType string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(paymentType)).Observe(d.Seconds())
}

// IncOrdersCreated counts successfully created supplier orders.
func (m *CheckoutMetrics) IncOrdersCreated(paymentType string, n int) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentType)).Add(float64(n))
}

// IncSupplierFailures counts per-supplier submission failures.
func (m *CheckoutMetrics) IncSupplierFailures(paymentType string, n int) {
	if m == nil || m.supplierFailed == nil {
		return
	}
	m.supplierFailed.WithLabelValues(normalizeLabel(paymentType)).Add(float64(n))
}

func normalizeLabel(value string) string {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return "unknown"
	}
	return v
}
