package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gotrip_checkout"

// Metrics holds the checkout service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	PromotionApplied   *prometheus.CounterVec
	BookingSubmissions *prometheus.CounterVec
	Reconciliations    *prometheus.CounterVec
	VerificationTime   prometheus.Histogram
	UpstreamErrors     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PromotionApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotion_apply_total",
			Help:      "Promotion apply attempts by outcome",
		}, []string{"outcome"}),
		BookingSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		Reconciliations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reconciliations_total",
			Help:      "Payment result reconciliations by terminal state and entry path",
		}, []string{"state", "path"}),
		VerificationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_verification_seconds",
			Help:      "Time spent verifying gateway redirects with the payment service",
			Buckets:   prometheus.DefBuckets,
		}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Failed calls to upstream services",
		}, []string{"service", "operation"}),
	}
}

func (m *Metrics) ObservePromotion(outcome string) {
	if m == nil {
		return
	}
	m.PromotionApplied.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.BookingSubmissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveReconciliation(state, path string) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(state, path).Inc()
}

func (m *Metrics) ObserveVerification(started time.Time) {
	if m == nil {
		return
	}
	m.VerificationTime.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveUpstreamError(service, operation string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(service, operation).Inc()
}
