package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsNotifier counts engine notifications as Prometheus metrics. It
// observes and forwards to an inner notifier, so it can be layered over
// any other implementation.
type MetricsNotifier struct {
	inner Notifier

	exceedsTotal   *prometheus.CounterVec
	truncateTotal  *prometheus.CounterVec
	overflowTotal  *prometheus.CounterVec
	excessBytes    prometheus.Histogram
	truncatedBytes prometheus.Histogram
	bodyBytes      prometheus.Histogram
}

// NewMetricsNotifier registers the engine's notification metrics with the
// given registerer and wraps inner (NopNotifier when nil).
func NewMetricsNotifier(reg prometheus.Registerer, inner Notifier) *MetricsNotifier {
	if inner == nil {
		inner = NopNotifier{}
	}
	factory := promauto.With(reg)
	return &MetricsNotifier{
		inner: inner,
		exceedsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3db_metadata_exceeds_limit_total",
				Help: "Records whose metadata exceeded the ceiling under user-managed behavior",
			},
			[]string{"operation"},
		),
		truncateTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3db_metadata_truncate_total",
				Help: "Records brought under the ceiling by the truncate-data behavior",
			},
			[]string{"operation"},
		),
		overflowTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3db_metadata_overflow_total",
				Help: "Records spilled into the object body by the body-overflow behavior",
			},
			[]string{"operation"},
		),
		excessBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3db_metadata_excess_bytes",
				Help:    "Bytes over the metadata ceiling at resolution time",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
		truncatedBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3db_metadata_truncated_bytes",
				Help:    "Bytes removed from records by truncation",
				Buckets: prometheus.ExponentialBuckets(64, 2, 10),
			},
		),
		bodyBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "s3db_overflow_body_bytes",
				Help:    "Body payload sizes produced by the body-overflow behavior",
				Buckets: prometheus.ExponentialBuckets(256, 2, 12),
			},
		),
	}
}

func (m *MetricsNotifier) NotifyExceedsLimit(e ExceedsLimit) {
	m.exceedsTotal.WithLabelValues(e.Operation).Inc()
	m.excessBytes.Observe(float64(e.Excess))
	m.inner.NotifyExceedsLimit(e)
}

func (m *MetricsNotifier) NotifyTruncate(e Truncate) {
	m.truncateTotal.WithLabelValues(e.Operation).Inc()
	m.truncatedBytes.Observe(float64(e.TotalBefore - e.TotalAfter))
	m.inner.NotifyTruncate(e)
}

func (m *MetricsNotifier) NotifyOverflow(e Overflow) {
	m.overflowTotal.WithLabelValues(e.Operation).Inc()
	m.bodyBytes.Observe(float64(e.BodySize))
	m.inner.NotifyOverflow(e)
}
