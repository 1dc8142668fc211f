package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the settlement engine.
type Metrics struct {
	PassesTotal        prometheus.Counter
	PassDuration       prometheus.Histogram
	SlipsSettledTotal  *prometheus.CounterVec
	SlipsSkippedTotal  prometheus.Counter
	SlipsFailedTotal   *prometheus.CounterVec
	PayoutAmountTotal  prometheus.Counter
	CommissionTotal    prometheus.Counter
	OutboxPublished    prometheus.Counter
	OutboxPublishFails prometheus.Counter
}

// NewMetrics registers and returns all engine metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PassesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_passes_total",
			Help: "Number of settlement passes run",
		}),
		PassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_pass_duration_seconds",
			Help:    "Duration of settlement passes",
			Buckets: prometheus.DefBuckets,
		}),
		SlipsSettledTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_slips_settled_total",
			Help: "Slips settled, by terminal status",
		}, []string{"status"}),
		SlipsSkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_slips_skipped_total",
			Help: "Slips skipped because score data was not yet available",
		}),
		SlipsFailedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_slips_failed_total",
			Help: "Slip settlements aborted, by error code",
		}, []string{"code"}),
		PayoutAmountTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_payout_minor_units_total",
			Help: "Total payout credited, in minor units",
		}),
		CommissionTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "settlement_commission_minor_units_total",
			Help: "Total commission credited, in minor units",
		}),
		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events published to Kafka",
		}),
		OutboxPublishFails: factory.NewCounter(prometheus.CounterOpts{
			Name: "outbox_events_failed_total",
			Help: "Outbox events that failed to publish",
		}),
	}
}
