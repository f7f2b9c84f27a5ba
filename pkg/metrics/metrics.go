// Package metrics provides Prometheus metrics for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "caption_relay"

// Metrics holds all Prometheus metrics for the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Dispatch metrics
	DispatchTotal      *prometheus.CounterVec
	DispatchPending    prometheus.Histogram
	ConflictRecoveries prometheus.Counter
	ProviderLatency    *prometheus.HistogramVec
	TranslationsStored prometheus.Counter

	// Ingest metrics
	SegmentsIngested prometheus.Counter
	PartialsIngested prometheus.Counter
	SequenceRetries  prometheus.Counter

	// Kafka consume metrics
	KafkaMessages *prometheus.CounterVec

	// Realtime metrics
	ViewersActive   prometheus.Gauge
	StreamPublished *prometheus.CounterVec
	StreamDropped   prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on reg. Tests pass a fresh registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_total",
			Help:      "Total number of dispatch calls by outcome",
		}, []string{"outcome"}),
		DispatchPending: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_pending_segments",
			Help:      "Size of the pending batch sent to the provider",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		ConflictRecoveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_conflict_recoveries_total",
			Help:      "Total number of concurrent-insert conflicts resolved by re-reading",
		}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Translation provider round-trip latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"model"}),
		TranslationsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_stored_total",
			Help:      "Total number of translation rows inserted",
		}),
		SegmentsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_ingested_total",
			Help:      "Total number of finalized segments appended",
		}),
		PartialsIngested: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partials_ingested_total",
			Help:      "Total number of partial updates received",
		}),
		SequenceRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_sequence_retries_total",
			Help:      "Total number of sequence assignment retries after a conflict",
		}),
		KafkaMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Total number of consumed Kafka messages by result",
		}, []string{"topic", "result"}),
		ViewersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "viewers_active",
			Help:      "Number of connected websocket viewers",
		}),
		StreamPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_published_total",
			Help:      "Total number of realtime events published by type",
		}, []string{"type"}),
		StreamDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_dropped_total",
			Help:      "Total number of realtime events dropped for slow viewers",
		}),
	}
}

// RecordDispatch records the outcome of one dispatch call.
func (m *Metrics) RecordDispatch(outcome string, pending int) {
	if m == nil {
		return
	}
	m.DispatchTotal.WithLabelValues(outcome).Inc()
	if pending > 0 {
		m.DispatchPending.Observe(float64(pending))
	}
}

// RecordConflictRecovered records a resolved insert race.
func (m *Metrics) RecordConflictRecovered() {
	if m == nil {
		return
	}
	m.ConflictRecoveries.Inc()
}

// RecordProviderLatency records one provider round trip.
func (m *Metrics) RecordProviderLatency(model string, seconds float64) {
	if m == nil {
		return
	}
	m.ProviderLatency.WithLabelValues(model).Observe(seconds)
}

// RecordTranslationsStored records inserted translation rows.
func (m *Metrics) RecordTranslationsStored(n int) {
	if m == nil {
		return
	}
	m.TranslationsStored.Add(float64(n))
}

// RecordSegmentIngested records a finalized segment append.
func (m *Metrics) RecordSegmentIngested() {
	if m == nil {
		return
	}
	m.SegmentsIngested.Inc()
}

// RecordPartialIngested records a partial update.
func (m *Metrics) RecordPartialIngested() {
	if m == nil {
		return
	}
	m.PartialsIngested.Inc()
}

// RecordSequenceRetry records a retried sequence assignment.
func (m *Metrics) RecordSequenceRetry() {
	if m == nil {
		return
	}
	m.SequenceRetries.Inc()
}

// RecordKafkaMessage records a consumed message.
func (m *Metrics) RecordKafkaMessage(topic, result string) {
	if m == nil {
		return
	}
	m.KafkaMessages.WithLabelValues(topic, result).Inc()
}

// ViewerConnected increments the active viewer gauge.
func (m *Metrics) ViewerConnected() {
	if m == nil {
		return
	}
	m.ViewersActive.Inc()
}

// ViewerDisconnected decrements the active viewer gauge.
func (m *Metrics) ViewerDisconnected() {
	if m == nil {
		return
	}
	m.ViewersActive.Dec()
}

// RecordStreamPublished records a realtime event fan-out.
func (m *Metrics) RecordStreamPublished(eventType string) {
	if m == nil {
		return
	}
	m.StreamPublished.WithLabelValues(eventType).Inc()
}

// RecordStreamDropped records an event dropped for a slow viewer.
func (m *Metrics) RecordStreamDropped() {
	if m == nil {
		return
	}
	m.StreamDropped.Inc()
}
