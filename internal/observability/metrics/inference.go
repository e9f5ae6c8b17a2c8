// Package metrics provides custom Prometheus metrics for the SoundAware
// components.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// InferenceMetrics contains all Prometheus metrics related to classification
// requests against the backend and the local mock fallback.
type InferenceMetrics struct {
	AttemptsTotal      *prometheus.CounterVec
	CandidateFailures  *prometheus.CounterVec
	RetriesTotal       prometheus.Counter
	MockFallbacksTotal prometheus.Counter
	RequestDuration    prometheus.Histogram
	UploadSizeBytes    prometheus.Histogram
	ResultConfidence   prometheus.Histogram
	registry           *prometheus.Registry
}

// NewInferenceMetrics creates a new InferenceMetrics instance registered on
// the given registry.
func NewInferenceMetrics(registry *prometheus.Registry) (*InferenceMetrics, error) {
	m := &InferenceMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize inference metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register inference metrics: %w", err)
	}
	return m, nil
}

func (m *InferenceMetrics) initMetrics() error {
	m.AttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inference_attempts_total",
		Help: "Total number of inference attempts by outcome source (backend, mock, none)",
	}, []string{"source"})

	m.CandidateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inference_candidate_failures_total",
		Help: "Total number of failed requests per failure reason",
	}, []string{"reason"})

	m.RetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inference_retries_total",
		Help: "Total number of same-candidate retries after a 5xx response",
	})

	m.MockFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inference_mock_fallbacks_total",
		Help: "Total number of results synthesized by the local mock predictor",
	})

	m.RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_request_duration_seconds",
		Help:    "Duration of individual backend prediction requests in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	m.UploadSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_upload_size_bytes",
		Help:    "Size of uploaded audio payloads in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
	})

	m.ResultConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inference_result_confidence",
		Help:    "Confidence of produced inference results",
		Buckets: prometheus.LinearBuckets(0, 0.1, 11),
	})

	return nil
}

// RecordAttempt increments the attempt counter for the given result source.
func (m *InferenceMetrics) RecordAttempt(source string) {
	m.AttemptsTotal.WithLabelValues(source).Inc()
}

// RecordCandidateFailure increments the failure counter for a reason
// (network, server_error, client_error, malformed_response).
func (m *InferenceMetrics) RecordCandidateFailure(reason string) {
	m.CandidateFailures.WithLabelValues(reason).Inc()
}

// RecordRetry increments the same-candidate retry counter.
func (m *InferenceMetrics) RecordRetry() {
	m.RetriesTotal.Inc()
}

// RecordMockFallback increments the mock fallback counter.
func (m *InferenceMetrics) RecordMockFallback() {
	m.MockFallbacksTotal.Inc()
}

// ObserveRequestDuration records the duration of one backend request.
func (m *InferenceMetrics) ObserveRequestDuration(seconds float64) {
	m.RequestDuration.Observe(seconds)
}

// ObserveUploadSize records the size of an uploaded payload.
func (m *InferenceMetrics) ObserveUploadSize(bytes float64) {
	m.UploadSizeBytes.Observe(bytes)
}

// ObserveConfidence records the confidence of a produced result.
func (m *InferenceMetrics) ObserveConfidence(confidence float64) {
	m.ResultConfidence.Observe(confidence)
}

// Collect implements the prometheus.Collector interface.
func (m *InferenceMetrics) Collect(ch chan<- prometheus.Metric) {
	m.AttemptsTotal.Collect(ch)
	m.CandidateFailures.Collect(ch)
	ch <- m.RetriesTotal
	ch <- m.MockFallbacksTotal
	ch <- m.RequestDuration
	ch <- m.UploadSizeBytes
	ch <- m.ResultConfidence
}

// Describe implements the prometheus.Collector interface.
func (m *InferenceMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.AttemptsTotal.Describe(ch)
	m.CandidateFailures.Describe(ch)
	ch <- m.RetriesTotal.Desc()
	ch <- m.MockFallbacksTotal.Desc()
	ch <- m.RequestDuration.Desc()
	ch <- m.UploadSizeBytes.Desc()
	ch <- m.ResultConfidence.Desc()
}
