package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the counters below.
const (
	outcomeSuccess  = "success"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
	outcomeMiss     = "miss"
)

// MetricsService encapsulates Prometheus instrumentation for the student
// collection. A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry       *prometheus.Registry
	mutations      *prometheus.CounterVec
	storageOps     *prometheus.CounterVec
	viewDuration   prometheus.Histogram
	collectionSize prometheus.Gauge
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_mutations_total",
		Help: "Add, edit and delete attempts by outcome",
	}, []string{"op", "outcome"})

	storageOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_storage_operations_total",
		Help: "Blob store load, save and clear calls by outcome",
	}, []string{"op", "outcome"})

	viewDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "student_view_derive_seconds",
		Help:    "Time spent deriving the filtered, searched and sorted view",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	})

	collectionSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "student_collection_size",
		Help: "Number of students currently held in memory",
	})

	registry.MustRegister(mutations, storageOps, viewDuration, collectionSize)

	return &MetricsService{
		registry:       registry,
		mutations:      mutations,
		storageOps:     storageOps,
		viewDuration:   viewDuration,
		collectionSize: collectionSize,
	}
}

// Registry exposes the underlying registry so callers may serve or gather it.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordMutation counts a mutation attempt.
func (m *MetricsService) RecordMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// RecordStorage counts a blob store call.
func (m *MetricsService) RecordStorage(op, outcome string) {
	if m == nil {
		return
	}
	m.storageOps.WithLabelValues(op, outcome).Inc()
}

// ObserveView records how long a view derivation took.
func (m *MetricsService) ObserveView(duration time.Duration) {
	if m == nil {
		return
	}
	m.viewDuration.Observe(duration.Seconds())
}

// SetCollectionSize publishes the in-memory collection size.
func (m *MetricsService) SetCollectionSize(n int) {
	if m == nil {
		return
	}
	m.collectionSize.Set(float64(n))
}
