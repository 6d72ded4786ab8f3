package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP adapter and the record store.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	mutations         *prometheus.CounterVec
	persistDuration   *prometheus.HistogramVec
	collectionSize    *prometheus.GaugeVec
	cascadeRemovals   *prometheus.CounterVec
	activityEvictions prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_mutations_total",
		Help: "Committed record mutations by collection and action",
	}, []string{"collection", "action"})

	persistDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "records_persist_duration_seconds",
		Help:    "Latency of collection loads and saves against the backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})

	collectionSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "records_collection_size",
		Help: "Number of records held per collection",
	}, []string{"collection"})

	cascadeRemovals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_cascade_removals_total",
		Help: "Dependent records removed by cascading deletes",
	}, []string{"parent", "collection"})

	activityEvictions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "records_activity_evictions_total",
		Help: "Activity log entries evicted by the size cap",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, mutations, persistDuration, collectionSize, cascadeRemovals, activityEvictions, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:          registry,
		handler:           handler,
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		mutations:         mutations,
		persistDuration:   persistDuration,
		collectionSize:    collectionSize,
		cascadeRemovals:   cascadeRemovals,
		activityEvictions: activityEvictions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordMutation counts a committed create, update or delete.
func (m *MetricsService) RecordMutation(collection, action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(collection, action).Inc()
}

// ObservePersistence records backend latency for a collection load or save.
func (m *MetricsService) ObservePersistence(collection, op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.persistDuration.WithLabelValues(collection, op).Observe(duration.Seconds())
}

// SetCollectionSize publishes the current size of a collection.
func (m *MetricsService) SetCollectionSize(collection string, size int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues(collection).Set(float64(size))
}

// RecordCascade counts dependents removed because their parent was deleted.
func (m *MetricsService) RecordCascade(parent, collection string, removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.cascadeRemovals.WithLabelValues(parent, collection).Add(float64(removed))
}

// RecordActivityEvictions counts activity entries dropped by the cap.
func (m *MetricsService) RecordActivityEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.activityEvictions.Add(float64(n))
}
