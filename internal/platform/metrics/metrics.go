// Package metrics exposes Prometheus collectors for the clinic store. Each
// Metrics value owns its registry so tests and multiple servers in one
// process never collide on registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clinic"

type Metrics struct {
	registry          *prometheus.Registry
	recordsCreated    *prometheus.CounterVec
	roomStatusUpdates *prometheus.CounterVec
	searches          *prometheus.CounterVec
	collectionSize    *prometheus.GaugeVec
}

// New builds the collectors and registers them, together with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created, by entity.",
		}, []string{"entity"}),
		roomStatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_status_updates_total",
			Help:      "Room status update calls, by result (updated or ignored).",
		}, []string{"result"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search queries served, by entity.",
		}, []string{"entity"}),
		collectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_size",
			Help:      "Current number of records, by entity.",
		}, []string{"entity"}),
	}
	m.registry.MustRegister(
		m.recordsCreated,
		m.roomStatusUpdates,
		m.searches,
		m.collectionSize,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus text exposition for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The observe methods are no-ops on a nil receiver so callers can run with
// metrics disabled.

func (m *Metrics) ObserveCreate(entity string, size int) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(entity).Inc()
	m.collectionSize.WithLabelValues(entity).Set(float64(size))
}

func (m *Metrics) ObserveRoomStatusUpdate(updated bool) {
	if m == nil {
		return
	}
	result := "ignored"
	if updated {
		result = "updated"
	}
	m.roomStatusUpdates.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSearch(entity string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(entity).Inc()
}

// SetCollectionSize records a collection size without counting a create,
// used after bulk seeding.
func (m *Metrics) SetCollectionSize(entity string, size int) {
	if m == nil {
		return
	}
	m.collectionSize.WithLabelValues(entity).Set(float64(size))
}
