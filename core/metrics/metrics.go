// Package metrics exposes Prometheus counters for catalog traffic,
// reconciliation outcomes and notifications.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beatmap_cache"

// Metrics bundles the collectors owned by one service instance.
type Metrics struct {
	registry *prometheus.Registry

	CatalogRequests *prometheus.CounterVec
	Reconciles      *prometheus.CounterVec
	Notifications   *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Catalog fetches by query kind and outcome.",
		}, []string{"kind", "outcome"}),
		Reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciles_total",
			Help:      "Reconciliation plans by outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Status change notifications by action.",
		}, []string{"action"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Store lookups by result (fresh, stale, miss).",
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.CatalogRequests, m.Reconciles, m.Notifications, m.CacheLookups)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
