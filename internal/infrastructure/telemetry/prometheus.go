package telemetry

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the scrape target served at /metrics. It carries process,
// Go runtime and connection pool collectors.
type Registry struct {
	registry *prometheus.Registry
}

// NewRegistry creates a registry with the process and runtime collectors
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{registry: reg}
}

// RegisterDB exports the pool statistics of db under the given name
func (r *Registry) RegisterDB(db *sql.DB, name string) error {
	return r.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Register adds a custom collector
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
