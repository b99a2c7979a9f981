package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BetsPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_bets_placed_total",
			Help: "Total number of bets committed per tenant",
		},
		[]string{"tenant"},
	)

	BetsValidated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_bets_validated_total",
			Help: "Total number of bets moved to validated per tenant",
		},
		[]string{"tenant"},
	)

	RegistryLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subdomain_registry_lookups_total",
			Help: "Subdomain registry lookups by outcome (taken, free, degraded, error)",
		},
		[]string{"outcome"},
	)

	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "queue_depth",
			Help: "Current RabbitMQ queue depth",
		},
		[]string{"queue"},
	)

	BuildWorkersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "build_workers_active",
			Help: "Number of active site build workers",
		},
	)

	BundlesBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_bundles_built_total",
			Help: "Site bundles consumed by the local builder by outcome (written, stale, rejected)",
		},
		[]string{"outcome"},
	)

	SitesProvisioned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sites_provisioned_total",
			Help: "Number of tenant sites rendered and published",
		},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(BetsPlaced)
	prometheus.MustRegister(BetsValidated)
	prometheus.MustRegister(RegistryLookups)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(SitesProvisioned)
	prometheus.MustRegister(BuildWorkersActive)
	prometheus.MustRegister(BundlesBuilt)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
