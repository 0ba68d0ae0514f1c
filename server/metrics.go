package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each server gets its
// own registry so multiple instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	LinesReceived prometheus.Counter
	RepliesSent   prometheus.Counter
	Connections   prometheus.Gauge
	Registered    prometheus.Gauge
	Channels      prometheus.Gauge
}

func newMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		LinesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "ircd_lines_received_total",
			Help: "Total number of lines received from clients",
		}),
		RepliesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "ircd_replies_sent_total",
			Help: "Total number of numeric replies sent to clients",
		}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_connections",
			Help: "Number of open client connections",
		}),
		Registered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_registered_users",
			Help: "Number of registered users",
		}),
		Channels: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ircd_channels",
			Help: "Number of active channels",
		}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
