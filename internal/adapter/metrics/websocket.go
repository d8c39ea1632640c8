package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebSocketMetrics holds Prometheus metrics for the view stream.
type WebSocketMetrics struct {
	ActiveConnections prometheus.Gauge
	ViewsPushed       prometheus.Counter
	PingFailures      prometheus.Counter
	IdleDisconnects   prometheus.Counter
}

// NewWebSocketMetrics creates and registers WebSocket metrics on the given registry.
func NewWebSocketMetrics(reg prometheus.Registerer) *WebSocketMetrics {
	m := &WebSocketMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "active_connections",
			Help:      "Number of presentation clients streaming the kiosk view.",
		}),
		ViewsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "views_pushed_total",
			Help:      "Total number of view updates written to presentation clients.",
		}),
		PingFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "ping_failures_total",
			Help:      "Keepalive pings that could not be written.",
		}),
		IdleDisconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "idle_disconnects_total",
			Help:      "Presentation clients dropped for not answering pings.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.ViewsPushed, m.PingFailures, m.IdleDisconnects)
	return m
}
