package realtime

import "github.com/prometheus/client_golang/prometheus"

const namespace = "bergizi"

// Metrics holds the Prometheus collectors of the fan-out path
type Metrics struct {
	ActiveClients     *prometheus.GaugeVec
	MessagesDelivered prometheus.Counter
	MessagesDropped   prometheus.Counter
	Heartbeats        prometheus.Counter
	BridgeReconnects  prometheus.Counter
	BridgeUp          prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveClients: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "active_clients",
			Help:      "Connected realtime clients, by transport.",
		}, []string{"transport"}),
		MessagesDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "messages_delivered_total",
			Help:      "Messages queued to a client buffer.",
		}),
		MessagesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "messages_dropped_total",
			Help:      "Messages dropped because a client buffer was full.",
		}),
		Heartbeats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "heartbeats_total",
			Help:      "Keep-alive rounds sent to all clients.",
		}),
		BridgeReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "bridge_reconnects_total",
			Help:      "Times the Redis subscription was re-established after a failure.",
		}),
		BridgeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "bridge_up",
			Help:      "1 while the Redis subscription is active.",
		}),
	}

	reg.MustRegister(m.ActiveClients, m.MessagesDelivered, m.MessagesDropped, m.Heartbeats, m.BridgeReconnects, m.BridgeUp)
	return m
}
