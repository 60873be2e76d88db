// Package metrics holds the client's Prometheus instruments on a private
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "sealchat"

	eventLabel  = "event"
	resultLabel = "result"
)

// Result label values.
const (
	ResultOK          = "ok"
	ResultRejected    = "rejected"
	ResultError       = "error"
	ResultRateLimited = "rate_limited"
	ResultOffline     = "not_connected"
	ResultNotReady    = "not_ready"
)

type Metrics struct {
	Reg            *prometheus.Registry
	Events         *prometheus.CounterVec
	Undecipherable prometheus.Counter
	Sends          *prometheus.CounterVec
	Renames        *prometheus.CounterVec
	RosterSize     prometheus.Gauge
	LogSize        prometheus.Gauge
	Connected      prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Reg: reg,
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Inbound events by name.",
		}, []string{eventLabel}),
		Undecipherable: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_undecipherable_total",
			Help:      "Messages that could not be decrypted with their key.",
		}),
		Sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Outbound messages by result.",
		}, []string{resultLabel}),
		Renames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renames_total",
			Help:      "Rename requests by result.",
		}, []string{resultLabel}),
		RosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_users",
			Help:      "Users in the current roster.",
		}),
		LogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "log_messages",
			Help:      "Messages held in the log.",
		}),
		Connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while a session is live.",
		}),
	}

	reg.MustRegister(m.Events)
	reg.MustRegister(m.Undecipherable)
	reg.MustRegister(m.Sends)
	reg.MustRegister(m.Renames)
	reg.MustRegister(m.RosterSize)
	reg.MustRegister(m.LogSize)
	reg.MustRegister(m.Connected)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Reg, promhttp.HandlerOpts{Registry: m.Reg})
}
