package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records hub activity. It satisfies realtime.Recorder.
type Metrics struct {
	listeners prometheus.Gauge
	published prometheus.Counter
	delivered prometheus.Counter
	evicted   prometheus.Counter
	history   prometheus.GaugeFunc

	gatherer prometheus.Gatherer
}

// New registers the relay collectors on a fresh registry. historyLen reports
// the current number of stored messages.
func New(historyLen func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		listeners: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relay_listeners",
			Help: "Number of registered stream listeners.",
		}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_events_published_total",
			Help: "Events handed to the hub for fan-out.",
		}),
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_events_delivered_total",
			Help: "Events enqueued onto listener queues.",
		}),
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_listeners_evicted_total",
			Help: "Listeners dropped because their queue was full.",
		}),
		history: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "relay_history_messages",
				Help: "Messages held in the history store.",
			},
			func() float64 { return float64(historyLen()) },
		),
		gatherer: reg,
	}
	reg.MustRegister(
		m.listeners, m.published, m.delivered, m.evicted, m.history,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ListenerAdded() { m.listeners.Inc() }

func (m *Metrics) ListenerRemoved() { m.listeners.Dec() }

func (m *Metrics) EventPublished(delivered, evicted int) {
	m.published.Inc()
	m.delivered.Add(float64(delivered))
	m.evicted.Add(float64(evicted))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
