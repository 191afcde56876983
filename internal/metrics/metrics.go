package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expense_server"

// Metrics holds the collectors the service reports to. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recorded *prometheus.CounterVec
	deleted  prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		recorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Record requests by outcome (created or duplicate) and category.",
		}, []string{"outcome", "category"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_deleted_total",
			Help:      "Expenses removed by delete requests.",
		}),
	}
	reg.MustRegister(m.recorded, m.deleted)
	return m
}

func (m *Metrics) ObserveRecord(outcome, category string) {
	if m == nil {
		return
	}
	m.recorded.WithLabelValues(outcome, category).Inc()
}

func (m *Metrics) ObserveDelete() {
	if m == nil {
		return
	}
	m.deleted.Inc()
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
