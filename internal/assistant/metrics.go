package assistant

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts processed commands per matched rule.
type Metrics struct {
	Commands *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "talentsage",
			Subsystem: "assistant",
			Name:      "commands_total",
			Help:      "Commands processed by the assistant, by matched intent.",
		}, []string{"intent"}),
	}

	if reg != nil {
		reg.MustRegister(m.Commands)
	}

	return m
}

func (m *Metrics) observe(intent string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(intent).Inc()
}
